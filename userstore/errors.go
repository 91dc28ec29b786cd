package userstore

import "fmt"

type (
	UserNotFound struct {
		Filter Filter
	}

	EmailTaken struct {
		Email string
	}
)

func (u UserNotFound) Error() string {
	switch {
	case u.Filter.Email != "":
		return fmt.Sprintf("no user with email %v", u.Filter.Email)
	case u.Filter.SessionID != "":
		return "no user with the given session id"
	case u.Filter.ResetToken != "":
		return "no user with the given reset token"
	}
	return "no user matches the given filter"
}

func (e EmailTaken) Error() string {
	return fmt.Sprintf("email %v already registered", e.Email)
}
