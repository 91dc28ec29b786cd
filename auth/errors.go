package auth

import "fmt"

type (
	AlreadyRegistered struct {
		Email string
	}
)

func (a AlreadyRegistered) Error() string {
	return fmt.Sprintf("user %v already exists", a.Email)
}
