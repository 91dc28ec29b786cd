// Package userstore owns the persistent user records behind the auth
// service. Every mutation to a record goes through a Directory; callers
// never cache or patch users on their own.
package userstore

import "context"

type (
	// User is the persistent record for one account. HashedPassword is
	// opaque to everyone except the auth package; SessionID and ResetToken
	// are empty when no session / pending reset exists.
	User struct {
		ID             int64
		Email          string
		HashedPassword []byte
		SessionID      string
		ResetToken     string
	}

	// Filter selects a user by exactly one field. Leaving every field
	// empty, or setting more than one, makes FindOne fail with
	// UserNotFound (lookups fail closed instead of guessing).
	Filter struct {
		Email      string
		SessionID  string
		ResetToken string
	}

	// Changes is a partial update. Nil pointers leave the column
	// untouched; pointers to the zero value clear it.
	Changes struct {
		HashedPassword *[]byte
		SessionID      *string
		ResetToken     *string
	}

	Directory interface {
		FindOne(ctx context.Context, f Filter) (User, error)
		Create(ctx context.Context, email string, hashedPassword []byte) (User, error)
		Update(ctx context.Context, id int64, ch Changes) error
	}
)

func (f Filter) valid() bool {
	set := 0
	if f.Email != "" {
		set++
	}
	if f.SessionID != "" {
		set++
	}
	if f.ResetToken != "" {
		set++
	}
	return set == 1
}
