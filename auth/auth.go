// Package auth decides whether HTTP requests carry a valid identity and
// drives the session / password-reset lifecycle of user records.
//
// The package keeps no state of its own. Everything durable lives behind
// a userstore.Directory, which is also the only shared mutable resource;
// the service never assumes that a lookup followed by an update is
// atomic. Two concurrent CreateSession calls for the same email are both
// valid and the last write wins.
package auth

import (
	"context"
	"errors"

	"github.com/andrebq/doorman/userstore"
	"github.com/google/uuid"
)

type (
	// Service orchestrates registration, login and password resets on
	// top of a Directory. Safe for concurrent use.
	Service struct {
		users userstore.Directory
	}
)

func NewService(users userstore.Directory) *Service {
	return &Service{users: users}
}

// Register creates a new user with a freshly hashed password. Fails with
// AlreadyRegistered when the email is taken, either here or at the store
// level (the store check closes the race between two registrations).
func (s *Service) Register(ctx context.Context, email, password string) (userstore.User, error) {
	_, err := s.users.FindOne(ctx, userstore.Filter{Email: email})
	if err == nil {
		return userstore.User{}, AlreadyRegistered{Email: email}
	}
	var notFound userstore.UserNotFound
	if !errors.As(err, &notFound) {
		return userstore.User{}, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return userstore.User{}, err
	}
	u, err := s.users.Create(ctx, email, hash)
	var taken userstore.EmailTaken
	if errors.As(err, &taken) {
		return userstore.User{}, AlreadyRegistered{Email: taken.Email}
	} else if err != nil {
		return userstore.User{}, err
	}
	return u, nil
}

// UserByCredentials resolves the user for an email/password pair. Fails
// closed: unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) UserByCredentials(ctx context.Context, email, password string) (userstore.User, bool) {
	u, err := s.users.FindOne(ctx, userstore.Filter{Email: email})
	if err != nil {
		return userstore.User{}, false
	}
	if !CheckPassword(u.HashedPassword, password) {
		return userstore.User{}, false
	}
	return u, true
}

// ValidCredentials reports whether the email/password pair identifies a
// registered user.
func (s *Service) ValidCredentials(ctx context.Context, email, password string) bool {
	_, ok := s.UserByCredentials(ctx, email, password)
	return ok
}

// CreateSession issues a fresh session token for the given email,
// replacing any previous session. Returns ok=false when the email is
// unknown.
func (s *Service) CreateSession(ctx context.Context, email string) (string, bool) {
	u, err := s.users.FindOne(ctx, userstore.Filter{Email: email})
	if err != nil {
		return "", false
	}
	token := newToken()
	err = s.users.Update(ctx, u.ID, userstore.Changes{SessionID: &token})
	if err != nil {
		return "", false
	}
	return token, true
}

// UserBySession resolves the user owning the given session token. An
// empty token never hits the store.
func (s *Service) UserBySession(ctx context.Context, token string) (userstore.User, bool) {
	if token == "" {
		return userstore.User{}, false
	}
	u, err := s.users.FindOne(ctx, userstore.Filter{SessionID: token})
	if err != nil {
		return userstore.User{}, false
	}
	return u, true
}

// DestroySession clears the session of the given user. Idempotent; a
// pending reset token, if any, stays valid (the two lifecycles are
// deliberately independent).
func (s *Service) DestroySession(ctx context.Context, userID int64) error {
	var cleared string
	return s.users.Update(ctx, userID, userstore.Changes{SessionID: &cleared})
}

// ResetToken issues a single-use password-reset token, replacing any
// previous one. Unlike the session calls this surfaces the lookup error:
// there is no safe silent default for "no account to reset".
func (s *Service) ResetToken(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindOne(ctx, userstore.Filter{Email: email})
	if err != nil {
		return "", err
	}
	token := newToken()
	err = s.users.Update(ctx, u.ID, userstore.Changes{ResetToken: &token})
	if err != nil {
		return "", err
	}
	return token, nil
}

// UpdatePassword redeems a reset token: the new password is hashed and
// stored and the token cleared in the same update, so a redeemed token
// is never valid twice. Any live session of the user is untouched.
func (s *Service) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	u, err := s.users.FindOne(ctx, userstore.Filter{ResetToken: resetToken})
	if err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	var cleared string
	return s.users.Update(ctx, u.ID, userstore.Changes{
		HashedPassword: &hash,
		ResetToken:     &cleared,
	})
}

// newToken returns a fresh unpredictable token. Random UUIDs come from
// crypto/rand, which covers the enumeration-resistance requirement for
// both session and reset tokens.
func newToken() string {
	return uuid.NewString()
}
