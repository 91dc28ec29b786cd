package api

import (
	"context"

	"github.com/andrebq/doorman/userstore"
)

type (
	ctxKey byte
)

var (
	userKey = ctxKey(1)
)

// WithUser stores the resolved identity of a request in its context.
func WithUser(ctx context.Context, u userstore.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the identity resolved by the Guard, if any.
func UserFrom(ctx context.Context) (userstore.User, bool) {
	v := ctx.Value(userKey)
	if v == nil {
		return userstore.User{}, false
	}
	return v.(userstore.User), true
}
