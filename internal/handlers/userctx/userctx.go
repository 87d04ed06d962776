// Package userctx carries the authenticated user through the request context.
package userctx

import (
	"context"

	"github.com/joel172001/appniania/internal/models"
)

type key int

const userKey key = iota

// New returns a child context carrying the user. The auth middleware is the
// only writer.
func New(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// FromContext returns the user stored by the auth middleware, if any
func FromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}
