package auth

import (
	"context"

	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

type contextKey string

const UserKey contextKey = "user"

func GetUserFromContext(ctx context.Context) (*smodel.User, bool) {
	user, ok := ctx.Value(UserKey).(*smodel.User)
	return user, ok
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *smodel.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
