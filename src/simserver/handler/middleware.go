package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/SteveDok22/TradeSim-Pro/src/auth"
	"github.com/SteveDok22/TradeSim-Pro/src/simserver/smodel"
)

type tokenValidator interface {
	FindByAccess(ctx context.Context, accessToken string) (*smodel.SessionToken, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uint) (*smodel.User, error)
}

// RequireAuth validates the Bearer token and puts the owning user on the
// request context. Expired and revoked tokens get a 401 so the client can
// attempt a refresh.
func RequireAuth(tokens tokenValidator, users userLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw := strings.TrimPrefix(header, "Bearer ")
			if raw == "" || raw == header {
				writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided")
				return
			}

			token, err := tokens.FindByAccess(r.Context(), raw)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Internal Server Error")
				return
			}
			if token == nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.FindByID(r.Context(), token.UserID)
			if err != nil || user == nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}
