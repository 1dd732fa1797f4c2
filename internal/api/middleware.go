/**
 * @description
 * Session middleware. Every route except /health requires a bearer token issued by
 * the hosted auth backend; the resolved user is stored in the request context.
 */
package api

import (
	"context"
	"net/http"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

type contextKey string

const userContextKey = contextKey("user")

// SessionProvider resolves the signed-in user for a request.
type SessionProvider interface {
	CurrentUser(r *http.Request) (*domain.User, error)
}

// SessionMiddleware rejects requests without a valid session.
func SessionMiddleware(sessions SessionProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := sessions.CurrentUser(r)
			if err != nil || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the signed-in user from the request context.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(domain.User)
	return user, ok
}
