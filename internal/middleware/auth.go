package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/otcheredev/nurse-call-service/internal/models"
	"github.com/otcheredev/nurse-call-service/internal/services"
	"github.com/rs/zerolog/log"
)

type contextKey string

// UserContextKey is the request-context key for the authenticated user
const UserContextKey contextKey = "user"

// Auth returns middleware that validates the bearer access token and
// attaches the user identity to the request context
func Auth(tokens *services.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(strings.TrimPrefix(header, "Bearer "), services.TokenTypeAccess)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected access token")
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			user := models.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
			}
			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser extracts the authenticated user from context
func GetUser(ctx context.Context) (models.UserContext, bool) {
	user, ok := ctx.Value(UserContextKey).(models.UserContext)
	return user, ok
}

// RequireRole returns middleware that rejects requests from users whose
// role is not in the allowed set. Reads are left open to any
// authenticated user by not applying this middleware.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			if !allowed[user.Role] {
				http.Error(w, "Insufficient role", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
