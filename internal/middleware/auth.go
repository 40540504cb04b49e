package middleware

import (
	"context"
	"net/http"
)

type ctxKey int

const userIDKey ctxKey = iota

// SessionGetter resolves a session id to a user id; "" means no session.
type SessionGetter interface {
	Get(ctx context.Context, sessionID string) (string, error)
}

// UserID extracts the authenticated user id injected by RequireAuth.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// RequireAuth validates the session cookie and injects the user id into the
// request context.
func RequireAuth(cookieName string, sessions SessionGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				http.Error(w, `{"error":"Not authenticated"}`, http.StatusUnauthorized)
				return
			}

			userID, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil || userID == "" {
				http.Error(w, `{"error":"Session expired"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
