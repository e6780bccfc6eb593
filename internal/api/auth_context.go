package api

import (
	"context"
	"net/http"
)

type contextKey string

const userContextKey contextKey = "user"

// WithUser adds the signed-in user to the context
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFrom retrieves the signed-in user from the context
func UserFrom(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userContextKey).(User)
	return u, ok
}

// sessionMiddleware attaches the user of a valid sid cookie to the request.
// Requests without a valid session pass through unchanged.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err == nil && c.Value != "" {
			if u, err := s.sessions().Parse(c.Value); err == nil {
				r = r.WithContext(WithUser(r.Context(), u))
			}
		}
		next.ServeHTTP(w, r)
	})
}
