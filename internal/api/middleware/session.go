package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/futig/resume-assistant/internal/pkg/logger"
	"github.com/google/uuid"
)

type sessionContextKey struct{}

// SessionID returns the browser session id attached by Session
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey{}).(string)
	return id
}

// WithSessionID attaches a session id to ctx
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, id)
}

// Session assigns every browser a random session cookie and exposes it through SessionID
func Session(cookieName string, ttl time.Duration, secure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if cookie, err := r.Cookie(cookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.New().String()
			}

			// refresh on every request so the cookie lives as long as the server-side record
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), id)
			ctx = logger.WithSession(ctx, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
