package middlewares

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	// SessionName is the cookie holding the signed session.
	SessionName = "geoportal-session"
	// SessionPhoneKey is the session value carrying the authenticated phone.
	SessionPhoneKey = "user_phone"
)

type contextKey string

// ContextPhoneKey carries the authenticated phone number through the request
// context once the auth gate has passed.
const ContextPhoneKey contextKey = "userPhone"

// SessionAuth gates protected routes on the presence of an authenticated
// identity in the cookie session; anonymous requests are redirected to the
// login entry point.
func SessionAuth(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, SessionName)
			if err != nil {
				log.Debug().Err(err).Msg("Failed to decode session cookie")
			}

			phone, ok := session.Values[SessionPhoneKey].(string)
			if !ok || phone == "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), ContextPhoneKey, phone)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PhoneFromContext returns the authenticated phone placed by SessionAuth.
func PhoneFromContext(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(ContextPhoneKey).(string)
	return phone, ok
}
