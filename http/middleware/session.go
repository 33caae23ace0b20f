package middleware

import (
	"context"
	"net/http"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/session"
	"github.com/xy-planning-network/gatekeeper/logger"
)

// InjectSession stores the session associated with the *http.Request in *http.Request.Context
// under gatekeeper.SessionKey and the ID of that session under gatekeeper.SessionIDKey.
// A session without an ID is given one.
//
// If store is nil, NoopAdapter returns and this middleware does nothing.
func InjectSession(store session.SessionStorer, l logger.Logger) Adapter {
	if store == nil {
		return NoopAdapter
	}

	if l == nil {
		l = logger.New()
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := store.GetSession(r)
			if err != nil {
				// NOTE: gorilla hands back a fresh session when the old one cannot be decoded
				l.Warn("replacing unreadable session", &logger.LogContext{Error: err, Request: r})
			}

			id, err := s.EnsureID(w, r)
			if err != nil {
				l.Error("cannot save session", &logger.LogContext{Error: err, Request: r})
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), gatekeeper.SessionKey, s)
			ctx = context.WithValue(ctx, gatekeeper.SessionIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
