package middleware

import (
	"net/http"
	"strings"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/logger"
)

// LogMaskVal replaces the values of query parameters that must not be logged.
const LogMaskVal = "xxxxxxx"

// maskedParams are the query parameters whose values are never logged.
// "code" and "state" carry the authorization code and CSRF state of a sign in.
var maskedParams = []string{"code", "password", "state"}

// LogRequest logs the request's method, requested URL, and originating IP address
// using the enclosed implementation of logger.Logger.
//
// LogRequest scrubs the values for the following keys:
// - code
// - password
// - state
//
// if logger.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(ls logger.Logger) Adapter {
	if ls == nil {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uri := r.URL.Path
			q := r.URL.Query()
			for _, key := range maskedParams {
				if q.Has(key) {
					q.Set(key, LogMaskVal)
				}
			}

			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			strs := []string{r.Method, uri}
			if val, ok := r.Context().Value(gatekeeper.IpAddrKey).(string); ok && val != "" {
				strs = append([]string{val}, strs...)
			}

			ctx := &logger.LogContext{}
			if id, ok := r.Context().Value(gatekeeper.RequestIDKey).(string); ok {
				ctx.Data = map[string]any{"request_id": id}
			}

			ls.Info(strings.Join(strs, " "), ctx)
			h.ServeHTTP(w, r)
		})
	}
}
