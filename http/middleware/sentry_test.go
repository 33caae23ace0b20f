package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/middleware"
)

func TestReportPanic(t *testing.T) {
	t.Run("Development", func(t *testing.T) {
		// Arrange
		h := middleware.ReportPanic(gatekeeper.Development)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		// Assert
		require.Equal(t, http.StatusTeapot, w.Code)
	})

	t.Run("Recovers", func(t *testing.T) {
		// Arrange
		h := middleware.ReportPanic(gatekeeper.Production)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		// Act + Assert
		require.NotPanics(t, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
