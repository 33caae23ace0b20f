package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper/http/middleware"
)

func TestCORS(t *testing.T) {
	// Arrange + Act
	actual := middleware.CORS("")

	// Assert
	require.Equal(t, fmt.Sprintf("%p", middleware.NoopAdapter), fmt.Sprintf("%p", actual))

	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/api/state", nil)
	r.Header.Set("Origin", "https://example.com")

	// Act
	middleware.CORS("https://example.com")(noopHandler()).ServeHTTP(w, r)

	// Assert
	require.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	// Arrange
	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "https://example.com/api/state", nil)
	r.Header.Set("Origin", "https://evil.test")

	// Act
	middleware.CORS("https://example.com")(noopHandler()).ServeHTTP(w, r)

	// Assert
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
