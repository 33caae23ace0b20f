package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper/logger"
)

func TestLogContextMarshalText(t *testing.T) {
	// Arrange
	lc := logger.LogContext{}

	// Act
	b, err := lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, []byte("{}"), b)

	// Arrange
	lc = logger.LogContext{Data: map[string]any{"test": "data"}}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, `{"data":{"test":"data"}}`, string(b))

	// Arrange
	lc = logger.LogContext{Error: errors.New("test"), SessionID: "sid"}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, `{"error":"test","session":"sid"}`, string(b))

	// Arrange
	lc = logger.LogContext{User: testUser{}}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Equal(t, `{"user":{"email":"test@example.com","sub":"auth0|1"}}`, string(b))

	// Arrange
	r := httptest.NewRequest(http.MethodGet, "https://example.com/callback?code=abc", nil)
	lc = logger.LogContext{Request: r}

	// Act
	b, err = lc.MarshalText()

	// Assert
	require.Nil(t, err)
	m := make(map[string]any)
	require.Nil(t, json.Unmarshal(b, &m))
	require.Equal(t, map[string]any{
		"request": map[string]any{
			"method": http.MethodGet,
			"url":    "https://example.com/callback?code=abc",
		},
	}, m)
}

func TestLogContextMarshalTextJSONBody(t *testing.T) {
	// Arrange
	body := new(bytes.Buffer)
	require.Nil(t, json.NewEncoder(body).Encode(map[string]string{"name": "Alice"}))

	r := httptest.NewRequest(http.MethodPost, "https://example.com/api", body)
	r.Header.Set("Content-Type", "application/json")
	lc := logger.LogContext{Request: r}

	// Act
	b, err := lc.MarshalText()

	// Assert
	require.Nil(t, err)
	require.Contains(t, string(b), `"json":{"name":"Alice"}`)

	rest, err := io.ReadAll(r.Body)
	require.Nil(t, err)
	require.JSONEq(t, `{"name":"Alice"}`, string(rest))
}

func TestLogContextString(t *testing.T) {
	// Arrange
	lc := logger.LogContext{Data: map[string]any{"bad": make(chan int)}}

	// Act
	s := lc.String()

	// Assert
	require.Contains(t, s, `"error"`)
}

type testUser struct{}

func (testUser) Subject() string { return "auth0|1" }
func (testUser) Email() string   { return "test@example.com" }
