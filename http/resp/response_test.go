package resp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/resp"
	"github.com/xy-planning-network/gatekeeper/http/session"
)

func TestErr(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodGet, "http://example.com/callback", nil)
	w := httptest.NewRecorder()
	l, b := newLogger()
	d := resp.NewResponder(resp.WithLogger(l))

	// Act
	err := d.Json(w, r, resp.Err(errors.New("exchange failed")))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, b.String(), "exchange failed")
	require.Contains(t, b.String(), "/callback")
}

func TestErrLogsSessionID(t *testing.T) {
	// Arrange
	r := httptest.NewRequest(http.MethodGet, "http://example.com/callback", nil)
	r = r.WithContext(context.WithValue(r.Context(), gatekeeper.SessionIDKey, "sid-42"))
	w := httptest.NewRecorder()
	l, b := newLogger()
	d := resp.NewResponder(resp.WithLogger(l))

	// Act
	err := d.Json(w, r, resp.Err(errors.New("exchange failed")))

	// Assert
	require.Nil(t, err)
	require.Contains(t, b.String(), `"session":"sid-42"`)
}

func TestFlash(t *testing.T) {
	t.Run("No-Session", func(t *testing.T) {
		// Arrange
		r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
		w := httptest.NewRecorder()
		d := resp.NewResponder()

		// Act
		err := d.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashInfo, Msg: "hi"}))

		// Assert
		require.ErrorIs(t, err, resp.ErrNotFound)
	})

	tcs := []struct {
		name     string
		fn       resp.Fn
		opts     []resp.ResponderOptFn
		expected session.Flash
	}{
		{
			name:     "Flash",
			fn:       resp.Flash(session.Flash{Class: session.FlashInfo, Msg: "hi"}),
			expected: session.Flash{Class: session.FlashInfo, Msg: "hi"},
		},
		{
			name:     "GenericErr",
			fn:       resp.GenericErr(errors.New("oh no")),
			expected: session.Flash{Class: session.FlashError, Msg: session.DefaultErrMsg},
		},
		{
			name:     "GenericErr-Contact",
			fn:       resp.GenericErr(errors.New("oh no")),
			opts:     []resp.ResponderOptFn{resp.WithContactErrMsg("email us")},
			expected: session.Flash{Class: session.FlashError, Msg: "email us"},
		},
		{
			name:     "Warn",
			fn:       resp.Warn(session.LoginExpiredMsg),
			expected: session.Flash{Class: session.FlashWarning, Msg: session.LoginExpiredMsg},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			l, _ := newLogger()
			s, err := session.NewStub("sid").GetSession(nil)
			require.Nil(t, err)

			r := withSession(httptest.NewRequest(http.MethodGet, "http://example.com", nil), s)
			w := httptest.NewRecorder()
			d := resp.NewResponder(append(tc.opts, resp.WithLogger(l))...)

			// Act
			err = d.Redirect(w, r, tc.fn)

			// Assert
			require.Nil(t, err)
			require.Equal(t, []session.Flash{tc.expected}, s.Flashes(w, r))
		})
	}
}

func TestWithRootUrl(t *testing.T) {
	tcs := []struct {
		name     string
		root     string
		expected string
	}{
		{"Good", "https://example.com", "https://example.com/"},
		{"Trailing-Slash", "https://example.com/", "https://example.com/"},
		{"Sub-Path", "https://example.com/app/", "https://example.com/app"},
		{"Bad", "example", "http://localhost:3000/"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodGet, "http://example.com", nil)
			w := httptest.NewRecorder()
			d := resp.NewResponder(resp.WithRootUrl(tc.root))

			// Act
			err := d.Redirect(w, r)

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, w.Header().Get("Location"))
		})
	}
}
