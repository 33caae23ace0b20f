package view_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper/auth"
	"github.com/xy-planning-network/gatekeeper/logger"
	"github.com/xy-planning-network/gatekeeper/widget"
)

// newVendor stands up a fake vendor tenant issuing "tok1" for "code-xyz"
// and reporting profile for it.
func newVendor(t *testing.T, profile string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "code-xyz" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok1", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(profile))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func TestSignInAndOut(t *testing.T) {
	// Arrange
	vendor := newVendor(t, `{"sub":"auth0|123","name":"Alice"}`)
	wdg, err := widget.New(widget.Config{
		ClientID:    "client-abc",
		Domain:      vendor.URL,
		CallbackURL: testRoot + "/callback",
	}, widget.WithHTTPClient(vendor.Client()))
	require.Nil(t, err)

	hs := newHarness(t, wdg)

	svc, err := auth.NewService(context.Background(), hs.store, wdg, logger.Discard())
	require.Nil(t, err)
	require.Nil(t, svc.Register(wdg))

	// Act
	w := hs.do(http.MethodGet, "/")

	// Assert
	require.Contains(t, w.Body.String(), "Log in")

	// Act
	w = hs.do(http.MethodGet, "/login")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	require.Equal(t, "/authorize", loc.Path)
	require.Equal(t, "client-abc", loc.Query().Get("client_id"))

	// Act
	state := loc.Query().Get("state")
	w = hs.do(http.MethodGet, "/callback?code=code-xyz&state="+url.QueryEscape(state))

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, testRoot+"/", w.Header().Get("Location"))
	require.Eventually(t, func() bool {
		st, err := hs.store.Snapshot(context.Background(), testSID)
		return err == nil && st.User != nil && st.User.Profile != nil
	}, time.Second, 10*time.Millisecond)

	// Act
	w = hs.do(http.MethodGet, "/")

	// Assert
	require.Contains(t, w.Body.String(), "Hello, Alice")
	require.Contains(t, w.Body.String(), "Log out")
	require.NotContains(t, w.Body.String(), "Log in")

	// Act
	w = hs.do(http.MethodPost, "/logout")

	// Assert
	require.Equal(t, http.StatusFound, w.Code)
	loc, err = url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)
	require.Equal(t, "/v2/logout", loc.Path)
	require.Equal(t, testRoot, loc.Query().Get("returnTo"))

	// Act
	w = hs.do(http.MethodGet, "/")

	// Assert
	require.Contains(t, w.Body.String(), "Log in")
	require.NotContains(t, w.Body.String(), "Log out")
}

func TestSignInProfileFails(t *testing.T) {
	// Arrange
	vendor := newVendor(t, `not json`)
	wdg, err := widget.New(widget.Config{
		ClientID:    "client-abc",
		Domain:      vendor.URL,
		CallbackURL: testRoot + "/callback",
	}, widget.WithHTTPClient(vendor.Client()))
	require.Nil(t, err)

	hs := newHarness(t, wdg)

	svc, err := auth.NewService(context.Background(), hs.store, wdg, logger.Discard())
	require.Nil(t, err)
	require.Nil(t, svc.Register(wdg))

	w := hs.do(http.MethodGet, "/login")
	loc, err := url.Parse(w.Header().Get("Location"))
	require.Nil(t, err)

	// Act
	hs.do(http.MethodGet, "/callback?code=code-xyz&state="+url.QueryEscape(loc.Query().Get("state")))

	// Assert
	require.Eventually(t, func() bool {
		st, err := hs.store.Snapshot(context.Background(), testSID)
		return err == nil && st.User != nil && st.User.ProfileErr != ""
	}, time.Second, 10*time.Millisecond)

	w = hs.do(http.MethodGet, "/")
	require.Contains(t, w.Body.String(), "We could not load your profile")
	require.Contains(t, w.Body.String(), "Log out")
}
