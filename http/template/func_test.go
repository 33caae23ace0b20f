package template

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper"
)

func TestAddFn(t *testing.T) {
	// Arrange
	tcs := []struct {
		name   string
		first  string
		second any
		length int
	}{
		{"zero-first", "", nil, 1},
		{"struct-second", "still nil", struct{}{}, 2},
		{"one-good", "one", func() {}, 3},
		{"two-good", "two", func() {}, 4},
		{"repeat", "one", func() {}, 4},
	}

	p := &Parse{}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			require.NotPanics(t, func() { p.AddFn(tc.first, tc.second) })

			// Assert
			require.Len(t, p.fns, tc.length)
		})
	}
}

func TestEnv(t *testing.T) {
	name, fn := Env(gatekeeper.Staging)
	require.Equal(t, "env", name)
	require.Equal(t, "STAGING", fn())
}

func TestNonce(t *testing.T) {
	name, fn := Nonce()
	require.Equal(t, "nonce", name)
	require.NotEqual(t, fn(), fn())
}

func TestRootUrl(t *testing.T) {
	// Arrange
	good, err := url.Parse("https://example.com")
	require.Nil(t, err)

	tcs := []struct {
		name     string
		u        *url.URL
		expected string
	}{
		{"nil", nil, ""},
		{"good", good, "https://example.com"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			name, fn := RootUrl(tc.u)

			// Assert
			require.Equal(t, "rootUrl", name)
			require.Equal(t, tc.expected, fn())
		})
	}
}
