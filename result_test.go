package gatekeeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper"
)

func TestProfileName(t *testing.T) {
	tcs := []struct {
		name     string
		profile  gatekeeper.Profile
		expected string
		ok       bool
	}{
		{"Nil", nil, "", false},
		{"Zero-Value", gatekeeper.Profile{}, "", false},
		{"Empty-Name", gatekeeper.Profile{"name": ""}, "", false},
		{"Not-String", gatekeeper.Profile{"name": 42}, "", false},
		{"Name", gatekeeper.Profile{"name": "Alice"}, "Alice", true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			actual, ok := tc.profile.Name()

			// Assert
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestProfileFields(t *testing.T) {
	// Arrange
	p := gatekeeper.Profile{"email": "alice@example.com", "sub": "auth0|123"}

	// Act + Assert
	require.Equal(t, "alice@example.com", p.Email())
	require.Equal(t, "auth0|123", p.Subject())
	require.Empty(t, gatekeeper.Profile{}.Email())
}
