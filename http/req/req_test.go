package req_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/req"
)

type callback struct {
	Code  string `schema:"code" validate:"required_without=Error"`
	Error string `schema:"error"`
	State string `schema:"state" validate:"required"`
}

func TestParseQueryParams(t *testing.T) {
	tcs := []struct {
		name     string
		params   url.Values
		expected callback
		fields   []string
	}{
		{"Code", url.Values{"code": {"xyz"}, "state": {"abc"}}, callback{Code: "xyz", State: "abc"}, nil},
		{"Error", url.Values{"error": {"access_denied"}, "state": {"abc"}}, callback{Error: "access_denied", State: "abc"}, nil},
		{"Unknown-Key", url.Values{"code": {"xyz"}, "state": {"abc"}, "other": {"1"}}, callback{Code: "xyz", State: "abc"}, nil},
		{"No-State", url.Values{"code": {"xyz"}}, callback{Code: "xyz"}, []string{"state"}},
		{"Nothing", url.Values{}, callback{}, []string{"code", "state"}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var actual callback

			// Act
			err := req.NewParser().ParseQueryParams(tc.params, &actual)

			// Assert
			require.Equal(t, tc.expected, actual)
			if tc.fields == nil {
				require.Nil(t, err)
				return
			}

			require.ErrorIs(t, err, gatekeeper.ErrNotValid)

			var verrs req.ValidationErrors
			require.True(t, errors.As(err, &verrs))

			fields := make([]string, 0, len(verrs))
			for _, ve := range verrs {
				fields = append(fields, ve.Field)
			}
			require.ElementsMatch(t, tc.fields, fields)
		})
	}
}

func TestParseQueryParamsConversion(t *testing.T) {
	// Arrange
	var actual struct {
		N int `schema:"n"`
	}

	// Act
	err := req.NewParser().ParseQueryParams(url.Values{"n": {"not a number"}}, &actual)

	// Assert
	require.ErrorIs(t, err, gatekeeper.ErrNotValid)

	var verrs req.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	require.Equal(t, "n", verrs[0].Field)
	require.Equal(t, "must be int", verrs[0].Rule)
}

func TestParseQueryParamsNotPointer(t *testing.T) {
	// Act
	err := req.NewParser().ParseQueryParams(url.Values{}, callback{})

	// Assert
	require.ErrorIs(t, err, gatekeeper.ErrBadConfig)
}

func TestValidationErrorsError(t *testing.T) {
	// Arrange
	v := req.ValidationErrors{
		{Field: "first", Rule: "required"},
		{Field: "second", Got: "big boo boo", Rule: "len=1"},
	}

	// Act
	actual := v.Error()

	// Assert
	require.Equal(t, "field=\"first\" rule=\"required\" got=\"<nil>\"\nfield=\"second\" rule=\"len=1\" got=\"big boo boo\"", actual)
	require.Zero(t, req.ValidationErrors{}.Error())
}
