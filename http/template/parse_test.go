package template_test

import (
	"bytes"
	"net/url"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/template"
)

func TestParse(t *testing.T) {
	stub := []byte("<!DOCTYPE html>\n<html></html>")
	fsys := fstest.MapFS{
		"example.tmpl":   {Data: stub},
		"empty.tmpl":     {Data: nil},
		"tmpl/base.tmpl": {Data: []byte("overridden")},
	}

	tcs := []struct {
		name     string
		fps      []string
		expected string
		err      error
	}{
		{"Zero-Value", []string{}, "", template.ErrNoFiles},
		{"Empty-String", []string{""}, "", template.ErrNoFiles},
		{"Empty-File", []string{"empty.tmpl"}, "", nil},
		{"Not-Empty-File", []string{"", "example.tmpl"}, string(stub), nil},
		{"User-Overrides-Embedded", []string{template.BaseTmpl}, "overridden", nil},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			p := template.NewParser(template.WithFS(fsys))

			// Act
			tmpl, err := p.Parse(tc.fps...)

			// Assert
			require.ErrorIs(t, err, tc.err)
			if tc.err != nil {
				require.Nil(t, tmpl)
				return
			}

			b := new(bytes.Buffer)
			require.Nil(t, tmpl.Execute(b, nil))
			require.Equal(t, tc.expected, b.String())
		})
	}

	t.Run("No-File", func(t *testing.T) {
		_, err := template.NewParser(template.WithFS(fsys)).Parse("missing.tmpl")
		require.NotNil(t, err)
	})
}

type page struct {
	LoggedIn   bool
	HasName    bool
	Name       string
	ProfileErr string
}

func TestParse_Home(t *testing.T) {
	root, err := url.Parse("http://localhost:3000")
	require.Nil(t, err)

	tcs := []struct {
		name     string
		data     page
		contains []string
		excludes []string
	}{
		{
			"Logged-Out",
			page{},
			[]string{"Log in", `href="http://localhost:3000/login"`},
			[]string{"Log out"},
		},
		{
			"Logged-In",
			page{LoggedIn: true, HasName: true, Name: "Alice"},
			[]string{"Hello, Alice", "Log out", `action="http://localhost:3000/logout"`},
			[]string{"Log in"},
		},
		{
			"Profile-Failed",
			page{LoggedIn: true, ProfileErr: "Unauthorized"},
			[]string{"We could not load your profile: Unauthorized", "Log out"},
			[]string{"Log in", "Hello,"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			p := template.NewParser(template.WithFS(fstest.MapFS{}))
			p.AddFn(template.RootUrl(root))
			p.AddFn(template.Env(gatekeeper.Testing))

			tmpl, err := p.Parse(template.BaseTmpl, template.HomeTmpl)
			require.Nil(t, err)

			b := new(bytes.Buffer)

			// Act
			err = tmpl.Execute(b, map[string]any{"Data": tc.data})

			// Assert
			require.Nil(t, err)
			for _, s := range tc.contains {
				require.Contains(t, b.String(), s)
			}
			for _, s := range tc.excludes {
				require.NotContains(t, b.String(), s)
			}
			require.Contains(t, b.String(), `data-env="TESTING"`)
		})
	}
}

func TestParse_Error(t *testing.T) {
	// Arrange
	p := template.NewParser(template.WithFS(fstest.MapFS{}))
	tmpl, err := p.Parse(template.ErrTmpl)
	require.Nil(t, err)

	b := new(bytes.Buffer)

	// Act
	err = tmpl.Execute(b, map[string]any{"Contact": "Please try again."})

	// Assert
	require.Nil(t, err)
	require.Contains(t, b.String(), "Please try again.")
}
