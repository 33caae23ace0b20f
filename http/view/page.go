package view

import "github.com/xy-planning-network/gatekeeper/store"

// UserName returns the name the vendor reported for the signed in user of s,
// and whether one is known.
func UserName(s store.State) (string, bool) {
	if s.User == nil {
		return "", false
	}

	return s.User.Profile.Name()
}

// A Page is what the home template renders.
type Page struct {
	// LoggedIn chooses between the "Log out" and "Log in" layouts.
	LoggedIn bool

	HasName bool
	Name    string

	// ProfileErr explains why the profile of a signed in user is missing.
	ProfileErr string
}

// NewPage derives the Page for s.
//
// A user is shown as logged in once their name is known,
// or once fetching their profile failed so the failure can be shown.
func NewPage(s store.State) Page {
	p := Page{}
	p.Name, p.HasName = UserName(s)
	if s.User != nil && !p.HasName {
		p.ProfileErr = s.User.ProfileErr
	}

	p.LoggedIn = p.HasName || p.ProfileErr != ""
	return p
}
