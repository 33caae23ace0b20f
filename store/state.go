package store

import "github.com/xy-planning-network/gatekeeper"

// State is the application state of one browser session.
//
// A nil User means no one is logged in.
type State struct {
	User *User `json:"user,omitempty"`
}

// A User is whoever signed in during the browser session.
type User struct {
	AuthResult *gatekeeper.AuthResult `json:"auth_result,omitempty"`
	Profile    gatekeeper.Profile     `json:"profile,omitempty"`
	ProfileErr string                 `json:"profile_err,omitempty"`
}

// LoggedIn reports whether anyone is signed in.
func (s State) LoggedIn() bool { return s.User != nil }

// AccessToken returns the access token the signed in user was issued or the zero value.
func (s State) AccessToken() string {
	if s.User == nil || s.User.AuthResult == nil {
		return ""
	}

	return s.User.AuthResult.AccessToken
}

// SetAuthResult returns s with the user's auth result set to r.
func SetAuthResult(s State, r gatekeeper.AuthResult) State {
	u := s.user()
	u.AuthResult = &r

	return State{User: &u}
}

// SetUserProfile returns s with the user's profile set to p.
//
// SetUserProfile creates the user when none exists,
// so applied after Logout it signs someone in without an auth result.
// Prefer SetUserProfileFor.
func SetUserProfile(s State, p gatekeeper.Profile) State {
	u := s.user()
	u.Profile = p
	u.ProfileErr = ""

	return State{User: &u}
}

// SetUserProfileFor returns s with the user's profile set to p
// only if the user still holds the access token the profile was requested with.
// Otherwise, s returns unchanged.
func SetUserProfileFor(s State, token string, p gatekeeper.Profile) State {
	if !s.holds(token) {
		return s
	}

	return SetUserProfile(s, p)
}

// SetProfileFailure returns s noting why the user's profile could not be fetched,
// under the same access token check as SetUserProfileFor.
func SetProfileFailure(s State, token, msg string) State {
	if !s.holds(token) {
		return s
	}

	u := s.user()
	u.ProfileErr = msg

	return State{User: &u}
}

// Logout returns s without a user.
func Logout(s State) State { return State{} }

// user copies the current User or starts a new one.
func (s State) user() User {
	if s.User == nil {
		return User{}
	}

	return *s.User
}

func (s State) holds(token string) bool {
	return s.User != nil && s.User.AuthResult != nil && s.User.AuthResult.AccessToken == token
}
