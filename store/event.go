package store

import "github.com/xy-planning-network/gatekeeper"

// An Event is a change to a session's State.
type Event interface {
	Apply(State) State
}

var (
	_ Event = SetAuthResultEvent{}
	_ Event = SetUserProfileEvent{}
	_ Event = ProfileFailedEvent{}
	_ Event = LogoutEvent{}
)

// SetAuthResultEvent signs a user in with Result.
// A Result carrying a different access token than the one held
// drops the profile fetched with the old one.
type SetAuthResultEvent struct {
	Result gatekeeper.AuthResult
}

func (e SetAuthResultEvent) Apply(s State) State {
	if s.User != nil && !s.holds(e.Result.AccessToken) {
		s = State{User: &User{}}
	}

	return SetAuthResult(s, e.Result)
}

// SetUserProfileEvent delivers the Profile fetched with the access token Token.
type SetUserProfileEvent struct {
	Profile gatekeeper.Profile
	Token   string
}

func (e SetUserProfileEvent) Apply(s State) State { return SetUserProfileFor(s, e.Token, e.Profile) }

// ProfileFailedEvent reports fetching a profile with the access token Token failed.
type ProfileFailedEvent struct {
	Err   string
	Token string
}

func (e ProfileFailedEvent) Apply(s State) State { return SetProfileFailure(s, e.Token, e.Err) }

// LogoutEvent signs the user out.
type LogoutEvent struct{}

func (LogoutEvent) Apply(s State) State { return Logout(s) }
