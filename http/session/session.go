package session

import (
	"net/http"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/sessions"
)

// keys used internal to a Session.
const (
	idKey    = "gatekeeper-session-id"
	stateKey = "gatekeeper-session-state"
)

// The Sessionable wraps methods for basic adding values to, deleting, and getting values from a session
// associated with an *http.Request and saving those to the session store.
type Sessionable interface {
	Delete(w http.ResponseWriter, r *http.Request) error
	Get(key string) any
	Save(w http.ResponseWriter, r *http.Request) error
	Set(w http.ResponseWriter, r *http.Request, key string, val any) error
}

// The BrowserSessionable wraps methods identifying a browser
// and tracking the sign in it has underway.
type BrowserSessionable interface {
	EnsureID(w http.ResponseWriter, r *http.Request) (string, error)
	ID() string
	PopState(w http.ResponseWriter, r *http.Request) (string, error)
	SetState(w http.ResponseWriter, r *http.Request, state string) error
}

// The GatekeeperSessionable composes session's major interfaces.
type GatekeeperSessionable interface {
	BrowserSessionable
	FlashSessionable
	Sessionable
}

// A Session provides all functionality for managing a fully featured session.
//
// Its functionality is implemented by lightly wrapping a gorilla.Session.
type Session struct {
	s *gorilla.Session
}

// NewSession constructs a new Session as an implementation of GatekeeperSessionable.
func NewSession(g *gorilla.Session) GatekeeperSessionable { return Session{s: g} }

// Delete removes a session by making the MaxAge negative.
func (s Session) Delete(w http.ResponseWriter, r *http.Request) error {
	s.s.Options.MaxAge = -1
	return s.Save(w, r)
}

// EnsureID returns the ID of the session, minting and saving one if it has none.
func (s Session) EnsureID(w http.ResponseWriter, r *http.Request) (string, error) {
	if id := s.ID(); id != "" {
		return id, nil
	}

	id := uuid.NewString()
	if err := s.Set(w, r, idKey, id); err != nil {
		return "", err
	}

	return id, nil
}

// ID returns the ID of the session or the zero value if it has none.
func (s Session) ID() string {
	id, _ := s.s.Values[idKey].(string)
	return id
}

// Flashes retrieves []Flash stored in the session.
func (s Session) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	raw := s.s.Flashes()
	fs := make([]Flash, 0)
	for _, r := range raw {
		f, ok := r.(Flash)
		if !ok {
			continue
		}

		fs = append(fs, f)
	}
	if len(fs) > 0 {
		// NOTE: Flashes are removed after they are accessed,
		// but the session needs to be saved for them to be finally removed
		if err := s.Save(w, r); err != nil {
			return nil
		}
	}

	return fs
}

// Get retrieves a value from the session according to the key passed in.
func (s Session) Get(key string) any {
	return s.s.Values[key]
}

// PopState retrieves and forgets the state of the sign in underway.
// If none is underway, ErrNoState returns.
func (s Session) PopState(w http.ResponseWriter, r *http.Request) (string, error) {
	state, ok := s.s.Values[stateKey].(string)
	if !ok || state == "" {
		return "", ErrNoState
	}

	delete(s.s.Values, stateKey)
	if err := s.Save(w, r); err != nil {
		return "", err
	}

	return state, nil
}

// Save wraps gorilla.Session.Save, saving the session in the request.
func (s Session) Save(w http.ResponseWriter, r *http.Request) error { return s.s.Save(r, w) }

// Set stores a value according to the key passed in on the session.
func (s Session) Set(w http.ResponseWriter, r *http.Request, key string, val any) error {
	s.s.Values[key] = val
	return s.Save(w, r)
}

// SetFlash stores the passed in Flash in the session.
func (s Session) SetFlash(w http.ResponseWriter, r *http.Request, flash Flash) error {
	s.s.AddFlash(flash)
	return s.Save(w, r)
}

// SetState remembers the state of a sign in now underway.
func (s Session) SetState(w http.ResponseWriter, r *http.Request, state string) error {
	if state == "" {
		return ErrNotValid
	}

	return s.Set(w, r, stateKey, state)
}
