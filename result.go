package gatekeeper

// An AuthResult is what the login vendor hands back once a user completes signing in.
//
// Beyond AccessToken, nothing in gatekeeper reads these fields;
// they are carried along so the full result can be inspected.
type AuthResult struct {
	AccessToken    string         `json:"accessToken"`
	ExpiresIn      int64          `json:"expiresIn,omitempty"`
	IDToken        string         `json:"idToken,omitempty"`
	IDTokenPayload map[string]any `json:"idTokenPayload,omitempty"`
	RefreshToken   string         `json:"refreshToken,omitempty"`
	Scope          string         `json:"scope,omitempty"`
	State          string         `json:"state,omitempty"`
	TokenType      string         `json:"tokenType,omitempty"`
}

// A Profile describes the authenticated user as the vendor's user info endpoint reports it.
// Its schema belongs to the vendor.
type Profile map[string]any

// Name returns the "name" field of the Profile, if it is a non-empty string.
func (p Profile) Name() (string, bool) {
	name, ok := p["name"].(string)
	if !ok || name == "" {
		return "", false
	}

	return name, true
}

// Email returns the "email" field of the Profile or the zero value.
func (p Profile) Email() string {
	email, _ := p["email"].(string)
	return email
}

// Subject returns the "sub" field of the Profile or the zero value.
func (p Profile) Subject() string {
	sub, _ := p["sub"].(string)
	return sub
}
