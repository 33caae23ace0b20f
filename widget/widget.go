package widget

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/golang-jwt/jwt/v4"
	"github.com/xy-planning-network/gatekeeper"
	"golang.org/x/oauth2"
)

const (
	// EventAuthenticated fires once a user has signed in.
	// Its callback is an AuthenticatedFn.
	EventAuthenticated = "authenticated"

	// EventAuthorizationError fires when signing in fails.
	// Its callback is an ErrorFn.
	EventAuthorizationError = "authorization_error"

	defaultUserInfoTimeout = 10 * time.Second
)

// An AuthenticatedFn receives the result of a browser session signing in.
type AuthenticatedFn func(sid string, result gatekeeper.AuthResult)

// An ErrorFn receives why a browser session could not sign in.
type ErrorFn func(sid string, err error)

// A UserInfoFn receives the outcome of a user info request.
// When err is not nil, profile is nil.
type UserInfoFn func(err error, profile gatekeeper.Profile)

// A Widget is the server-side handle on the login vendor.
type Widget struct {
	bus     evbus.Bus
	cfg     Config
	client  *http.Client
	oauth   *oauth2.Config
	parser  *jwt.Parser
	timeout time.Duration
	vendor  vendor

	// guards handlers
	mu       sync.Mutex
	handlers map[string]any
}

// New constructs a Widget from cfg, applying opts after the defaults.
// By default, the Widget talks to an Auth0 style vendor at cfg.Domain.
func New(cfg Config, opts ...Option) (*Widget, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	w := &Widget{
		bus:      evbus.New(),
		cfg:      cfg,
		client:   &http.Client{Timeout: 30 * time.Second},
		parser:   new(jwt.Parser),
		timeout:  defaultUserInfoTimeout,
		handlers: make(map[string]any),
	}
	w.vendor = auth0{base: cfg.baseURL(), clientID: cfg.ClientID}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	w.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     w.vendor.endpoint(),
		RedirectURL:  cfg.CallbackURL,
		Scopes:       cfg.scopes(),
	}

	return w, nil
}

// Show returns the URL of the vendor's login UI.
// The state is handed back untouched once the user finishes,
// so callers can tie the result to the browser that asked.
func (w *Widget) Show(state string, opts ...ShowOpt) string {
	params := make([]oauth2.AuthCodeOption, 0)
	if w.cfg.Audience != "" {
		params = append(params, oauth2.SetAuthURLParam("audience", w.cfg.Audience))
	}

	for _, opt := range opts {
		params = append(params, opt())
	}

	return w.oauth.AuthCodeURL(state, params...)
}

// On registers fn as the callback for event, replacing any callback registered before it.
//
// fn must be an AuthenticatedFn for EventAuthenticated
// and an ErrorFn for EventAuthorizationError;
// otherwise ErrNotValid returns.
func (w *Widget) On(event string, fn any) error {
	var handler any
	switch event {
	case EventAuthenticated:
		switch t := fn.(type) {
		case AuthenticatedFn:
			handler = (func(string, gatekeeper.AuthResult))(t)
		case func(string, gatekeeper.AuthResult):
			handler = t
		}

	case EventAuthorizationError:
		switch t := fn.(type) {
		case ErrorFn:
			handler = (func(string, error))(t)
		case func(string, error):
			handler = t
		}

	default:
		return fmt.Errorf("%w: unknown event %q", ErrNotValid, event)
	}

	if handler == nil {
		return fmt.Errorf("%w: %T cannot handle %q", ErrNotValid, fn, event)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if prev, ok := w.handlers[event]; ok {
		if err := w.bus.Unsubscribe(event, prev); err != nil {
			return err
		}
	}

	if err := w.bus.Subscribe(event, handler); err != nil {
		return err
	}

	w.handlers[event] = handler
	return nil
}

// Resume finishes signing in the browser session sid
// by exchanging the authorization code the vendor redirected back with.
//
// On success, the AuthResult is published to the EventAuthenticated callback.
// On failure, the error is published to the EventAuthorizationError callback and returned.
func (w *Widget) Resume(ctx context.Context, sid, state, code string) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, w.client)
	tok, err := w.oauth.Exchange(ctx, code)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrExchange, err)
		w.Fail(sid, err)
		return err
	}

	w.bus.Publish(EventAuthenticated, sid, w.authResult(tok, state))
	return nil
}

// Fail publishes err to the EventAuthorizationError callback for the browser session sid.
func (w *Widget) Fail(sid string, err error) {
	w.bus.Publish(EventAuthorizationError, sid, err)
}

// GetUserInfo requests the profile of the user accessToken belongs to
// and calls fn with the outcome from its own goroutine.
//
// The request is not cancelled alongside ctx;
// it is bounded by the Widget's user info timeout instead.
func (w *Widget) GetUserInfo(ctx context.Context, accessToken string, fn UserInfoFn) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, w.timeout)
		defer cancel()

		p, err := w.UserInfo(ctx, accessToken)
		if fn != nil {
			fn(err, p)
		}
	}()
}

// UserInfo requests the profile of the user accessToken belongs to.
func (w *Widget) UserInfo(ctx context.Context, accessToken string) (gatekeeper.Profile, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, w.client)
	tok := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}

	p, err := w.vendor.userInfo(ctx, w.oauth, tok)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserInfo, err)
	}

	return p, nil
}

// LogoutURL returns where to send a browser to end its session with the vendor,
// after which the vendor sends it on to returnTo.
func (w *Widget) LogoutURL(returnTo string) string {
	return w.vendor.logoutURL(returnTo)
}

// authResult shapes the token the vendor issued into an AuthResult.
func (w *Widget) authResult(tok *oauth2.Token, state string) gatekeeper.AuthResult {
	r := gatekeeper.AuthResult{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		State:        state,
		TokenType:    tok.TokenType,
	}

	if !tok.Expiry.IsZero() {
		r.ExpiresIn = int64(time.Until(tok.Expiry).Round(time.Second).Seconds())
	}

	if scope, ok := tok.Extra("scope").(string); ok {
		r.Scope = scope
	}

	if raw, ok := tok.Extra("id_token").(string); ok && raw != "" {
		r.IDToken = raw
		r.IDTokenPayload = w.decodeIDToken(raw)
	}

	return r
}

// decodeIDToken reads the claims of an ID token without verifying its signature.
// Malformed tokens produce nil.
func (w *Widget) decodeIDToken(raw string) map[string]any {
	claims := jwt.MapClaims{}
	if _, _, err := w.parser.ParseUnverified(raw, claims); err != nil {
		return nil
	}

	return map[string]any(claims)
}

// A ShowOpt adds a parameter to the login UI URL.
type ShowOpt func() oauth2.AuthCodeOption

// WithConnection skips the vendor's connection picker and goes straight to the named one.
func WithConnection(name string) ShowOpt {
	return func() oauth2.AuthCodeOption { return oauth2.SetAuthURLParam("connection", name) }
}

// WithPrompt sets the OIDC prompt parameter, e.g., "login" to force reauthenticating.
func WithPrompt(prompt string) ShowOpt {
	return func() oauth2.AuthCodeOption { return oauth2.SetAuthURLParam("prompt", prompt) }
}

// An Option configures a Widget under construction.
type Option func(*Widget) error

// WithHTTPClient sets the client used for every request to the vendor.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Widget) error {
		if c == nil {
			return fmt.Errorf("%w: nil *http.Client", ErrNotValid)
		}

		w.client = c
		return nil
	}
}

// WithUserInfoTimeout bounds how long GetUserInfo waits on the vendor.
func WithUserInfoTimeout(d time.Duration) Option {
	return func(w *Widget) error {
		if d <= 0 {
			return fmt.Errorf("%w: timeout must be positive, is %s", ErrNotValid, d)
		}

		w.timeout = d
		return nil
	}
}

// WithGoogle points the Widget at Google instead of the vendor at Config.Domain.
// endpoint overrides where Google's user info API is reached; leave it empty outside of tests.
func WithGoogle(endpoint string) Option {
	return func(w *Widget) error {
		if endpoint != "" {
			if _, err := url.ParseRequestURI(endpoint); err != nil {
				return fmt.Errorf("%w: %s", ErrNotValid, err)
			}
		}

		w.vendor = google{apiEndpoint: endpoint}
		return nil
	}
}
