package auth

import (
	"context"
	"fmt"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/logger"
	"github.com/xy-planning-network/gatekeeper/store"
	"github.com/xy-planning-network/gatekeeper/widget"
)

//go:generate mockgen -destination=authtest/mock.go -package=authtest . Dispatcher,UserInfoer,Registrar

// A Dispatcher accepts store Events for a browser session.
type Dispatcher interface {
	Dispatch(ctx context.Context, sid string, ev store.Event) error
}

// A UserInfoer requests a user's profile from the vendor,
// calling fn once the vendor answers.
type UserInfoer interface {
	GetUserInfo(ctx context.Context, accessToken string, fn widget.UserInfoFn)
}

// A Registrar accepts callbacks for vendor events.
type Registrar interface {
	On(event string, fn any) error
}

var (
	_ Dispatcher = new(store.Store)
	_ UserInfoer = new(widget.Widget)
	_ Registrar  = new(widget.Widget)
)

// Service moves what the vendor reports into the store.
type Service struct {
	ctx    context.Context
	info   UserInfoer
	logger logger.Logger
	store  Dispatcher
}

// NewService constructs a Service.
//
// Vendor callbacks carry no context of their own,
// so every Event the Service dispatches uses ctx.
func NewService(ctx context.Context, d Dispatcher, info UserInfoer, l logger.Logger) (*Service, error) {
	if d == nil || info == nil {
		return nil, fmt.Errorf("%w: Dispatcher and UserInfoer cannot be nil", ErrNotValid)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if l == nil {
		l = logger.Discard()
	}

	return &Service{ctx: ctx, info: info, logger: l, store: d}, nil
}

// Register sets the Service's methods as the callbacks for signing in.
func (s *Service) Register(r Registrar) error {
	if err := r.On(widget.EventAuthenticated, widget.AuthenticatedFn(s.HandleResult)); err != nil {
		return err
	}

	return r.On(widget.EventAuthorizationError, widget.ErrorFn(s.HandleAuthorizationError))
}

// HandleResult stores r as the session's auth result
// and then requests the profile of the user it belongs to.
//
// The access token is passed to the vendor as is, even when empty;
// the vendor rejecting it surfaces as a failed profile.
func (s *Service) HandleResult(sid string, r gatekeeper.AuthResult) {
	if err := s.store.Dispatch(s.ctx, sid, store.SetAuthResultEvent{Result: r}); err != nil {
		s.logger.Error("failed storing auth result", &logger.LogContext{SessionID: sid, Error: err})
		return
	}

	token := r.AccessToken
	s.info.GetUserInfo(s.ctx, token, s.HandleProfile(sid, token))
}

// HandleProfile returns the callback for a profile requested with token for the session sid.
func (s *Service) HandleProfile(sid, token string) widget.UserInfoFn {
	return func(err error, p gatekeeper.Profile) {
		var ev store.Event = store.SetUserProfileEvent{Profile: p, Token: token}
		if err != nil {
			s.logger.Warn("failed fetching profile", &logger.LogContext{SessionID: sid, Error: err})
			ev = store.ProfileFailedEvent{Err: err.Error(), Token: token}
		} else {
			s.logger.Debug("fetched profile", &logger.LogContext{SessionID: sid, User: p})
		}

		if err := s.store.Dispatch(s.ctx, sid, ev); err != nil {
			s.logger.Error("failed storing profile", &logger.LogContext{SessionID: sid, Error: err})
		}
	}
}

// HandleAuthorizationError logs why signing in failed.
func (s *Service) HandleAuthorizationError(sid string, err error) {
	s.logger.Warn("authorization failed", &logger.LogContext{SessionID: sid, Error: err})
}
