package view

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/req"
	"github.com/xy-planning-network/gatekeeper/http/resp"
	"github.com/xy-planning-network/gatekeeper/http/router"
	"github.com/xy-planning-network/gatekeeper/http/session"
	"github.com/xy-planning-network/gatekeeper/http/template"
	"github.com/xy-planning-network/gatekeeper/logger"
	"github.com/xy-planning-network/gatekeeper/store"
	"github.com/xy-planning-network/gatekeeper/widget"
)

// The Widget wraps the methods of *widget.Widget a browser signs in and out through.
type Widget interface {
	Fail(sid string, err error)
	LogoutURL(returnTo string) string
	Resume(ctx context.Context, sid, state, code string) error
	Show(state string, opts ...widget.ShowOpt) string
}

// The StateStore wraps the methods of *store.Store the pages read and write the State through.
type StateStore interface {
	Dispatch(ctx context.Context, sid string, ev store.Event) error
	Snapshot(ctx context.Context, sid string) (store.State, error)
	Subscribe(sid string) (<-chan store.State, func())
}

var (
	_ Widget     = new(widget.Widget)
	_ StateStore = new(store.Store)
)

// Handler shares the initialized Responder across all of gatekeeper's pages.
type Handler struct {
	*resp.Responder

	logger logger.Logger
	params *req.Parser
	store  StateStore
	widget Widget

	// Where the vendor sends a browser once it has signed out.
	returnTo string
}

// NewHandler constructs a Handler rendering through rp, keeping State in st,
// and signing browsers in and out through w.
// returnTo is where a signed out browser lands, usually the root URL.
func NewHandler(rp *resp.Responder, st StateStore, w Widget, returnTo string, l logger.Logger) (*Handler, error) {
	if rp == nil || st == nil || w == nil {
		return nil, fmt.Errorf("%w: Responder, StateStore, and Widget are required", ErrNotValid)
	}

	if l == nil {
		l = logger.New()
	}

	return &Handler{
		Responder: rp,
		logger:    l,
		params:    req.NewParser(),
		store:     st,
		widget:    w,
		returnTo:  returnTo,
	}, nil
}

// Routes lists the Routes the Handler serves.
func (h *Handler) Routes() []router.Route {
	return []router.Route{
		{Path: "/", Method: http.MethodGet, Handler: h.home},
		{Path: "/login", Method: http.MethodGet, Handler: h.login},
		{Path: "/callback", Method: http.MethodGet, Handler: h.callback},
		{Path: "/logout", Method: http.MethodPost, Handler: h.logout},
		{Path: "/api/state", Method: http.MethodGet, Handler: h.state},
		{Path: "/api/state/stream", Method: http.MethodGet, Handler: h.stream},
	}
}

// home renders the "Log out" layout for a user whose name is known, the "Log in" layout otherwise.
func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Snapshot(r.Context(), sessionID(r))
	if err != nil {
		h.Err(w, r, err)
		return
	}

	// NOTE: Html renders the error template itself on failure
	_ = h.Html(w, r, resp.Tmpls(template.BaseTmpl, template.HomeTmpl), resp.Data(NewPage(st)))
}

// login sends the browser to the vendor's login UI,
// remembering the state it must come back with.
//
// LoginParams chooses how the vendor signs the browser in.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var params LoginParams
	if err := h.params.ParseQueryParams(r.URL.Query(), &params); err != nil {
		h.redirect(w, r, resp.GenericErr(err))
		return
	}

	s, err := h.Session(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	state := uuid.NewString()
	if err := s.SetState(w, r, state); err != nil {
		h.Err(w, r, err)
		return
	}

	opts := make([]widget.ShowOpt, 0)
	if params.Connection != "" {
		opts = append(opts, widget.WithConnection(params.Connection))
	}

	if params.Prompt != "" {
		opts = append(opts, widget.WithPrompt(params.Prompt))
	}

	if err := h.Redirect(w, r, resp.Url(h.widget.Show(state, opts...))); err != nil {
		h.Err(w, r, err)
	}
}

// callback finishes signing in once the vendor redirects back.
func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	s, err := h.Session(r.Context())
	if err != nil {
		h.Err(w, r, err)
		return
	}

	var params CallbackParams
	perr := h.params.ParseQueryParams(r.URL.Query(), &params)

	expected, err := s.PopState(w, r)
	if err != nil || params.State == "" || params.State != expected {
		h.redirect(w, r, resp.Warn(session.LoginExpiredMsg))
		return
	}

	sid := sessionID(r)
	if params.Error != "" {
		h.widget.Fail(sid, fmt.Errorf("%w: %s: %s", ErrAuthorization, params.Error, params.ErrorDescription))
		h.redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.LoginFailedMsg}))
		return
	}

	if perr != nil {
		h.logger.Warn(perr.Error(), &logger.LogContext{Error: perr, Request: r})
		h.redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.LoginFailedMsg}))
		return
	}

	if err := h.widget.Resume(r.Context(), sid, params.State, params.Code); err != nil {
		h.redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: session.LoginFailedMsg}))
		return
	}

	h.redirect(w, r)
}

// logout forgets the signed in user and sends the browser on to sign out with the vendor.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Dispatch(r.Context(), sessionID(r), store.LogoutEvent{}); err != nil {
		h.Err(w, r, err)
		return
	}

	h.redirect(w, r, resp.Url(h.widget.LogoutURL(h.returnTo)))
}

// state responds with the session's State.
func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Snapshot(r.Context(), sessionID(r))
	if err != nil {
		h.Err(w, r, err)
		return
	}

	if err := h.Json(w, r, resp.Data(st)); err != nil {
		h.logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
	}
}

// stream sends the session's State as a server-sent event,
// then again each time it changes, until the client goes away.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.Err(w, r, ErrNoStreaming)
		return
	}

	sid := sessionID(r)
	updates, cancel := h.store.Subscribe(sid)
	defer cancel()

	st, err := h.store.Snapshot(r.Context(), sid)
	if err != nil {
		h.Err(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	enc := json.NewEncoder(w)
	for {
		if _, err := fmt.Fprint(w, "data: "); err != nil {
			return
		}

		// NOTE: Encode ends the line; the blank line after it ends the event
		if err := enc.Encode(st); err != nil {
			h.logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r, SessionID: sid})
			return
		}

		if _, err := fmt.Fprint(w, "\n"); err != nil {
			return
		}
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case st, ok = <-updates:
			if !ok {
				return
			}
		}
	}
}

// redirect sends the browser home, or wherever fns direct it.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, fns ...resp.Fn) {
	if err := h.Redirect(w, r, fns...); err != nil {
		h.Err(w, r, err)
	}
}

// sessionID retrieves the ID of the browser session middleware.InjectSession stashed.
func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(gatekeeper.SessionIDKey).(string)
	return id
}
