package ranger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/auth"
	"github.com/xy-planning-network/gatekeeper/http/resp"
	"github.com/xy-planning-network/gatekeeper/http/router"
	"github.com/xy-planning-network/gatekeeper/http/session"
	"github.com/xy-planning-network/gatekeeper/http/template"
	"github.com/xy-planning-network/gatekeeper/http/view"
	"github.com/xy-planning-network/gatekeeper/logger"
	"github.com/xy-planning-network/gatekeeper/postgres"
	"github.com/xy-planning-network/gatekeeper/store"
	"github.com/xy-planning-network/gatekeeper/widget"
)

// A Ranger manages and exposes all components of gatekeeper to one another.
type Ranger struct {
	*resp.Responder
	Router *router.Router

	auth     *auth.Service
	cacher   store.Cacher
	cancel   context.CancelFunc
	ctx      context.Context
	db       *postgres.DB
	env      gatekeeper.Environment
	l        logger.Logger
	p        template.Parser
	sessions session.SessionStorer
	srv      *http.Server
	store    *store.Store
	url      *url.URL
	widget   *widget.Widget

	// tracks the store's mailbox goroutine
	wg sync.WaitGroup
}

// New constructs a Ranger from the provided options,
// configuring whatever they leave unset from the environment.
func New(opts ...RangerOption) (*Ranger, error) {
	r := &Ranger{env: gatekeeper.EnvVarOrEnv(environmentEnvVar, gatekeeper.Development)}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}
	}

	if r.ctx == nil {
		r.ctx = context.Background()
	}
	r.ctx, r.cancel = context.WithCancel(r.ctx)

	if r.l == nil {
		r.l = defaultLogger(r.env)
	}

	if r.url == nil {
		r.url = defaultBaseURL()
		if r.url == nil {
			return nil, fmt.Errorf("%w: %s is not a URL", ErrBadConfig, BaseURLEnvVar)
		}
	}

	var err error
	if r.widget == nil {
		if r.widget, err = defaultWidget(r.url); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}
	}
	r.l.Debug("using widget", nil)

	if r.cacher == nil {
		if r.cacher, r.db, err = defaultCacher(r.ctx, r.env); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}
	}
	r.l.Debug(fmt.Sprintf("using state cacher %T", r.cacher), nil)

	r.store = store.New(r.cacher, store.WithLogger(r.l))

	if r.auth, err = auth.NewService(r.ctx, r.store, r.widget, r.l); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
	}

	if err := r.auth.Register(r.widget); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
	}

	if r.sessions == nil {
		if r.sessions, err = defaultSessionStore(r.env); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
		}
	}
	r.l.Debug(fmt.Sprintf("using session store %T", r.sessions), nil)

	if r.p == nil {
		r.p = defaultParser(r.env)
	}

	contact := gatekeeper.EnvVarOrString(ContactUsEnvVar, defaultContactUs)
	r.Responder = defaultResponder(r.l, r.url, r.p, contact)

	h, err := view.NewHandler(r.Responder, r.store, r.widget, r.url.String(), r.l)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadConfig, err)
	}

	r.Router = defaultRouter(r.env, r.url, r.Responder, r.l, defaultMiddlewares(r.env, r.l, r.sessions))
	r.Router.HandleRoutes(h.Routes())
	r.Router.Handle(router.Route{Path: "/healthz", Method: http.MethodGet, Handler: r.healthz})

	if r.srv == nil {
		r.srv = defaultServer(r.ctx)
	}
	r.srv.Handler = r.Router

	return r, nil
}

// healthz reports whether the store's State can be reached.
func (r *Ranger) healthz(w http.ResponseWriter, req *http.Request) {
	if p, ok := r.cacher.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(req.Context()); err != nil {
			r.l.Error(err.Error(), &logger.LogContext{Error: err})
			if err := r.Json(w, req, resp.Code(http.StatusServiceUnavailable), resp.Data(map[string]string{"status": "unavailable"})); err != nil {
				r.Err(w, req, err)
			}
			return
		}
	}

	if err := r.Json(w, req, resp.Data(map[string]string{"status": "ok"})); err != nil {
		r.Err(w, req, err)
	}
}

// Cancel stops Guide, as a shutdown signal would.
func (r *Ranger) Cancel() { r.cancel() }

func (r *Ranger) EmitLogger() logger.Logger               { return r.l }
func (r *Ranger) EmitSessionStore() session.SessionStorer { return r.sessions }
func (r *Ranger) EmitStore() *store.Store                 { return r.store }
func (r *Ranger) EmitWidget() *widget.Widget              { return r.widget }

// Guide begins the store and the web server.
//
// These, and (*Ranger).Cancel, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			r.cancel()
		case <-r.ctx.Done():
		}
	}()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.store.Run(r.ctx)
	}()

	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("could not listen: %w", err)
			r.l.Error(err.Error(), nil)
			r.cancel()
		}
	}()

	<-r.ctx.Done()
	return r.Shutdown()
}

// Shutdown shuts down the web server, then the store,
// and finally closes connections to where State is kept.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		err = fmt.Errorf("could not shutdown: %w", err)
	} else {
		err = nil
	}

	r.cancel()
	r.wg.Wait()

	if c, ok := r.cacher.(io.Closer); ok {
		if nested := c.Close(); nested != nil && err == nil {
			err = fmt.Errorf("could not close state cacher: %w", nested)
		}
	}

	if r.db != nil {
		if nested := r.db.Close(); nested != nil && err == nil {
			err = fmt.Errorf("could not close database: %w", nested)
		}
	}

	if err != nil {
		return err
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
