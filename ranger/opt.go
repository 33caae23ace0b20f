package ranger

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/session"
	"github.com/xy-planning-network/gatekeeper/http/template"
	"github.com/xy-planning-network/gatekeeper/logger"
	"github.com/xy-planning-network/gatekeeper/store"
	"github.com/xy-planning-network/gatekeeper/widget"
)

// A RangerOption configures a *Ranger under construction.
// Whatever a RangerOption leaves unset, New configures with its default.
type RangerOption func(rng *Ranger) error

// WithBaseURL sets the URL gatekeeper is served over, replacing BASE_URL.
func WithBaseURL(u *url.URL) RangerOption {
	return func(rng *Ranger) error {
		if u == nil {
			return fmt.Errorf("%w: nil *url.URL", ErrNotValid)
		}

		rng.url = u
		return nil
	}
}

// WithCacher sets where the store keeps each session's State, replacing STATE_STORE_DRIVER.
func WithCacher(c store.Cacher) RangerOption {
	return func(rng *Ranger) error {
		if c == nil {
			return fmt.Errorf("%w: nil store.Cacher", ErrNotValid)
		}

		rng.cacher = c
		return nil
	}
}

// WithContext sets the context.Context gatekeeper runs under.
// Cancelling it stops Guide.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) error {
		rng.ctx = ctx
		return nil
	}
}

// WithEnv casts the provided string into a valid Environment,
// or, reads from the ENVIRONMENT environment variable a valid Environment.
//
// If both fail, the default Environment is set to Development.
func WithEnv(val string) RangerOption {
	return func(rng *Ranger) error {
		e := gatekeeper.Environment(val)
		if err := e.Valid(); err != nil {
			e = gatekeeper.EnvVarOrEnv(environmentEnvVar, gatekeeper.Development)
		}

		rng.env = e
		return nil
	}
}

// WithLogger sets the logger.Logger every component logs through.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger.Logger", ErrNotValid)
		}

		rng.l = l
		return nil
	}
}

// WithParser sets the template.Parser HTML responses render through.
func WithParser(p template.Parser) RangerOption {
	return func(rng *Ranger) error {
		if p == nil {
			return fmt.Errorf("%w: nil template.Parser", ErrNotValid)
		}

		rng.p = p
		return nil
	}
}

// WithServer sets the *http.Server Guide runs.
// Its Handler is replaced by the Ranger's Router.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) error {
		if s == nil {
			return fmt.Errorf("%w: nil *http.Server", ErrNotValid)
		}

		rng.srv = s
		return nil
	}
}

// WithSessionStore sets the session.SessionStorer browser sessions are kept in.
func WithSessionStore(store session.SessionStorer) RangerOption {
	return func(rng *Ranger) error {
		if store == nil {
			return fmt.Errorf("%w: nil session.SessionStorer", ErrNotValid)
		}

		rng.sessions = store
		return nil
	}
}

// WithWidget sets the *widget.Widget browsers sign in through, replacing the AUTH_* configuration.
func WithWidget(w *widget.Widget) RangerOption {
	return func(rng *Ranger) error {
		if w == nil {
			return fmt.Errorf("%w: nil *widget.Widget", ErrNotValid)
		}

		rng.widget = w
		return nil
	}
}
