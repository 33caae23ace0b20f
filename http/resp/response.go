package resp

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/session"
	"github.com/xy-planning-network/gatekeeper/logger"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w         http.ResponseWriter
	r         *http.Request
	closeBody bool
	code      int
	data      any
	tmpls     []string
	url       *url.URL
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client.
//
// Used with Responder.Html and Responder.Json.
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err sets the status code http.StatusInternalServerError and logs the error.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e != nil {
			d.logger.Error(e.Error(), newLogContext(r.r, e, r.data))
		}

		return Code(http.StatusInternalServerError)(d, r)
	}
}

// Flash sets a flash message in the session with the passed in class and msg.
func Flash(flash session.Flash) Fn {
	return func(d Responder, r *Response) error {
		s, err := d.Session(r.r.Context())
		if err != nil {
			return err
		}

		return s.SetFlash(r.w, r.r, flash)
	}
}

// GenericErr combines Err() and Flash() to log the passed in error
// and set a generic error flash in the session
// using either the string set by WithContactErrMsg or session.DefaultErrMsg.
func GenericErr(e error) Fn {
	return func(d Responder, r *Response) error {
		if err := Err(e)(d, r); err != nil {
			return err
		}

		msg := session.DefaultErrMsg
		if d.contactErrMsg != "" {
			msg = d.contactErrMsg
		}

		return Flash(session.Flash{Class: session.FlashError, Msg: msg})(d, r)
	}
}

// Tmpls appends to the templates to be rendered.
//
// Used with Responder.Html.
func Tmpls(fps ...string) Fn {
	return func(_ Responder, r *Response) error {
		r.tmpls = append(r.tmpls, fps...)
		return nil
	}
}

// ToRoot sets the Responder's root URL as the response's URL,
// or "/" when none was configured.
func ToRoot() Fn {
	return func(d Responder, r *Response) error {
		if d.rootUrl == nil {
			r.url = &url.URL{Path: "/"}
			return nil
		}

		u := *d.rootUrl
		if u.Path == "" {
			u.Path = "/"
		}
		r.url = &u
		return nil
	}
}

// Url parses raw the URL string and sets it in the *Response if successful.
// A path, like "/login", is resolved against the Responder's root URL.
//
// Used with Responder.Redirect.
func Url(u string) Fn {
	return func(d Responder, r *Response) error {
		parsed, err := url.ParseRequestURI(u)
		if err != nil {
			return fmt.Errorf("%w: u is not a valid URL: %v", ErrInvalid, err)
		}

		if parsed.Host == "" && d.rootUrl != nil {
			root := *d.rootUrl
			root.Path = strings.TrimSuffix(root.Path, "/") + parsed.Path
			root.RawQuery = parsed.RawQuery
			parsed = &root
		}

		r.url = parsed
		return nil
	}
}

// Warn sets a flash warning in the session and logs the warning.
func Warn(msg string) Fn {
	return func(d Responder, r *Response) error {
		ctx := newLogContext(r.r, nil, r.data)
		d.logger.Warn(msg, ctx)

		return Flash(session.Flash{Class: session.FlashWarning, Msg: msg})(d, r)
	}
}

// newLogContext helps structure a logger.LogContext from the provided parts.
func newLogContext(r *http.Request, err error, data any) *logger.LogContext {
	ctx := &logger.LogContext{Request: r, Error: err}
	if mapped, ok := data.(map[string]any); ok {
		ctx.Data = mapped
	}

	if r != nil {
		if sid, ok := r.Context().Value(gatekeeper.SessionIDKey).(string); ok {
			ctx.SessionID = sid
		}
	}

	return ctx
}
