package resp

import (
	"net/url"
	"strings"

	"github.com/xy-planning-network/gatekeeper/http/template"
	"github.com/xy-planning-network/gatekeeper/logger"
)

// A ResponderOptFn mutates the provided *Responder in some way.
// A ResponderOptFn is used when constructing a new Responder.
type ResponderOptFn func(*Responder)

// WithContactErrMsg sets the error message to use for error Flashes.
func WithContactErrMsg(msg string) ResponderOptFn {
	return func(d *Responder) {
		d.contactErrMsg = msg
	}
}

// WithErrTemplate sets the template identified by the filepath to use for rendering
// when an unexpected, unhandled error occurs while rendering HTML.
func WithErrTemplate(fp string) ResponderOptFn {
	return func(d *Responder) {
		d.templates.err = fp
	}
}

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
//
// If no Logger is provided through this option, logger.New configures one.
func WithLogger(log logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = log
	}
}

// WithParser sets the provided implementation of template.Parser to use for parsing HTML templates.
func WithParser(p template.Parser) ResponderOptFn {
	return func(d *Responder) {
		d.parser = p
	}
}

// WithRootUrl sets the provided URL after parsing it into a *url.URL to use for rendering and redirecting.
// Any trailing slash is dropped.
//
// NOTE: If u fails parsing by url.ParseRequestURI, the root URL becomes http://localhost:3000
func WithRootUrl(u string) ResponderOptFn {
	good, err := url.ParseRequestURI(strings.TrimSuffix(u, "/"))
	if err != nil || good.Host == "" {
		good, _ = url.ParseRequestURI("http://localhost:3000")
	}

	return func(d *Responder) {
		d.rootUrl = good
	}
}
