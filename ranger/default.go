package ranger

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/xy-planning-network/gatekeeper"
	"github.com/xy-planning-network/gatekeeper/http/middleware"
	"github.com/xy-planning-network/gatekeeper/http/resp"
	"github.com/xy-planning-network/gatekeeper/http/router"
	"github.com/xy-planning-network/gatekeeper/http/session"
	"github.com/xy-planning-network/gatekeeper/http/template"
	"github.com/xy-planning-network/gatekeeper/logger"
	"github.com/xy-planning-network/gatekeeper/postgres"
	"github.com/xy-planning-network/gatekeeper/store"
	"github.com/xy-planning-network/gatekeeper/widget"
)

const (
	// Base URL defaults
	BaseURLEnvVar = "BASE_URL"

	// App metadata
	ContactUsEnvVar  = "CONTACT_US_EMAIL"
	defaultContactUs = "hello@example.com"
	contactUsErr     = "Uh oh! We've run into an issue. Please email %s if the problem persists."
	corsOriginEnvVar = "CORS_ORIGIN"

	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	sentryDsnEnvVar = "SENTRY_DSN"

	// Login vendor defaults
	authConfigFileEnvVar      = "AUTH_CONFIG_FILE"
	authVendorEnvVar          = "AUTH_VENDOR"
	authVendorGoogle          = "google"
	authUserInfoTimeoutEnvVar = "AUTH_USERINFO_TIMEOUT"

	// State store defaults
	stateStoreDriverEnvVar = "STATE_STORE_DRIVER"
	stateStoreTTLEnvVar    = "STATE_STORE_TTL"
	DefaultStateStoreTTL   = 24 * time.Hour
	redisURLEnvVar         = "REDIS_URL"

	// Database defaults
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"

	// Web server defaults
	DefaultHost               = "localhost"
	hostEnvVar                = "HOST"
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// Session defaults
	SessionAuthKeyEnvVar    = "SESSION_AUTH_KEY"
	SessionEncryptKeyEnvVar = "SESSION_ENCRYPTION_KEY"
	sessionNameEnvVar       = "SESSION_NAME"
	defaultSessionName      = "gatekeeper"
	sessionRedisURLEnvVar   = "SESSION_REDIS_URL"
	sessionRedisPassEnvVar  = "SESSION_REDIS_PASSWORD"
	sessionMaxAge           = 3600 * 24 * 7

	// Test defaults
	dbTestHostEnvVar     = "DATABASE_TEST_HOST"
	defaultDBTestHost    = "localhost"
	dbTestNameEnvVar     = "DATABASE_TEST_NAME"
	dbTestPassEnvVar     = "DATABASE_TEST_PASSWORD"
	dbTestPortEnvVar     = "DATABASE_TEST_PORT"
	defaultDBTestPort    = "5432"
	dbTestUserEnvVar     = "DATABASE_TEST_USER"
	dbTestSSLModeEnvVar  = "DATABASE_TEST_SSLMODE"
	defaultDBTestSSLMode = "prefer"
)

// defaultBaseURL reads BASE_URL, falling back to HOST and PORT.
func defaultBaseURL() *url.URL {
	port := gatekeeper.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	def := "http://" + gatekeeper.EnvVarOrString(hostEnvVar, DefaultHost) + port
	return gatekeeper.EnvVarOrURL(BaseURLEnvVar, def)
}

// NewPostgresConfig constructs a *postgres.CxnConfig appropriate to the given environment.
// Confer the DATABASE env vars for usage.
func NewPostgresConfig(env gatekeeper.Environment) *postgres.CxnConfig {
	url := os.Getenv(dbURLEnvVar)
	switch {
	case env.IsTesting():
		return &postgres.CxnConfig{
			Host:     gatekeeper.EnvVarOrString(dbTestHostEnvVar, defaultDBTestHost),
			IsTestDB: true,
			Name:     os.Getenv(dbTestNameEnvVar),
			Password: os.Getenv(dbTestPassEnvVar),
			Port:     gatekeeper.EnvVarOrString(dbTestPortEnvVar, defaultDBTestPort),
			SSLMode:  gatekeeper.EnvVarOrString(dbTestSSLModeEnvVar, defaultDBTestSSLMode),
			User:     os.Getenv(dbTestUserEnvVar),
		}

	case url == "":
		return &postgres.CxnConfig{
			Host:     gatekeeper.EnvVarOrString(dbHostEnvVar, defaultDBHost),
			IsTestDB: false,
			Name:     os.Getenv(dbNameEnvVar),
			Password: os.Getenv(dbPassEnvVar),
			Port:     gatekeeper.EnvVarOrString(dbPortEnvVar, defaultDBPort),
			SSLMode:  gatekeeper.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
			User:     os.Getenv(dbUserEnvVar),
		}

	default:
		return &postgres.CxnConfig{IsTestDB: false, URL: url}
	}
}

// defaultCacher constructs the store.Cacher named by STATE_STORE_DRIVER.
// The postgres driver connects to the database and migrates it first;
// that connection returns so it can be closed.
func defaultCacher(ctx context.Context, env gatekeeper.Environment) (store.Cacher, *postgres.DB, error) {
	cfg := store.CacherConfig{
		Driver:   gatekeeper.EnvVarOrString(stateStoreDriverEnvVar, store.DriverMemory),
		RedisURL: os.Getenv(redisURLEnvVar),
		TTL:      gatekeeper.EnvVarOrDuration(stateStoreTTLEnvVar, DefaultStateStoreTTL),
	}

	var deps store.Dependencies
	if cfg.Driver == store.DriverPostgres {
		db, err := postgres.Connect(NewPostgresConfig(env), store.Migrations(), env)
		if err != nil {
			return nil, nil, err
		}
		deps.DB = db
	}

	c, err := store.NewCacher(cfg, deps)
	if err != nil {
		if deps.DB != nil {
			deps.DB.Close()
		}
		return nil, nil, err
	}

	if p, ok := c.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			if closer, ok := c.(io.Closer); ok {
				closer.Close()
			}
			return nil, nil, err
		}
	}

	return c, deps.DB, nil
}

// defaultLogger constructs the logger.Logger used throughout the application,
// shipping errors to Sentry when SENTRY_DSN is set.
func defaultLogger(env gatekeeper.Environment) logger.Logger {
	opts := []logger.LoggerOptFn{logger.WithEnv(env.String())}
	if lvl := logger.NewLogLevel(os.Getenv(logLevelEnvVar)); lvl != logger.LogLevelUnk {
		opts = append(opts, logger.WithLevel(lvl))
	}

	al := logger.New(opts...)
	al.Debug("setting up app logger", nil)
	if dsn := os.Getenv(sentryDsnEnvVar); dsn != "" {
		l := logger.NewSentryLogger(al, dsn)
		l.Debug("using SentryLogger for app logger", nil)
		return l
	}

	return al
}

// defaultMiddlewares lists the middlewares applied to every request.
func defaultMiddlewares(env gatekeeper.Environment, l logger.Logger, sessions session.SessionStorer) []middleware.Adapter {
	return []middleware.Adapter{
		middleware.RateLimit(middleware.NewVisitors()),
		middleware.ForceHTTPS(env),
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(l),
		middleware.CORS(os.Getenv(corsOriginEnvVar)),
		middleware.InjectSession(sessions, l),
	}
}

// defaultParser constructs a *template.Parse to be used
// when responding to HTTP requests with [*resp.Responder.Html].
//
// Templates in a tmpl directory where the application runs override those embedded in gatekeeper.
func defaultParser(env gatekeeper.Environment) *template.Parse {
	return template.NewParser(template.WithFn(template.Env(env)))
}

// defaultResponder configures the [*resp.Responder] to be used by http.Handlers.
func defaultResponder(l logger.Logger, url *url.URL, p template.Parser, contact string) *resp.Responder {
	return resp.NewResponder(
		resp.WithContactErrMsg(fmt.Sprintf(contactUsErr, contact)),
		resp.WithErrTemplate(template.ErrTmpl),
		resp.WithLogger(l),
		resp.WithParser(p),
		resp.WithRootUrl(url.String()),
	)
}

// defaultRouter constructs a [*router.Router] to be used by the web server.
func defaultRouter(
	env gatekeeper.Environment,
	baseURL *url.URL,
	responder *resp.Responder,
	l logger.Logger,
	mws []middleware.Adapter,
) *router.Router {
	route := router.New(env, middleware.LogRequest(l))
	route.OnEveryRequest(mws...)
	route.HandleNotFound(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		if strings.Contains(rx.Header.Get("Accept"), "text/html") && rx.URL.Path != baseURL.Path {
			if err := responder.Redirect(wx, rx, resp.ToRoot()); err != nil {
				responder.Err(wx, rx, err)
			}
			return
		}

		wx.WriteHeader(http.StatusNotFound)
	}))

	return route
}

// defaultSessionStore constructs a SessionStorer to be used for storing session data.
//
// defaultSessionStore relies on these env vars:
//   - SESSION_AUTH_KEY
//   - SESSION_ENCRYPTION_KEY
//   - SESSION_NAME
//   - SESSION_REDIS_URL, which stores sessions in Redis instead of cookies
//   - SESSION_REDIS_PASSWORD
//
// Both KEY env vars be valid hex encoded values; cf. [encoding/hex].
func defaultSessionStore(env gatekeeper.Environment) (session.SessionStorer, error) {
	cfg := session.Config{
		AuthKey:     os.Getenv(SessionAuthKeyEnvVar),
		EncryptKey:  os.Getenv(SessionEncryptKeyEnvVar),
		Env:         env,
		SessionName: gatekeeper.EnvVarOrString(sessionNameEnvVar, defaultSessionName),
	}

	args := []session.ServiceOpt{session.WithMaxAge(sessionMaxAge)}
	if uri := os.Getenv(sessionRedisURLEnvVar); uri != "" {
		args = append(args, session.WithRedis(uri, os.Getenv(sessionRedisPassEnvVar)))
	} else {
		args = append(args, session.WithCookie())
	}

	return session.NewStoreService(cfg, args...)
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := gatekeeper.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  gatekeeper.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  gatekeeper.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: gatekeeper.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}

// defaultWidget constructs the *widget.Widget from the file named by AUTH_CONFIG_FILE
// and the AUTH_* env vars.
// Unless configured otherwise, the vendor sends browsers back to /callback under baseURL.
func defaultWidget(baseURL *url.URL) (*widget.Widget, error) {
	cfg, err := widget.LoadConfig(os.DirFS("."), gatekeeper.EnvVarOrString(authConfigFileEnvVar, widget.DefaultConfigFile))
	if err != nil {
		return nil, err
	}

	if cfg.CallbackURL == "" {
		cfg.CallbackURL = strings.TrimSuffix(baseURL.String(), "/") + "/callback"
	}

	opts := make([]widget.Option, 0)
	if d := gatekeeper.EnvVarOrDuration(authUserInfoTimeoutEnvVar, 0); d > 0 {
		opts = append(opts, widget.WithUserInfoTimeout(d))
	}

	if strings.EqualFold(os.Getenv(authVendorEnvVar), authVendorGoogle) {
		opts = append(opts, widget.WithGoogle(""))
	}

	return widget.New(cfg, opts...)
}
