/*
Package ranger initializes and manages gatekeeper with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type, constructed with [New].
[New] builds the login widget, the state store, the session store,
and the web server's routes, wiring each to the others.

[*Ranger.Guide] begins the state store and the web server.
By default, [*Ranger.Guide] listens on [DefaultHost]:[DefaultPort] (localhost:3000).
Stop it with [*Ranger.Cancel] or by sending a signal [*Ranger.Guide] listens for.

# Configuration

gatekeeper is configured through environment variables,
which can be set in a file called ".env" found at the same directory gatekeeper is executed from.
[RangerOption]s replace what those configure.

Here are the available environment variables.
  - AUTH_AUDIENCE: the API audience to request access tokens for
  - AUTH_CALLBACK_URL: where the vendor sends browsers back to; default: BASE_URL/callback
  - AUTH_CLIENT_ID: the client ID of the application registered with the vendor
  - AUTH_CLIENT_SECRET: the client secret of the application registered with the vendor
  - AUTH_CONFIG_FILE: a YAML file to read the AUTH_* values from; default: auth_config.yaml
  - AUTH_DOMAIN: the domain of the vendor tenant
  - AUTH_SCOPE: the scopes to request; default: openid profile email
  - AUTH_USERINFO_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for fetching a profile; default: 10s
  - AUTH_VENDOR: "google" signs in through Google instead of the vendor at AUTH_DOMAIN
  - BASE_URL: the base URL the application runs on; replaces HOST & PORT
  - CONTACT_US_EMAIL: the email address end users can contact when something goes wrong
  - CORS_ORIGIN: an origin allowed to make cross-origin requests
  - DATABASE_URL: the fully-qualified connection string for connecting to the database; replaces all other DATABASE_* env vars
  - DATABASE_HOST, DATABASE_NAME, DATABASE_PASSWORD, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_USER
  - ENVIRONMENT: the environment the application is running in; cf. [gatekeeper.Environment]
  - HOST: the host the application is running on; default: localhost
  - LOG_LEVEL: the level at which to begin logging; default: INFO; cf. [logger.LogLevel]
  - PORT: the port the application should listen on; default: :3000
  - REDIS_URL: the Redis State is kept in when STATE_STORE_DRIVER is "redis"
  - SENTRY_DSN: the Sentry project errors are reported to
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
  - SESSION_AUTH_KEY: a hex-encoded key for authenticating cookies; cf. [encoding/hex]
  - SESSION_ENCRYPTION_KEY: a hex-encoded key for encrypting cookies; cf. [encoding/hex]
  - SESSION_NAME: the name of the session cookie; default: gatekeeper
  - SESSION_REDIS_URL: a Redis to keep sessions in instead of cookies
  - SESSION_REDIS_PASSWORD: the password for SESSION_REDIS_URL
  - STATE_STORE_DRIVER: where each session's State is kept, one of "memory", "redis", or "postgres"; default: memory
  - STATE_STORE_TTL: how long the memory and redis drivers keep a session's State after it last changed; default: 24h
*/
package ranger
