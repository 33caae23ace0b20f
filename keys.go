package gatekeeper

type Key string

const (
	// IpAddrKey stashes the IP address of an HTTP request being handled by gatekeeper.
	IpAddrKey Key = "IpAddrKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"

	// SessionKey stashes the session associated with an HTTP request.
	SessionKey Key = "SessionKey"

	// SessionIDKey stashes the stable identifier of a browser session,
	// the identifier application state is kept under.
	SessionIDKey Key = "SessionIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "gatekeeper context key: " + string(k)
}
