/*
Package widget wraps the hosted login vendor ("Lock") a gatekeeper app signs users in through.

A [Widget] is constructed once per process from a [Config].
It exposes the same small surface a browser-side lock widget does:

  - [Widget.Show] produces the URL of the vendor's login UI;
    redirecting a browser there is how a server shows it.
  - [Widget.On] registers the callback run for an event,
    [EventAuthenticated] or [EventAuthorizationError].
  - [Widget.GetUserInfo] asks the vendor, asynchronously, who the access token belongs to.

Because the vendor hands the browser back to the server with an authorization code,
[Widget.Resume] finishes signing in: it exchanges the code and publishes the result
to whichever callbacks were registered with [Widget.On].

ID tokens are decoded but never verified.
*/
package widget
