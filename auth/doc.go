/*
Package auth reacts to the login vendor on behalf of a browser session.

Service registers itself with a widget.Widget as the callback for signing in,
turning what the vendor reports into store Events:
the auth result is stored first, then the user's profile is requested
and, once the vendor answers, stored too or noted as having failed.

Profiles are bound to the access token they were requested with,
so a profile arriving after the user logs out never signs them back in.
*/
package auth
