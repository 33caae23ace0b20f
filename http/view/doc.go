/*
Package view serves gatekeeper's pages and the endpoints a browser signs in and out through.

The home page renders one of two layouts depending on whether the name of a user is known:
a "Log out" button greeting them, or a "Log in" link.
Signing in sends the browser to the vendor's login UI and back to /callback,
after which the vendor's result flows into the store through the widget's callbacks.
*/
package view
