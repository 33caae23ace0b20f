/*
Package router wraps [mux.Router] with gatekeeper's conventions for registering handlers.

A [Router] leverages a standardized data model - a [Route] -
when registering how requests should be routed.
A path and an HTTP method comprise a [Route].
An implementation of [http.Handler] is the function called when a request matches a Route.
Before a request gets to a handler, though,
any middlewares added to the Route are called in the order they appear.

Many routes share identical middleware stacks,
so OnEveryRequest and HandleRoutes register them once for a group of Routes.
*/
package router
