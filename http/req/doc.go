/*
Package req parses the query parameters of an HTTP request into a pointer to a struct.

Fields match query parameters by their "schema" struct tag
and are validated by their "validate" struct tag.
Whatever goes wrong while parsing returns as an error wrapping gatekeeper.ErrNotValid,
so handlers can treat every shape of bad request the same.
*/
package req
