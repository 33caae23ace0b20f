/*
Package store holds the application state of each browser session.

State changes only by applying an Event to it.
Every Event is one of the pure reducers in this package wrapped up as a value,
so the same transitions can be exercised directly in tests
or serialized through a Store.

A Store applies Events one at a time, in the order they were dispatched,
from a single goroutine started by Run.
It persists each session's State through a Cacher
and tells subscribers about every State it applies.
*/
package store
