/*
Package logger provides logging functionality to a gatekeeper app by defining the required behavior in [Logger]
and providing an implementation of it with [AppLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
An [AppLogger] is initialized at a certain [LogLevel]
and only emits messages at or above that level of importance.

Log messages emitted by [AppLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2026/04/28 15:55:21 [WARN] auth/service.go:61 'user info failed' log_context: {"session":"5c0b...","error":"timeout"}

The log context is a JSON-encoded [LogContext].

# SentryLogger

When a DSN is available, [NewSentryLogger] decorates an [AppLogger]
so WARN, ERROR and FATAL messages carrying an error are also captured by Sentry.
*/
package logger
