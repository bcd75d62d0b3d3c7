// Package middleware provides the HTTP middleware chain for the API
// server: request ID assignment, structured request logging, and panic
// recovery. Middleware is applied outermost-last, so Recovery wraps the
// whole chain.
package middleware
