// Package middleware provides the gateway's HTTP middleware chain:
// request ID assignment, structured request logging, panic recovery,
// and CORS. Handlers read the request ID and tenant ID through the
// context helpers defined here.
package middleware
