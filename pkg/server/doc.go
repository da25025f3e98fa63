// Package server assembles the gateway's HTTP surface: the route table,
// the middleware chain, optional TLS termination, and graceful
// shutdown with a drain grace period.
package server
