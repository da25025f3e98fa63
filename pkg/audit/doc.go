// Package audit provides an optional request audit trail.
//
// Each completed gateway request can be recorded as one Record holding
// the routing outcome: who asked, which policy ran, which providers were
// tried, and how the request ended. Records never contain message
// content or credentials.
//
// Records flow through an asynchronous Recorder into a SQLite store, so
// auditing never adds latency to the request path; a full buffer drops
// records rather than blocking. A cron-scheduled Pruner enforces the
// retention period.
//
// Auditing is disabled by default and enabled through the audit section
// of the gateway configuration.
package audit
