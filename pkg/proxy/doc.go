// Package proxy implements the HTTP surface of the gateway: request
// parsing and validation, API key extraction, response shaping, and the
// mapping from internal failures to the wire error envelope.
//
// The package deliberately knows nothing about providers beyond the
// normalized request and response types; all routing logic lives in
// pkg/router and all endpoint orchestration in pkg/proxy/handlers.
package proxy
