// Package types defines the gateway's wire types: the OpenAI-compatible
// chat completion request and response shapes, and the error envelope.
//
// The request type carries only the parameters the gateway validates and
// forwards. The response type mirrors the OpenAI chat completion shape
// and adds routing_metadata, the per-request failover trace. All errors,
// regardless of origin, flatten into the single ErrorResponse envelope
// with a lowercased type string.
package types
