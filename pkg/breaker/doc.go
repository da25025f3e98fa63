// Package breaker implements per-provider circuit breaking.
//
// Each upstream provider gets one Breaker, a small three-state machine
// (closed, open, half_open) that short-circuits calls to a persistently
// failing upstream. After a configurable number of consecutive failures
// (default 5) the circuit opens and blocks calls for a cooldown period
// (default 60s); the first check after the cooldown permits a single probe
// and the probe's outcome decides whether the circuit closes again.
//
// The router consults Allow when filtering candidate providers and reports
// every attempt outcome exactly once via RecordSuccess or RecordFailure.
//
// Example:
//
//	set := breaker.NewSet(5, 60*time.Second)
//
//	if set.Allow("gemini") {
//	    err := callProvider()
//	    if err != nil {
//	        set.RecordFailure("gemini")
//	    } else {
//	        set.RecordSuccess("gemini")
//	    }
//	}
package breaker
