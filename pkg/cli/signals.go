package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownContext derives a context from parent that is canceled when
// SIGINT or SIGTERM arrives, so background work tied to it (probing,
// config watching) stops as soon as the operator asks for shutdown. The
// returned channel reports which signal triggered the cancellation, for
// logging before the ordered drain.
//
// Canceling the parent releases the signal handler without waiting for a
// signal.
func ShutdownContext(parent context.Context) (context.Context, <-chan os.Signal) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	received := make(chan os.Signal, 1)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			received <- sig
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, received
}
