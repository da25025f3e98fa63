/*
Package cli provides command-line interface utilities for Meridian Hermes.

The cli package includes error types and signal helpers used by the hermes
command.

Error Types:

Commands wrap failures in typed errors so the root command can print a
consistent message:

	if err := srv.Start(); err != nil {
		return cli.NewCommandError("run", err)
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM, derive the context that drives
background work from ShutdownContext; the signal cancels it and is
reported for logging:

	ctx, sigChan := cli.ShutdownContext(context.Background())
	prober.Start(ctx)
	sig := <-sigChan
	// drain the server, stop background work
*/
package cli
