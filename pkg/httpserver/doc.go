// Package httpserver runs the storefront HTTP listener with graceful
// shutdown on context cancellation, SIGINT, or SIGTERM.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Graceful shutdown matters here more than usual: a hard stop in the
// middle of a request can leave a pooled database connection bound to a
// tenant schema, so in-flight handlers are always given the shutdown
// timeout to unwind their scope guards.
package httpserver
