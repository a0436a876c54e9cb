// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT, SIGTERM or cancellation of its context,
// then runs the registered hooks in reverse order of registration under
// a single timeout:
//
//	h := shutdown.NewHandler(30*time.Second, logger)
//	h.OnShutdown("web", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
