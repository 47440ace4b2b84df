// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT, SIGTERM or a cancelled context, then runs the
// registered hooks in reverse registration order under a shared timeout.
//
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown("metrics", srv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
