// Package health serves liveness and readiness probes next to the metrics
// endpoint of a long-running watch.
//
// A Checker holds named component checks. Liveness only reports that the
// process answers; readiness runs every check with a per-check timeout and
// reports "degraded" when any of them fails.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("history", func(ctx context.Context) error {
//		_, err := store.Count(ctx, &history.Query{})
//		return err
//	})
//	health.Register(mux, checker, health.VersionInfo{Version: "0.1.0"})
//
// Endpoints:
//
//   - /health: 200 while the process runs
//   - /ready: 200 when every check passes, 503 otherwise
//   - /version: build information
package health
