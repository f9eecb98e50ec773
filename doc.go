// Package plotcast provides a local, ephemeral broadcast server for visual
// artifacts: a producer process pushes plots and the server streams them to
// any number of live viewers, with new viewers replaying recent history
// before going live.
//
// plotcast is designed as an SDK-first library. A host process (a
// data-analysis script, a language binding, the bundled CLI) starts one
// server, keeps the returned [Handle], and publishes through it:
//
//	h, err := plotcast.Start(plotcast.WithToken("s3cret"))
//	if err != nil {
//	    slog.Error("failed to start viewer server", "error", err)
//	    os.Exit(1)
//	}
//	defer h.Shutdown(context.Background())
//
//	id, _ := h.Publish(plot.SVG("<svg>...</svg>"))
//	fmt.Println("published", id, "to", h.Addr())
//
// Viewers connect over WebSocket at /ws (carrying the token as a query
// parameter) and receive every retained artifact in publish order, then each
// newly published artifact as it arrives. Remote producers can publish over
// HTTP at /api/publish; both paths feed the same in-memory store, so
// ordering is identical regardless of how an artifact entered.
//
// History is memory-only and bounded (oldest evicted first); nothing
// survives shutdown. Slow viewers are dropped rather than ever slowing a
// publisher down.
//
// # Configuration
//
// plotcast uses the functional options pattern:
//
//	h, err := plotcast.Start(
//	    plotcast.WithHost("127.0.0.1"),
//	    plotcast.WithPort(0), // ephemeral port
//	    plotcast.WithToken("s3cret"),
//	    plotcast.WithHistoryLimit(500),
//	    plotcast.WithAssets(web.Assets),
//	)
//
// # Architecture
//
// plotcast consists of several internal packages:
//
//   - internal/store: bounded artifact history with subscriber fan-out
//   - internal/server: HTTP/WebSocket transport, auth, viewer sessions
//   - plot: the public artifact model and wire codec
//   - web: embedded viewer UI assets
//
// The internal packages are not part of the public API and may change
// without notice. The library is designed for single-binary deployment
// using Go's embed directive for static assets.
package plotcast
