// Package server provides the HTTP/WebSocket server for plotcast.
//
// This package is internal to plotcast and handles all transport concerns:
//
//   - Liveness: "ok" at GET /health, polled by external tooling
//   - Viewer sessions: WebSocket upgrade at GET /ws, history replay then
//     live streaming of JSON artifacts
//   - Publishing: POST /api/publish admits one artifact per request
//   - Viewer UI: embedded single-page app served at "/"
//
// /ws and /api/publish share one authorization predicate: a token supplied
// as the ?token= query parameter for viewers and as a JSON body field for
// publishers, compared against the configured server token.
//
// Shutdown is a join: it drops live subscriptions, stops the listener, and
// returns only once the serve goroutine has ended, so callers can rely on
// the port being free afterwards.
//
// Users of the plotcast library should not interact with this package
// directly; the server is managed by the public handle.
package server
