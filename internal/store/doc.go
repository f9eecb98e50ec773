// Package store provides the in-memory artifact history and fan-out core.
//
// This package is internal to plotcast and is the single source of truth for
// ordering: artifacts are totally ordered by push order, all viewers replay
// identical history prefixes, and all viewers observe live artifacts in the
// same relative order.
//
// The main components are:
//
//   - [Store]: bounded FIFO-evicting history plus a subscriber registry
//   - [Store.SnapshotAndSubscribe]: the atomic session-initiation step used
//     when a viewer connects (replay set + live feed with no gap between)
//
// Subscribers receive artifacts over buffered channels with non-blocking
// sends; a subscriber that falls behind is dropped from the fan-out and its
// channel closed, so slow viewers never slow down publishers.
//
// Users of the plotcast library should not interact with this package
// directly; history is reachable only through the server handle.
package store
