// Package web provides the embedded viewer UI assets for plotcast.
//
// This package uses Go's embed directive to include the viewer single-page
// app at compile time, enabling single-binary deployment without external
// asset files.
//
// The embedded assets are served by the server package at the root path
// ("/") with an index.html fallback for client-side routes. Users of the
// plotcast library should not need to interact with this package directly.
package web

import "embed"

// Assets is an embedded filesystem containing the viewer web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Viewer page with inline CSS and JavaScript
//
//go:embed assets/*
var Assets embed.FS
