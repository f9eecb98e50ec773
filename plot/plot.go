// Package plot defines the artifact model shared by publishers and viewers.
//
// An [Artifact] is one immutable visual payload (a rendered image, a vector
// graphic, a chart-library JSON document, or a raw HTML fragment) plus its
// identity and creation timestamp. Artifacts are created with [New] and
// travel over the wire as JSON; the content variant set is closed and every
// encoder/decoder handles all of it.
package plot

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the content variant carried by an [Artifact].
//
// The set is closed: png, svg, plotly, vega, html. Decoding rejects anything
// else, so a viewer never has to handle an unknown variant.
type Kind string

const (
	// KindPNG is a raster image, base64-encoded in the data field.
	KindPNG Kind = "png"

	// KindSVG is a vector image, raw SVG markup in the data field.
	KindSVG Kind = "svg"

	// KindPlotly is a Plotly figure, raw JSON text in the data field.
	KindPlotly Kind = "plotly"

	// KindVega is a Vega or Vega-Lite spec, raw JSON text in the data field.
	KindVega Kind = "vega"

	// KindHTML is a raw markup fallback for payloads with no richer form.
	KindHTML Kind = "html"
)

// valid reports whether k is one of the closed variant set.
func (k Kind) valid() bool {
	switch k {
	case KindPNG, KindSVG, KindPlotly, KindVega, KindHTML:
		return true
	}
	return false
}

// normalize folds an incoming variant tag to its canonical lowercase form.
// Some publisher clients send capitalized tags ("Png", "Svg"); decoding
// accepts them, while encoding always emits lowercase.
func (k Kind) normalize() Kind {
	return Kind(strings.ToLower(string(k)))
}

// Content is exactly one populated variant of the closed set.
//
// Content values are built with the constructor functions ([PNG], [SVG],
// [PlotlyJSON], [VegaJSON], [HTML]) and are immutable afterwards. The zero
// Content is invalid and rejected on publish.
type Content struct {
	kind Kind
	data string
}

// PNG returns raster image content. The raw bytes are base64-encoded so the
// artifact stays a plain JSON text message on the wire.
func PNG(data []byte) Content {
	return Content{kind: KindPNG, data: base64.StdEncoding.EncodeToString(data)}
}

// SVG returns vector image content holding raw SVG markup.
func SVG(markup string) Content {
	return Content{kind: KindSVG, data: markup}
}

// PlotlyJSON returns chart content holding a Plotly figure as JSON text.
func PlotlyJSON(payload string) Content {
	return Content{kind: KindPlotly, data: payload}
}

// VegaJSON returns chart content holding a Vega/Vega-Lite spec as JSON text.
func VegaJSON(payload string) Content {
	return Content{kind: KindVega, data: payload}
}

// HTML returns raw markup fallback content.
func HTML(markup string) Content {
	return Content{kind: KindHTML, data: markup}
}

// Kind returns the variant tag of the content.
func (c Content) Kind() Kind { return c.kind }

// Data returns the variant payload: base64 text for png, raw text otherwise.
func (c Content) Data() string { return c.data }

// Valid reports whether the content carries a known variant.
func (c Content) Valid() bool { return c.kind.valid() }

// Artifact is one immutable published payload.
//
// ID is process-unique and never reused; Timestamp is milliseconds since the
// Unix epoch, assigned at creation. Both are set by [New] and never change.
type Artifact struct {
	ID        string
	Timestamp int64
	Content   Content
}

// New creates an Artifact from content, assigning a fresh id and the current
// timestamp. Timestamps track creation order but are not guaranteed strictly
// increasing under wall-clock adjustment.
func New(content Content) Artifact {
	return Artifact{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Content:   content,
	}
}

// wireArtifact is the JSON layout shared by the WebSocket stream and the
// publish endpoint: the variant tag in "type", its payload in "data".
type wireArtifact struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Type      Kind   `json:"type"`
	Data      string `json:"data"`
}

// MarshalJSON implements json.Marshaler.
func (a Artifact) MarshalJSON() ([]byte, error) {
	if !a.Content.kind.valid() {
		return nil, fmt.Errorf("plot: cannot encode artifact %s: unknown content kind %q", a.ID, a.Content.kind)
	}
	return json.Marshal(wireArtifact{
		ID:        a.ID,
		Timestamp: a.Timestamp,
		Type:      a.Content.kind,
		Data:      a.Content.data,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Artifact) UnmarshalJSON(b []byte) error {
	var w wireArtifact
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	kind := w.Type.normalize()
	if !kind.valid() {
		return fmt.Errorf("plot: unknown content kind %q", w.Type)
	}
	a.ID = w.ID
	a.Timestamp = w.Timestamp
	a.Content = Content{kind: kind, data: w.Data}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Content) MarshalJSON() ([]byte, error) {
	if !c.kind.valid() {
		return nil, fmt.Errorf("plot: cannot encode unknown content kind %q", c.kind)
	}
	return json.Marshal(struct {
		Type Kind   `json:"type"`
		Data string `json:"data"`
	}{c.kind, c.data})
}

// UnmarshalJSON implements json.Unmarshaler. Variant tags are matched
// case-insensitively; unknown tags and absent data are rejected so malformed
// submissions fail before reaching the store.
func (c *Content) UnmarshalJSON(b []byte) error {
	var w struct {
		Type Kind    `json:"type"`
		Data *string `json:"data"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	kind := w.Type.normalize()
	if !kind.valid() {
		return fmt.Errorf("plot: unknown content kind %q", w.Type)
	}
	if w.Data == nil {
		return fmt.Errorf("plot: content kind %q is missing data", w.Type)
	}
	c.kind = kind
	c.data = *w.Data
	return nil
}
