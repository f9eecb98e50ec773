package plot

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNew_AssignsIdentity(t *testing.T) {
	before := time.Now().UnixMilli()
	a := New(SVG("<svg/>"))
	after := time.Now().UnixMilli()

	if a.ID == "" {
		t.Error("New() assigned empty ID")
	}
	if a.Timestamp < before || a.Timestamp > after {
		t.Errorf("New() Timestamp = %d, want between %d and %d", a.Timestamp, before, after)
	}
	if a.Content.Kind() != KindSVG {
		t.Errorf("Content.Kind() = %v, want %v", a.Content.Kind(), KindSVG)
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		a := New(HTML("<p/>"))
		if seen[a.ID] {
			t.Fatalf("New() reused ID %q", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestPNG_Base64Encodes(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0xFF}
	c := PNG(raw)

	if c.Kind() != KindPNG {
		t.Errorf("Kind() = %v, want %v", c.Kind(), KindPNG)
	}
	decoded, err := base64.StdEncoding.DecodeString(c.Data())
	if err != nil {
		t.Fatalf("Data() is not valid base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Errorf("decoded payload = %v, want %v", decoded, raw)
	}
}

func TestArtifact_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		content Content
		kind    Kind
		data    string
	}{
		{"png", PNG([]byte{1, 2, 3}), KindPNG, base64.StdEncoding.EncodeToString([]byte{1, 2, 3})},
		{"svg", SVG("<svg viewBox=\"0 0 1 1\"/>"), KindSVG, "<svg viewBox=\"0 0 1 1\"/>"},
		{"plotly", PlotlyJSON(`{"data":[],"layout":{}}`), KindPlotly, `{"data":[],"layout":{}}`},
		{"vega", VegaJSON(`{"mark":"bar"}`), KindVega, `{"mark":"bar"}`},
		{"html", HTML("<b>hi</b>"), KindHTML, "<b>hi</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := New(tt.content)

			encoded, err := json.Marshal(orig)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var got Artifact
			if err := json.Unmarshal(encoded, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			if got.ID != orig.ID {
				t.Errorf("ID = %q, want %q", got.ID, orig.ID)
			}
			if got.Timestamp != orig.Timestamp {
				t.Errorf("Timestamp = %d, want %d", got.Timestamp, orig.Timestamp)
			}
			if got.Content.Kind() != tt.kind {
				t.Errorf("Kind = %v, want %v", got.Content.Kind(), tt.kind)
			}
			if got.Content.Data() != tt.data {
				t.Errorf("Data = %q, want %q", got.Content.Data(), tt.data)
			}
		})
	}
}

func TestArtifact_WireFields(t *testing.T) {
	a := Artifact{ID: "abc", Timestamp: 42, Content: SVG("<svg/>")}

	encoded, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(encoded, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if fields["id"] != "abc" {
		t.Errorf("id = %v, want abc", fields["id"])
	}
	if fields["timestamp"] != float64(42) {
		t.Errorf("timestamp = %v, want 42", fields["timestamp"])
	}
	if fields["type"] != "svg" {
		t.Errorf("type = %v, want svg", fields["type"])
	}
	if fields["data"] != "<svg/>" {
		t.Errorf("data = %v, want <svg/>", fields["data"])
	}
}

func TestArtifact_MarshalUnknownKind(t *testing.T) {
	a := Artifact{ID: "x", Content: Content{kind: "gif", data: "nope"}}
	if _, err := json.Marshal(a); err == nil {
		t.Error("Marshal() with unknown kind should fail")
	}
}

func TestContent_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown kind", `{"type":"gif","data":"x"}`},
		{"missing kind", `{"data":"x"}`},
		{"missing data", `{"type":"svg"}`},
		{"not an object", `"svg"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Content
			if err := json.Unmarshal([]byte(tt.in), &c); err == nil {
				t.Errorf("Unmarshal(%s) should fail", tt.in)
			}
		})
	}
}

func TestContent_UnmarshalEmptyDataAllowed(t *testing.T) {
	// an empty payload is distinct from an absent one
	var c Content
	if err := json.Unmarshal([]byte(`{"type":"html","data":""}`), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if c.Kind() != KindHTML || c.Data() != "" {
		t.Errorf("got kind=%v data=%q, want html with empty data", c.Kind(), c.Data())
	}
}

func TestContent_UnmarshalAcceptsCapitalizedTags(t *testing.T) {
	// some publisher clients send capitalized tags; decode folds them
	tests := []struct {
		in   string
		kind Kind
	}{
		{`{"type":"Png","data":"AQID"}`, KindPNG},
		{`{"type":"Svg","data":"<svg/>"}`, KindSVG},
		{`{"type":"Plotly","data":"{}"}`, KindPlotly},
		{`{"type":"Vega","data":"{}"}`, KindVega},
		{`{"type":"Html","data":"<p/>"}`, KindHTML},
		{`{"type":"HTML","data":"<p/>"}`, KindHTML},
	}

	for _, tt := range tests {
		var c Content
		if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if c.Kind() != tt.kind {
			t.Errorf("Unmarshal(%s) kind = %v, want %v", tt.in, c.Kind(), tt.kind)
		}
	}
}

func TestArtifact_UnmarshalCapitalizedTagReencodesLowercase(t *testing.T) {
	var a Artifact
	if err := json.Unmarshal([]byte(`{"id":"x","timestamp":1,"type":"Png","data":"AQID"}`), &a); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if a.Content.Kind() != KindPNG {
		t.Fatalf("Kind = %v, want %v", a.Content.Kind(), KindPNG)
	}

	encoded, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(encoded, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if fields["type"] != "png" {
		t.Errorf("re-encoded type = %v, want png", fields["type"])
	}
}

func TestArtifact_UnmarshalUnknownKind(t *testing.T) {
	var a Artifact
	err := json.Unmarshal([]byte(`{"id":"x","timestamp":1,"type":"bmp","data":"y"}`), &a)
	if err == nil {
		t.Fatal("Unmarshal() with unknown kind should fail")
	}
	if !strings.Contains(err.Error(), "bmp") {
		t.Errorf("error should name the offending kind, got: %v", err)
	}
}
