package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/layout"
)

// =============================================================================
// Layout - Computed Geometry Serialization
// =============================================================================

// Layout is the serialization format for a computed flowchart layout:
// the graph it was computed from plus absolute page geometry.
//
// Page dimensions are carried alongside the geometry so a renderer can
// reproduce the drawing without re-reading the configuration that
// produced it. Warnings survive serialization: a layout staged through a
// file reports the same overflow and fallback diagnostics as a layout
// rendered in-process.
type Layout struct {
	// Page extent in inches.
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`

	// Graph structure, for label text and node kinds at render time.
	Graph Graph `json:"graph"`

	// Computed geometry.
	Result layout.Result `json:"result"`

	// Optional slide heading and legend request carried from the schema.
	Heading string `json:"heading,omitempty"`
	ShowKey bool   `json:"show_key,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
// Map keys are emitted sorted, so identical layouts marshal to
// identical bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks the
// structural invariants a renderer relies on.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.PageWidth <= 0 || l.PageHeight <= 0 {
		return Layout{}, fmt.Errorf("layout has no page dimensions")
	}
	if len(l.Result.Rects) == 0 {
		return Layout{}, fmt.Errorf("layout contains no rectangles")
	}
	for _, c := range l.Result.Connectors {
		if len(c.Points) < 2 {
			return Layout{}, fmt.Errorf("connector %s has fewer than two points", c.EdgeKey())
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
