package graph

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/layout"
)

func computeLayout(t *testing.T) Layout {
	t.Helper()

	fg := buildChain(t)

	cfg := config.Default()
	cfg.Font.Families = nil // deterministic fallback metrics

	eng := layout.New(cfg)
	res, err := eng.Layout(fg)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	return Layout{
		PageWidth:  cfg.Page.Width,
		PageHeight: cfg.Page.Height,
		Graph:      FromFlow(fg),
		Result:     *res,
		Heading:    "Order intake",
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := computeLayout(t)

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}

	back, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}

	if back.PageWidth != l.PageWidth || back.PageHeight != l.PageHeight {
		t.Errorf("page = %gx%g, want %gx%g",
			back.PageWidth, back.PageHeight, l.PageWidth, l.PageHeight)
	}
	if back.Heading != "Order intake" {
		t.Errorf("heading = %q", back.Heading)
	}
	if len(back.Result.Rects) != len(l.Result.Rects) {
		t.Errorf("rects = %d, want %d", len(back.Result.Rects), len(l.Result.Rects))
	}
	if len(back.Result.Connectors) != len(l.Result.Connectors) {
		t.Errorf("connectors = %d, want %d",
			len(back.Result.Connectors), len(l.Result.Connectors))
	}
	for id, want := range l.Result.Rects {
		got, ok := back.Result.Rects[id]
		if !ok {
			t.Fatalf("rect %s missing after round trip", id)
		}
		if got != want {
			t.Errorf("rect %s = %+v, want %+v", id, got, want)
		}
	}
}

func TestMarshalLayoutDeterministic(t *testing.T) {
	l := computeLayout(t)

	first, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := MarshalLayout(l)
		if err != nil {
			t.Fatalf("MarshalLayout: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("marshal %d differs from first", i)
		}
	}
}

func TestUnmarshalLayoutRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "BadJSON",
			input: `{not json}`,
		},
		{
			name:  "NoPageDimensions",
			input: `{"graph": {"nodes": [], "edges": []}, "result": {"rects": {"S": {}}}}`,
		},
		{
			name:  "NoRects",
			input: `{"page_width": 13.33, "page_height": 7.5, "graph": {"nodes": [], "edges": []}, "result": {"rects": {}}}`,
		},
		{
			name: "ShortConnector",
			input: `{
				"page_width": 13.33, "page_height": 7.5,
				"graph": {"nodes": [], "edges": []},
				"result": {
					"rects": {"S": {"x": 1, "y": 1, "w": 3, "h": 1}},
					"connectors": [{"from": "S", "to": "E", "points": [{"x": 1, "y": 1}]}]
				}
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalLayout([]byte(tt.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := computeLayout(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json")

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}

	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(back.Graph.Nodes) != 3 {
		t.Errorf("graph nodes = %d, want 3", len(back.Graph.Nodes))
	}
}

func TestReadLayoutFileNotFound(t *testing.T) {
	if _, err := ReadLayoutFile("nonexistent.json"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}
