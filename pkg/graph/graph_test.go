package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

func buildChain(t *testing.T) *flow.Graph {
	t.Helper()
	g := flow.New()
	nodes := []flow.Node{
		{ID: "S1", Kind: flow.KindStart, Title: "Begin"},
		{ID: "A1", Kind: flow.KindAction, Title: "Do work", Details: []flow.Line{
			{Text: "step one", Bullet: true},
			{Text: "step two", Bullet: true},
		}},
		{ID: "E1", Kind: flow.KindEnd, Title: "Done"},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	edges := []flow.Edge{
		{From: "S1", To: "A1"},
		{From: "A1", To: "E1"},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s->%s): %v", e.From, e.To, err)
		}
	}
	return g
}

func TestMarshalGraph(t *testing.T) {
	tests := []struct {
		name      string
		build     func(t *testing.T) *flow.Graph
		wantNodes int
		wantEdges int
		check     func(t *testing.T, g Graph)
	}{
		{
			name:      "Empty",
			build:     func(t *testing.T) *flow.Graph { return flow.New() },
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name:      "Chain",
			build:     buildChain,
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g Graph) {
				if g.Nodes[1].Kind != "action" {
					t.Errorf("kind = %q, want action", g.Nodes[1].Kind)
				}
				if len(g.Nodes[1].Details) != 2 {
					t.Fatalf("details = %d, want 2", len(g.Nodes[1].Details))
				}
				if !g.Nodes[1].Details[0].Bullet {
					t.Error("detail bullet flag lost")
				}
			},
		},
		{
			name: "DecisionLabels",
			build: func(t *testing.T) *flow.Graph {
				g := flow.New()
				g.AddNode(flow.Node{ID: "D", Kind: flow.KindDecision, Title: "OK?"})
				g.AddNode(flow.Node{ID: "Y", Kind: flow.KindEnd, Title: "Yes end"})
				g.AddNode(flow.Node{ID: "N", Kind: flow.KindEnd, Title: "No end"})
				g.AddEdge(flow.Edge{From: "D", To: "Y", Label: "Yes"})
				g.AddEdge(flow.Edge{From: "D", To: "N", Label: "No"})
				return g
			},
			wantNodes: 3,
			wantEdges: 2,
			check: func(t *testing.T, g Graph) {
				if g.Edges[0].Label != "Yes" || g.Edges[1].Label != "No" {
					t.Errorf("labels = %q, %q, want Yes, No", g.Edges[0].Label, g.Edges[1].Label)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build(t)

			data, err := MarshalGraph(g)
			if err != nil {
				t.Fatalf("MarshalGraph: %v", err)
			}

			var result Graph
			if err := json.Unmarshal(data, &result); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			if got := len(result.Nodes); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := len(result.Edges); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}

			if tt.check != nil {
				tt.check(t, result)
			}
		})
	}
}

func TestMarshalGraphPreservesDeclarationOrder(t *testing.T) {
	g := flow.New()
	for _, id := range []string{"Z", "M", "A", "Q"} {
		g.AddNode(flow.Node{ID: id, Kind: flow.KindAction, Title: id})
	}

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	var result Graph
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []string{"Z", "M", "A", "Q"}
	for i, n := range result.Nodes {
		if n.ID != want[i] {
			t.Fatalf("node %d = %s, want %s", i, n.ID, want[i])
		}
	}
}

func TestMarshalGraphDeterministic(t *testing.T) {
	g := buildChain(t)

	first, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := MarshalGraph(g)
		if err != nil {
			t.Fatalf("MarshalGraph: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("marshal %d differs from first", i)
		}
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantErr   bool
		check     func(t *testing.T, g *flow.Graph)
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [
					{"id": "S", "kind": "start", "title": "Begin"},
					{"id": "E", "kind": "end", "title": "Done"}
				],
				"edges": [
					{"from": "S", "to": "E"}
				]
			}`,
			wantNodes: 2,
			wantEdges: 1,
			check: func(t *testing.T, g *flow.Graph) {
				n, ok := g.Node("S")
				if !ok {
					t.Fatal("node S not found")
				}
				if n.Kind != flow.KindStart {
					t.Errorf("kind = %v, want start", n.Kind)
				}
				if n.Title != "Begin" {
					t.Errorf("title = %q, want Begin", n.Title)
				}
			},
		},
		{
			name:      "Empty",
			input:     `{"nodes": [], "edges": []}`,
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name:    "InvalidJSON",
			input:   `{invalid json}`,
			wantErr: true,
		},
		{
			name: "UnknownKind",
			input: `{
				"nodes": [{"id": "X", "kind": "widget"}],
				"edges": []
			}`,
			wantErr: true,
		},
		{
			name: "DanglingEdge",
			input: `{
				"nodes": [{"id": "S", "kind": "start"}],
				"edges": [{"from": "S", "to": "missing"}]
			}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(tt.input)
			g, err := ReadGraph(r)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}

			if got := g.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}

			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestGraphRoundTrip(t *testing.T) {
	g := buildChain(t)

	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	back, err := ReadGraph(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph: %v", err)
	}

	wantIDs := g.NodeIDs()
	gotIDs := back.NodeIDs()
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("nodes = %d, want %d", len(gotIDs), len(wantIDs))
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Errorf("node %d = %s, want %s", i, gotIDs[i], wantIDs[i])
		}
	}

	wantEdges := g.Edges()
	gotEdges := back.Edges()
	if len(gotEdges) != len(wantEdges) {
		t.Fatalf("edges = %d, want %d", len(gotEdges), len(wantEdges))
	}
	for i := range wantEdges {
		if gotEdges[i] != wantEdges[i] {
			t.Errorf("edge %d = %+v, want %+v", i, gotEdges[i], wantEdges[i])
		}
	}

	a, _ := back.Node("A1")
	if len(a.Details) != 2 || a.Details[1].Text != "step two" {
		t.Errorf("details lost in round trip: %+v", a.Details)
	}
}

func TestReadGraphFile(t *testing.T) {
	content := `{
		"nodes": [{"id": "S", "kind": "start", "title": "Begin"}],
		"edges": []
	}`

	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}

	if g.NodeCount() != 1 {
		t.Errorf("nodes = %d, want 1", g.NodeCount())
	}
}

func TestReadGraphFileNotFound(t *testing.T) {
	_, err := ReadGraphFile("nonexistent.json")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestWriteGraph(t *testing.T) {
	g := buildChain(t)

	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}

	var result Graph
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(result.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(result.Nodes))
	}
}

func TestWriteGraphFile(t *testing.T) {
	g := buildChain(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}

	back, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if back.EdgeCount() != 2 {
		t.Errorf("edges = %d, want 2", back.EdgeCount())
	}
}
