// Package schema parses the line-oriented flow description format into a
// flow.Graph.
//
// The format declares nodes with explicit IDs and edges by reference:
//
//	Start: [S1] Begin
//	Action: [A1]
//	  Title: Review request
//	  Details: • Check the inputs
//	  Details: • Sign off
//	  Leads to: [D1]
//	Decision: [D1] Approved?
//	  Path "Yes" -> [E1]
//	  Path "No" -> [A1]
//	End: [E1] Done
//
// `Start:`, `End:` and `Decision:` take their display title from the rest
// of the declaration line; `Action:` and `Info:` boxes are titled with an
// explicit `Title:` line. `Information:` is accepted as an alias for
// `Info:`. A node ID may be re-opened by declaring it again, which lets
// edges be attached in a later block. A standalone `ShowKey: true` line
// requests the legend panel. Blank lines and lines matching none of the
// directives are ignored, so schemas can carry free-form commentary.
package schema

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	pferrors "github.com/shtaneja28/ProcessFlowBuilder/pkg/errors"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
)

// ===== Line grammar =====

var (
	nodeRE    = regexp.MustCompile(`(?i)^(Start|End|Decision|Action|Info|Information):\s*\[(.+?)\]\s*(.*)$`)
	detailsRE = regexp.MustCompile(`(?i)^\s*Details:\s*(.*)$`)
	titleRE   = regexp.MustCompile(`(?i)^\s*Title:\s*(.*)$`)
	leadsRE   = regexp.MustCompile(`(?i)^\s*Leads to:\s*\[(.+?)\]\s*$`)
	pathRE    = regexp.MustCompile(`(?i)^\s*Path\s+"(.+?)"\s*->\s*\[(.+?)\]\s*$`)
	showKeyRE = regexp.MustCompile(`(?i)^\s*ShowKey\s*:\s*(true|1|yes)\s*$`)
)

// Document is the result of parsing one schema text.
type Document struct {
	Graph   *flow.Graph
	ShowKey bool
}

// pending accumulates one node's content before graph construction.
// Edges may reference IDs declared later, so nodes are materialized first.
type pending struct {
	id      string
	kind    flow.Kind
	title   string
	details []flow.Line
}

// Parse reads a schema document from r. Structural problems (bad IDs,
// duplicate declarations with conflicting kinds, references to undeclared
// nodes) return an INVALID_SCHEMA error naming the offending line.
func Parse(r io.Reader) (*Document, error) {
	var (
		nodes   []*pending
		byID    = make(map[string]*pending)
		edges   []flow.Edge
		edgeLn  []int
		current *pending
		showKey bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := nodeRE.FindStringSubmatch(line); m != nil {
			kind, err := flow.ParseKind(m[1])
			if err != nil {
				return nil, parseErr(lineNo, "%v", err)
			}
			id := strings.TrimSpace(m[2])
			if err := pferrors.ValidateNodeID(id); err != nil {
				return nil, parseErr(lineNo, "node ID %q: %v", id, err)
			}
			rest := strings.TrimSpace(m[3])
			p, seen := byID[id]
			if !seen {
				p = &pending{id: id, kind: kind}
				byID[id] = p
				nodes = append(nodes, p)
			} else if p.kind != kind {
				return nil, parseErr(lineNo, "node %q redeclared as %s, previously %s", id, kind, p.kind)
			}
			// Start/End/Decision carry their title on the declaration
			// line; Action/Info titles come from a Title directive.
			if rest != "" {
				switch kind {
				case flow.KindStart, flow.KindEnd, flow.KindDecision:
					p.title = rest
				}
			}
			current = p
			continue
		}

		if m := detailsRE.FindStringSubmatch(line); m != nil && current != nil {
			current.details = append(current.details, detailLine(m[1]))
			continue
		}

		if m := titleRE.FindStringSubmatch(line); m != nil && current != nil {
			current.title = strings.TrimSpace(m[1])
			continue
		}

		if m := leadsRE.FindStringSubmatch(line); m != nil && current != nil {
			edges = append(edges, flow.Edge{From: current.id, To: strings.TrimSpace(m[1])})
			edgeLn = append(edgeLn, lineNo)
			continue
		}

		if m := pathRE.FindStringSubmatch(line); m != nil && current != nil {
			if current.kind != flow.KindDecision {
				return nil, parseErr(lineNo, "Path directive on non-decision node %q", current.id)
			}
			label := strings.TrimSpace(m[1])
			if err := pferrors.ValidatePathLabel(label); err != nil {
				return nil, parseErr(lineNo, "path label %q: %v", label, err)
			}
			edges = append(edges, flow.Edge{From: current.id, To: strings.TrimSpace(m[2]), Label: label})
			edgeLn = append(edgeLn, lineNo)
			continue
		}

		if showKeyRE.MatchString(line) {
			showKey = true
			continue
		}
		// Anything else is commentary.
	}
	if err := sc.Err(); err != nil {
		return nil, pferrors.Wrap(pferrors.ErrCodeInvalidSchema, err, "read schema")
	}

	g := flow.New()
	for _, p := range nodes {
		err := g.AddNode(flow.Node{ID: p.id, Kind: p.kind, Title: p.title, Details: p.details})
		if err != nil {
			return nil, pferrors.Wrap(pferrors.ErrCodeInvalidSchema, err, "node %q", p.id)
		}
	}
	for i, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, pferrors.Wrap(pferrors.ErrCodeDanglingEdge, err, "line %d", edgeLn[i])
		}
	}
	if g.NodeCount() == 0 {
		return nil, pferrors.New(pferrors.ErrCodeInvalidSchema, "schema declares no nodes")
	}
	return &Document{Graph: g, ShowKey: showKey}, nil
}

// ParseString parses a schema held in memory.
func ParseString(text string) (*Document, error) {
	return Parse(strings.NewReader(text))
}

// ParseFile parses a schema file from disk.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pferrors.Wrap(pferrors.ErrCodeFileNotFound, err, "schema file")
		}
		return nil, pferrors.Wrap(pferrors.ErrCodeInvalidInput, err, "open schema file")
	}
	defer f.Close()
	return Parse(f)
}

// detailLine classifies a Details payload. A leading bullet marker is
// stripped and recorded on the line so renderers control the glyph.
func detailLine(raw string) flow.Line {
	trimmed := strings.TrimSpace(raw)
	for _, marker := range []string{"•", "- "} {
		if strings.HasPrefix(trimmed, marker) {
			return flow.Line{Text: strings.TrimSpace(strings.TrimPrefix(trimmed, marker)), Bullet: true}
		}
	}
	return flow.Line{Text: raw}
}

func parseErr(line int, format string, args ...any) error {
	return pferrors.New(pferrors.ErrCodeInvalidSchema,
		"line %d: %s", line, fmt.Sprintf(format, args...))
}
