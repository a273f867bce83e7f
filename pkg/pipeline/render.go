package pipeline

import (
	"fmt"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/graph"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/render"
)

// RenderFromLayout generates output artifacts in the requested formats.
//
// The graph argument is needed only for DOT output; SVG, PNG, PDF and JSON
// render entirely from the serialized layout. Pass nil when no DOT format
// is requested.
func RenderFromLayout(l graph.Layout, g *flow.Graph, opts Options) (map[string][]byte, error) {
	cfg := opts.EffectiveConfig()
	svgOpts := []render.SVGOption{render.WithConfig(cfg)}

	// SVG is the substrate for PNG and PDF; render it once.
	var svg []byte
	needSVG := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(l, svgOpts...)
		}
		return svg
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = needSVG()
		case FormatPNG:
			data, err = render.ToPNG(needSVG(), opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(needSVG())
		case FormatDOT:
			fg := g
			if fg == nil {
				fg, err = graph.ToFlow(l.Graph)
				if err != nil {
					return nil, fmt.Errorf("rebuild graph for dot: %w", err)
				}
			}
			data = []byte(render.ToDOT(fg, render.DOTOptions{
				Detailed: opts.Detailed,
				Palette:  cfg.Palette,
			}))
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(layoutData []byte, g *flow.Graph, opts Options) (map[string][]byte, error) {
	parsed, err := graph.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(parsed, g, opts)
}
