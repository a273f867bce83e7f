// Package config holds the static styling and geometry configuration for
// flow diagram layout and rendering.
//
// All values are plain data consumed by the engine and the renderer: page
// geometry, per-kind box width classes, font metrics for height estimation,
// lane clearances, and the color palette. Nothing in here is derived at
// runtime, which keeps the layout engine renderer-agnostic and makes runs
// reproducible.
//
// Configuration is loaded from a TOML document; any field not present
// falls back to the defaults in [Default]. Unknown keys are rejected so
// typos surface instead of silently styling nothing.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	pferrors "github.com/shtaneja28/ProcessFlowBuilder/pkg/errors"
)

// Page describes the drawable slide area in inches.
type Page struct {
	Width        float64 `toml:"width"`
	Height       float64 `toml:"height"`
	MarginLeft   float64 `toml:"margin_left"`
	MarginRight  float64 `toml:"margin_right"`
	MarginTop    float64 `toml:"margin_top"`
	MarginBottom float64 `toml:"margin_bottom"`
}

// UsableWidth returns the horizontal drawable extent.
func (p Page) UsableWidth() float64 { return p.Width - p.MarginLeft - p.MarginRight }

// UsableHeight returns the vertical drawable extent.
func (p Page) UsableHeight() float64 { return p.Height - p.MarginTop - p.MarginBottom }

// Layout describes box sizing classes and spacing, in inches.
type Layout struct {
	BoxWidth          float64 `toml:"box_width"`           // Action/Information/Decision column width
	MinBoxHeight      float64 `toml:"min_box_height"`      // clamp for estimated heights
	DecisionMinHeight float64 `toml:"decision_min_height"` // diamonds never shrink below this
	StartEndWidth     float64 `toml:"start_end_width"`     // lozenge width (narrower than the column)
	StartEndHeight    float64 `toml:"start_end_height"`    // lozenge height (fixed, not estimated)
	ColumnGap         float64 `toml:"column_gap"`          // horizontal gap between columns
	RowGap            float64 `toml:"row_gap"`             // vertical gap between boxes in a column
	DecisionGap       float64 `toml:"decision_gap"`        // extra clearance below decisions with a down branch
	LaneClearance     float64 `toml:"lane_clearance"`      // minimum connector distance from box edges, and lane width
	MaxLaneOffset     int     `toml:"max_lane_offset"`     // bound on the lane-offset search per segment
}

// Font describes the text metrics used for height estimation.
// Family names are tried in order until a system font file is found;
// estimation falls back to ratio metrics when none is.
type Font struct {
	Families   []string `toml:"families"`
	BodySize   float64  `toml:"body_size"`   // points, Action/Information/Decision text
	TitleSize  float64  `toml:"title_size"`  // points, slide heading
	LinePad    float64  `toml:"line_pad"`    // extra points per wrapped line
	BoxPadding float64  `toml:"box_padding"` // inches, vertical padding inside boxes
}

// Palette enumerates the recognized style colors as #RRGGBB strings.
type Palette struct {
	Heading  string `toml:"heading"`
	Start    string `toml:"start"`
	Info     string `toml:"info"`
	Action   string `toml:"action"`
	Decision string `toml:"decision"`
	End      string `toml:"end"`
	Arrows   string `toml:"arrows"`
	Outline  string `toml:"outline"`
	Text     string `toml:"text"`
	Footer   string `toml:"footer"`
}

// Config is the full injected configuration for one run.
type Config struct {
	Page    Page    `toml:"page"`
	Layout  Layout  `toml:"layout"`
	Font    Font    `toml:"font"`
	Palette Palette `toml:"palette"`
}

// Default returns the built-in configuration: a 13.333x7.5 inch widescreen
// slide with 3 inch boxes and the standard process-flow palette.
func Default() Config {
	return Config{
		Page: Page{
			Width:        13.333,
			Height:       7.5,
			MarginLeft:   0.6,
			MarginRight:  0.6,
			MarginTop:    1.1,
			MarginBottom: 0.6,
		},
		Layout: Layout{
			BoxWidth:          3.0,
			MinBoxHeight:      0.7,
			DecisionMinHeight: 1.1,
			StartEndWidth:     1.6,
			StartEndHeight:    0.55,
			ColumnGap:         1.0,
			RowGap:            0.3,
			DecisionGap:       0.25,
			LaneClearance:     0.12,
			MaxLaneOffset:     6,
		},
		Font: Font{
			Families:   []string{"Arial", "Calibri", "Helvetica", "DejaVuSans"},
			BodySize:   9,
			TitleSize:  20,
			LinePad:    2,
			BoxPadding: 0.32,
		},
		Palette: Palette{
			Heading:  "#005077",
			Start:    "#92D050",
			Info:     "#2FC9FF",
			Action:   "#9DC3E6",
			Decision: "#EAB0FA",
			End:      "#FFC000",
			Arrows:   "#4472C4",
			Outline:  "#000000",
			Text:     "#000000",
			Footer:   "#BFBFBF",
		},
	}
}

// Load reads a TOML configuration file, layered over the defaults.
// Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, pferrors.Wrap(pferrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, pferrors.New(pferrors.ErrCodeInvalidConfig,
			"unrecognized keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is geometrically usable.
func (c Config) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"page dimensions", c.Page.Width > 0 && c.Page.Height > 0},
		{"page margins", c.Page.UsableWidth() > 0 && c.Page.UsableHeight() > 0},
		{"box width", c.Layout.BoxWidth > 0},
		{"box heights", c.Layout.MinBoxHeight > 0 && c.Layout.StartEndHeight > 0},
		{"gaps", c.Layout.ColumnGap > 0 && c.Layout.RowGap >= 0},
		{"lane clearance", c.Layout.LaneClearance > 0},
		{"lane offset bound", c.Layout.MaxLaneOffset > 0},
		{"font sizes", c.Font.BodySize > 0 && c.Font.TitleSize > 0},
	}
	for _, chk := range checks {
		if !chk.ok {
			return pferrors.New(pferrors.ErrCodeInvalidConfig, "invalid %s", chk.name)
		}
	}
	for _, col := range []struct {
		key string
		val string
	}{
		{"heading", c.Palette.Heading},
		{"start", c.Palette.Start},
		{"info", c.Palette.Info},
		{"action", c.Palette.Action},
		{"decision", c.Palette.Decision},
		{"end", c.Palette.End},
		{"arrows", c.Palette.Arrows},
		{"outline", c.Palette.Outline},
		{"text", c.Palette.Text},
		{"footer", c.Palette.Footer},
	} {
		if err := validateColor(col.key, col.val); err != nil {
			return err
		}
	}
	return nil
}

func validateColor(key, val string) error {
	if len(val) != 7 || val[0] != '#' {
		return pferrors.New(pferrors.ErrCodeInvalidConfig, "palette.%s: %q is not #RRGGBB", key, val)
	}
	for _, r := range val[1:] {
		isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
		if !isHex {
			return pferrors.New(pferrors.ErrCodeInvalidConfig, "palette.%s: %q is not #RRGGBB", key, val)
		}
	}
	return nil
}

// Fill returns the configured fill color for a node kind name
// (as produced by flow.Kind.String).
func (p Palette) Fill(kind string) string {
	switch kind {
	case "start":
		return p.Start
	case "info":
		return p.Info
	case "action":
		return p.Action
	case "decision":
		return p.Decision
	case "end":
		return p.End
	default:
		return p.Action
	}
}

// String renders the effective configuration as TOML, for --show-config.
func (c Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("<unencodable config: %v>", err)
	}
	return b.String()
}
