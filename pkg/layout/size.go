package layout

import (
	"strings"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/fonts"
)

// textInset is the horizontal inset between a box edge and its text, in
// inches, mirrored by the renderer.
const textInset = 0.1

// diamondTextRatio is the fraction of a diamond's width usable for text.
const diamondTextRatio = 0.55

// bulletMarker leads the first rendered line of a bullet detail;
// bulletIndent hangs its continuation lines under the text.
const (
	bulletMarker = "• "
	bulletIndent = "  "
)

// Sizer computes box dimensions from node content. Width comes from the
// kind's width class; height from the wrapped line count at measured
// glyph widths. The same inputs always produce the same size.
type Sizer struct {
	cfg   config.Config
	body  *fonts.Measurer
	title *fonts.Measurer
}

// NewSizer loads font metrics for the configured families and sizes.
func NewSizer(cfg config.Config) *Sizer {
	return &Sizer{
		cfg:   cfg,
		body:  fonts.Load(cfg.Font.Families, cfg.Font.BodySize),
		title: fonts.Load(cfg.Font.Families, cfg.Font.TitleSize),
	}
}

// Body returns the measurer used for box body text.
func (s *Sizer) Body() *fonts.Measurer { return s.body }

// Size returns the width and height for a node.
func (s *Sizer) Size(n *flow.Node) (w, h float64) {
	switch n.Kind {
	case flow.KindStart, flow.KindEnd:
		return s.cfg.Layout.StartEndWidth, s.cfg.Layout.StartEndHeight
	case flow.KindDecision:
		return s.cfg.Layout.BoxWidth, s.decisionHeight(n)
	default:
		return s.cfg.Layout.BoxWidth, s.boxHeight(n)
	}
}

// boxHeight estimates an Action or Information box: every content line is
// wrapped at the inner width, and the total line count converts to inches
// through the measured line height plus configured padding.
func (s *Sizer) boxHeight(n *flow.Node) float64 {
	innerW := s.cfg.Layout.BoxWidth - 2*textInset
	total := 0
	for _, line := range n.Lines() {
		total += len(s.WrapLine(line, innerW))
	}
	h := s.cfg.Font.BoxPadding + float64(total)*s.lineHeight()
	if h < s.cfg.Layout.MinBoxHeight {
		return s.cfg.Layout.MinBoxHeight
	}
	return h
}

// decisionHeight sizes a diamond from its title wrapped at the narrower
// diamond interior, clamped to the configured minimum.
func (s *Sizer) decisionHeight(n *flow.Node) float64 {
	innerW := s.cfg.Layout.BoxWidth * diamondTextRatio
	lines := len(s.Wrap(n.Title, innerW))
	if lines == 0 {
		lines = 1
	}
	h := s.cfg.Font.BoxPadding + float64(lines)*s.lineHeight()*2
	if h < s.cfg.Layout.DecisionMinHeight {
		return s.cfg.Layout.DecisionMinHeight
	}
	return h
}

// WrapLine wraps one body line into exactly the strings the renderer
// draws. Bullet lines carry the marker on the first line and a hanging
// indent on the rest; the wrap width shrinks by the marker width so no
// rendered line exceeds maxW.
func (s *Sizer) WrapLine(line flow.Line, maxW float64) []string {
	if !line.Bullet {
		return s.Wrap(line.Text, maxW)
	}
	wrapped := s.Wrap(line.Text, maxW-s.body.Width(bulletMarker))
	out := make([]string, len(wrapped))
	for i, w := range wrapped {
		if i == 0 {
			out[i] = bulletMarker + w
		} else {
			out[i] = bulletIndent + w
		}
	}
	return out
}

// lineHeight is one body text line in inches, including per-line padding.
func (s *Sizer) lineHeight() float64 {
	return s.body.LineHeight() + s.cfg.Font.LinePad/72
}

// Wrap breaks text into lines no wider than maxW inches at the body size.
//
// Tokens split on whitespace plus '/' and '-' so long compound terms can
// break naturally; a single token wider than the line breaks at character
// level rather than overflowing the box.
func (s *Sizer) Wrap(text string, maxW float64) []string {
	tokens := splitTokens(text)
	if len(tokens) == 0 {
		return []string{""}
	}

	var lines []string
	cur := ""
	for _, tok := range tokens {
		if cur != "" {
			trial := cur + " " + tok
			if s.body.Width(trial) <= maxW {
				cur = trial
				continue
			}
			lines = append(lines, cur)
			cur = ""
		}
		if s.body.Width(tok) > maxW {
			lines, cur = s.breakToken(lines, tok, maxW)
			continue
		}
		cur = tok
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// breakToken splits one overlong token at character boundaries, returning
// the extended line list and the trailing partial line.
func (s *Sizer) breakToken(lines []string, tok string, maxW float64) ([]string, string) {
	piece := ""
	for _, ch := range tok {
		next := piece + string(ch)
		if s.body.Width(next) <= maxW {
			piece = next
			continue
		}
		if piece != "" {
			lines = append(lines, piece)
		}
		piece = string(ch)
	}
	return lines, piece
}

func splitTokens(text string) []string {
	expanded := strings.NewReplacer("/", " / ", "-", " - ").Replace(text)
	return strings.Fields(expanded)
}
