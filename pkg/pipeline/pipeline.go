// Package pipeline provides the core flowchart pipeline for ProcessFlowBuilder.
//
// This package implements the complete parse → layout → render pipeline that
// can be used by the CLI and by library consumers. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read the flowchart schema into a validated graph
//  2. Layout: Compute absolute page geometry for the graph
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    SchemaFile: "checkout.flow",
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	doc, err := runner.Parse(ctx, opts)
//
//	// Layout with an existing graph
//	l, err := runner.GenerateLayout(ctx, doc, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, l, doc.Graph, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/cache"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/flow"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library Consumers
// =============================================================================

const (
	// DefaultScale is the raster scale factor for PNG output.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the flowchart pipeline.
// This struct supports JSON serialization for tooling.
type Options struct {
	// Parse options. Exactly one of Schema (inline text) or SchemaFile
	// is required.
	Schema     string `json:"schema,omitempty"`
	SchemaFile string `json:"schema_file,omitempty"`
	Refresh    bool   `json:"refresh,omitempty"`

	// Layout options
	Heading string `json:"heading,omitempty"` // slide heading above the diagram

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`    // raster scale factor for PNG
	Detailed bool     `json:"detailed,omitempty"` // include detail lines in DOT labels
	Key      bool     `json:"key,omitempty"`      // force the legend even when the schema omits ShowKey

	// Runtime options (not serialized)
	Config *config.Config `json:"-"`
	Logger *log.Logger    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`

	// effective is the resolved configuration, set during validation.
	effective config.Config `json:"-"`
	resolved  bool          `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this execution in logs.
	RunID string

	// Graph is the parsed flow graph.
	Graph *flow.Graph

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// Layout contains the computed geometry plus page extent.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Warnings   int // overflow and routing diagnostics carried by the layout
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.SetLayoutDefaults(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if o.Schema == "" && o.SchemaFile == "" {
		return fmt.Errorf("schema or schema_file is required")
	}
	if o.Schema != "" && o.SchemaFile != "" {
		return fmt.Errorf("schema and schema_file are mutually exclusive")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults resolves the effective configuration for layout
// computation, validating any caller-supplied override.
func (o *Options) SetLayoutDefaults() error {
	if !o.resolved {
		if o.Config != nil {
			if err := o.Config.Validate(); err != nil {
				return err
			}
			o.effective = *o.Config
		} else {
			o.effective = config.Default()
		}
		o.resolved = true
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	return o.SetLayoutDefaults()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.SetLayoutDefaults(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// EffectiveConfig returns the resolved configuration. Call after one of
// the validation methods.
func (o *Options) EffectiveConfig() config.Config {
	if o.resolved {
		return o.effective
	}
	if o.Config != nil {
		return *o.Config
	}
	return config.Default()
}

// Source names the schema origin for logs and hooks.
func (o *Options) Source() string {
	if o.SchemaFile != "" {
		return o.SchemaFile
	}
	return "<inline>"
}

// ConfigHash returns the content hash of the effective configuration.
func (o *Options) ConfigHash() string {
	return cache.Hash([]byte(o.EffectiveConfig().String()))
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ConfigHash: o.ConfigHash(),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Scale:    o.Scale,
		Detailed: o.Detailed,
	}
}
