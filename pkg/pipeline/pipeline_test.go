package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shtaneja28/ProcessFlowBuilder/pkg/cache"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/config"
	pferrors "github.com/shtaneja28/ProcessFlowBuilder/pkg/errors"
)

const approvalSchema = `
Start: [S1] Request received
Leads to: [A1]

Action: [A1]
Title: Review request
Details: - check completeness
Details: - check budget
Leads to: [D1]

Decision: [D1] Approved?
Path "Yes" -> [E1]
Path "No" -> [A2]

Action: [A2]
Title: Return for rework
Leads to: [E1]

End: [E1] Done
`

func testOptions() Options {
	cfg := config.Default()
	cfg.Font.Families = nil // deterministic fallback metrics
	return Options{
		Schema:  approvalSchema,
		Config:  &cfg,
		Formats: []string{FormatSVG, FormatDOT, FormatJSON},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForParse(t *testing.T) {
	// Missing schema
	opts := Options{}
	if err := opts.ValidateForParse(); err == nil {
		t.Error("Missing schema should fail")
	}

	// Both inline and file
	opts = Options{Schema: "Start: [S] Go", SchemaFile: "flow.txt"}
	if err := opts.ValidateForParse(); err == nil {
		t.Error("Schema and schema_file together should fail")
	}

	// Valid inline
	opts = Options{Schema: "Start: [S] Go"}
	if err := opts.ValidateForParse(); err != nil {
		t.Errorf("Valid inline schema should pass: %v", err)
	}
	if opts.Logger == nil {
		t.Error("Logger default not applied")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Schema: "Start: [S] Go"}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalFormats := opts.Formats
	originalScale := opts.Scale

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if len(opts.Formats) != len(originalFormats) {
		t.Error("Formats changed on second call")
	}
	if opts.Scale != originalScale {
		t.Error("Scale changed on second call")
	}
}

func TestOptionsRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.BoxWidth = -1
	opts := Options{Schema: "Start: [S] Go", Config: &cfg}

	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Error("Invalid config override should fail validation")
	}
}

func TestOptionsCacheKeyInputs(t *testing.T) {
	a := testOptions()
	b := testOptions()
	if a.ConfigHash() != b.ConfigHash() {
		t.Error("ConfigHash should be deterministic")
	}

	cfg := config.Default()
	cfg.Font.Families = nil
	cfg.Layout.ColumnGap = 2.0
	b.Config = &cfg
	if a.ConfigHash() == b.ConfigHash() {
		t.Error("Different configs should hash differently")
	}

	if a.ArtifactKeyOpts("svg") == a.ArtifactKeyOpts("png") {
		t.Error("ArtifactKeyOpts should differ by format")
	}
}

func TestParse(t *testing.T) {
	doc, err := Parse(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Graph.NodeCount() != 5 {
		t.Errorf("nodes = %d, want 5", doc.Graph.NodeCount())
	}
	if doc.Graph.EdgeCount() != 5 {
		t.Errorf("edges = %d, want 5", doc.Graph.EdgeCount())
	}
}

func TestParseMissingFile(t *testing.T) {
	opts := Options{SchemaFile: "does-not-exist.flow"}
	_, err := Parse(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if pferrors.GetCode(err) != pferrors.ErrCodeFileNotFound {
		t.Errorf("code = %s, want FILE_NOT_FOUND", pferrors.GetCode(err))
	}
}

func TestRunnerExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID not set")
	}
	if result.GraphHash == "" {
		t.Error("GraphHash not set")
	}
	if result.Stats.NodeCount != 5 {
		t.Errorf("NodeCount = %d, want 5", result.Stats.NodeCount)
	}

	for _, format := range []string{FormatSVG, FormatDOT, FormatJSON} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("artifact %s empty", format)
		}
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact malformed")
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph flowchart") {
		t.Error("dot artifact malformed")
	}
}

func TestRunnerExecuteDeterministic(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	first, err := runner.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	again, err := runner.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	for _, format := range []string{FormatSVG, FormatDOT, FormatJSON} {
		if !bytes.Equal(first.Artifacts[format], again.Artifacts[format]) {
			t.Errorf("artifact %s differs between runs", format)
		}
	}
	if first.GraphHash != again.GraphHash {
		t.Error("GraphHash differs between runs")
	}
}

func TestRunnerCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ctx := context.Background()

	first, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.ParseHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.ParseHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}

	for _, format := range []string{FormatSVG, FormatDOT, FormatJSON} {
		if !bytes.Equal(first.Artifacts[format], second.Artifacts[format]) {
			t.Errorf("cached artifact %s differs", format)
		}
	}

	// Refresh bypasses every stage's cache
	opts := testOptions()
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.ParseHit || third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run should recompute everywhere: %+v", third.CacheInfo)
	}
}

func TestRunnerExecuteInvalidSchema(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := testOptions()
	opts.Schema = "Action: [A1]\nTitle: Orphan\nLeads to: [missing]\n"

	_, err := runner.Execute(context.Background(), opts)
	if err == nil {
		t.Fatal("expected error for dangling reference")
	}
}
