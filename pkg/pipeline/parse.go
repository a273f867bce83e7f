package pipeline

import (
	"context"
	"os"

	pferrors "github.com/shtaneja28/ProcessFlowBuilder/pkg/errors"
	"github.com/shtaneja28/ProcessFlowBuilder/pkg/schema"
)

// Parse reads the schema text and produces a validated flow document.
// Validation here is structural (grammar, identifiers, references);
// graph integrity is enforced again by the layout engine.
func Parse(ctx context.Context, opts Options) (*schema.Document, error) {
	text, err := loadSchema(opts)
	if err != nil {
		return nil, err
	}

	doc, err := schema.ParseString(text)
	if err != nil {
		return nil, err
	}

	if err := doc.Graph.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// loadSchema returns the schema text from the inline option or from disk.
func loadSchema(opts Options) (string, error) {
	if opts.Schema != "" {
		return opts.Schema, nil
	}

	data, err := os.ReadFile(opts.SchemaFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", pferrors.New(pferrors.ErrCodeFileNotFound, "schema file %s not found", opts.SchemaFile)
		}
		return "", pferrors.Wrap(pferrors.ErrCodeInvalidInput, err, "read %s", opts.SchemaFile)
	}
	return string(data), nil
}
