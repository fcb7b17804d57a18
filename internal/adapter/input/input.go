// Package input provides input adapters that turn text streams into toasts.
package input

import (
	"context"
	"io"
	"strings"

	"github.com/jmylchreest/toastui/internal/model"
)

// Request is one toast read from a source.
type Request struct {
	Message string
	Variant model.Variant
}

// Adapter reads toast requests from a source.
type Adapter interface {
	// Name returns the adapter identifier (e.g., "lines", "json").
	Name() string

	// Read calls fn for every request until the source is exhausted, ctx is
	// done, or fn returns an error. A cancelled read returns ctx.Err().
	Read(ctx context.Context, fn func(Request) error) error
}

// Sources lists the adapter names NewAdapter accepts.
func Sources() []string {
	return []string{"lines", "json"}
}

// NewAdapter creates an Adapter for the named source format reading r.
// Requests without a variant get fallback.
func NewAdapter(source string, r io.Reader, fallback model.Variant) (Adapter, error) {
	switch source {
	case "lines", "":
		return NewLineAdapter(r, fallback), nil
	case "json":
		return NewJSONAdapter(r, fallback), nil
	default:
		return nil, &AdapterError{
			Source:  source,
			Message: "unknown adapter",
		}
	}
}

// AdapterError represents an adapter-related error.
type AdapterError struct {
	Source  string
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Source + ": " + e.Message
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// sanitizeString replaces control characters with spaces and trims the result.
func sanitizeString(s string) string {
	var result strings.Builder
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\t' {
			result.WriteRune(' ')
		} else {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
