package input

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/jmylchreest/toastui/internal/model"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1024 * 1024

// LineAdapter turns every non-empty line into a toast. A line starting
// with a variant name and a colon ("danger: disk full") selects that
// variant.
type LineAdapter struct {
	reader   io.Reader
	fallback model.Variant
}

// NewLineAdapter creates a LineAdapter reading r.
func NewLineAdapter(r io.Reader, fallback model.Variant) *LineAdapter {
	return &LineAdapter{reader: r, fallback: model.ParseVariant(string(fallback))}
}

// Name returns the adapter identifier.
func (a *LineAdapter) Name() string {
	return "lines"
}

// Read implements Adapter. Cancellation is noticed between lines.
func (a *LineAdapter) Read(ctx context.Context, fn func(Request) error) error {
	scanner := bufio.NewScanner(a.reader)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		req, ok := a.parseLine(scanner.Text())
		if !ok {
			continue
		}
		if err := fn(req); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return &AdapterError{
			Source:  a.Name(),
			Message: "failed to read input",
			Err:     err,
		}
	}
	return nil
}

func (a *LineAdapter) parseLine(line string) (Request, bool) {
	line = sanitizeString(line)
	if line == "" {
		return Request{}, false
	}

	variant := a.fallback
	if prefix, rest, found := strings.Cut(line, ":"); found {
		if v := model.Variant(strings.ToLower(strings.TrimSpace(prefix))); v.Valid() {
			variant = v
			line = strings.TrimSpace(rest)
		}
	}
	if line == "" {
		return Request{}, false
	}
	return Request{Message: line, Variant: variant}, true
}
