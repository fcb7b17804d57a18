package input

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/jmylchreest/toastui/internal/model"
)

// JSONAdapter reads a stream of JSON objects, one toast each:
//
//	{"message": "Build finished", "variant": "success"}
//
// "summary" and "body" are accepted in place of "message" and joined
// with a newline, so freedesktop-style payloads can be piped in as is.
type JSONAdapter struct {
	reader   io.Reader
	fallback model.Variant
}

// NewJSONAdapter creates a JSONAdapter reading r.
func NewJSONAdapter(r io.Reader, fallback model.Variant) *JSONAdapter {
	return &JSONAdapter{reader: r, fallback: model.ParseVariant(string(fallback))}
}

// Name returns the adapter identifier.
func (a *JSONAdapter) Name() string {
	return "json"
}

type jsonEntry struct {
	Message string `json:"message"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
	Variant string `json:"variant"`
}

func (e jsonEntry) text() string {
	if e.Message != "" {
		return e.Message
	}
	switch {
	case e.Summary != "" && e.Body != "":
		return e.Summary + "\n" + e.Body
	case e.Summary != "":
		return e.Summary
	default:
		return e.Body
	}
}

// Read implements Adapter. A malformed object ends the stream with an error.
func (a *JSONAdapter) Read(ctx context.Context, fn func(Request) error) error {
	dec := json.NewDecoder(a.reader)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var entry jsonEntry
		err := dec.Decode(&entry)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &AdapterError{
				Source:  a.Name(),
				Message: "failed to parse JSON input",
				Err:     err,
			}
		}

		message := sanitizeString(entry.text())
		if message == "" {
			continue
		}
		variant := a.fallback
		if entry.Variant != "" {
			variant = model.ParseVariant(entry.Variant)
		}
		if err := fn(Request{Message: message, Variant: variant}); err != nil {
			return err
		}
	}
}
