package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastui/internal/model"
)

// PlainFormatter formats notifications as plain text, one per line.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs(opts)).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes notifications as plain text.
func (f *PlainFormatter) Format(w io.Writer, notifications []model.Notification) error {
	for i, n := range notifications {
		if err := f.formatNotification(w, i+1, &n); err != nil {
			return err
		}
	}
	return nil
}

func (f *PlainFormatter) formatNotification(w io.Writer, index int, n *model.Notification) error {
	if f.template != nil {
		if err := f.template.Execute(w, newTemplateData(index, n, f.opts)); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		fmt.Fprintf(&sb, "[%d] ", index)
	}
	fmt.Fprintf(&sb, "#%d %-7s %s", n.ID, n.Variant, sanitizeMessage(n.Message, f.opts.MaxLen))
	if f.opts.ShowTime {
		fmt.Fprintf(&sb, " (%s)", relativeTime(n.CreatedAt, f.opts.now()))
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// templateData provides data for custom templates.
type templateData struct {
	Index        int
	Notification *model.Notification
	RelativeTime string
}

func newTemplateData(index int, n *model.Notification, opts FormatterOptions) templateData {
	return templateData{
		Index:        index,
		Notification: n,
		RelativeTime: relativeTime(n.CreatedAt, opts.now()),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs(opts FormatterOptions) template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return model.Notification{Message: s}.MessageTruncated(maxLen)
		},
		"reltime": func(t time.Time) string {
			return relativeTime(t, opts.now())
		},
		"variantIcon": variantIcon,
	}
}

// variantIcon returns a one-character marker for a variant.
func variantIcon(v model.Variant) string {
	switch v {
	case model.VariantSuccess:
		return "+"
	case model.VariantWarning:
		return "!"
	case model.VariantDanger:
		return "x"
	case model.VariantInfo:
		return "i"
	default:
		return "-"
	}
}

// relativeTime returns a human-readable relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	if now.Sub(t) < time.Second {
		return "now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// sanitizeMessage cleans up message text for single-line display.
func sanitizeMessage(message string, maxLen int) string {
	message = strings.Join(strings.Fields(message), " ")
	return model.Notification{Message: message}.MessageTruncated(maxLen)
}
