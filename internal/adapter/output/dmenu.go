package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/jmylchreest/toastui/internal/model"
)

// DmenuFormatter formats notifications for dmenu/rofi/fuzzel pickers. The
// first field is always the toast id, so a picked line can be fed back to
// "toastui dismiss".
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs(opts)).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes notifications in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, notifications []model.Notification) error {
	for i, n := range notifications {
		if _, err := fmt.Fprintln(w, f.formatLine(i+1, &n)); err != nil {
			return err
		}
	}
	return nil
}

func (f *DmenuFormatter) formatLine(index int, n *model.Notification) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, n, f.opts)); err == nil {
			return buf.String()
		}
	}

	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	parts := []string{n.ID.String(), variantIcon(n.Variant)}
	if f.opts.ShowTime {
		parts = append(parts, relativeTime(n.CreatedAt, f.opts.now()))
	}
	parts = append(parts, sanitizeMessage(n.Message, f.opts.MaxLen))

	return strings.Join(parts, sep)
}
