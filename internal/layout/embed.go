package layout

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// ErrUnknownLayout is returned for layout names with no bundled template.
var ErrUnknownLayout = errors.New("unknown layout")

// bundled holds the toast layouts shipped with toastui. A user layout with
// the same name shadows the bundled one.
//
//go:embed templates/*.xml
var bundled embed.FS

// Bundled parses and validates the bundled toast layout called name.
func Bundled(name string) (*LayoutConfig, error) {
	data, err := bundled.ReadFile(path.Join("templates", name+".xml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
		}
		return nil, err
	}

	cfg, err := ParseTemplateString(string(data))
	if err != nil {
		return nil, fmt.Errorf("bundled layout %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bundled layout %s: %w", name, err)
	}
	return cfg, nil
}

// BundledNames lists the bundled toast layouts in name order.
func BundledNames() []string {
	matches, _ := fs.Glob(bundled, "templates/*.xml")
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), ".xml"))
	}
	slices.Sort(names)
	return names
}
