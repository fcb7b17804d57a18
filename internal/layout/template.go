// Package layout parses the XML templates that arrange the parts of a
// desktop toast popup.
package layout

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ElementType identifies the type of layout element.
type ElementType string

const (
	ElementTypeBox      ElementType = "box"
	ElementTypeIcon     ElementType = "icon"
	ElementTypeMessage  ElementType = "message"
	ElementTypeAge      ElementType = "age"
	ElementTypeClose    ElementType = "close"
	ElementTypeProgress ElementType = "progress"
)

// ValidElements lists all recognized element types.
var ValidElements = map[string]ElementType{
	"box":      ElementTypeBox,
	"icon":     ElementTypeIcon,
	"message":  ElementTypeMessage,
	"age":      ElementTypeAge,
	"close":    ElementTypeClose,
	"progress": ElementTypeProgress,
}

// ErrNoMessage is returned for layouts that would hide the toast text.
var ErrNoMessage = errors.New("layout has no message element")

// LayoutConfig represents the parsed layout structure ready for UI building.
type LayoutConfig struct {
	// Popup width bounds (0 = use config default).
	MinWidth int
	MaxWidth int
	// Child elements, laid out horizontally inside the toast box.
	Elements []LayoutElement
}

// LayoutElement represents a single element in the layout.
type LayoutElement struct {
	Type       ElementType
	Attributes map[string]string
	Children   []LayoutElement
}

// Vertical reports whether a box stacks its children vertically.
func (e LayoutElement) Vertical() bool {
	return strings.EqualFold(e.Attributes["orientation"], "vertical")
}

// Expand reports whether the element takes the spare horizontal space.
func (e LayoutElement) Expand() bool {
	switch strings.ToLower(e.Attributes["expand"]) {
	case "true", "yes", "1":
		return true
	}
	return false
}

// Has reports whether the layout contains an element of type t at any depth.
func (c *LayoutConfig) Has(t ElementType) bool {
	return contains(c.Elements, t)
}

func contains(elements []LayoutElement, t ElementType) bool {
	for _, e := range elements {
		if e.Type == t || contains(e.Children, t) {
			return true
		}
	}
	return false
}

// Validate checks that the layout can show a toast.
func (c *LayoutConfig) Validate() error {
	if !c.Has(ElementTypeMessage) {
		return ErrNoMessage
	}
	if c.MinWidth > 0 && c.MaxWidth > 0 && c.MinWidth > c.MaxWidth {
		return fmt.Errorf("min-width %d exceeds max-width %d", c.MinWidth, c.MaxWidth)
	}
	return nil
}

// ClampWidth limits w to the layout's width bounds.
func (c *LayoutConfig) ClampWidth(w int) int {
	if c.MinWidth > 0 && w < c.MinWidth {
		w = c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	return w
}

// ParseTemplate parses an XML layout template from a reader.
func ParseTemplate(r io.Reader) (*LayoutConfig, error) {
	decoder := xml.NewDecoder(r)

	var config LayoutConfig
	found := false
	for !found {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "popup" {
			return nil, fmt.Errorf("root element must be <popup>, got <%s>", se.Name.Local)
		}

		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "min-width":
				if v, err := parsePixelValue(attr.Value); err == nil {
					config.MinWidth = v
				}
			case "max-width":
				if v, err := parsePixelValue(attr.Value); err == nil {
					config.MaxWidth = v
				}
			}
		}

		elements, err := parseElements(decoder)
		if err != nil {
			return nil, err
		}
		config.Elements = elements
		found = true
	}

	if !found {
		return nil, errors.New("template has no <popup> element")
	}
	return &config, nil
}

// parsePixelValue parses a pixel value string (e.g., "300", "300px") to int.
func parsePixelValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

// parseElements recursively parses child elements.
func parseElements(decoder *xml.Decoder) ([]LayoutElement, error) {
	var elements []LayoutElement

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read element: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			elemName := strings.ToLower(t.Name.Local)
			elemType, ok := ValidElements[elemName]
			if !ok {
				return nil, fmt.Errorf("unknown element type: %s", elemName)
			}

			elem := LayoutElement{
				Type:       elemType,
				Attributes: make(map[string]string),
			}
			for _, attr := range t.Attr {
				elem.Attributes[attr.Name.Local] = attr.Value
			}

			children, err := parseElements(decoder)
			if err != nil {
				return nil, err
			}
			if len(children) > 0 && elemType != ElementTypeBox {
				return nil, fmt.Errorf("element <%s> cannot have children", elemName)
			}
			elem.Children = children

			elements = append(elements, elem)

		case xml.EndElement:
			return elements, nil
		}
	}

	return elements, nil
}

// ParseTemplateString parses a template from a string.
func ParseTemplateString(s string) (*LayoutConfig, error) {
	return ParseTemplate(strings.NewReader(s))
}

// LoadTemplate loads a template from file.
func LoadTemplate(path string) (*LayoutConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseTemplate(f)
}

// LayoutsDir returns the directory for user layout templates.
func LayoutsDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(configDir, "toastui", "layouts"), nil
}

// Loader handles loading layout templates from various sources.
type Loader struct {
	templatesDir string
}

// NewLoader creates a new template loader.
func NewLoader(templatesDir string) *Loader {
	return &Loader{templatesDir: templatesDir}
}

// Load loads a layout template by name.
// Checks the user directory first, then the embedded templates.
func (l *Loader) Load(name string) (*LayoutConfig, error) {
	if name == "" {
		name = "default"
	}

	if l.templatesDir != "" {
		templatePath := filepath.Join(l.templatesDir, name+".xml")
		if _, err := os.Stat(templatePath); err == nil {
			config, err := LoadTemplate(templatePath)
			if err != nil {
				return nil, err
			}
			if err := config.Validate(); err != nil {
				return nil, fmt.Errorf("layout %s: %w", name, err)
			}
			return config, nil
		}
	}

	return Bundled(name)
}

// DefaultLayout returns the default toast layout: icon, message over age,
// and a close button.
func DefaultLayout() *LayoutConfig {
	return &LayoutConfig{
		Elements: []LayoutElement{
			{Type: ElementTypeIcon},
			{
				Type: ElementTypeBox,
				Attributes: map[string]string{
					"orientation": "vertical",
					"expand":      "true",
				},
				Children: []LayoutElement{
					{Type: ElementTypeMessage},
					{Type: ElementTypeAge},
				},
			},
			{Type: ElementTypeClose},
		},
	}
}
