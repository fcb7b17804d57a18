package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplateString(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		checkLayout func(t *testing.T, config *LayoutConfig)
	}{
		{
			name: "flat row",
			input: `<popup>
				<icon />
				<message />
				<close />
			</popup>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				require.Len(t, config.Elements, 3)
				assert.Equal(t, ElementTypeIcon, config.Elements[0].Type)
				assert.Equal(t, ElementTypeMessage, config.Elements[1].Type)
				assert.Equal(t, ElementTypeClose, config.Elements[2].Type)
			},
		},
		{
			name: "box with orientation attribute",
			input: `<popup>
				<box orientation="vertical" expand="true">
					<message />
					<age />
				</box>
			</popup>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				require.Len(t, config.Elements, 1)
				box := config.Elements[0]
				assert.Equal(t, ElementTypeBox, box.Type)
				assert.True(t, box.Vertical())
				assert.True(t, box.Expand())
				require.Len(t, box.Children, 2)
				assert.Equal(t, ElementTypeAge, box.Children[1].Type)
			},
		},
		{
			name: "width bounds",
			input: `<popup min-width="200px" max-width="400">
				<message />
			</popup>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				assert.Equal(t, 200, config.MinWidth)
				assert.Equal(t, 400, config.MaxWidth)
			},
		},
		{
			name: "all element types",
			input: `<popup>
				<box />
				<icon />
				<message />
				<age />
				<close />
				<progress />
			</popup>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				assert.Len(t, config.Elements, len(ValidElements))
			},
		},
		{
			name:  "empty popup",
			input: `<popup></popup>`,
			checkLayout: func(t *testing.T, config *LayoutConfig) {
				assert.Empty(t, config.Elements)
			},
		},
		{
			name:    "unknown element",
			input:   `<popup><summary /></popup>`,
			wantErr: true,
		},
		{
			name:    "children on a leaf",
			input:   `<popup><message><age /></message></popup>`,
			wantErr: true,
		},
		{
			name:    "wrong root",
			input:   `<toast><message /></toast>`,
			wantErr: true,
		},
		{
			name:    "no root",
			input:   ``,
			wantErr: true,
		},
		{
			name:    "malformed",
			input:   `<popup><message>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseTemplateString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.checkLayout != nil {
				tt.checkLayout(t, config)
			}
		})
	}
}

func TestLayoutConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultLayout().Validate())

	noMessage := &LayoutConfig{Elements: []LayoutElement{{Type: ElementTypeIcon}}}
	assert.ErrorIs(t, noMessage.Validate(), ErrNoMessage)

	badWidth := &LayoutConfig{MinWidth: 400, MaxWidth: 200, Elements: []LayoutElement{{Type: ElementTypeMessage}}}
	assert.Error(t, badWidth.Validate())
}

func TestLayoutConfig_Has(t *testing.T) {
	l := DefaultLayout()
	assert.True(t, l.Has(ElementTypeAge))
	assert.True(t, l.Has(ElementTypeClose))
	assert.False(t, l.Has(ElementTypeProgress))
}

func TestLayoutConfig_ClampWidth(t *testing.T) {
	l := &LayoutConfig{MinWidth: 200, MaxWidth: 400}
	assert.Equal(t, 200, l.ClampWidth(100))
	assert.Equal(t, 300, l.ClampWidth(300))
	assert.Equal(t, 400, l.ClampWidth(900))

	assert.Equal(t, 900, (&LayoutConfig{}).ClampWidth(900))
}

func TestBundled(t *testing.T) {
	names := BundledNames()
	assert.Equal(t, []string{"compact", "default", "progress"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			config, err := Bundled(name)
			require.NoError(t, err)
			assert.True(t, config.Has(ElementTypeMessage))
		})
	}

	_, err := Bundled("missing")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestBundledDefaultMatchesDefaultLayout(t *testing.T) {
	embedded, err := Bundled("default")
	require.NoError(t, err)

	var types func([]LayoutElement) []ElementType
	types = func(elements []LayoutElement) []ElementType {
		var out []ElementType
		for _, e := range elements {
			out = append(out, e.Type)
			out = append(out, types(e.Children)...)
		}
		return out
	}
	assert.Equal(t, types(DefaultLayout().Elements), types(embedded.Elements))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.xml"),
		[]byte(`<popup><message /><close /></popup>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xml"),
		[]byte(`<popup><icon /></popup>`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compact.xml"),
		[]byte(`<popup><message /></popup>`), 0o644))

	l := NewLoader(dir)

	config, err := l.Load("mine")
	require.NoError(t, err)
	assert.Len(t, config.Elements, 2)

	// User templates shadow embedded ones.
	config, err = l.Load("compact")
	require.NoError(t, err)
	assert.Len(t, config.Elements, 1)

	config, err = l.Load("")
	require.NoError(t, err)
	assert.True(t, config.Has(ElementTypeAge))

	_, err = l.Load("broken")
	assert.ErrorIs(t, err, ErrNoMessage)

	_, err = l.Load("missing")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestLoader_NoUserDir(t *testing.T) {
	config, err := NewLoader("").Load("progress")
	require.NoError(t, err)
	assert.True(t, config.Has(ElementTypeProgress))
}
