package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved CSS theme.
type Theme struct {
	Name    string    // Theme name without the .css extension
	Path    string    // File path, empty for bundled themes
	CSS     string    // CSS with imports inlined
	ModTime time.Time // Modification time of Path at the last load
}

// Bundled reports whether the theme came from the embedded set.
func (t *Theme) Bundled() bool {
	return t.Path == ""
}

// ThemesDir returns the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "toastui", "themes"), nil
}

// NewTheme loads a theme from a CSS file, inlining its imports.
func NewTheme(name, path string) (*Theme, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// NewBundledTheme returns an embedded theme with its imports inlined.
func NewBundledTheme(name string) (*Theme, bool) {
	css, found := GetEmbeddedTheme(name)
	if !found {
		return nil, false
	}
	return &Theme{Name: name, CSS: ProcessImports(css, "", nil)}, true
}

// Resolve finds a theme by name. A file in dir overrides a bundled theme of
// the same name. Unknown names fall back to the default theme and return
// an error describing the miss.
func Resolve(name, dir string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	var userErr error
	if dir != "" {
		path := filepath.Join(dir, name+".css")
		if _, err := os.Stat(path); err == nil {
			t, err := NewTheme(name, path)
			if err == nil {
				return t, nil
			}
			userErr = err
		}
	}

	if t, found := NewBundledTheme(name); found {
		if userErr != nil {
			return t, fmt.Errorf("failed to load user theme %q, using bundled: %w", name, userErr)
		}
		return t, nil
	}

	t, _ := NewBundledTheme(DefaultThemeName)
	if userErr != nil {
		return t, fmt.Errorf("failed to load theme %q: %w", name, userErr)
	}
	return t, fmt.Errorf("theme %q not found, using %s", name, DefaultThemeName)
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir.
// The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		// Extract the file path from the @import statement
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match // Keep original if parsing fails
		}

		importPath := submatch[1]

		// Resolve the path
		var fullPath string
		if filepath.IsAbs(importPath) {
			fullPath = importPath
		} else {
			fullPath = filepath.Join(baseDir, importPath)
		}

		// Prevent circular imports
		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		// Try to read the imported file
		importedCSS, err := os.ReadFile(fullPath)
		if err != nil {
			// Check if it's an embedded partial (files starting with underscore)
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				// Try embedded partials
				if embeddedCSS, found := GetEmbeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
				}
			}
			// Also try as a regular embedded theme
			themeName := strings.TrimSuffix(baseName, ".css")
			if embeddedCSS, found := GetEmbeddedTheme(themeName); found {
				return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		// Recursively process imports in the imported file
		importedBaseDir := filepath.Dir(fullPath)
		processedImport := ProcessImports(string(importedCSS), importedBaseDir, seen)

		return "/* imported: " + importPath + " */\n" + processedImport
	})
}

// Reload re-reads a file-backed theme if its file is newer than the last
// load. It reports whether the CSS changed.
func (t *Theme) Reload() (bool, error) {
	return t.reload(false)
}

// reload re-reads the theme. With force set the mtime check is skipped,
// since a changed partial leaves the theme's own mtime alone.
func (t *Theme) reload(force bool) (bool, error) {
	if t.Bundled() {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}
	if !force && !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	old := t.CSS
	t.CSS = ProcessImports(string(css), filepath.Dir(t.Path), nil)
	t.ModTime = info.ModTime()

	return old != t.CSS, nil
}

// AccentCSS renders the configured variant accents as rules that override
// the accents a theme ships with. Empty colors are skipped.
func AccentCSS(accents config.AccentConfig) string {
	var b strings.Builder
	b.WriteString("/* accents */\n")
	for _, v := range model.Variants() {
		color := accents.For(v)
		if color == "" {
			continue
		}
		fmt.Fprintf(&b, ".toast.variant-%s { border-left-color: %s; }\n", v, color)
		fmt.Fprintf(&b, ".toast.variant-%s .toast-icon { color: %s; }\n", v, color)
		fmt.Fprintf(&b, ".toast.variant-%s .toast-progress progress { background-color: %s; }\n", v, color)
	}
	return b.String()
}

// ThemeInfo describes an available theme.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool
}

// ListAvailableThemes lists bundled themes followed by the user themes in dir.
// A user theme that shadows a bundled one is listed once, as bundled.
func ListAvailableThemes(dir string) ([]ThemeInfo, error) {
	seen := make(map[string]bool)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes() {
		seen[name] = true
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	if dir == "" {
		return themes, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".css" || strings.HasPrefix(name, "_") {
			continue
		}
		themeName := strings.TrimSuffix(name, ".css")
		if seen[themeName] {
			continue
		}
		seen[themeName] = true
		themes = append(themes, ThemeInfo{Name: themeName, Path: filepath.Join(dir, name)})
	}

	return themes, nil
}
