package theme

import (
	"context"
	"log/slog"
	"sync"

	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
)

// Loader owns the GTK CSS provider for the popups. Load, Apply and the
// hot-reload callbacks touch GTK and run on the main loop.
type Loader struct {
	mu        sync.Mutex
	logger    *slog.Logger
	provider  *gtk.CSSProvider
	themesDir string

	theme   *Theme
	css     string
	accents config.AccentConfig
	watcher *Watcher
}

// NewLoader creates a theme loader reading user themes from ThemesDir.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir()
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
	}

	return &Loader{
		logger:    logger,
		provider:  gtk.NewCSSProvider(),
		themesDir: themesDir,
	}
}

// Load resolves the named theme and loads it with the given accents. A
// missing or broken theme falls back to a bundled one; the returned error
// describes the fallback.
func (l *Loader) Load(name string, accents config.AccentConfig) error {
	t, err := Resolve(name, l.themesDir)

	l.mu.Lock()
	l.theme = t
	l.css = t.CSS
	l.accents = accents
	l.mu.Unlock()

	l.refresh()
	if err != nil {
		l.logger.Warn("theme fallback", "theme", name, "using", t.Name, "error", err)
		return err
	}
	l.logger.Info("loaded theme", "name", t.Name, "bundled", t.Bundled())
	return nil
}

// SetAccents replaces the accent overrides without reloading the theme.
func (l *Loader) SetAccents(accents config.AccentConfig) {
	l.mu.Lock()
	l.accents = accents
	l.mu.Unlock()
	l.refresh()
}

func (l *Loader) refresh() {
	l.mu.Lock()
	css := l.css + "\n" + AccentCSS(l.accents)
	l.mu.Unlock()
	l.provider.LoadFromString(css)
}

// Apply installs the provider on display, or on the default display if nil.
func (l *Loader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	gtk.StyleContextAddProviderForDisplay(display, l.provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	l.logger.Debug("applied theme to display", "name", l.CurrentTheme())
}

// StartHotReload watches the current theme file. Changes are applied on the
// GLib main loop.
func (l *Loader) StartHotReload(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.watcher != nil {
		l.watcher.Stop()
		l.watcher = nil
	}
	if l.theme == nil || l.theme.Bundled() {
		return
	}

	w := NewWatcher(l.theme, l.logger)
	w.SetChangeCallback(func(css string) {
		glib.IdleAdd(func() {
			l.mu.Lock()
			l.css = css
			l.mu.Unlock()
			l.refresh()
			l.logger.Info("hot-reloaded theme", "name", l.CurrentTheme())
		})
	})
	if err := w.Start(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
		return
	}
	l.watcher = w
}

// StopHotReload stops the theme watcher.
func (l *Loader) StopHotReload() {
	l.mu.Lock()
	w := l.watcher
	l.watcher = nil
	l.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// CurrentTheme returns the name of the loaded theme.
func (l *Loader) CurrentTheme() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.theme == nil {
		return ""
	}
	return l.theme.Name
}
