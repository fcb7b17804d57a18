// Package config handles configuration file loading and parsing.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Validation errors.
var (
	ErrInvalidPosition    = errors.New("invalid position")
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	ErrInvalidAccent      = errors.New("invalid accent color")
	ErrInvalidRange       = errors.New("value out of range")
)

// Config is the toastui configuration.
// Loaded from ~/.config/toastui/toastui.toml
type Config struct {
	Stack   StackConfig   `toml:"stack"`
	Display DisplayConfig `toml:"display"`
	Theme   ThemeConfig   `toml:"theme"`
	Audio   AudioConfig   `toml:"audio"`
	DBus    DBusConfig    `toml:"dbus"`
}

// StackConfig contains the settings the stack manager reads on every show.
type StackConfig struct {
	Position string   `toml:"position"` // "top-right", "top-left", "bottom-right", "bottom-left"
	Duration Duration `toml:"duration"` // Auto-dismiss delay, "0" disables
}

// DisplayConfig contains popup geometry settings.
type DisplayConfig struct {
	OffsetX       int      `toml:"offset_x"`       // Pixels (or cells) from screen edge
	OffsetY       int      `toml:"offset_y"`       // Pixels (or cells) from screen edge
	Width         int      `toml:"width"`          // Popup width in pixels
	Gap           int      `toml:"gap"`            // Gap between stacked popups
	Monitor       int      `toml:"monitor"`        // 0 = default, 1+ = specific monitor
	Opacity       float64  `toml:"opacity"`        // 0.0-1.0, background opacity
	ExitAnimation Duration `toml:"exit_animation"` // Slide-out duration
	Layout        string   `toml:"layout"`         // Popup layout template name
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string       `toml:"name"`         // Theme name without .css extension
	ColorScheme string       `toml:"color_scheme"` // "system", "light", or "dark"
	Accents     AccentConfig `toml:"accents"`
}

// AccentConfig holds the accent color of each variant as a hex string.
type AccentConfig struct {
	Default string `toml:"default"`
	Success string `toml:"success"`
	Warning string `toml:"warning"`
	Danger  string `toml:"danger"`
	Info    string `toml:"info"`
}

// AudioConfig contains audio cue settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-variant sound file paths.
type SoundConfig struct {
	Default string `toml:"default"`
	Success string `toml:"success"`
	Warning string `toml:"warning"`
	Danger  string `toml:"danger"`
	Info    string `toml:"info"`
}

// DBusConfig contains D-Bus service settings.
type DBusConfig struct {
	// Freedesktop also claims org.freedesktop.Notifications so that
	// notify-send and friends land on the toast stack.
	Freedesktop bool `toml:"freedesktop"`
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Stack: StackConfig{
			Position: string(model.DefaultPosition),
			Duration: Duration(toast.DefaultDuration),
		},
		Display: DisplayConfig{
			OffsetX:       24,
			OffsetY:       24,
			Width:         360,
			Gap:           8,
			Monitor:       0,
			Opacity:       1.0,
			ExitAnimation: Duration(200 * time.Millisecond),
			Layout:        "default",
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
			Accents: AccentConfig{
				Default: "#1a1a1a",
				Success: "#22c55e",
				Warning: "#f59e0b",
				Danger:  "#ef4444",
				Info:    "#7c3aed",
			},
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
		DBus: DBusConfig{
			Freedesktop: false,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toastui", "toastui.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns the default config if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Defaults first, then overlay with file contents
	dec := toml.NewDecoder(bytes.NewReader(data)).EnableUnmarshalerInterface()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed and writes atomically via a temp file.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !model.Position(c.Stack.Position).Valid() {
		return fmt.Errorf("%w %q, must be one of: %v", ErrInvalidPosition, c.Stack.Position, model.Positions())
	}

	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("%w: width must be between 100 and 1000, got %d", ErrInvalidRange, c.Display.Width)
	}
	if c.Display.Opacity < 0 || c.Display.Opacity > 1 {
		return fmt.Errorf("%w: opacity must be between 0 and 1, got %v", ErrInvalidRange, c.Display.Opacity)
	}
	if c.Display.ExitAnimation < 0 {
		return fmt.Errorf("%w: exit_animation must not be negative", ErrInvalidRange)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100, got %d", ErrInvalidRange, c.Audio.Volume)
	}

	validScheme := false
	for _, s := range ValidColorSchemes() {
		if c.Theme.ColorScheme == string(s) {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("%w %q, must be one of: %v", ErrInvalidColorScheme, c.Theme.ColorScheme, ValidColorSchemes())
	}

	for _, v := range model.Variants() {
		if accent := c.Theme.Accents.For(v); !hexColorPattern.MatchString(accent) {
			return fmt.Errorf("%w for %s: %q", ErrInvalidAccent, v, accent)
		}
	}

	return nil
}

// StackSettings returns the stack manager settings described by the config.
func (c *Config) StackSettings() toast.Settings {
	return toast.Settings{
		Position: model.ParsePosition(c.Stack.Position),
		Duration: c.Stack.Duration.Duration(),
	}
}

// For returns the accent color configured for a variant.
// Unknown variants use the default accent.
func (a AccentConfig) For(v model.Variant) string {
	switch v {
	case model.VariantSuccess:
		return a.Success
	case model.VariantWarning:
		return a.Warning
	case model.VariantDanger:
		return a.Danger
	case model.VariantInfo:
		return a.Info
	default:
		return a.Default
	}
}

// For returns the sound file configured for a variant, with ~ expanded.
func (s SoundConfig) For(v model.Variant) string {
	var path string
	switch v {
	case model.VariantSuccess:
		path = s.Success
	case model.VariantWarning:
		path = s.Warning
	case model.VariantDanger:
		path = s.Danger
	case model.VariantInfo:
		path = s.Info
	default:
		path = s.Default
	}
	return ExpandPath(path)
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
