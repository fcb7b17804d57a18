package config

import (
	"sync/atomic"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Holder keeps the live configuration. Readers always see the latest
// successfully loaded config, so settings are read at use time.
type Holder struct {
	v atomic.Pointer[Config]
}

// NewHolder creates a Holder with an initial config. A nil config uses defaults.
func NewHolder(cfg *Config) *Holder {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	h := &Holder{}
	h.v.Store(cfg)
	return h
}

// Load returns the current config.
func (h *Holder) Load() *Config {
	return h.v.Load()
}

// Store replaces the current config.
func (h *Holder) Store(cfg *Config) {
	if cfg != nil {
		h.v.Store(cfg)
	}
}

// Settings implements toast.SettingsFunc.
func (h *Holder) Settings() toast.Settings {
	return h.Load().StackSettings()
}
