package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/model"
)

// ShowFunc posts a toast.
type ShowFunc func(ctx context.Context, message string, variant model.Variant) (model.ID, error)

// InternalNotifier shows toasts about toastui's own events, such as config
// reloads. Repeats of the same key are rate limited.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	show   ShowFunc
	now    func() time.Time

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration
	enabled        bool
}

// NewInternalNotifier creates a notifier that posts through show.
func NewInternalNotifier(show ShowFunc, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		show:           show,
		now:            time.Now,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
	}
}

// SetEnabled enables or disables internal toasts.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between toasts with the same key.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify shows a toast unless the key was used within the minimum interval.
// It reports whether a toast was posted.
func (n *InternalNotifier) Notify(ctx context.Context, key, message string, variant model.Variant) bool {
	n.mu.Lock()
	if !n.enabled || n.show == nil {
		n.mu.Unlock()
		return false
	}
	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal toast rate-limited", "key", key)
		return false
	}
	n.lastNotifyTime[key] = now
	show := n.show
	n.mu.Unlock()

	id, err := show(ctx, message, variant)
	if err != nil {
		n.logger.Warn("failed to show internal toast", "key", key, "error", err)
		return false
	}
	n.logger.Debug("internal toast shown", "key", key, "toast_id", id)
	return true
}

// NotifyConfigReloaded shows an info toast about a successful reload.
func (n *InternalNotifier) NotifyConfigReloaded(ctx context.Context) {
	n.Notify(ctx, "config-reload", "Configuration reloaded", model.VariantInfo)
}

// NotifyConfigError shows a danger toast about a rejected config file.
func (n *InternalNotifier) NotifyConfigError(ctx context.Context, err error) {
	n.Notify(ctx, "config-error", "Configuration error: "+err.Error(), model.VariantDanger)
}

// NotifyThemeError shows a danger toast about a theme that failed to load.
func (n *InternalNotifier) NotifyThemeError(ctx context.Context, name string, err error) {
	n.Notify(ctx, "theme-error", fmt.Sprintf("Theme %q failed to load: %v", name, err), model.VariantDanger)
}
