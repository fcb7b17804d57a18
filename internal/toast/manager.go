package toast

import (
	"crypto/rand"
	"log/slog"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/model"
)

// DefaultDuration is the auto-dismiss delay used when none is configured.
const DefaultDuration = 4 * time.Second

// Settings are the stack options a Manager reads on every Show.
type Settings struct {
	Position model.Position
	// Duration is the auto-dismiss delay. Zero or negative disables auto-dismiss.
	Duration time.Duration
}

// DefaultSettings returns top-right stacking with a 4s auto-dismiss.
func DefaultSettings() Settings {
	return Settings{
		Position: model.DefaultPosition,
		Duration: DefaultDuration,
	}
}

// SettingsFunc supplies the current settings. It is called at use time, so
// configuration changes apply to the next Show without rebuilding the Manager.
type SettingsFunc func() Settings

// StaticSettings returns a SettingsFunc that always yields s.
func StaticSettings(s Settings) SettingsFunc {
	return func() Settings { return s }
}

// entry is the manager's record for one notification. The timer is owned
// exclusively by the manager and is nil once cancelled or fired.
type entry struct {
	n     model.Notification
	timer loop.Timer
}

// Manager owns one notification stack.
type Manager struct {
	stackID  string
	logger   *slog.Logger
	renderer Renderer
	sched    loop.Scheduler
	settings SettingsFunc
	emitter  Emitter
	onClear  []func()
	now      func() time.Time

	ids     IDGenerator
	entries []*entry // insertion order
	index   map[model.ID]*entry
}

// NewManager creates a stack manager drawing through renderer and scheduling
// timers on sched. A nil settings func uses DefaultSettings.
func NewManager(renderer Renderer, sched loop.Scheduler, settings SettingsFunc, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if settings == nil {
		settings = StaticSettings(DefaultSettings())
	}

	stackID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()

	return &Manager{
		stackID:  stackID,
		logger:   logger.With("stack_id", stackID),
		renderer: renderer,
		sched:    sched,
		settings: settings,
		now:      time.Now,
		index:    make(map[model.ID]*entry),
	}
}

// SetEmitter sets the receiver of shown/dismissed events.
func (m *Manager) SetEmitter(e Emitter) {
	m.emitter = e
}

// OnClear registers fn to run at the end of every Clear. Clear emits no
// events, so listeners that track toasts use this to drop their state.
func (m *Manager) OnClear(fn func()) {
	m.onClear = append(m.onClear, fn)
}

// SetClock overrides the wall clock used for CreatedAt stamps.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// StackID returns the ULID identifying this stack instance.
func (m *Manager) StackID() string {
	return m.stackID
}

// Settings returns the settings currently in effect.
func (m *Manager) Settings() Settings {
	s := m.settings()
	if !s.Position.Valid() {
		s.Position = model.DefaultPosition
	}
	return s
}

// Show adds a notification to the stack and returns its ID.
// Unknown variants fall back to the default variant. Show never fails.
func (m *Manager) Show(message string, variant model.Variant) model.ID {
	settings := m.Settings()

	e := &entry{
		n: model.Notification{
			ID:        m.ids.Next(),
			Message:   message,
			Variant:   model.ParseVariant(string(variant)),
			State:     model.StateActive,
			CreatedAt: m.now(),
		},
	}
	id := e.n.ID

	m.entries = append(m.entries, e)
	m.index[id] = e
	m.renderer.Append(e.n, settings.Position)

	if settings.Duration > 0 {
		e.timer = m.sched.AfterFunc(settings.Duration, func() {
			m.expire(id)
		})
	}

	m.logger.Debug("showed toast",
		"toast_id", id,
		"variant", e.n.Variant,
		"position", settings.Position,
		"duration", settings.Duration,
		"active", len(m.entries),
	)

	m.emit(Event{
		Kind:    EventShown,
		ID:      id,
		Message: e.n.Message,
		Variant: e.n.Variant,
	})
	return id
}

// Dismiss starts the exit transition of the notification with the given ID.
// It is a no-op if no active notification has that ID.
func (m *Manager) Dismiss(id model.ID) {
	m.dismiss(id, ReasonDismissed)
}

// expire is the auto-dismiss timer callback.
func (m *Manager) expire(id model.ID) {
	if e, ok := m.index[id]; ok {
		// The timer has fired; there is nothing left to cancel.
		e.timer = nil
	}
	m.dismiss(id, ReasonExpired)
}

func (m *Manager) dismiss(id model.ID, reason DismissReason) {
	e, ok := m.index[id]
	if !ok || e.n.State != model.StateActive {
		return
	}

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.n.State = model.StateExiting

	m.logger.Debug("dismissing toast", "toast_id", id, "reason", reason)

	fired := false
	m.renderer.Exit(id, func() {
		if fired {
			return
		}
		fired = true
		m.finalize(e, reason)
	})
}

// finalize runs when the exit transition of e has finished.
func (m *Manager) finalize(e *entry, reason DismissReason) {
	id := e.n.ID
	if cur, ok := m.index[id]; !ok || cur != e {
		// Cleared or torn down while the transition was playing.
		return
	}

	delete(m.index, id)
	m.entries = slices.DeleteFunc(m.entries, func(x *entry) bool { return x == e })
	m.renderer.Remove(id)

	m.logger.Debug("removed toast", "toast_id", id, "reason", reason, "active", len(m.entries))

	m.emit(Event{
		Kind:   EventDismissed,
		ID:     id,
		Reason: reason,
	})
}

// Clear removes every notification immediately, without exit transitions
// and without emitting dismissed events.
func (m *Manager) Clear() {
	n := m.drop()
	m.renderer.Reset()
	if n > 0 {
		m.logger.Debug("cleared toast stack", "removed", n)
	}
	for _, fn := range m.onClear {
		fn()
	}
}

// Close tears the stack down: every pending timer is cancelled and all
// records are dropped. The renderer is left alone because the host is
// destroying the visual tree itself.
func (m *Manager) Close() {
	n := m.drop()
	m.logger.Debug("closed toast stack", "removed", n)
}

// drop cancels all timers and empties the stack, returning how many entries
// were removed.
func (m *Manager) drop() int {
	n := len(m.entries)
	for _, e := range m.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
	}
	m.entries = nil
	m.index = make(map[model.ID]*entry)
	return n
}

// Len returns the number of notifications in the stack, including exiting ones.
func (m *Manager) Len() int {
	return len(m.entries)
}

// Get returns the notification with the given ID.
func (m *Manager) Get(id model.ID) (model.Notification, bool) {
	e, ok := m.index[id]
	if !ok {
		return model.Notification{}, false
	}
	return e.n, true
}

// Snapshot returns a copy of the stack in insertion order.
func (m *Manager) Snapshot() []model.Notification {
	out := make([]model.Notification, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.n
	}
	return out
}

// Visible returns the stack in top-to-bottom screen order for the current position.
func (m *Manager) Visible() []model.Notification {
	return VisualOrder(m.Snapshot(), m.Settings().Position)
}

func (m *Manager) emit(ev Event) {
	if m.emitter == nil {
		return
	}
	ev.Stack = m.stackID
	m.emitter.Emit(ev)
}
