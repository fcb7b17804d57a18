package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/model"
)

type shownToast struct {
	message string
	variant model.Variant
}

func recordingShow(out *[]shownToast, err error) ShowFunc {
	return func(_ context.Context, message string, variant model.Variant) (model.ID, error) {
		if err != nil {
			return 0, err
		}
		*out = append(*out, shownToast{message, variant})
		return model.ID(len(*out)), nil
	}
}

func TestInternalNotifier_RateLimitsByKey(t *testing.T) {
	var shown []shownToast
	n := NewInternalNotifier(recordingShow(&shown, nil), nil)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return now }
	ctx := context.Background()

	assert.True(t, n.Notify(ctx, "a", "first", model.VariantInfo))
	assert.False(t, n.Notify(ctx, "a", "repeat", model.VariantInfo))
	assert.True(t, n.Notify(ctx, "b", "other key", model.VariantInfo))

	now = now.Add(5 * time.Second)
	assert.True(t, n.Notify(ctx, "a", "after interval", model.VariantInfo))

	assert.Equal(t, []shownToast{
		{"first", model.VariantInfo},
		{"other key", model.VariantInfo},
		{"after interval", model.VariantInfo},
	}, shown)
}

func TestInternalNotifier_Disabled(t *testing.T) {
	var shown []shownToast
	n := NewInternalNotifier(recordingShow(&shown, nil), nil)
	n.SetEnabled(false)

	assert.False(t, n.Notify(context.Background(), "a", "x", model.VariantInfo))
	assert.Empty(t, shown)
}

func TestInternalNotifier_ShowError(t *testing.T) {
	var shown []shownToast
	n := NewInternalNotifier(recordingShow(&shown, errors.New("loop stopped")), nil)

	assert.False(t, n.Notify(context.Background(), "a", "x", model.VariantInfo))
}

func TestInternalNotifier_ConfigToasts(t *testing.T) {
	var shown []shownToast
	n := NewInternalNotifier(recordingShow(&shown, nil), nil)
	n.SetMinInterval(0)
	ctx := context.Background()

	n.NotifyConfigReloaded(ctx)
	n.NotifyConfigError(ctx, errors.New("invalid position"))

	assert.Equal(t, []shownToast{
		{"Configuration reloaded", model.VariantInfo},
		{"Configuration error: invalid position", model.VariantDanger},
	}, shown)
}

func TestInternalNotifier_ThemeError(t *testing.T) {
	var shown []shownToast
	n := NewInternalNotifier(recordingShow(&shown, nil), nil)

	n.NotifyThemeError(context.Background(), "nord", errors.New("file not found"))

	require.Len(t, shown, 1)
	assert.Equal(t, `Theme "nord" failed to load: file not found`, shown[0].message)
	assert.Equal(t, model.VariantDanger, shown[0].variant)
}
