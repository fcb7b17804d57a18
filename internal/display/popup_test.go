package display

import (
	"testing"
	"time"

	"github.com/diamondburned/gotk4/pkg/gtk/v4"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastui/internal/model"
)

func TestRemainingFraction(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		lifetime time.Duration
		elapsed  time.Duration
		want     float64
	}{
		{"fresh", 4 * time.Second, 0, 1},
		{"half", 4 * time.Second, 2 * time.Second, 0.5},
		{"expired", 4 * time.Second, 5 * time.Second, 0},
		{"clock skew", 4 * time.Second, -time.Second, 1},
		{"no auto-dismiss", 0, time.Minute, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := remainingFraction(created, tt.lifetime, created.Add(tt.elapsed))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSlideTransition(t *testing.T) {
	assert.Equal(t, gtk.RevealerTransitionTypeSlideLeft, slideTransition(model.PositionTopRight))
	assert.Equal(t, gtk.RevealerTransitionTypeSlideLeft, slideTransition(model.PositionBottomRight))
	assert.Equal(t, gtk.RevealerTransitionTypeSlideRight, slideTransition(model.PositionTopLeft))
	assert.Equal(t, gtk.RevealerTransitionTypeSlideRight, slideTransition(model.PositionBottomLeft))
}
