package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"six/backend/internal/models"
)

func TestRollingWindowClosure(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewPolicy(6 * time.Hour)

	room := &models.Room{
		CreatorID:      "c1",
		Status:         models.StatusActive,
		CreatedAt:      t0,
		LastActivityAt: t0,
	}

	// Guest joins one hour in, which bumps the activity clock.
	room.LastActivityAt = t0.Add(time.Hour)

	assert.False(t, p.IsClosed(room, t0.Add(6*time.Hour+59*time.Minute)))
	assert.True(t, p.IsClosed(room, t0.Add(7*time.Hour+time.Minute)))
}

func TestClosureIsOneWay(t *testing.T) {
	t0 := time.Now()
	p := NewPolicy(6 * time.Hour)

	room := &models.Room{
		Status:         models.StatusClosed,
		CreatedAt:      t0,
		LastActivityAt: t0,
	}

	// Stored closure wins even while timestamps still look fresh.
	assert.True(t, p.IsClosed(room, t0.Add(time.Minute)))
	assert.Equal(t, time.Duration(0), p.Remaining(room, t0.Add(time.Minute)))
}

func TestRemaining(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewPolicy(6 * time.Hour)

	room := &models.Room{
		Status:         models.StatusActive,
		CreatedAt:      t0,
		LastActivityAt: t0,
	}

	assert.Equal(t, 6*time.Hour, p.Remaining(room, t0))
	assert.Equal(t, 30*time.Minute, p.Remaining(room, t0.Add(5*time.Hour+30*time.Minute)))
	assert.Equal(t, time.Duration(0), p.Remaining(room, t0.Add(8*time.Hour)))
}

func TestZeroActivityFallsBackToCreation(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	p := NewPolicy(6 * time.Hour)

	room := &models.Room{Status: models.StatusActive, CreatedAt: t0}

	assert.Equal(t, t0.Add(6*time.Hour), p.Deadline(room))
}

func TestNewPolicyDefault(t *testing.T) {
	assert.Equal(t, DefaultRoomTTL, NewPolicy(0).TTL)
}
