package sweeper_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"six/backend/internal/lifecycle"
	"six/backend/internal/models"
	"six/backend/internal/storage/storagetest"
	"six/backend/internal/sweeper"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSweepPurgesAndCloses(t *testing.T) {
	store := new(storagetest.MockStorage)
	purged := []models.Message{
		{ID: "m1", RoomID: "r1"},
		{ID: "m2", RoomID: "r1"},
		{ID: "m3", RoomID: "r9"},
	}
	store.On("DeleteExpiredMessages", t0).Return(purged, nil)
	store.On("PublishEvent", "r1", mock.Anything).Return(nil).Twice()
	store.On("PublishEvent", "r9", mock.MatchedBy(func(ev models.RoomEvent) bool {
		return ev.Type == models.EventMessageDelete && ev.Message != nil && ev.Message.ID == "m3"
	})).Return(nil).Once()
	store.On("ListInactiveRoomIDs", t0.Add(-6*time.Hour)).Return([]string{"r1", "r2"}, nil)
	store.On("CloseRoom", "r1").Return(nil)
	store.On("CloseRoom", "r2").Return(nil)

	s := sweeper.New(store, lifecycle.NewPolicy(6*time.Hour), time.Minute)
	s.Now = func() time.Time { return t0 }
	s.Sweep()

	store.AssertExpectations(t)
}

func TestSweepNothingToDo(t *testing.T) {
	store := new(storagetest.MockStorage)
	store.On("DeleteExpiredMessages", t0).Return([]models.Message{}, nil)
	store.On("ListInactiveRoomIDs", t0.Add(-6*time.Hour)).Return([]string{}, nil)

	s := sweeper.New(store, lifecycle.NewPolicy(6*time.Hour), time.Minute)
	s.Now = func() time.Time { return t0 }
	s.Sweep()

	store.AssertNotCalled(t, "CloseRoom", "r1")
	store.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.Anything)
}

func TestSweepCloseFailureContinues(t *testing.T) {
	store := new(storagetest.MockStorage)
	store.On("DeleteExpiredMessages", t0).Return([]models.Message{}, nil)
	store.On("ListInactiveRoomIDs", t0.Add(-6*time.Hour)).Return([]string{"r1", "r2"}, nil)
	store.On("CloseRoom", "r1").Return(assert.AnError)
	store.On("CloseRoom", "r2").Return(nil)

	s := sweeper.New(store, lifecycle.NewPolicy(6*time.Hour), time.Minute)
	s.Now = func() time.Time { return t0 }
	s.Sweep()

	store.AssertCalled(t, "CloseRoom", "r2")
}
