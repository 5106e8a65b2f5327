package room_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"six/backend/internal/apperr"
	"six/backend/internal/lifecycle"
	"six/backend/internal/models"
	"six/backend/internal/room"
	"six/backend/internal/storage/storagetest"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(store *storagetest.MockStorage) *room.Service {
	svc := room.NewService(store, lifecycle.NewPolicy(6*time.Hour))
	svc.Now = func() time.Time { return t0 }
	return svc
}

func activeRoom(id, creator string) *models.Room {
	return &models.Room{
		ID:             id,
		CreatorID:      creator,
		CreatorColor:   models.DefaultCreatorColor,
		Status:         models.StatusActive,
		CreatedAt:      t0.Add(-time.Hour),
		LastActivityAt: t0.Add(-time.Hour),
	}
}

func TestCreate(t *testing.T) {
	store := new(storagetest.MockStorage)
	store.On("SaveRoom", mock.AnythingOfType("*models.Room")).Return(nil)
	svc := newService(store)

	created, err := svc.Create("c1", "#ff2d92", "late night")
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "c1", created.CreatorID)
	assert.Nil(t, created.GuestID)
	assert.Equal(t, t0, created.LastActivityAt)
}

func TestCreateRejectsUnknownColor(t *testing.T) {
	svc := newService(new(storagetest.MockStorage))

	_, err := svc.Create("c1", "#123456", "")
	assert.ErrorIs(t, err, apperr.ErrBadAccentColor)
}

func TestCreateDefaultsColor(t *testing.T) {
	store := new(storagetest.MockStorage)
	store.On("SaveRoom", mock.AnythingOfType("*models.Room")).Return(nil)
	svc := newService(store)

	created, err := svc.Create("c1", "", "")
	assert.NoError(t, err)
	assert.Equal(t, models.DefaultCreatorColor, created.CreatorColor)
}

func TestGetNotFound(t *testing.T) {
	store := new(storagetest.MockStorage)
	store.On("GetRoomByID", "missing").Return(nil, nil)
	svc := newService(store)

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, apperr.ErrRoomNotFound)
}

func TestGetExpired(t *testing.T) {
	store := new(storagetest.MockStorage)
	stale := activeRoom("r1", "c1")
	stale.LastActivityAt = t0.Add(-7 * time.Hour)
	store.On("GetRoomByID", "r1").Return(stale, nil)
	svc := newService(store)

	_, err := svc.Get("r1")
	assert.ErrorIs(t, err, apperr.ErrRoomExpired)
}

// Creator joining their own room is a no-op, not an error and not a write.
func TestJoinSelfIsNoOp(t *testing.T) {
	store := new(storagetest.MockStorage)
	store.On("GetRoomByID", "r1").Return(activeRoom("r1", "c1"), nil)
	svc := newService(store)

	joined, err := svc.AttemptJoin("r1", "c1", "#ff2d92")
	assert.NoError(t, err)
	assert.Nil(t, joined.GuestID)
	store.AssertNotCalled(t, "ClaimGuestSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinAssignsGuestSlot(t *testing.T) {
	store := new(storagetest.MockStorage)
	empty := activeRoom("r1", "c1")
	guestID, guestColor := "g1", "#00d4ff"
	filled := activeRoom("r1", "c1")
	filled.GuestID = &guestID
	filled.GuestColor = &guestColor
	filled.LastActivityAt = t0

	store.On("GetRoomByID", "r1").Return(empty, nil).Once()
	store.On("ClaimGuestSlot", "r1", "g1", "#00d4ff", t0).Return(true, nil)
	store.On("GetRoomByID", "r1").Return(filled, nil)
	store.On("PublishEvent", "r1", mock.AnythingOfType("models.RoomEvent")).Return(nil)
	svc := newService(store)

	joined, err := svc.AttemptJoin("r1", "g1", "#00d4ff")
	assert.NoError(t, err)
	assert.Equal(t, "g1", *joined.GuestID)
	store.AssertCalled(t, "PublishEvent", "r1", mock.AnythingOfType("models.RoomEvent"))
}

func TestJoinRejectsThirdParty(t *testing.T) {
	store := new(storagetest.MockStorage)
	g1 := "g1"
	taken := activeRoom("r1", "c1")
	taken.GuestID = &g1
	store.On("GetRoomByID", "r1").Return(taken, nil)
	svc := newService(store)

	_, err := svc.AttemptJoin("r1", "g2", "#00d4ff")
	assert.ErrorIs(t, err, apperr.ErrRoomFull)
	store.AssertNotCalled(t, "ClaimGuestSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinEstablishedGuestIsNoOp(t *testing.T) {
	store := new(storagetest.MockStorage)
	g1 := "g1"
	taken := activeRoom("r1", "c1")
	taken.GuestID = &g1
	store.On("GetRoomByID", "r1").Return(taken, nil)
	svc := newService(store)

	joined, err := svc.AttemptJoin("r1", "g1", "#00d4ff")
	assert.NoError(t, err)
	assert.Equal(t, "g1", *joined.GuestID)
	store.AssertNotCalled(t, "ClaimGuestSlot", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// Losing the conditional write to a concurrent join must end in RoomFull,
// never a second guest assignment.
func TestJoinLosesRaceToDistinctParty(t *testing.T) {
	store := new(storagetest.MockStorage)
	other := "g-other"
	won := activeRoom("r1", "c1")
	won.GuestID = &other

	store.On("GetRoomByID", "r1").Return(activeRoom("r1", "c1"), nil).Once()
	store.On("ClaimGuestSlot", "r1", "g1", "#00d4ff", t0).Return(false, nil)
	store.On("GetRoomByID", "r1").Return(won, nil)
	svc := newService(store)

	_, err := svc.AttemptJoin("r1", "g1", "#00d4ff")
	assert.ErrorIs(t, err, apperr.ErrRoomFull)
}

// Losing the write to a duplicate request from the same identity is fine.
func TestJoinLosesRaceToItself(t *testing.T) {
	store := new(storagetest.MockStorage)
	self := "g1"
	won := activeRoom("r1", "c1")
	won.GuestID = &self

	store.On("GetRoomByID", "r1").Return(activeRoom("r1", "c1"), nil).Once()
	store.On("ClaimGuestSlot", "r1", "g1", "#00d4ff", t0).Return(false, nil)
	store.On("GetRoomByID", "r1").Return(won, nil)
	svc := newService(store)

	joined, err := svc.AttemptJoin("r1", "g1", "#00d4ff")
	assert.NoError(t, err)
	assert.Equal(t, "g1", *joined.GuestID)
}

func TestJoinExpiredRoom(t *testing.T) {
	store := new(storagetest.MockStorage)
	stale := activeRoom("r1", "c1")
	stale.LastActivityAt = t0.Add(-7 * time.Hour)
	store.On("GetRoomByID", "r1").Return(stale, nil)
	svc := newService(store)

	_, err := svc.AttemptJoin("r1", "g1", "#00d4ff")
	assert.ErrorIs(t, err, apperr.ErrRoomExpired)
}

func TestRename(t *testing.T) {
	store := new(storagetest.MockStorage)
	store.On("GetRoomByID", "r1").Return(activeRoom("r1", "c1"), nil)
	store.On("UpdateRoomName", "r1", "new name").Return(nil)
	store.On("PublishEvent", "r1", mock.AnythingOfType("models.RoomEvent")).Return(nil)
	svc := newService(store)

	renamed, err := svc.Rename("r1", "c1", "new name")
	assert.NoError(t, err)
	assert.Equal(t, "new name", renamed.Name)
}

func TestRenameTooLong(t *testing.T) {
	svc := newService(new(storagetest.MockStorage))

	_, err := svc.Rename("r1", "c1", strings.Repeat("x", 31))
	assert.ErrorIs(t, err, apperr.ErrNameTooLong)
}

func TestRenameByStranger(t *testing.T) {
	store := new(storagetest.MockStorage)
	store.On("GetRoomByID", "r1").Return(activeRoom("r1", "c1"), nil)
	svc := newService(store)

	_, err := svc.Rename("r1", "someone-else", "hijack")
	assert.ErrorIs(t, err, apperr.ErrRoomNotFound)
	store.AssertNotCalled(t, "UpdateRoomName", mock.Anything, mock.Anything)
}
