package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"six/backend/internal/chathub"
	"six/backend/internal/lifecycle"
	"six/backend/internal/media"
	"six/backend/internal/message"
	"six/backend/internal/models"
	"six/backend/internal/presence"
	"six/backend/internal/room"
	"six/backend/internal/storage/storagetest"
)

func newTestRouter(t *testing.T, store *storagetest.MockStorage) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	policy := lifecycle.NewPolicy(6 * time.Hour)
	h := NewHandler(
		room.NewService(store, policy),
		message.NewService(store, policy, 6*time.Minute),
		presence.NewBroadcaster(store),
		media.NewDiskStore(t.TempDir(), "/media"),
		chathub.NewManager(store),
		"test-secret",
	)
	return NewRouter(h, "", true)
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func fetchToken(t *testing.T, r *gin.Engine) (identity, token string) {
	t.Helper()
	w := doJSON(r, "GET", "/identity", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Identity string `json:"identity"`
		Token    string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Identity)
	require.NotEmpty(t, resp.Token)
	return resp.Identity, resp.Token
}

func TestIdentityTokenRoundTrip(t *testing.T) {
	store := new(storagetest.MockStorage)
	r := newTestRouter(t, store)

	identity, token := fetchToken(t, r)

	store.On("SaveRoom", mock.Anything).Return(nil)
	w := doJSON(r, "POST", "/rooms", token, `{}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Room models.Room `json:"room"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, identity, resp.Room.CreatorID)
	assert.Equal(t, models.DefaultCreatorColor, resp.Room.CreatorColor)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	r := newTestRouter(t, new(storagetest.MockStorage))

	w := doJSON(r, "POST", "/rooms", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "POST", "/rooms", "garbage-token", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetRoomStatusMapping(t *testing.T) {
	store := new(storagetest.MockStorage)
	r := newTestRouter(t, store)
	_, token := fetchToken(t, r)

	// Unknown room: 404.
	store.On("GetRoomByID", "missing").Return(nil, nil)
	w := doJSON(r, "GET", "/rooms/missing", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Past the inactivity window: 410.
	stale := &models.Room{
		ID:             "stale",
		CreatorID:      "someone",
		CreatorColor:   models.DefaultCreatorColor,
		Status:         models.StatusActive,
		CreatedAt:      time.Now().Add(-8 * time.Hour),
		LastActivityAt: time.Now().Add(-7 * time.Hour),
	}
	store.On("GetRoomByID", "stale").Return(stale, nil)
	w = doJSON(r, "GET", "/rooms/stale", token, "")
	assert.Equal(t, http.StatusGone, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EXPIRED", resp.Code)
}

func TestJoinFullRoomIsForbidden(t *testing.T) {
	store := new(storagetest.MockStorage)
	r := newTestRouter(t, store)
	_, token := fetchToken(t, r)

	guest := "22222222-2222-2222-2222-222222222222"
	color := models.DefaultGuestColor
	full := &models.Room{
		ID:             "full",
		CreatorID:      "11111111-1111-1111-1111-111111111111",
		CreatorColor:   models.DefaultCreatorColor,
		GuestID:        &guest,
		GuestColor:     &color,
		Status:         models.StatusActive,
		CreatedAt:      time.Now(),
		LastActivityAt: time.Now(),
	}
	store.On("GetRoomByID", "full").Return(full, nil)

	w := doJSON(r, "PATCH", "/rooms/full", token, `{}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ROOM_FULL", resp.Code)
}

func TestTypingIsThrottledPerSender(t *testing.T) {
	store := new(storagetest.MockStorage)
	r := newTestRouter(t, store)
	_, token := fetchToken(t, r)

	store.On("PublishEvent", "room-1", mock.Anything).Return(nil)

	w := doJSON(r, "POST", "/rooms/room-1/typing", token, `{}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	var first struct {
		Sent bool `json:"sent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Sent)

	// Immediately again from the same identity: dropped.
	w = doJSON(r, "POST", "/rooms/room-1/typing", token, `{}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	var second struct {
		Sent bool `json:"sent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.False(t, second.Sent)
}

func TestMarkReadOwnMessageIsRejected(t *testing.T) {
	store := new(storagetest.MockStorage)
	r := newTestRouter(t, store)
	identity, token := fetchToken(t, r)

	own := &models.Message{
		ID:        "m1",
		RoomID:    "room-1",
		SenderID:  identity,
		Kind:      models.KindText,
		Content:   "hi",
		CreatedAt: time.Now(),
	}
	store.On("GetMessageByID", "m1").Return(own, nil)

	w := doJSON(r, "POST", "/messages/m1/read", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
