// Package client is the Go client for the six backend. It keeps all
// device-local state under one config directory: the anonymous identity,
// the signed token, and the recent-rooms history.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"six/backend/internal/history"
	"six/backend/internal/identity"
	"six/backend/internal/models"
	"six/backend/internal/sealed"
)

// Client talks to a six backend.
type Client struct {
	BaseURL    string
	ConfigDir  string
	HTTPClient *http.Client

	// Key, when set, seals outgoing text and opens incoming envelopes.
	Key []byte

	Identity *identity.Provider
	History  *history.Cache

	token string
}

// NewClient creates a client storing local state under configDir. An empty
// configDir defaults to SIX_CONFIG or ~/.six.
func NewClient(baseURL, configDir string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if configDir == "" {
		configDir = os.Getenv("SIX_CONFIG")
	}
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".six")
	}

	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		ConfigDir:  configDir,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Identity:   identity.NewProvider(filepath.Join(configDir, "identity")),
		History:    history.NewCache(filepath.Join(configDir, "history.json")),
	}
	if raw, err := os.ReadFile(c.tokenPath()); err == nil {
		c.token = strings.TrimSpace(string(raw))
	}
	return c
}

func (c *Client) tokenPath() string { return filepath.Join(c.ConfigDir, "token") }

// EnsureIdentity returns the anonymous identity, requesting a fresh one
// from the server on first use and persisting it alongside its token.
func (c *Client) EnsureIdentity() (string, error) {
	if c.token != "" {
		return c.Identity.GetOrCreate(), nil
	}

	var resp struct {
		Identity string `json:"identity"`
		Token    string `json:"token"`
	}
	if err := c.do("GET", "/identity", nil, &resp); err != nil {
		return "", err
	}

	c.Identity.Adopt(resp.Identity)
	c.token = resp.Token
	if err := os.MkdirAll(c.ConfigDir, 0o700); err == nil {
		_ = os.WriteFile(c.tokenPath(), []byte(resp.Token+"\n"), 0o600)
	}
	return resp.Identity, nil
}

// CreateRoom opens a room with the caller as creator and records it in the
// local history.
func (c *Client) CreateRoom(name, color string) (*models.Room, error) {
	body := map[string]string{"name": name, "color": color}
	var resp struct {
		Room *models.Room `json:"room"`
	}
	if err := c.do("POST", "/rooms", body, &resp); err != nil {
		return nil, err
	}

	c.History.RecordVisit(history.Entry{
		RoomID:        resp.Room.ID,
		RoomName:      resp.Room.Name,
		CreatedAt:     resp.Room.CreatedAt,
		LastVisitedAt: time.Now(),
		IsCreator:     true,
		Color:         resp.Room.CreatorColor,
	})
	return resp.Room, nil
}

// RoomView is a room plus its closure countdown.
type RoomView struct {
	Room             *models.Room `json:"room"`
	RemainingSeconds int          `json:"remaining_seconds"`
}

// GetRoom fetches a room and how long it has left.
func (c *Client) GetRoom(roomID string) (*RoomView, error) {
	var resp RoomView
	if err := c.do("GET", "/rooms/"+roomID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// JoinRoom attempts to take the guest slot of roomID and records the visit.
func (c *Client) JoinRoom(roomID, color string) (*models.Room, error) {
	body := map[string]string{"color": color}
	var resp struct {
		Room *models.Room `json:"room"`
	}
	if err := c.do("PATCH", "/rooms/"+roomID, body, &resp); err != nil {
		return nil, err
	}

	me := c.Identity.GetOrCreate()
	entry := history.Entry{
		RoomID:        resp.Room.ID,
		RoomName:      resp.Room.Name,
		CreatedAt:     resp.Room.CreatedAt,
		LastVisitedAt: time.Now(),
		IsCreator:     me == resp.Room.CreatorID,
	}
	if entry.IsCreator {
		entry.Color = resp.Room.CreatorColor
	} else if resp.Room.GuestColor != nil {
		entry.Color = *resp.Room.GuestColor
	}
	c.History.RecordVisit(entry)
	return resp.Room, nil
}

// RenameRoom sets the room's display name.
func (c *Client) RenameRoom(roomID, name string) (*models.Room, error) {
	body := map[string]string{"name": name}
	var resp struct {
		Room *models.Room `json:"room"`
	}
	if err := c.do("PATCH", "/rooms/"+roomID+"/name", body, &resp); err != nil {
		return nil, err
	}
	return resp.Room, nil
}

// Messages lists the room's live messages. Sealed content is opened in
// place when the client carries the room key; envelopes that fail to open
// are left as-is so the caller can still see that a message exists.
func (c *Client) Messages(roomID string) ([]models.Message, error) {
	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	if err := c.do("GET", "/rooms/"+roomID+"/messages", nil, &resp); err != nil {
		return nil, err
	}

	if c.Key != nil {
		for i := range resp.Messages {
			if !sealed.IsSealed(resp.Messages[i].Content) {
				continue
			}
			if plain, err := sealed.Open(resp.Messages[i].Content, c.Key); err == nil {
				resp.Messages[i].Content = plain
			}
		}
	}
	return resp.Messages, nil
}

// SendText posts a text message, sealing it first when a room key is set,
// and bumps the room's local history activity.
func (c *Client) SendText(roomID, content string) (*models.Message, error) {
	if c.Key != nil {
		env, err := sealed.Seal(content, c.Key)
		if err != nil {
			return nil, err
		}
		content = env
	}

	body := map[string]string{"content": content}
	var resp struct {
		Message *models.Message `json:"message"`
	}
	if err := c.do("POST", "/rooms/"+roomID+"/messages", body, &resp); err != nil {
		return nil, err
	}
	c.History.RecordMessageActivity(roomID, resp.Message.CreatedAt)
	return resp.Message, nil
}

// SendMedia posts a media message referencing an already-uploaded blob.
func (c *Client) SendMedia(roomID, mediaURL string, mediaType models.MediaType) (*models.Message, error) {
	body := map[string]string{"media_url": mediaURL, "media_type": string(mediaType)}
	var resp struct {
		Message *models.Message `json:"message"`
	}
	if err := c.do("POST", "/rooms/"+roomID+"/messages", body, &resp); err != nil {
		return nil, err
	}
	c.History.RecordMessageActivity(roomID, resp.Message.CreatedAt)
	return resp.Message, nil
}

// MarkRead starts the expiry countdown on a partner message.
func (c *Client) MarkRead(messageID string) (*models.Message, error) {
	var resp struct {
		Message *models.Message `json:"message"`
	}
	if err := c.do("POST", "/messages/"+messageID+"/read", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Message, nil
}

// Reveal passes the tap-to-reveal gate on a media message.
func (c *Client) Reveal(messageID string) (*models.Message, error) {
	var resp struct {
		Message *models.Message `json:"message"`
	}
	if err := c.do("POST", "/messages/"+messageID+"/reveal", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Message, nil
}

// Typing signals that the caller is typing. Returns whether the signal was
// actually sent or throttled away.
func (c *Client) Typing(roomID, color string) (bool, error) {
	body := map[string]string{"color": color}
	var resp struct {
		Sent bool `json:"sent"`
	}
	if err := c.do("POST", "/rooms/"+roomID+"/typing", body, &resp); err != nil {
		return false, err
	}
	return resp.Sent, nil
}

// UploadResult describes a stored blob.
type UploadResult struct {
	URL       string           `json:"url"`
	MediaType models.MediaType `json:"media_type"`
	Size      int64            `json:"size"`
}

// Upload stores a local file as a media blob for roomID.
func (c *Client) Upload(roomID, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("room_id", roomID); err != nil {
		return nil, err
	}
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", c.BaseURL+"/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	var resp UploadResult
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecentRooms returns the local history, most recently visited first.
func (c *Client) RecentRooms() []history.Entry {
	return c.History.List()
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.Unmarshal(raw, &errResp)
		if errResp.Error == "" {
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("six error %d: %s", resp.StatusCode, errResp.Error)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
