// Package chathub fans the per-room change feed out to connected realtime
// clients. Events enter through Redis pub/sub (so every server instance
// sees every room's feed) and leave through each client's send channel.
package chathub

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"six/backend/internal/metrics"
	"six/backend/internal/models"
	"six/backend/internal/storage"
)

// Manager owns the client registry. All map access happens on the Run
// goroutine; other goroutines talk to it through the channels.
type Manager struct {
	// Clients is keyed by identity plus room: an identity may watch
	// several rooms at once, but holds at most one live subscription per
	// room.
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	// PubSubCh carries change-feed events into the fan-out loop. The Redis
	// listener feeds it in production; tests feed it directly.
	PubSubCh chan models.RoomEvent

	Storage storage.Storage
}

// SubscriptionKey identifies one identity's subscription to one room.
func SubscriptionKey(userID, roomID string) string {
	return userID + "|" + roomID
}

func NewManager(s storage.Storage) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan models.RoomEvent, 64),
		Storage:      s,
	}
}

// Run is the hub's dispatcher loop. It returns when ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for id, client := range m.Clients {
				delete(m.Clients, id)
				client.Close()
			}
			return

		case client := <-m.RegisterCh:
			key := SubscriptionKey(client.GetUserID(), client.GetRoomID())
			if prev, ok := m.Clients[key]; ok {
				prev.Close()
			}
			m.Clients[key] = client
			metrics.WsConnections.Set(float64(len(m.Clients)))
			log.Debug().Str("user_id", client.GetUserID()).Str("room_id", client.GetRoomID()).Msg("client subscribed")

		case client := <-m.UnregisterCh:
			key := SubscriptionKey(client.GetUserID(), client.GetRoomID())
			if current, ok := m.Clients[key]; ok && current == client {
				delete(m.Clients, key)
				client.Close()
			}
			metrics.WsConnections.Set(float64(len(m.Clients)))

		case ev := <-m.PubSubCh:
			m.fanOut(ev)
		}
	}
}

// fanOut delivers an event to every local client watching its room. Typing
// signals are not echoed back to their sender. A client too slow to keep up
// is dropped; it can resubscribe and refetch.
func (m *Manager) fanOut(ev models.RoomEvent) {
	for key, client := range m.Clients {
		if client.GetRoomID() != ev.RoomID {
			continue
		}
		if ev.Type == models.EventTyping && ev.Typing != nil && ev.Typing.SenderID == client.GetUserID() {
			continue
		}
		select {
		case client.GetSendChannel() <- ev:
		default:
			delete(m.Clients, key)
			client.Close()
			log.Warn().Str("user_id", client.GetUserID()).Str("room_id", client.GetRoomID()).Msg("dropped slow realtime client")
		}
	}
}

// StartPubSubListener bridges the Redis change feed into PubSubCh until ctx
// is cancelled. Malformed payloads are skipped, not fatal.
func (m *Manager) StartPubSubListener(ctx context.Context) {
	go func() {
		pubsub := m.Storage.SubscribeToAllRooms()
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.RoomEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Error().Err(err).Msg("malformed change-feed payload")
					continue
				}
				select {
				case m.PubSubCh <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}
