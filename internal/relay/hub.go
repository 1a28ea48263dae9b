// Package relay implements the real-time presence and messaging fan-out:
// join/leave notifications, group chat, directed private messages, typing
// indicators, and file-shared hints. Delivery is fire-and-forget with no
// ordering guarantee beyond per-connection transport order.
package relay

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lanshare/backend/internal/models"
)

// Hub tracks connected clients and announced participants and fans events
// out to them. The participant list is read then broadcast without a
// snapshot guarantee; two near-simultaneous joins can each see a list that
// is stale by one entry, which self-heals on the next broadcast.
type Hub struct {
	mu           sync.RWMutex
	clients      map[*Client]struct{}
	participants map[*Client]*models.Participant

	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:      make(map[*Client]struct{}),
		participants: make(map[*Client]*models.Participant),
		upgrader: websocket.Upgrader{
			// LAN deployment; any origin on the network may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handle upgrades the HTTP connection and runs the read loop until the
// client disconnects.
func (h *Hub) Handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{id: uuid.New().String(), conn: conn}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("client connected", zap.String("conn", client.id))

	h.readLoop(client)

	h.disconnect(client)
	conn.Close()
	return nil
}

func (h *Hub) readLoop(client *Client) {
	for {
		var evt Event
		if err := client.conn.ReadJSON(&evt); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("connection error", zap.String("conn", client.id), zap.Error(err))
			}
			return
		}

		switch evt.Event {
		case EventUserJoin:
			h.handleJoin(client, evt.Data)
		case EventChatMessage:
			h.handleChatMessage(client, evt.Data)
		case EventPrivateMessage:
			h.handlePrivateMessage(client, evt.Data)
		case EventTyping:
			h.handleTyping(client, evt.Data)
		case EventFileShared:
			h.handleFileShared(client, evt.Data)
		case EventRequestUsersList:
			_ = client.send(EventUsersList, h.participantList())
		case EventGetUsersList:
			h.broadcast(EventUsersListUpdated, h.participantList())
		default:
			// Unknown events are dropped; the relay never reports
			// operational errors to the client.
		}
	}
}

// handleJoin registers the participant, replies with the current list, and
// broadcasts the join plus an updated list to everyone including the joiner.
func (h *Hub) handleJoin(client *Client, data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	participant := &models.Participant{
		ID:       client.id,
		Name:     p.Name,
		UserID:   p.UserID,
		JoinedAt: time.Now(),
	}

	h.mu.Lock()
	h.participants[client] = participant
	total := len(h.participants)
	h.mu.Unlock()

	h.logger.Info("participant joined",
		zap.String("conn", client.id),
		zap.String("name", p.Name),
		zap.String("userId", p.UserID),
	)

	h.broadcast(EventUserJoined, models.Presence{User: participant, TotalUsers: total})
	_ = client.send(EventUsersList, h.participantList())
	h.broadcast(EventUsersListUpdated, h.participantList())
}

// handleChatMessage fans a group message out to every connection, including
// the sender. Anonymous senders are ignored.
func (h *Hub) handleChatMessage(client *Client, data json.RawMessage) {
	sender, ok := h.participantOf(client)
	if !ok {
		return
	}

	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	h.broadcast(EventChatMessage, models.ChatMessage{
		ID:        uuid.New().String(),
		User:      sender.Name,
		UserID:    sender.UserID,
		Message:   p.Message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// handlePrivateMessage delivers a message to the first participant whose
// userId matches the target. Duplicate userIds are not disambiguated, and a
// message to a userId with no live participant is silently dropped.
func (h *Hub) handlePrivateMessage(client *Client, data json.RawMessage) {
	sender, ok := h.participantOf(client)
	if !ok {
		return
	}

	var p privatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	recipient, ok := h.findByUserID(p.ToUserID)
	if !ok {
		return
	}

	_ = recipient.send(EventPrivateMessage, models.PrivateMessage{
		FromUserID:   sender.UserID,
		FromUserName: sender.Name,
		Message:      p.Message,
		Timestamp:    time.Now().Format(time.RFC3339),
	})
}

// handleTyping rebroadcasts the indicator to every connection except the
// sender. No buffering or coalescing; clearing a stale indicator is the
// client's job.
func (h *Hub) handleTyping(client *Client, data json.RawMessage) {
	sender, ok := h.participantOf(client)
	if !ok {
		return
	}

	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	h.broadcastExcept(client, EventTyping, models.TypingIndicator{
		User:     sender.Name,
		IsTyping: p.IsTyping,
	})
}

// handleFileShared relays an upload notification to everyone. It does not
// touch the content store; receivers re-query /api/files for truth.
func (h *Hub) handleFileShared(client *Client, data json.RawMessage) {
	sender, ok := h.participantOf(client)
	if !ok {
		return
	}

	var p fileSharedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	h.broadcast(EventFileShared, models.FileShared{
		User:      sender.Name,
		FileName:  p.FileName,
		FileSize:  p.FileSize,
		IsPublic:  p.IsPublic,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// disconnect removes the client; if it had announced, everyone is told it
// left and gets an updated list.
func (h *Hub) disconnect(client *Client) {
	h.mu.Lock()
	participant, announced := h.participants[client]
	delete(h.participants, client)
	delete(h.clients, client)
	total := len(h.participants)
	h.mu.Unlock()

	h.logger.Info("client disconnected", zap.String("conn", client.id))

	if !announced {
		return
	}

	h.broadcast(EventUserLeft, models.Presence{User: participant, TotalUsers: total})
	h.broadcast(EventUsersListUpdated, h.participantList())
}

// participantOf returns the announced identity for a connection, if any.
func (h *Hub) participantOf(client *Client) (*models.Participant, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.participants[client]
	return p, ok
}

// findByUserID returns the first client announced under the given userId.
func (h *Hub) findByUserID(userID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client, p := range h.participants {
		if p.UserID == userID {
			return client, true
		}
	}
	return nil, false
}

// participantList copies the current participant list.
func (h *Hub) participantList() []*models.Participant {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := make([]*models.Participant, 0, len(h.participants))
	for _, p := range h.participants {
		list = append(list, p)
	}
	return list
}

// ParticipantCount returns the number of announced participants.
func (h *Hub) ParticipantCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.participants)
}

// broadcast sends an event to every connection, announced or not.
func (h *Hub) broadcast(event string, payload interface{}) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		_ = client.send(event, payload)
	}
}

// broadcastExcept sends an event to every connection but one.
func (h *Hub) broadcastExcept(skip *Client, event string, payload interface{}) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if client != skip {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		_ = client.send(event, payload)
	}
}
