package relay

import "encoding/json"

// Event names on the wire. Client -> server and server -> client share the
// chat-message, private-message, typing, and file-shared names; direction
// determines the payload shape.
const (
	// Client -> server
	EventUserJoin         = "user-join"
	EventRequestUsersList = "request-users-list"
	EventGetUsersList     = "get-users-list"

	// Both directions
	EventChatMessage    = "chat-message"
	EventPrivateMessage = "private-message"
	EventTyping         = "typing"
	EventFileShared     = "file-shared"

	// Server -> client
	EventUserJoined       = "user-joined"
	EventUserLeft         = "user-left"
	EventUsersList        = "users-list"
	EventUsersListUpdated = "users-list-updated"
)

// Event is the wire envelope for every relay message.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Incoming payloads.

type joinPayload struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

type chatPayload struct {
	Message string `json:"message"`
}

type privatePayload struct {
	ToUserID string `json:"toUserId"`
	Message  string `json:"message"`
}

type typingPayload struct {
	IsTyping bool `json:"isTyping"`
}

type fileSharedPayload struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	IsPublic bool   `json:"isPublic"`
}
