package models

import "time"

// Participant is a connected, identity-announced relay client. The ID is the
// server-side connection handle; UserID is the caller-chosen opaque id used
// to address private messages. Neither name nor userId is validated for
// uniqueness.
type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ChatMessage is a broadcast group-chat message. Never persisted; it exists
// only as an in-flight event payload.
type ChatMessage struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// PrivateMessage is a directed message delivered to a single recipient.
type PrivateMessage struct {
	FromUserID   string `json:"fromUserId"`
	FromUserName string `json:"fromUserName"`
	Message      string `json:"message"`
	Timestamp    string `json:"timestamp"`
}

// FileShared notifies connected clients that a file was uploaded. Receivers
// treat it only as a hint to re-query /api/files.
type FileShared struct {
	User      string `json:"user"`
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	IsPublic  bool   `json:"isPublic"`
	Timestamp string `json:"timestamp"`
}

// TypingIndicator is rebroadcast to every connection except the sender.
type TypingIndicator struct {
	User     string `json:"user"`
	IsTyping bool   `json:"isTyping"`
}

// Presence accompanies user-joined and user-left events.
type Presence struct {
	User       *Participant `json:"user"`
	TotalUsers int          `json:"totalUsers"`
}
