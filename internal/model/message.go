package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalIDPrefix namespaces locally assigned message ids so they can never
// collide with server-assigned UUIDs.
const LocalIDPrefix = "local-"

// Message represents a conversation message.
//
// A message is in exactly one of two lifecycle states, distinguished by id
// namespace: confirmed messages carry a server-assigned ID and an empty
// LocalID; pending messages carry a LocalID, an empty ID, and Pending=true.
// Pending messages exist only inside the message store until reconciled.
type Message struct {
	ID             string    `json:"id,omitempty"`
	LocalID        string    `json:"-"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	Pending        bool      `json:"-"`
}

// NewPending builds a locally visible message awaiting server confirmation.
func NewPending(conversationID, senderID, content string) Message {
	return Message{
		LocalID:        LocalIDPrefix + uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
		Pending:        true,
	}
}

// IsLocalID reports whether id belongs to the local id namespace.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// PostMessageRequest is the request to send a new message.
type PostMessageRequest struct {
	Content  string `json:"content"`
	SenderID string `json:"sender_id"`
}

// ListMessagesResponse is the response for listing a conversation's history.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
}
