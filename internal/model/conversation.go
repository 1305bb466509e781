package model

import (
	"time"
)

// Conversation represents a two-participant messaging thread.
type Conversation struct {
	ID           string    `json:"id"`
	Participants []User    `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastMessage  *Message  `json:"last_message,omitempty"`
}

// Participant returns the participant with the given user id, if present.
func (c Conversation) Participant(userID string) (User, bool) {
	for _, p := range c.Participants {
		if p.ID == userID {
			return p, true
		}
	}
	return User{}, false
}

// CreateConversationRequest is the request to create a new conversation
// between exactly two participants.
type CreateConversationRequest struct {
	ParticipantIDs [2]string `json:"participant_ids"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}
