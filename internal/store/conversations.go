// Package store holds the session's conversation and message state.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/identity"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/metrics"
)

// ConversationView is a conversation enriched with its resolved counterpart,
// ready for rendering.
type ConversationView struct {
	Conversation model.Conversation
	Counterpart  identity.Counterpart
}

// Dedupe collapses conversations that share the same counterpart, keeping the
// most recently updated record of each group. The backend may legitimately
// hold several rows for one pair of people (e.g. redundant "message this
// student" actions); the UI presents one thread per relationship.
//
// Pure over its inputs apart from metrics. Idempotent: Dedupe(Dedupe(x)) has
// the same conversations as Dedupe(x). Conversations whose counterpart cannot
// be determined are keyed by their own id so they never collapse together.
// Ties on UpdatedAt keep the first-seen record; output order is first
// appearance of each counterpart.
func Dedupe(list []model.Conversation, localUserID string, roster *identity.Roster) []ConversationView {
	best := make(map[string]ConversationView, len(list))
	keys := make([]string, 0, len(list))
	dropped := 0

	for _, conv := range list {
		cp := identity.Resolve(conv, localUserID, roster)

		key := cp.UserID
		if !cp.Known {
			key = "conv:" + conv.ID
		}

		existing, ok := best[key]
		if !ok {
			best[key] = ConversationView{Conversation: conv, Counterpart: cp}
			keys = append(keys, key)
			continue
		}
		dropped++
		if conv.UpdatedAt.After(existing.Conversation.UpdatedAt) {
			best[key] = ConversationView{Conversation: conv, Counterpart: cp}
		}
	}

	ordered := make([]ConversationView, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, best[key])
	}

	if dropped > 0 {
		metrics.ConversationsDedupedTotal.Add(float64(dropped))
	}
	return ordered
}

// ConversationStore holds the fetched conversation list for the current user.
// Mutations replace slices wholesale so snapshots handed out earlier are
// never modified underneath a caller.
type ConversationStore struct {
	mu          sync.RWMutex
	localUserID string
	roster      *identity.Roster
	list        []model.Conversation
	filter      string
}

// NewConversationStore creates an empty store for the given local user.
func NewConversationStore(localUserID string, roster *identity.Roster) *ConversationStore {
	return &ConversationStore{localUserID: localUserID, roster: roster}
}

// Replace swaps in a freshly fetched conversation list. Callers only invoke
// this on successful fetches; a failed fetch leaves prior data in place.
func (s *ConversationStore) Replace(list []model.Conversation) {
	next := make([]model.Conversation, len(list))
	copy(next, list)

	s.mu.Lock()
	s.list = next
	s.mu.Unlock()
}

// Upsert adds a conversation or replaces the record with the same id. Used
// by the conversation-creation send path.
func (s *ConversationStore) Upsert(conv model.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Conversation, len(s.list))
	copy(next, s.list)
	for i := range next {
		if next[i].ID == conv.ID {
			next[i] = conv
			s.list = next
			return
		}
	}
	s.list = append(next, conv)
}

// Touch bumps a conversation's UpdatedAt, typically to a confirmed message's
// CreatedAt. Unknown ids are ignored.
func (s *ConversationStore) Touch(conversationID string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Conversation, len(s.list))
	copy(next, s.list)
	for i := range next {
		if next[i].ID == conversationID {
			if t.After(next[i].UpdatedAt) {
				next[i].UpdatedAt = t
			}
			s.list = next
			return
		}
	}
}

// SetFilter sets the display filter applied to counterpart names.
func (s *ConversationStore) SetFilter(text string) {
	s.mu.Lock()
	s.filter = strings.TrimSpace(text)
	s.mu.Unlock()
}

// Get returns the raw conversation record with the given id.
func (s *ConversationStore) Get(conversationID string) (model.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.list {
		if c.ID == conversationID {
			return c, true
		}
	}
	return model.Conversation{}, false
}

// Snapshot returns the deduplicated, filtered view for rendering. Dedup is
// recomputed on every snapshot so list and filter changes are always
// reflected.
func (s *ConversationStore) Snapshot() []ConversationView {
	s.mu.RLock()
	list := s.list
	filter := s.filter
	localUserID := s.localUserID
	roster := s.roster
	s.mu.RUnlock()

	views := Dedupe(list, localUserID, roster)
	if filter == "" {
		return views
	}

	needle := strings.ToLower(filter)
	filtered := make([]ConversationView, 0, len(views))
	for _, v := range views {
		if strings.Contains(strings.ToLower(v.Counterpart.DisplayName), needle) {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
