package store

import (
	"sync"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/metrics"
)

// MessageStore holds, per conversation id, the ordered message sequence:
// server order for fetched history, submission order for pending entries.
//
// Every operation takes the lock once and swaps in a freshly built slice, so
// a snapshot handed to a caller is immutable and a re-entrant reader never
// observes a half-applied update. There is no true parallelism in the client,
// only interleaved async completions, but the same discipline covers both.
type MessageStore struct {
	mu   sync.RWMutex
	seqs map[string][]model.Message
}

// NewMessageStore creates an empty message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{seqs: make(map[string][]model.Message)}
}

// Append inserts a pending message at the end of its conversation's
// sequence. This happens synchronously before the network call, which is
// what makes a send feel instantaneous.
func (s *MessageStore) Append(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seqs[msg.ConversationID]
	next := make([]model.Message, len(seq), len(seq)+1)
	copy(next, seq)
	s.seqs[msg.ConversationID] = append(next, msg)

	if msg.Pending {
		metrics.PendingMessages.Inc()
	}
}

// Confirm replaces the pending message with the given local id by the
// server's confirmed copy, preserving its position. Returns false when no
// such pending message exists — a later full fetch may already have
// superseded the reconciliation, which is a no-op, not an error. When the
// confirmed id already arrived through a fetch the pending entry is dropped
// instead of swapped, so no duplicate is ever rendered.
func (s *MessageStore) Confirm(conversationID, localID string, confirmed model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.seqs[conversationID]
	if !ok {
		return false
	}

	idx := -1
	alreadyFetched := false
	for i, m := range seq {
		if m.Pending && m.LocalID == localID {
			idx = i
		}
		if confirmed.ID != "" && m.ID == confirmed.ID {
			alreadyFetched = true
		}
	}
	if idx < 0 {
		return false
	}

	next := make([]model.Message, 0, len(seq))
	for i, m := range seq {
		if i == idx {
			if alreadyFetched {
				continue
			}
			confirmed.Pending = false
			confirmed.LocalID = ""
			next = append(next, confirmed)
			continue
		}
		next = append(next, m)
	}
	s.seqs[conversationID] = next

	metrics.PendingMessages.Dec()
	return true
}

// Rollback removes a pending message after a failed send. Returns false when
// the local id is no longer present.
func (s *MessageStore) Rollback(conversationID, localID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.seqs[conversationID]
	if !ok {
		return false
	}

	next := make([]model.Message, 0, len(seq))
	found := false
	for _, m := range seq {
		if m.Pending && m.LocalID == localID {
			found = true
			continue
		}
		next = append(next, m)
	}
	if !found {
		return false
	}
	s.seqs[conversationID] = next

	metrics.PendingMessages.Dec()
	return true
}

// Replace overwrites a conversation's history with the server's list — the
// source of truth whenever a fetch completes. Entries still pending locally
// are carried over at the tail in their original order: the server cannot
// know about them yet, and dropping them would lose an in-flight send. A
// pending message removed by an earlier rollback is gone from the sequence
// and is therefore never re-introduced.
func (s *MessageStore) Replace(conversationID string, serverMsgs []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.seqs[conversationID]

	next := make([]model.Message, len(serverMsgs), len(serverMsgs)+2)
	copy(next, serverMsgs)
	for _, m := range seq {
		if m.Pending {
			next = append(next, m)
		}
	}
	s.seqs[conversationID] = next
}

// Snapshot returns a copy of one conversation's sequence.
func (s *MessageStore) Snapshot(conversationID string) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seq, ok := s.seqs[conversationID]
	if !ok {
		return nil
	}
	out := make([]model.Message, len(seq))
	copy(out, seq)
	return out
}

// Len returns the length of one conversation's sequence.
func (s *MessageStore) Len(conversationID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seqs[conversationID])
}
