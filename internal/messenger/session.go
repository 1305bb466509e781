package messenger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/identity"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/store"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
)

// Notifier receives recoverable failures (failed sends and fetches) for the
// UI to surface. It may be called from background goroutines.
type Notifier func(err error)

// Session is the upward-facing facade over the stores and the coordinator.
// One Session exists per authenticated user; all state lives here rather
// than in package globals, so tests get isolation for free.
type Session struct {
	user      model.User
	transport Transport
	roster    *identity.Roster
	convs     *store.ConversationStore
	msgs      *store.MessageStore
	coord     *Coordinator
	logger    *logger.Logger
	notify    Notifier

	mu       sync.Mutex
	selected string
}

// NewSession wires up the stores and coordinator for one user.
func NewSession(user model.User, transport Transport, log *logger.Logger, notify Notifier) *Session {
	if notify == nil {
		notify = func(error) {}
	}
	roster := identity.NewRoster()
	convs := store.NewConversationStore(user.ID, roster)
	msgs := store.NewMessageStore()

	return &Session{
		user:      user,
		transport: transport,
		roster:    roster,
		convs:     convs,
		msgs:      msgs,
		coord:     NewCoordinator(transport, msgs, convs, user, log),
		logger:    log,
		notify:    notify,
	}
}

// User returns the authenticated local user.
func (s *Session) User() model.User { return s.user }

// Roster exposes the student roster for identity resolution.
func (s *Session) Roster() *identity.Roster { return s.roster }

// LoadConversations replaces the conversation list from the backend. A
// failed fetch leaves the previous list in place.
func (s *Session) LoadConversations(ctx context.Context) error {
	list, err := s.transport.ListConversations(ctx, s.user.ID)
	if err != nil {
		err = fmt.Errorf("failed to load conversations: %w", err)
		s.notify(err)
		return err
	}
	s.convs.Replace(list)
	return nil
}

// RefreshRoster replaces the student roster from the backend.
func (s *Session) RefreshRoster(ctx context.Context) error {
	students, err := s.transport.ListStudents(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load roster: %w", err)
		s.notify(err)
		return err
	}
	s.roster.Replace(students)
	return nil
}

// SelectConversation fetches a conversation's history and marks it current.
// On failure the previously stored history is kept and returned alongside
// the error.
func (s *Session) SelectConversation(ctx context.Context, conversationID string) ([]model.Message, error) {
	s.mu.Lock()
	s.selected = conversationID
	s.mu.Unlock()

	history, err := s.transport.ListMessages(ctx, conversationID)
	if err != nil {
		err = fmt.Errorf("failed to load history: %w", err)
		s.notify(err)
		return s.msgs.Snapshot(conversationID), err
	}
	s.msgs.Replace(conversationID, history)
	return s.msgs.Snapshot(conversationID), nil
}

// SendMessage submits a message to a conversation. See Coordinator.Send for
// the optimistic protocol. Failures additionally reach the session notifier.
func (s *Session) SendMessage(ctx context.Context, conversationID, content string) (model.Message, <-chan error, error) {
	pending, done, err := s.coord.Send(ctx, conversationID, content)
	if err != nil {
		return model.Message{}, nil, err
	}
	return pending, s.watch(done), nil
}

// StartConversation opens (or reuses) the thread with another user and sends
// the first message.
func (s *Session) StartConversation(ctx context.Context, otherUserID, content string) (model.Conversation, model.Message, <-chan error, error) {
	conv, pending, done, err := s.coord.StartConversation(ctx, otherUserID, content)
	if err != nil {
		return conv, pending, nil, err
	}
	return conv, pending, s.watch(done), nil
}

// watch forwards a reconciliation outcome to the notifier while preserving
// the caller's channel.
func (s *Session) watch(done <-chan error) <-chan error {
	out := make(chan error, 1)
	go func() {
		err := <-done
		if err != nil {
			s.notify(err)
		}
		out <- err
	}()
	return out
}

// Refresh is the poll body: reload the conversation list, the roster, and
// the currently selected conversation's history.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.LoadConversations(ctx); err != nil {
		return err
	}
	if err := s.RefreshRoster(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	selected := s.selected
	s.mu.Unlock()
	if selected == "" {
		return nil
	}

	history, err := s.transport.ListMessages(ctx, selected)
	if err != nil {
		err = fmt.Errorf("failed to refresh history: %w", err)
		s.notify(err)
		return err
	}
	s.msgs.Replace(selected, history)
	return nil
}

// SetFilter applies a display filter over counterpart names.
func (s *Session) SetFilter(text string) {
	s.convs.SetFilter(text)
}

// Conversations returns the deduplicated, filtered conversation view.
func (s *Session) Conversations() []store.ConversationView {
	return s.convs.Snapshot()
}

// Messages returns a snapshot of one conversation's sequence.
func (s *Session) Messages(conversationID string) []model.Message {
	return s.msgs.Snapshot(conversationID)
}

// Conversation returns the raw stored record for one conversation.
func (s *Session) Conversation(conversationID string) (model.Conversation, bool) {
	return s.convs.Get(conversationID)
}

// LogState dumps store sizes at debug level, for troubleshooting.
func (s *Session) LogState() {
	s.logger.Debug("session state",
		zap.Int("conversations", len(s.convs.Snapshot())),
		zap.Int("roster", s.roster.Len()),
	)
}
