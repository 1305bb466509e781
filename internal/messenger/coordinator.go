// Package messenger orchestrates conversation state for the UI layer:
// optimistic sends with reconciliation, list/history fetches, and
// counterpart identity.
package messenger

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/store"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/metrics"
)

// Transport is the backend surface the coordinator depends on. *api.Client
// satisfies it; tests substitute fakes.
type Transport interface {
	ListConversations(ctx context.Context, userID string) ([]model.Conversation, error)
	CreateConversation(ctx context.Context, participantIDs [2]string) (model.Conversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	PostMessage(ctx context.Context, conversationID, content, senderID string) (model.Message, error)
	ListStudents(ctx context.Context) ([]model.StudentProfile, error)
}

// Coordinator runs the optimistic-send protocol. Each submitted message moves
// through Pending and ends Confirmed or rolled back; multiple in-flight sends
// reconcile independently by local id, so one send never perturbs another's
// position.
type Coordinator struct {
	transport     Transport
	messages      *store.MessageStore
	conversations *store.ConversationStore
	user          model.User
	logger        *logger.Logger
}

// NewCoordinator creates a send coordinator for the given local user.
func NewCoordinator(
	transport Transport,
	messages *store.MessageStore,
	conversations *store.ConversationStore,
	user model.User,
	log *logger.Logger,
) *Coordinator {
	return &Coordinator{
		transport:     transport,
		messages:      messages,
		conversations: conversations,
		user:          user,
		logger:        log,
	}
}

// Send validates and submits a message. The pending entry is inserted into
// the message store before Send returns — the UI never waits on the network
// to show the sender's own message. Reconciliation then runs in the
// background; the returned channel yields nil on confirmation or a
// *SendFailure after rollback.
//
// An empty (trimmed) content is rejected immediately with ErrEmptyMessage and
// no channel.
func (c *Coordinator) Send(ctx context.Context, conversationID, content string) (model.Message, <-chan error, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		metrics.RecordSend("rejected")
		return model.Message{}, nil, ErrEmptyMessage
	}

	pending := model.NewPending(conversationID, c.user.ID, trimmed)
	c.messages.Append(pending)

	done := make(chan error, 1)
	go func() {
		done <- c.reconcile(ctx, pending)
	}()
	return pending, done, nil
}

// reconcile performs the network call and converges the store: confirmed
// swap-in-place on success, rollback on failure, and a full history refetch
// as a consistency backstop after a confirmed send.
func (c *Coordinator) reconcile(ctx context.Context, pending model.Message) error {
	confirmed, err := c.transport.PostMessage(ctx, pending.ConversationID, pending.Content, pending.SenderID)
	if err != nil {
		c.messages.Rollback(pending.ConversationID, pending.LocalID)
		metrics.RecordSend("failure")
		c.logger.Warn("send failed, rolled back pending message",
			zap.String("conversation_id", pending.ConversationID),
			zap.Error(err),
		)
		return &SendFailure{
			ConversationID: pending.ConversationID,
			Content:        pending.Content,
			Err:            err,
		}
	}

	if !c.messages.Confirm(pending.ConversationID, pending.LocalID, confirmed) {
		// A full fetch already superseded this reconciliation. Not an error.
		c.logger.Debug("pending message already superseded",
			zap.String("conversation_id", pending.ConversationID),
		)
	}
	c.conversations.Touch(pending.ConversationID, confirmed.CreatedAt)
	metrics.RecordSend("success")

	// Consistency backstop. The store tolerates the swap being immediately
	// overwritten: Replace carries still-pending entries and Confirm drops a
	// pending whose confirmed id already arrived, so the rendered state is
	// equivalent either way.
	if history, err := c.transport.ListMessages(ctx, pending.ConversationID); err == nil {
		c.messages.Replace(pending.ConversationID, history)
	} else {
		c.logger.Debug("post-send history refetch failed",
			zap.String("conversation_id", pending.ConversationID),
			zap.Error(err),
		)
	}
	return nil
}

// StartConversation creates (or re-fetches) the conversation with another
// user and sends the first message into it.
func (c *Coordinator) StartConversation(ctx context.Context, otherUserID, content string) (model.Conversation, model.Message, <-chan error, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return model.Conversation{}, model.Message{}, nil, ErrEmptyMessage
	}

	conv, err := c.transport.CreateConversation(ctx, [2]string{c.user.ID, otherUserID})
	if err != nil {
		return model.Conversation{}, model.Message{}, nil, err
	}
	c.conversations.Upsert(conv)

	pending, done, err := c.Send(ctx, conv.ID, trimmed)
	if err != nil {
		return conv, model.Message{}, nil, err
	}
	return conv, pending, done, nil
}
