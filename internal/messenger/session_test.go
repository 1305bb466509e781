package messenger_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/messenger"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
)

// notifications collects notifier callbacks across goroutines.
type notifications struct {
	mu   sync.Mutex
	errs []error
}

func (n *notifications) add(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, err)
}

func (n *notifications) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errs)
}

func TestFailedFetchPreservesPriorState(t *testing.T) {
	transport := newFakeTransport()
	notes := &notifications{}
	session := messenger.NewSession(me, transport, logger.NewNop(), notes.add)

	_, err := transport.CreateConversation(context.Background(), [2]string{me.ID, other.ID})
	require.NoError(t, err)
	require.NoError(t, session.LoadConversations(context.Background()))
	require.Len(t, session.Conversations(), 1)

	// Subsequent fetch failure must not corrupt existing store contents.
	transport.mu.Lock()
	transport.listErr = errors.New("network down")
	transport.mu.Unlock()

	require.Error(t, session.LoadConversations(context.Background()))
	require.Len(t, session.Conversations(), 1, "failed fetch must leave prior data in place")
	require.Equal(t, 1, notes.count())
}

func TestSelectConversationKeepsHistoryOnFailure(t *testing.T) {
	transport := newFakeTransport()
	session := messenger.NewSession(me, transport, logger.NewNop(), nil)

	conv, err := transport.CreateConversation(context.Background(), [2]string{me.ID, other.ID})
	require.NoError(t, err)

	pending, done, err := session.SendMessage(context.Background(), conv.ID, "hello")
	require.NoError(t, err)
	require.True(t, pending.Pending)
	require.NoError(t, <-done)

	// History is populated; now make fetches fail.
	transport.mu.Lock()
	transport.listErr = errors.New("network down")
	transport.mu.Unlock()

	history, err := session.SelectConversation(context.Background(), conv.ID)
	require.Error(t, err)
	require.Len(t, history, 1, "prior history must survive a failed fetch")
	require.Equal(t, "hello", history[0].Content)
}

func TestSendFailureReachesNotifier(t *testing.T) {
	transport := newFakeTransport()
	gate := transport.gate("doomed")
	notes := &notifications{}
	session := messenger.NewSession(me, transport, logger.NewNop(), notes.add)

	_, done, err := session.SendMessage(context.Background(), "conv-1", "doomed")
	require.NoError(t, err)

	gate <- errors.New("boom")
	sendErr := <-done

	var failure *messenger.SendFailure
	require.ErrorAs(t, sendErr, &failure)
	require.Eventually(t, func() bool { return notes.count() == 1 },
		time.Second, 10*time.Millisecond, "notifier must observe the failed send")
}

func TestRefreshUpdatesSelectedHistory(t *testing.T) {
	transport := newFakeTransport()
	transport.students = []model.StudentProfile{{UserID: other.ID, FirstName: "Amara", LastName: "Phiri"}}
	session := messenger.NewSession(me, transport, logger.NewNop(), nil)

	conv, pending, done, err := session.StartConversation(context.Background(), other.ID, "hi")
	require.NoError(t, err)
	require.True(t, pending.Pending)
	require.NoError(t, <-done)

	_, err = session.SelectConversation(context.Background(), conv.ID)
	require.NoError(t, err)

	// A message from the counterpart lands server-side between polls.
	_, err = transport.PostMessage(context.Background(), conv.ID, "hi back", other.ID)
	require.NoError(t, err)

	require.NoError(t, session.Refresh(context.Background()))

	history := session.Messages(conv.ID)
	require.Len(t, history, 2)
	require.Equal(t, "hi back", history[1].Content)

	// Roster arrived with the refresh, so the counterpart resolves by name.
	views := session.Conversations()
	require.Len(t, views, 1)
	require.Equal(t, "Amara Phiri", views[0].Counterpart.DisplayName)
}

func TestSetFilterNarrowsConversations(t *testing.T) {
	transport := newFakeTransport()
	session := messenger.NewSession(me, transport, logger.NewNop(), nil)

	_, err := transport.CreateConversation(context.Background(), [2]string{me.ID, other.ID})
	require.NoError(t, err)
	require.NoError(t, session.LoadConversations(context.Background()))

	session.SetFilter("no such person")
	require.Empty(t, session.Conversations())

	session.SetFilter("amara@")
	require.Len(t, session.Conversations(), 1)
}
