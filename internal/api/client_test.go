package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/api"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/auth"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
)

func newClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, "test-token", 5*time.Second, logger.NewNop())
}

func TestListConversationsSendsBearerToken(t *testing.T) {
	var gotAuth, gotUserID string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUserID = r.URL.Query().Get("userId")
		json.NewEncoder(w).Encode(model.ListConversationsResponse{
			Conversations: []model.Conversation{{ID: "c1"}},
			Total:         1,
		})
	})

	convs, err := client.ListConversations(context.Background(), "u-me")
	if err != nil {
		t.Fatalf("ListConversations: %v", err)
	}
	if len(convs) != 1 || convs[0].ID != "c1" {
		t.Fatalf("conversations = %+v", convs)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotUserID != "u-me" {
		t.Errorf("userId = %q", gotUserID)
	}
}

func TestPostMessageDecodesConfirmedCopy(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req model.PostMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.Message{
			ID:             "srv-1",
			ConversationID: "c1",
			SenderID:       req.SenderID,
			Content:        req.Content,
			CreatedAt:      time.Now().UTC(),
		})
	})

	msg, err := client.PostMessage(context.Background(), "c1", "hello", "u-me")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if msg.ID != "srv-1" || msg.Content != "hello" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "upstream unavailable"})
	})

	_, err := client.ListMessages(context.Background(), "c1")
	apiErr, ok := api.IsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "upstream unavailable" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestUnauthorizedMapsToErrUnauthorized(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListConversations(context.Background(), "u-me")
	if !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNetworkFailureBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := api.New(srv.URL, "t", time.Second, logger.NewNop())

	_, err := client.ListStudents(context.Background())
	apiErr, ok := api.IsAPIError(err)
	if !ok {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("network failure should carry no HTTP status, got %d", apiErr.StatusCode)
	}
}
