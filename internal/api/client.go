// Package api is the HTTP client for the marketplace messaging backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/auth"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/metrics"
)

const tracerName = "talent-hub-messaging/api"

// Client issues authenticated requests to the backend and normalizes
// success/failure into typed results. No automatic retries; callers decide.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *logger.Logger
	tracer  trace.Tracer
}

// New creates a backend API client.
func New(baseURL, bearerToken string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   bearerToken,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}
}

// ListConversations fetches all conversations involving the given user.
func (c *Client) ListConversations(ctx context.Context, userID string) ([]model.Conversation, error) {
	endpoint := "/conversations?" + url.Values{"userId": {userID}}.Encode()

	var resp model.ListConversationsResponse
	if err := c.do(ctx, http.MethodGet, endpoint, "/conversations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// CreateConversation creates (or fetches, when the backend already has one)
// a conversation between exactly two participants.
func (c *Client) CreateConversation(ctx context.Context, participantIDs [2]string) (model.Conversation, error) {
	req := model.CreateConversationRequest{ParticipantIDs: participantIDs}

	var conv model.Conversation
	if err := c.do(ctx, http.MethodPost, "/conversations", "/conversations", req, &conv); err != nil {
		return model.Conversation{}, err
	}
	return conv, nil
}

// ListMessages fetches the full ordered history of one conversation.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	endpoint := "/conversations/" + url.PathEscape(conversationID) + "/messages"

	var resp model.ListMessagesResponse
	if err := c.do(ctx, http.MethodGet, endpoint, "/conversations/{id}/messages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// PostMessage submits a new message and returns the server's confirmed copy.
func (c *Client) PostMessage(ctx context.Context, conversationID, content, senderID string) (model.Message, error) {
	endpoint := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	req := model.PostMessageRequest{Content: content, SenderID: senderID}

	var msg model.Message
	if err := c.do(ctx, http.MethodPost, endpoint, "/conversations/{id}/messages", req, &msg); err != nil {
		return model.Message{}, err
	}
	return msg, nil
}

// ListStudents fetches the student roster used for display identity.
func (c *Client) ListStudents(ctx context.Context) ([]model.StudentProfile, error) {
	var resp model.ListStudentsResponse
	if err := c.do(ctx, http.MethodGet, "/students", "/students", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Students, nil
}

// do performs one request/response cycle. endpoint is the concrete path,
// route the parameterized form used for span names and metric labels.
func (c *Client) do(ctx context.Context, method, endpoint, route string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", endpoint),
		),
	)
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start).Seconds()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		metrics.RecordRequest(method, route, "error", duration)
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	metrics.RecordRequest(method, route, strconv.Itoa(resp.StatusCode), duration)

	if resp.StatusCode == http.StatusUnauthorized {
		span.SetStatus(codes.Error, "unauthorized")
		return fmt.Errorf("%s %s: %w", method, endpoint, auth.ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "http error")
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		c.logger.Warn("request rejected",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// readErrorMessage extracts the backend's {"error": "..."} body, falling back
// to the raw text when the body isn't JSON.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return string(raw)
}
