// Package stubapi is an in-memory stand-in for the marketplace messaging
// backend, used for local development and end-to-end tests. It speaks the
// same REST surface the production API does, including its habit of keeping
// multiple conversation rows for the same pair of participants.
package stubapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/Prosper-Mapepa/talent-hub-front-sub000/internal/model"
	"github.com/Prosper-Mapepa/talent-hub-front-sub000/pkg/logger"
)

// Server holds the stub backend's state and router.
type Server struct {
	jwtSecret string
	logger    *logger.Logger

	mu            sync.RWMutex
	users         map[string]model.User
	students      map[string]model.StudentProfile
	conversations map[string]*model.Conversation
	messages      map[string][]model.Message
	failSends     bool
}

// SetFailSends makes POST /messages return 502, for exercising rollback.
func (s *Server) SetFailSends(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSends = fail
}

// New creates an empty stub backend.
func New(jwtSecret string, log *logger.Logger) *Server {
	return &Server{
		jwtSecret:     jwtSecret,
		logger:        log,
		users:         make(map[string]model.User),
		students:      make(map[string]model.StudentProfile),
		conversations: make(map[string]*model.Conversation),
		messages:      make(map[string][]model.Message),
	}
}

// SeedUser registers an account.
func (s *Server) SeedUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// SeedStudent registers a roster profile.
func (s *Server) SeedStudent(p model.StudentProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[p.UserID] = p
}

// Router builds the chi router with auth, logging, CORS and rate limiting.
// Pass zero values to disable rate limiting (tests usually do).
func (s *Server) Router(rateLimitRequests int, rateLimitWindow time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logging(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(Auth(s.jwtSecret))
		if rateLimitRequests > 0 {
			r.Use(httprate.Limit(
				rateLimitRequests,
				rateLimitWindow,
				httprate.WithKeyFuncs(func(req *http.Request) (string, error) {
					if id := UserID(req.Context()); id != "" {
						return "user:" + id, nil
					}
					return "ip:" + req.RemoteAddr, nil
				}),
			))
		}

		r.Get("/students", s.listStudents)
		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", s.listConversations)
			r.Post("/", s.createConversation)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/messages", s.listMessages)
				r.Post("/messages", s.postMessage)
			})
		})
	})

	return r
}

func (s *Server) listStudents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	students := make([]model.StudentProfile, 0, len(s.students))
	for _, p := range s.students {
		students = append(students, p)
	}
	s.mu.RUnlock()

	sort.Slice(students, func(i, j int) bool { return students[i].UserID < students[j].UserID })
	writeJSON(w, http.StatusOK, model.ListStudentsResponse{Students: students, Total: len(students)})
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = UserID(r.Context())
	}

	s.mu.RLock()
	convs := make([]model.Conversation, 0)
	for _, c := range s.conversations {
		if _, ok := c.Participant(userID); ok {
			convs = append(convs, *c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(convs, func(i, j int) bool { return convs[i].UpdatedAt.After(convs[j].UpdatedAt) })
	writeJSON(w, http.StatusOK, model.ListConversationsResponse{Conversations: convs, Total: len(convs)})
}

// createConversation always inserts a new row, even when one already exists
// for the pair. The production API behaves the same way under concurrent
// "message this student" actions; clients are expected to dedupe.
func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	var req model.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	participants := make([]model.User, 0, 2)
	for _, id := range req.ParticipantIDs {
		u, ok := s.users[id]
		if !ok {
			writeError(w, http.StatusNotFound, "participant not found")
			return
		}
		participants = append(participants, u)
	}

	now := time.Now().UTC()
	conv := &model.Conversation{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.conversations[conv.ID] = conv

	writeJSON(w, http.StatusCreated, conv)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.conversations[conversationID]; !ok {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	msgs := s.messages[conversationID]
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	writeJSON(w, http.StatusOK, model.ListMessagesResponse{Messages: out, Total: len(out)})
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")

	s.mu.RLock()
	failing := s.failSends
	s.mu.RUnlock()
	if failing {
		writeError(w, http.StatusBadGateway, "upstream unavailable")
		return
	}

	var req model.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[conversationID]
	if !ok {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if _, ok := conv.Participant(req.SenderID); !ok {
		writeError(w, http.StatusForbidden, "sender is not a participant")
		return
	}

	msg := model.Message{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		SenderID:       req.SenderID,
		Content:        req.Content,
		CreatedAt:      time.Now().UTC(),
	}
	s.messages[conversationID] = append(s.messages[conversationID], msg)
	conv.UpdatedAt = msg.CreatedAt
	conv.LastMessage = &msg

	writeJSON(w, http.StatusCreated, msg)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
