package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"calibration-quiz-service/internal/app"
	"calibration-quiz-service/internal/domain"
)

// SessionStore resolves session tokens for /check-auth and score history.
type SessionStore interface {
	Lookup(ctx context.Context, token string) (string, bool, error)
}

// Handler exposes the scoring backend's REST surface.
type Handler struct {
	service  *app.QuizService
	sessions SessionStore
}

// NewHandler builds the REST handler. sessions may be nil when no identity
// provider is configured; every caller is then anonymous.
func NewHandler(service *app.QuizService, sessions SessionStore) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// Register wires the routes into a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/questions", h.Questions)
	mux.HandleFunc("/submit", h.Submit)
	mux.HandleFunc("/check-auth", h.CheckAuth)
}

// Questions serves a freshly sampled question list for one attempt.
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	questions, err := h.service.Questions(r.Context())
	if err != nil {
		log.Printf("fetch questions: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// Submit scores a submission and returns {score, detailed_results} in the
// submitted question order, or {error} with a non-2xx status.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "no data provided")
		return
	}

	result, err := h.service.Score(r.Context(), sub, h.username(r))
	if err != nil {
		var bad *domain.BadSubmissionError
		if errors.As(err, &bad) {
			writeError(w, http.StatusBadRequest, bad.Message)
			return
		}
		log.Printf("score submission: %v", err)
		writeError(w, http.StatusInternalServerError, "scoring failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CheckAuth reports session status for navigation display.
func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	username := h.username(r)
	writeJSON(w, http.StatusOK, domain.AuthStatus{
		IsAuthenticated: username != "",
		Username:        username,
	})
}

func (h *Handler) username(r *http.Request) string {
	if h.sessions == nil {
		return ""
	}
	cookie, err := r.Cookie("session_token")
	if err != nil || cookie.Value == "" {
		return ""
	}
	username, ok, err := h.sessions.Lookup(r.Context(), cookie.Value)
	if err != nil {
		log.Printf("session lookup: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return username
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
