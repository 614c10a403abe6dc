package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"calibration-quiz-service/internal/app"
	"calibration-quiz-service/internal/domain"
)

// WSHandler serves a whole quiz attempt over one websocket: the server
// pushes the sampled question list on connect, the client sends a submit
// message, and the server answers with the scored result or an error.
type WSHandler struct {
	service  *app.QuizService
	sessions SessionStore
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, sessions SessionStore) *WSHandler {
	return &WSHandler{
		service:  service,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the attempt protocol.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	username := ""
	if h.sessions != nil {
		if cookie, err := r.Cookie("session_token"); err == nil {
			if name, ok, err := h.sessions.Lookup(r.Context(), cookie.Value); err == nil && ok {
				username = name
			}
		}
	}

	send := make(chan any, 8)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	questions, err := h.service.Questions(r.Context())
	if err != nil {
		send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "could not load questions"}}
		close(send)
		<-writerDone
		return
	}
	send <- outboundMessage[[]domain.Question]{Type: "questions", Payload: questions}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "submit":
			var sub domain.Submission
			if err := json.Unmarshal(inbound.Payload, &sub); err != nil {
				send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid submit payload"}}
				continue
			}
			result, err := h.service.Score(r.Context(), sub, username)
			if err != nil {
				var bad *domain.BadSubmissionError
				if errors.As(err, &bad) {
					send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: bad.Message}}
				} else {
					log.Printf("ws score submission: %v", err)
					send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "scoring failed"}}
				}
				continue
			}
			send <- outboundMessage[domain.ScoredResult]{Type: "scored", Payload: result}
		default:
			send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}
