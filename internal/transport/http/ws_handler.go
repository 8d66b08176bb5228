package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/catalog"
	"trivia-quiz/internal/domain"
)

// Error codes sent in error payloads.
const (
	CodeInvalidTransition = "invalid_transition"
	CodeAlreadyAnswered   = "already_answered"
	CodeBadRequest        = "bad_request"
	CodeUnsupported       = "unsupported"
	CodeNotFound          = "not_found"
	CodeInternal          = "internal"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
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

type answerPayload struct {
	Choice string `json:"choice"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(code, message string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Code: code, Message: message}}
}

// errorCode maps domain errors onto protocol codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrGameClosed):
		return CodeInvalidTransition
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return CodeAlreadyAnswered
	case errors.Is(err, domain.ErrCatalogNotFound), errors.Is(err, domain.ErrGameNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}

// ServeWS upgrades HTTP requests to websockets. Each connection plays its own
// game, ended when the connection closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	catalogID := r.URL.Query().Get("catalog")
	if catalogID == "" {
		catalogID = catalog.DefaultID
	}
	ctx := context.WithoutCancel(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(ctx, "ws: upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	g, _, err := h.service.NewGame(ctx, catalogID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(errorCode(err), err.Error()))
		return
	}
	gameID := g.ID()
	log := slog.With("game", gameID, "catalog", catalogID)
	log.InfoContext(ctx, "ws: game started")
	defer func() {
		if err := h.service.End(ctx, gameID); err != nil {
			log.ErrorContext(ctx, "ws: end game failed", "error", err)
		}
		log.InfoContext(ctx, "ws: game ended")
	}()

	updates, cancel, err := h.service.Subscribe(ctx, gameID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(errorCode(err), err.Error()))
		return
	}
	defer cancel()

	send := make(chan outboundMessage, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Only the writer goroutine touches conn for writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.WarnContext(ctx, "ws: write failed", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(msg outboundMessage) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			reply(errorMessage(CodeBadRequest, "malformed message"))
			continue
		}
		if msg, ok := h.handle(ctx, gameID, inbound); ok {
			reply(msg)
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle applies one inbound intent. State changes reach the client through
// the subscription; only resolutions and errors are replied directly.
func (h *WSHandler) handle(ctx context.Context, gameID string, inbound inboundMessage) (outboundMessage, bool) {
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Choice == "" {
			return errorMessage(CodeBadRequest, "invalid answer payload"), true
		}
		res, err := h.service.Answer(ctx, gameID, payload.Choice)
		if err != nil {
			return errorMessage(errorCode(err), err.Error()), true
		}
		return outboundMessage{Type: "resolution", Payload: res}, true
	case "advance":
		if _, err := h.service.Advance(ctx, gameID); err != nil {
			return errorMessage(errorCode(err), err.Error()), true
		}
		return outboundMessage{}, false
	case "replay":
		if _, err := h.service.Replay(ctx, gameID); err != nil {
			return errorMessage(errorCode(err), err.Error()), true
		}
		return outboundMessage{}, false
	default:
		return errorMessage(CodeUnsupported, "unsupported message type"), true
	}
}
