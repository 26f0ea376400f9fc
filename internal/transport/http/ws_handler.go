package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/infra/memory"
	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/session"
	"github.com/gorilla/websocket"
)

// WSHandler runs one trivia session per WebSocket connection. The connected
// client plays the role of the screens in the mobile app: it forwards user
// intents as events and renders the state snapshots pushed back.
type WSHandler struct {
	provider session.QuestionProvider
	store    session.HistoryStore
	upgrader websocket.Upgrader
}

func NewWSHandler(provider session.QuestionProvider, store session.HistoryStore) *WSHandler {
	return &WSHandler{
		provider: provider,
		store:    store,
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

type gotoPayload struct {
	Index int `json:"index"`
}

type answerPayload struct {
	Choice string `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type identityPayload struct {
	UserID string `json:"userId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and wires the connection into a fresh session
// controller. Clients without a userId query parameter get an anonymous
// identity, announced in the initial "identity" message.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var auth *memory.AuthProvider
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		auth = memory.NewAuthProvider()
		userID = auth.SignInAnonymously()
	} else {
		auth = memory.NewStaticAuthProvider(userID)
	}

	controller := session.NewController(h.provider, h.store, auth)
	updates, cancel := controller.Subscribe()
	defer cancel()

	send := make(chan any, 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Enqueued before the updates pump starts so clients always see their
	// identity before the first state snapshot.
	send <- outboundMessage[identityPayload]{Type: "identity", Payload: identityPayload{UserID: userID}}

	go func() {
		defer close(updatesDone)
		for {
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[session.State]{Type: "state", Payload: state}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.dispatch(r, controller, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// dispatch applies one client event to the controller. State changes travel
// through the subscription pump; only extra payloads (errors, the finished
// result) are returned for direct sending.
func (h *WSHandler) dispatch(r *http.Request, controller *session.Controller, inbound inboundMessage) (any, bool) {
	switch inbound.Type {
	case "start":
		var req domain.QuestionRequest
		if err := json.Unmarshal(inbound.Payload, &req); err != nil {
			return errorMessage("invalid start payload"), true
		}
		if err := controller.Start(r.Context(), req); err != nil {
			return errorMessage(err.Error()), true
		}
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload"), true
		}
		if err := controller.SelectAnswer(payload.Choice); err != nil {
			return errorMessage(err.Error()), true
		}
	case "previous":
		controller.Previous()
	case "next":
		controller.Next()
	case "goto":
		var payload gotoPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid goto payload"), true
		}
		if err := controller.NavigateTo(payload.Index); err != nil {
			return errorMessage(err.Error()), true
		}
	case "finish":
		result, err := controller.Finish(r.Context())
		if err != nil {
			return errorMessage(err.Error()), true
		}
		return outboundMessage[domain.QuizResult]{Type: "finished", Payload: result}, true
	case "clearError":
		controller.ClearError()
	default:
		return errorMessage("unsupported message type"), true
	}
	return nil, false
}

func errorMessage(message string) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: message}}
}
