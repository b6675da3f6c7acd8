package web

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/omnidive/omnidive/internal/explorer"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming websocket message format.
type clientMessage struct {
	Type  string `json:"type"` // "explore"
	Topic string `json:"topic"`
}

// handleWebSocket pushes the session's state on every change and accepts
// explore messages. Only the newest pending state is kept for a slow
// client.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	shell := h.registry.Get(sessionID(w, r))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	updates := make(chan explorer.Snapshot, 1)
	push := func(snap explorer.Snapshot) {
		for {
			select {
			case updates <- snap:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}
	cancel := shell.Subscribe(push)
	defer cancel()
	push(shell.Snapshot())

	done := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-done:
				return
			case snap := <-updates:
				if err := conn.WriteJSON(h.stateMessage(snap)); err != nil {
					h.logger.Debug("websocket write", zap.Error(err))
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		<-writerDone
	}()

	h.mount(r.Context(), shell)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("invalid websocket message", zap.Error(err))
			continue
		}
		switch msg.Type {
		case "explore":
			h.submit(r.Context(), shell, msg.Topic)
		default:
			h.logger.Debug("unknown websocket message type", zap.String("type", msg.Type))
		}
	}
}
