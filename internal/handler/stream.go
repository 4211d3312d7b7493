package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AlexZinkM/dapp-wallet/internal/session"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local service, any page may follow the session
	},
}

// Stream handles GET /session/stream
// @Summary      Stream wallet session
// @Description  WebSocket that pushes the session every time it changes, starting with the current one
// @Tags         session
// @Success      101
// @Router       /session/stream [get]
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	h.logger.Info("session stream opened", zap.String("client", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	states := make(chan session.State, 16)
	unsubscribe := h.controller.Store().Subscribe(func(s session.State) {
		if offerLatest(states, s) {
			h.logger.Debug("session stream behind, dropped stale snapshot")
		}
	})
	defer unsubscribe()

	// The client never sends anything; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.send(conn, h.controller.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("session stream closed", zap.String("client", r.RemoteAddr))
			return
		case s := <-states:
			if err := h.send(conn, s); err != nil {
				return
			}
		}
	}
}

func (h *SessionHandler) send(conn *websocket.Conn, s session.State) error {
	data, err := json.Marshal(h.response(s))
	if err != nil {
		h.logger.Error("failed to marshal session", zap.Error(err))
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Error("failed to write message", zap.Error(err))
		return err
	}
	return nil
}

// offerLatest queues s without blocking. When ch is full the oldest queued
// snapshot is discarded, so the newest state always reaches the client.
// Callers must be the only sender on ch. Reports whether a snapshot was dropped.
func offerLatest(ch chan session.State, s session.State) bool {
	select {
	case ch <- s:
		return false
	default:
	}
	dropped := false
	select {
	case <-ch:
		dropped = true
	default:
	}
	select {
	case ch <- s:
	default:
	}
	return dropped
}
