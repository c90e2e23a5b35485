package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/desertthunder/singarr/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// socketHandler streams every bus event to a websocket client.
//
// Clients never send anything meaningful; reads only serve to notice a closed connection and
// to answer pings.
type socketHandler struct {
	server *Server
}

func (h *socketHandler) Routes() []string {
	return []string{"GET /socket"}
}

func (h *socketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := h.server

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	client := uuid.NewString()
	logger := s.logger.With("client", client)

	sub := s.bus.Subscribe()
	defer sub.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		readLoop(conn)
	}()

	logger.Info("socket connected", "subscribers", s.bus.Subscribers())
	err = writeLoop(ctx, conn, sub)
	logger.Info("socket disconnected", "dropped", sub.Dropped(), "error", err)
}

// eventSource is the part of events.Subscription the socket needs.
type eventSource interface {
	TryRecv() (models.Event, bool)
	C() <-chan struct{}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, sub eventSource) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return nil
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-sub.C():
			for {
				event, ok := sub.TryRecv()
				if !ok {
					break
				}
				data, err := models.MarshalEvent(event)
				if err != nil {
					return err
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return err
				}
			}
		}
	}
}

func readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
