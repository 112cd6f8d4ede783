package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iwvelando/finpulse/internal/snapshot"
)

const (
	streamWriteWait  = 5 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// handleStream upgrades to a WebSocket and pushes the current snapshot
// followed by every newer published one. A slow client only ever misses
// intermediate snapshots; the newest is always delivered.
func (h *handler) handleStream(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStream"

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		h.logger.Warn("stream upgrade failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.StreamClients.Inc()
		defer h.metrics.StreamClients.Dec()
	}

	updates := make(chan *snapshot.Snapshot, h.streamBuffer)
	unsubscribe := h.sim.Subscribe(func(s *snapshot.Snapshot) {
		offerLatest(updates, s)
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go h.readPump(conn, closed)

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	current := h.sim.Current()
	if err := writeSnapshot(conn, current); err != nil {
		h.logger.Debug("stream write failed", zap.String("op", op), zap.Error(err))
		return
	}
	sent := current.Sequence

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case s := <-updates:
			// Published between Subscribe and the first write.
			if s.Sequence <= sent {
				continue
			}
			if err := writeSnapshot(conn, s); err != nil {
				h.logger.Debug("stream write failed", zap.String("op", op), zap.Error(err))
				return
			}
			sent = s.Sequence
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed and
// closes done when the client goes away.
func (h *handler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(h.maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, s *snapshot.Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(s)
}

// offerLatest queues s without blocking, evicting the oldest queued
// snapshot when the buffer is full.
func offerLatest(ch chan *snapshot.Snapshot, s *snapshot.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
