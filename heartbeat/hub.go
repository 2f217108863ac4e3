package heartbeat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lixenwraith/skyline/status"
)

const (
	writeWait   = 2 * time.Second
	sendBacklog = 8
)

// Path the hub is mounted on by Serve
const Path = "/heartbeat"

// subscriber is one watchdog connection with its own write pump
type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.send)
	})
}

// Hub fans beats out to websocket subscribers
// Publish never blocks; a subscriber whose backlog is full misses the beat
type Hub struct {
	upgrader websocket.Upgrader
	logger   *zap.Logger

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
	wg     sync.WaitGroup

	statClients *atomic.Int64
}

// NewHub creates an empty hub
func NewHub(reg *status.Registry, logger *zap.Logger) *Hub {
	if reg == nil {
		reg = status.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:      logger,
		subs:        make(map[*subscriber]struct{}),
		statClients: reg.Ints.Get(status.HeartbeatClients),
	}
}

// ServeHTTP upgrades the request and registers a subscriber
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("heartbeat upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBacklog)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.subs[sub] = struct{}{}
	h.statClients.Store(int64(len(h.subs)))
	h.wg.Add(2)
	h.mu.Unlock()

	h.logger.Info("heartbeat subscriber", zap.String("remote", r.RemoteAddr))
	go h.writePump(sub)
	go h.readPump(sub)
}

// writePump drains the subscriber backlog until it is closed
func (h *Hub) writePump(sub *subscriber) {
	defer h.wg.Done()
	defer sub.conn.Close()

	for data := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("heartbeat write failed", zap.Error(err))
			h.remove(sub)
			// Keep draining so close() never races a full channel
			for range sub.send {
			}
			return
		}
	}
	sub.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}

// readPump discards client frames; a read error means the peer left
func (h *Hub) readPump(sub *subscriber) {
	defer h.wg.Done()
	for {
		if _, _, err := sub.conn.NextReader(); err != nil {
			h.remove(sub)
			return
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		sub.close()
	}
	h.statClients.Store(int64(len(h.subs)))
	h.mu.Unlock()
}

// Publish implements Sink
func (h *Hub) Publish(b Beat) {
	data, err := json.Marshal(b)
	if err != nil {
		h.logger.Error("heartbeat encode", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.send <- data:
		default:
			h.logger.Debug("heartbeat backlog full", zap.Uint64("seq", b.Seq))
		}
	}
}

// Clients returns the number of connected subscribers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber and waits for their goroutines
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for sub := range h.subs {
		delete(h.subs, sub)
		sub.close()
		// Unblocks readPump
		sub.conn.SetReadDeadline(time.Now())
	}
	h.statClients.Store(0)
	h.mu.Unlock()
	h.wg.Wait()
}

// Serve runs an HTTP server for the hub on addr until ctx is done
func Serve(ctx context.Context, addr string, h *Hub) error {
	mux := http.NewServeMux()
	mux.Handle(Path, h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("heartbeat listen %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		h.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("heartbeat shutdown: %w", err)
		}
		<-errc
		return nil
	}
}
