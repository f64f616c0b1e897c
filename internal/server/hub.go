// Package server relays live boards between players so each client can
// show the others as spectator previews, and keeps a best-score table.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hersh/gotris-pro/internal/player"
	"github.com/hersh/gotris-pro/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	defaultBroadcastInterval = 100 * time.Millisecond
	writeWait                = 10 * time.Second
	pongWait                 = 60 * time.Second
	pingInterval             = (pongWait * 9) / 10
	maxMessageSize           = 16384
	leaderboardSize          = 10
	// peersPerUpdate bounds a spectate update so it stays under the
	// client's read limit.
	peersPerUpdate = 8
)

type Options struct {
	BroadcastInterval time.Duration
	Logger            *zap.Logger
	// Registry receives the hub's metrics and backs /metrics. A fresh
	// registry is created when nil.
	Registry *prometheus.Registry
}

// Hub owns every connection and the shared lobby.
type Hub struct {
	lobby    *player.Lobby
	log      *zap.Logger
	metrics  *metrics
	registry *prometheus.Registry
	interval time.Duration
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*conn
}

func NewHub(opts Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.BroadcastInterval <= 0 {
		opts.BroadcastInterval = defaultBroadcastInterval
	}
	return &Hub{
		lobby:    player.NewLobby(),
		log:      opts.Logger,
		metrics:  newMetrics(opts.Registry),
		registry: opts.Registry,
		interval: opts.BroadcastInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[string]*conn),
	}
}

// Handler routes the websocket endpoint, the leaderboard, health and metrics.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.handleConnection)
	mux.HandleFunc("/leaderboard", h.handleLeaderboard)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
	return mux
}

// Run sends every player the other players' boards each broadcast
// interval until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.broadcastPeers()
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) broadcastPeers() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, c := range h.conns {
		c.send(protocol.Envelope{
			Type:    protocol.MsgSpectateUpdate,
			Payload: protocol.SpectateUpdatePayload{Peers: h.peersFor(id)},
		})
	}
}

// peersFor lists the boards id is shown, at most peersPerUpdate of them.
func (h *Hub) peersFor(id string) []protocol.PeerState {
	peers := h.lobby.Peers(id)
	if len(peers) > peersPerUpdate {
		peers = peers[:peersPerUpdate]
	}
	return peers
}

func (h *Hub) refreshGauges() {
	h.metrics.connected.Set(float64(h.lobby.Count()))
	h.metrics.alive.Set(float64(h.lobby.CountAlive()))
}

func (h *Hub) broadcastLeaderboard() {
	env := protocol.Envelope{
		Type:    protocol.MsgLeaderboard,
		Payload: protocol.LeaderboardPayload{Entries: h.lobby.Leaderboard(leaderboardSize)},
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		c.send(env)
	}
}

func (h *Hub) register(c *conn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	h.lobby.AddPlayer(c.id, "")
	h.refreshGauges()
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	delete(h.conns, c.id)
	h.mu.Unlock()
	h.lobby.RemovePlayer(c.id)
	h.refreshGauges()
	c.close()
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.conns {
		c.close()
	}
}

func (h *Hub) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		json.NewEncoder(w).Encode(protocol.ErrorResponse{Error: "method not allowed"})
		return
	}
	json.NewEncoder(w).Encode(protocol.LeaderboardPayload{Entries: h.lobby.Leaderboard(leaderboardSize)})
}

func (h *Hub) handleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	c := newConn(uuid.NewString(), ws, h.log)
	c.send(protocol.Envelope{
		Type:    protocol.MsgAssignID,
		Payload: protocol.AssignIDPayload{PlayerID: c.id},
	})
	h.register(c)
	h.log.Info("player connected", zap.String("player_id", c.id))

	go c.writePump()
	h.readPump(c)

	h.unregister(c)
	h.log.Info("player disconnected", zap.String("player_id", c.id))
}

// readPump reads messages from the WebSocket and dispatches them.
func (h *Hub) readPump(c *conn) {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("read error", zap.String("player_id", c.id), zap.Error(err))
			}
			return
		}

		var env struct {
			Type    protocol.MessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		if err := json.Unmarshal(message, &env); err != nil {
			h.log.Warn("unmarshal error", zap.String("player_id", c.id), zap.Error(err))
			continue
		}
		h.handleMessage(c, env.Type, env.Payload)
	}
}

func (h *Hub) handleMessage(c *conn, typ protocol.MessageType, raw json.RawMessage) {
	switch typ {
	case protocol.MsgJoin:
		var payload protocol.JoinPayload
		if json.Unmarshal(raw, &payload) == nil {
			h.lobby.SetName(c.id, payload.PlayerName)
			h.log.Info("player joined", zap.String("player_id", c.id), zap.String("name", payload.PlayerName))
		}

	case protocol.MsgBoardSnapshot:
		var payload protocol.BoardSnapshotPayload
		if json.Unmarshal(raw, &payload) == nil {
			h.lobby.UpdateSnapshot(c.id, payload)
			h.metrics.snapshots.Inc()
			h.refreshGauges()
		}

	case protocol.MsgSessionOver:
		var payload protocol.SessionOverPayload
		if json.Unmarshal(raw, &payload) == nil {
			h.metrics.sessionsOver.Inc()
			if h.lobby.FinishSession(c.id, payload.Score) {
				h.metrics.bestScore.Set(float64(h.lobby.BestScore()))
			}
			h.refreshGauges()
			name := player.AnonymousName
			if p, ok := h.lobby.GetPlayer(c.id); ok && p.Name != "" {
				name = p.Name
			}
			h.log.Info("session over",
				zap.String("player_id", c.id),
				zap.String("name", name),
				zap.Int("score", payload.Score),
				zap.Int("still_playing", h.lobby.CountAlive()))
			h.broadcastLeaderboard()
		}

	default:
		h.log.Warn("unknown message type", zap.String("player_id", c.id), zap.String("type", string(typ)))
	}
}

// conn is one player's websocket with its outgoing queue.
type conn struct {
	id     string
	ws     *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	once   sync.Once
	log    *zap.Logger
}

func newConn(id string, ws *websocket.Conn, log *zap.Logger) *conn {
	return &conn{
		id:     id,
		ws:     ws,
		sendCh: make(chan []byte, 256),
		done:   make(chan struct{}),
		log:    log,
	}
}

// send marshals an envelope and queues it. Messages to a closed or
// backed-up connection are dropped.
func (c *conn) send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		c.log.Error("marshal error", zap.String("player_id", c.id), zap.Error(err))
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.sendCh <- data:
	default:
		c.log.Warn("send channel full, dropping message", zap.String("player_id", c.id))
	}
}

func (c *conn) close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// writePump sends messages from sendCh to the WebSocket.
func (c *conn) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg := <-c.sendCh:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
