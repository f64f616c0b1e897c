// Package netclient streams the local board to the spectator relay and
// feeds relay updates back into the TUI as tea messages.
package netclient

import (
	"encoding/json"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/hersh/gotris-pro/internal/game"
	"github.com/hersh/gotris-pro/internal/protocol"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 16384
)

// ConnectedMsg is sent when the client connects and receives its PlayerID.
type ConnectedMsg struct {
	PlayerID string
}

// DisconnectedMsg is sent when the WebSocket connection is lost.
type DisconnectedMsg struct {
	Err error
}

// PeersMsg carries the other players' boards.
type PeersMsg struct {
	Peers []protocol.PeerState
}

// LeaderboardMsg carries the relay's best scores.
type LeaderboardMsg struct {
	Entries []protocol.LeaderboardEntry
}

// Program is the part of *tea.Program the client delivers messages to.
type Program interface {
	Send(msg tea.Msg)
}

// Client manages the WebSocket connection to the relay.
type Client struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	sendCh  chan []byte
	program Program
	done    chan struct{}
	closed  bool
	log     *zap.Logger
}

// New creates a Client connected to the given relay URL.
func New(serverURL string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, _, err := websocket.DefaultDialer.Dial(serverURL, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:   conn,
		sendCh: make(chan []byte, 256),
		done:   make(chan struct{}),
		log:    log.With(zap.String("relay", serverURL)),
	}, nil
}

// SetProgram sets the program the client forwards relay messages to.
func (c *Client) SetProgram(p Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.program = p
}

// Start launches the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send marshals and queues an envelope for the relay.
func (c *Client) Send(env protocol.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		c.log.Error("marshal error", zap.Error(err))
		return
	}
	select {
	case c.sendCh <- data:
	default:
		c.log.Warn("send channel full, dropping message", zap.String("type", string(env.Type)))
	}
}

func (c *Client) Join(name string) {
	c.Send(protocol.Envelope{
		Type:    protocol.MsgJoin,
		Payload: protocol.JoinPayload{PlayerName: name},
	})
}

// PublishSnapshot sends the locked board, without the falling piece.
func (c *Client) PublishSnapshot(snap game.Snapshot) {
	c.Send(protocol.Envelope{
		Type: protocol.MsgBoardSnapshot,
		Payload: protocol.BoardSnapshotPayload{
			Score: snap.Score,
			Level: snap.Level,
			Lines: snap.Lines,
			Alive: !snap.GameOver,
			Cols:  snap.Cols,
			Board: snap.Flat,
		},
	})
}

func (c *Client) SessionOver(score int) {
	c.Send(protocol.Envelope{
		Type:    protocol.MsgSessionOver,
		Payload: protocol.SessionOverPayload{Score: score},
	})
}

// Close shuts down the connection. The write pump sends the close frame.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
}

func (c *Client) deliver(msg tea.Msg) {
	c.mu.Lock()
	p := c.program
	c.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// readPump reads messages from the WebSocket and forwards them to the program.
func (c *Client) readPump() {
	var readErr error
	defer func() {
		c.deliver(DisconnectedMsg{Err: readErr})
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read error", zap.Error(err))
				readErr = err
			}
			return
		}

		var env struct {
			Type    protocol.MessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		if err := json.Unmarshal(message, &env); err != nil {
			c.log.Warn("unmarshal error", zap.Error(err))
			continue
		}

		switch env.Type {
		case protocol.MsgAssignID:
			var payload protocol.AssignIDPayload
			if json.Unmarshal(env.Payload, &payload) == nil {
				c.deliver(ConnectedMsg{PlayerID: payload.PlayerID})
			}
		case protocol.MsgSpectateUpdate:
			var payload protocol.SpectateUpdatePayload
			if json.Unmarshal(env.Payload, &payload) == nil {
				c.deliver(PeersMsg{Peers: payload.Peers})
			}
		case protocol.MsgLeaderboard:
			var payload protocol.LeaderboardPayload
			if json.Unmarshal(env.Payload, &payload) == nil {
				c.deliver(LeaderboardMsg{Entries: payload.Entries})
			}
		default:
			c.log.Debug("ignoring message", zap.String("type", string(env.Type)))
		}
	}
}

// writePump writes messages from sendCh to the WebSocket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
