package protocol

// MessageType identifies the kind of message sent over the wire.
type MessageType string

const (
	// Server -> Client messages
	MsgAssignID       MessageType = "assign_id"
	MsgSpectateUpdate MessageType = "spectate_update"
	MsgLeaderboard    MessageType = "leaderboard"

	// Client -> Server messages
	MsgJoin          MessageType = "join"
	MsgBoardSnapshot MessageType = "board_snapshot"
	MsgSessionOver   MessageType = "session_over"
)

// Envelope is the top-level wire format for all messages.
type Envelope struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Server -> Client payloads ---

// AssignIDPayload is sent when a client first connects.
type AssignIDPayload struct {
	PlayerID string `json:"player_id"`
}

// PeerState is one other player's latest board as seen by the relay.
type PeerState struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Level      int    `json:"level"`
	Lines      int    `json:"lines"`
	Alive      bool   `json:"alive"`
	Cols       int    `json:"cols"`
	// Board is a flat array: Rows * Cols cells.
	// Each value is a color index (0 = empty).
	Board []int `json:"board"`
}

// SpectateUpdatePayload carries snapshots of everyone but the receiver.
type SpectateUpdatePayload struct {
	Peers []PeerState `json:"peers"`
}

// LeaderboardEntry is one player's best finished score.
type LeaderboardEntry struct {
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
}

// LeaderboardPayload is sent after a session ends and served over HTTP.
type LeaderboardPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// --- Client -> Server payloads ---

// JoinPayload names the player streaming from this connection.
type JoinPayload struct {
	PlayerName string `json:"player_name"`
}

// BoardSnapshotPayload is the client's current board state.
type BoardSnapshotPayload struct {
	Score int   `json:"score"`
	Level int   `json:"level"`
	Lines int   `json:"lines"`
	Alive bool  `json:"alive"`
	Cols  int   `json:"cols"`
	Board []int `json:"board"` // flat array, Rows * Cols
}

// SessionOverPayload reports a finished session's final score.
type SessionOverPayload struct {
	Score int `json:"score"`
}

// ErrorResponse is a generic JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
