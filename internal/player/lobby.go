package player

import (
	"sort"
	"sync"

	"github.com/hersh/gotris-pro/internal/protocol"
)

// AnonymousName labels scores from players who never sent a name.
const AnonymousName = "anonymous"

type Player struct {
	ID       string
	Name     string
	Alive    bool
	Snapshot *protocol.BoardSnapshotPayload
}

// Lobby tracks the connected players and the best finished score per
// player name. Best scores outlive the connection.
type Lobby struct {
	mu      sync.RWMutex
	players map[string]*Player
	best    map[string]int
}

func NewLobby() *Lobby {
	return &Lobby{
		players: make(map[string]*Player),
		best:    make(map[string]int),
	}
}

func (l *Lobby) AddPlayer(id, name string) *Player {
	l.mu.Lock()
	defer l.mu.Unlock()

	player := &Player{
		ID:    id,
		Name:  name,
		Alive: true,
	}
	l.players[id] = player
	return player
}

func (l *Lobby) RemovePlayer(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.players, id)
}

// GetPlayer returns a copy of the player, or false if id is unknown.
func (l *Lobby) GetPlayer(id string) (Player, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.players[id]
	if !ok {
		return Player{}, false
	}
	return *p, true
}

func (l *Lobby) SetName(id, name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.players[id]; ok {
		p.Name = name
	}
}

// UpdateSnapshot stores the latest board from id. A snapshot with Alive set
// revives a player whose previous session ended.
func (l *Lobby) UpdateSnapshot(id string, snap protocol.BoardSnapshotPayload) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if p, ok := l.players[id]; ok {
		p.Snapshot = &snap
		p.Alive = snap.Alive
	}
}

// FinishSession marks id as out and records score if it beats the
// player's best. It reports whether a new best was set.
func (l *Lobby) FinishSession(id string, score int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	p, ok := l.players[id]
	if !ok {
		return false
	}
	p.Alive = false
	name := p.Name
	if name == "" {
		name = AnonymousName
	}
	if prev, seen := l.best[name]; seen && prev >= score {
		return false
	}
	l.best[name] = score
	return true
}

// Peers returns the state of every player except excludeID, ordered by name.
func (l *Lobby) Peers(excludeID string) []protocol.PeerState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	peers := make([]protocol.PeerState, 0, len(l.players))
	for _, p := range l.players {
		if p.ID == excludeID {
			continue
		}
		state := protocol.PeerState{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Alive:      p.Alive,
		}
		if snap := p.Snapshot; snap != nil {
			state.Score = snap.Score
			state.Level = snap.Level
			state.Lines = snap.Lines
			state.Cols = snap.Cols
			state.Board = snap.Board
		}
		peers = append(peers, state)
	}
	sort.Slice(peers, func(i, j int) bool {
		if peers[i].PlayerName != peers[j].PlayerName {
			return peers[i].PlayerName < peers[j].PlayerName
		}
		return peers[i].PlayerID < peers[j].PlayerID
	})
	return peers
}

// Leaderboard returns up to limit best scores, highest first. A limit of
// zero or less returns all of them.
func (l *Lobby) Leaderboard(limit int) []protocol.LeaderboardEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]protocol.LeaderboardEntry, 0, len(l.best))
	for name, score := range l.best {
		entries = append(entries, protocol.LeaderboardEntry{PlayerName: name, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerName < entries[j].PlayerName
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// BestScore is the highest score on the leaderboard, or 0.
func (l *Lobby) BestScore() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	best := 0
	for _, score := range l.best {
		if score > best {
			best = score
		}
	}
	return best
}

func (l *Lobby) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.players)
}

func (l *Lobby) CountAlive() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	count := 0
	for _, p := range l.players {
		if p.Alive {
			count++
		}
	}
	return count
}
