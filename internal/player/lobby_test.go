package player

import (
	"testing"

	"github.com/hersh/gotris-pro/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobbyPeersExcludeSelf(t *testing.T) {
	l := NewLobby()
	l.AddPlayer("a", "ada")
	l.AddPlayer("b", "bob")
	l.AddPlayer("c", "cy")
	l.UpdateSnapshot("b", protocol.BoardSnapshotPayload{Score: 300, Level: 1, Lines: 2, Alive: true, Cols: 10, Board: []int{0, 1}})

	peers := l.Peers("a")
	require.Len(t, peers, 2)
	assert.Equal(t, "bob", peers[0].PlayerName)
	assert.Equal(t, 300, peers[0].Score)
	assert.Equal(t, 10, peers[0].Cols)
	assert.Equal(t, []int{0, 1}, peers[0].Board)
	assert.Equal(t, "cy", peers[1].PlayerName)
	assert.Nil(t, peers[1].Board)
	assert.True(t, peers[1].Alive)
}

func TestLobbyFinishSessionTracksBest(t *testing.T) {
	l := NewLobby()
	l.AddPlayer("a", "ada")
	l.AddPlayer("b", "bob")

	assert.True(t, l.FinishSession("a", 500))
	assert.False(t, l.FinishSession("a", 200))
	assert.True(t, l.FinishSession("b", 900))
	assert.False(t, l.FinishSession("ghost", 10000))

	assert.Equal(t, 0, l.CountAlive())
	assert.Equal(t, 900, l.BestScore())
	assert.Equal(t, []protocol.LeaderboardEntry{
		{PlayerName: "bob", Score: 900},
		{PlayerName: "ada", Score: 500},
	}, l.Leaderboard(0))
	assert.Len(t, l.Leaderboard(1), 1)

	// Best scores survive a disconnect.
	l.RemovePlayer("a")
	assert.Equal(t, 1, l.Count())
	assert.Len(t, l.Leaderboard(10), 2)
}

func TestLobbySnapshotRevives(t *testing.T) {
	l := NewLobby()
	l.AddPlayer("a", "ada")
	l.FinishSession("a", 100)

	p, ok := l.GetPlayer("a")
	require.True(t, ok)
	assert.False(t, p.Alive)

	l.UpdateSnapshot("a", protocol.BoardSnapshotPayload{Alive: true})
	p, _ = l.GetPlayer("a")
	assert.True(t, p.Alive)

	l.SetName("a", "ada2")
	p, _ = l.GetPlayer("a")
	assert.Equal(t, "ada2", p.Name)

	_, ok = l.GetPlayer("missing")
	assert.False(t, ok)
}

func TestLobbyAnonymousScores(t *testing.T) {
	l := NewLobby()
	l.AddPlayer("a", "")
	require.True(t, l.FinishSession("a", 70))
	assert.Equal(t, []protocol.LeaderboardEntry{{PlayerName: AnonymousName, Score: 70}}, l.Leaderboard(0))
}
