package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hersh/gotris-pro/internal/config"
	"github.com/hersh/gotris-pro/internal/game"
	"github.com/hersh/gotris-pro/internal/protocol"
	"github.com/hersh/gotris-pro/internal/shop"
)

const (
	ghostColor   = "244"
	previewRows  = 10
	unknownColor = "248"
)

var (
	// fadeChars is indexed by fade progress, faintest first.
	fadeChars = []string{"░░", "▓▓", "██"}

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("15"))

	infoStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("15"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("51"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("226"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	shopStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("226")).
			Padding(0, 1)
)

// colorFor maps a cell value (1..7) to the palette entry of its piece type.
func colorFor(cell int, palette []string) string {
	t := game.TypeOfColor(cell)
	if !t.Valid() || int(t) >= len(palette) {
		return unknownColor
	}
	return palette[t]
}

func fadeChar(progress float64) string {
	i := int(progress * float64(len(fadeChars)))
	if i >= len(fadeChars) {
		i = len(fadeChars) - 1
	}
	if i < 0 {
		i = 0
	}
	return fadeChars[i]
}

// RenderBoard draws the locked cells, the falling piece and its ghost.
// Rows being cleared are drawn with a character that fades with progress.
func RenderBoard(snap game.Snapshot, palette []string) string {
	var sb strings.Builder

	clearing := make(map[int]bool, len(snap.ClearingRows))
	for _, y := range snap.ClearingRows {
		clearing[y] = true
	}
	showPiece := snap.Phase == game.PhaseFalling
	p := snap.Active

	for y := 0; y < snap.Rows; y++ {
		for x := 0; x < snap.Cols; x++ {
			cell := snap.Grid[y][x]
			char := "  "
			color := "0"

			if cell != 0 {
				char = "██"
				color = colorFor(cell, palette)
				if clearing[y] {
					char = fadeChar(snap.FadeProgress)
				}
			}

			if showPiece {
				for py, row := range p.Shape {
					for px, filled := range row {
						if !filled || p.Col+px != x {
							continue
						}
						if p.Row+py == y {
							char = "██"
							color = colorFor(p.Color, palette)
						} else if snap.GhostRow+py == y && cell == 0 && char == "  " {
							char = "[]"
							color = ghostColor
						}
					}
				}
			}

			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(color)).
				Render(char))
		}
		if y < snap.Rows-1 {
			sb.WriteString("\n")
		}
	}

	return boardStyle.Render(sb.String())
}

func RenderPiece(t game.PieceType, palette []string) string {
	if !t.Valid() {
		return "Empty"
	}

	var sb strings.Builder
	pieceStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFor(game.ColorOf(t), palette)))

	shape := game.ShapeOf(t)
	for y, row := range shape {
		for _, filled := range row {
			if filled {
				sb.WriteString(pieceStyle.Render("██"))
			} else {
				sb.WriteString("  ")
			}
		}
		if y < len(shape)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// RenderInfo is the side panel. A negative coin count hides the shop line.
func RenderInfo(snap game.Snapshot, player string, coins int, palette []string) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("GOTRIS") + "\n\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Player: %s", player)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Score: %d", snap.Score)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("High: %d", snap.HighScore)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Level: %d", snap.Level)) + "\n")
	sb.WriteString(infoStyle.Render(fmt.Sprintf("Lines: %d", snap.Lines)) + "\n")
	if coins >= 0 {
		sb.WriteString(infoStyle.Render(fmt.Sprintf("Coins: %d", coins)) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(titleStyle.Render("NEXT") + "\n")
	sb.WriteString(RenderPiece(snap.Next, palette) + "\n\n")

	hold := "HOLD"
	if !snap.CanHold {
		hold += " (used)"
	}
	sb.WriteString(titleStyle.Render(hold) + "\n")
	sb.WriteString(RenderPiece(snap.Held, palette) + "\n")

	if snap.Paused {
		sb.WriteString("\n" + selectedStyle.Render("PAUSED  (p to resume)"))
	}

	return sb.String()
}

// RenderSetup shows the width and difficulty choices with the current
// selection highlighted.
func RenderSetup(widthIdx, diffIdx int, notice string, err error) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(`
╔══════════════════════════════╗
║          G O T R I S         ║
╚══════════════════════════════╝`) + "\n\n")

	sb.WriteString(infoStyle.Render("Board width   ← →") + "\n  ")
	for i, w := range config.BoardWidths {
		label := fmt.Sprintf(" %d ", w)
		if i == widthIdx {
			label = selectedStyle.Render("[" + label + "]")
		}
		sb.WriteString(label)
	}
	sb.WriteString("\n\n")

	sb.WriteString(infoStyle.Render("Difficulty    ↑ ↓") + "\n")
	for i, d := range config.Difficulties {
		line := fmt.Sprintf("   %-7s %dms  x%d", d.Name, d.Gravity.Milliseconds(), d.Multiplier)
		if i == diffIdx {
			line = selectedStyle.Render(" > " + line[3:])
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n" + infoStyle.Render("Press ENTER to start, Q to quit") + "\n")
	sb.WriteString(RenderControls())

	if notice != "" {
		sb.WriteString("\n" + noticeStyle.Render(notice))
	}
	if err != nil {
		sb.WriteString("\n" + gameOverStyle.Render(err.Error()))
	}
	return sb.String()
}

func RenderShop(coins int, notice string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("SHOP") + fmt.Sprintf("  coins: %d\n", coins))
	for i, item := range shop.Items {
		sb.WriteString(fmt.Sprintf("[%d] %-18s %3d\n", i+1, item.String(), item.Cost()))
	}
	sb.WriteString("[esc] close")
	if notice != "" {
		sb.WriteString("\n" + noticeStyle.Render(notice))
	}
	return shopStyle.Render(sb.String())
}

func RenderGameOver(score, high int, entries []protocol.LeaderboardEntry) string {
	var sb strings.Builder

	sb.WriteString(gameOverStyle.Render("GAME OVER") + "\n\n")
	sb.WriteString(fmt.Sprintf("Score: %d\n", score))
	if score > 0 && score >= high {
		sb.WriteString(selectedStyle.Render("New high score!") + "\n")
	} else {
		sb.WriteString(fmt.Sprintf("High:  %d\n", high))
	}

	if len(entries) > 0 {
		sb.WriteString("\n" + titleStyle.Render("LEADERBOARD") + "\n")
		for i, e := range entries {
			sb.WriteString(fmt.Sprintf("%2d. %-12s %d\n", i+1, e.PlayerName, e.Score))
		}
	}

	sb.WriteString("\nENTER play again   M setup   Q quit")
	return sb.String()
}

// RenderPeerPreview renders the bottom of another player's board.
func RenderPeerPreview(peer protocol.PeerState, palette []string) string {
	cols := peer.Cols
	if cols <= 0 {
		cols = config.BoardWidths[0]
	}
	startY := game.Rows - previewRows
	board := game.BoardFromFlat(peer.Board, cols, game.Rows)

	var sb strings.Builder

	nameStyle := lipgloss.NewStyle().
		MaxWidth(cols).
		Foreground(lipgloss.Color("15"))

	sb.WriteString(nameStyle.Render(peer.PlayerName) + "\n")

	for y := startY; y < game.Rows; y++ {
		for x := 0; x < cols; x++ {
			cell := board.Cell(y, x)
			if cell != 0 && peer.Alive {
				sb.WriteString(lipgloss.NewStyle().
					Foreground(lipgloss.Color(colorFor(cell, palette))).
					Render("█"))
			} else {
				sb.WriteString("·")
			}
		}
		sb.WriteString("\n")
	}

	if !peer.Alive {
		sb.WriteString(gameOverStyle.Render("OUT"))
		return sb.String()
	}
	sb.WriteString(infoStyle.Render(fmt.Sprintf("S:%d L:%d", peer.Score, peer.Lines)))

	return sb.String()
}

// RenderPeers stacks up to maxDisplay peer previews.
func RenderPeers(peers []protocol.PeerState, maxDisplay int, palette []string) string {
	if len(peers) == 0 {
		return ""
	}

	display := peers
	if len(display) > maxDisplay {
		display = display[:maxDisplay]
	}

	previews := make([]string, 0, len(display))
	for _, peer := range display {
		previews = append(previews, lipgloss.NewStyle().
			Padding(0, 1).
			Render(RenderPeerPreview(peer, palette)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, previews...)
}

func RenderControls() string {
	return infoStyle.Render(`
Controls:
  ← →    Move left/right
  ↓      Soft drop
  Space  Hard drop
  ↑/X    Rotate
  C/Z    Hold piece
  P      Pause
  S      Shop
`)
}
