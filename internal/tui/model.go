package tui

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hersh/gotris-pro/internal/config"
	"github.com/hersh/gotris-pro/internal/game"
	"github.com/hersh/gotris-pro/internal/netclient"
	"github.com/hersh/gotris-pro/internal/protocol"
	"github.com/hersh/gotris-pro/internal/shop"
	"go.uber.org/zap"
)

const (
	animInterval     = 30 * time.Millisecond
	snapshotInterval = 100 * time.Millisecond
	maxPeers         = 4
)

// --- Custom tea.Msg types ---

// GameTickMsg is one gravity step. Ticks from an older generation are
// dropped, which is how the chain is stopped and restarted.
type GameTickMsg struct{ gen int }

// AnimTickMsg advances the line clear fade.
type AnimTickMsg struct{ gen int }

// SnapshotTickMsg triggers sending the board to the relay.
type SnapshotTickMsg struct{ session int }

// --- Screens ---

type Screen int

const (
	ScreenConnecting Screen = iota
	ScreenSetup
	ScreenPlaying
	ScreenGameOver
)

// ScoreKeeper loads the stored high score and records new ones.
type ScoreKeeper interface {
	Load() int
	RecordHighScore(score int)
}

// Relay is the spectator connection, nil when playing offline.
type Relay interface {
	Join(name string)
	PublishSnapshot(snap game.Snapshot)
	SessionOver(score int)
	Close()
}

// --- Model ---

type Model struct {
	screen Screen
	cfg    config.Config
	width  int
	height int

	// Setup selection
	widthIdx int
	diffIdx  int

	session   *game.Session
	shop      *shop.Shop
	shopOpen  bool
	notice    string
	animating bool
	tickGen   int
	sessionID int

	keeper ScoreKeeper
	log    *zap.Logger

	// Network
	client      Relay
	playerID    string
	peers       []protocol.PeerState
	leaderboard []protocol.LeaderboardEntry

	err error
}

// NewModel creates the client TUI. keeper and client may be nil; without a
// client the relay is skipped and play is offline.
func NewModel(cfg config.Config, keeper ScoreKeeper, client Relay, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	screen := ScreenConnecting
	if client == nil {
		screen = ScreenSetup
	}
	return Model{
		screen:   screen,
		cfg:      cfg,
		widthIdx: widthIndex(cfg.BoardWidth),
		diffIdx:  difficultyIndex(cfg.Difficulty),
		keeper:   keeper,
		client:   client,
		log:      log,
	}
}

func widthIndex(w int) int {
	for i, allowed := range config.BoardWidths {
		if allowed == w {
			return i
		}
	}
	return 0
}

func difficultyIndex(name string) int {
	for i, d := range config.Difficulties {
		if strings.EqualFold(d.Name, name) {
			return i
		}
	}
	return 0
}

func (m Model) Init() tea.Cmd {
	return nil
}

func gameTickCmd(gen int, period time.Duration) tea.Cmd {
	return tea.Tick(period, func(time.Time) tea.Msg {
		return GameTickMsg{gen: gen}
	})
}

func animTickCmd(gen int) tea.Cmd {
	return tea.Tick(animInterval, func(time.Time) tea.Msg {
		return AnimTickMsg{gen: gen}
	})
}

func snapshotTickCmd(session int) tea.Cmd {
	return tea.Tick(snapshotInterval, func(time.Time) tea.Msg {
		return SnapshotTickMsg{session: session}
	})
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case GameTickMsg:
		return m.handleGameTick(msg)
	case AnimTickMsg:
		return m.handleAnimTick(msg)
	case SnapshotTickMsg:
		return m.handleSnapshotTick(msg)

	// Network messages
	case netclient.ConnectedMsg:
		m.playerID = msg.PlayerID
		if m.client != nil {
			m.client.Join(m.cfg.Player)
		}
		if m.screen == ScreenConnecting {
			m.screen = ScreenSetup
		}
		return m, nil
	case netclient.DisconnectedMsg:
		m.log.Warn("relay disconnected", zap.Error(msg.Err))
		if m.client != nil {
			m.client.Close()
			m.client = nil
		}
		m.peers = nil
		m.notice = "relay disconnected, playing offline"
		if m.screen == ScreenConnecting {
			m.screen = ScreenSetup
		}
		return m, nil
	case netclient.PeersMsg:
		m.peers = msg.Peers
		return m, nil
	case netclient.LeaderboardMsg:
		m.leaderboard = msg.Entries
		return m, nil
	}
	return m, nil
}

// --- Session lifecycle ---

func (m Model) startSession() (tea.Model, tea.Cmd) {
	m.cfg.BoardWidth = config.BoardWidths[m.widthIdx]
	m.cfg.Difficulty = config.Difficulties[m.diffIdx].Name

	high := 0
	if m.keeper != nil {
		high = m.keeper.Load()
	}
	gc, err := m.cfg.SessionConfig(high)
	if err != nil {
		m.err = err
		return m, nil
	}
	if gc.Seed == 0 {
		gc.Seed = time.Now().UnixNano()
	}

	var opts []game.Option
	if m.keeper != nil {
		opts = append(opts, game.WithRecorder(m.keeper))
	}
	m.shop = nil
	if m.cfg.Shop {
		m.shop = shop.New(gc.Seed)
		opts = append(opts, game.WithModifier(m.shop))
	}

	m.session = game.NewSession(gc, opts...)
	m.screen = ScreenPlaying
	m.shopOpen = false
	m.animating = false
	m.notice = ""
	m.err = nil
	m.tickGen++
	m.sessionID++

	m.log.Info("session started",
		zap.Int("width", gc.Width),
		zap.String("difficulty", m.cfg.Difficulty),
		zap.Int64("seed", gc.Seed),
		zap.Int("high_score", high))

	if m.session.GameOver() {
		return m.endSession()
	}

	cmds := []tea.Cmd{gameTickCmd(m.tickGen, m.session.GravityPeriod(time.Now()))}
	if m.client != nil {
		cmds = append(cmds, snapshotTickCmd(m.sessionID))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) endSession() (tea.Model, tea.Cmd) {
	m.screen = ScreenGameOver
	m.shopOpen = false
	m.tickGen++

	score := m.session.Score()
	m.log.Info("session over",
		zap.Int("score", score),
		zap.Int("level", m.session.Level()),
		zap.Int("lines", m.session.Lines()),
		zap.Int("high_score", m.session.HighScore()))

	if m.client != nil {
		m.client.PublishSnapshot(m.session.Snapshot())
		m.client.SessionOver(score)
	}
	return m, nil
}

// settle reacts to the phase an engine call left the session in: a clear
// animation suspends gravity, game over leaves the play screen.
func (m Model) settle() (tea.Model, tea.Cmd, bool) {
	switch {
	case m.session.GameOver():
		next, cmd := m.endSession()
		return next, cmd, true
	case m.session.Clearing() && !m.animating:
		m.animating = true
		m.tickGen++
		return m, animTickCmd(m.tickGen), true
	}
	return m, nil, false
}

// --- Key handlers ---

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "q":
		if m.screen == ScreenPlaying {
			// Don't quit during gameplay with q
			break
		}
		return m.quit()
	}

	switch m.screen {
	case ScreenSetup:
		return m.handleSetupKeys(msg)
	case ScreenPlaying:
		if m.shopOpen {
			return m.handleShopKeys(msg)
		}
		return m.handlePlayingKeys(msg)
	case ScreenGameOver:
		return m.handleGameOverKeys(msg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.client != nil {
		m.client.Close()
	}
	return m, tea.Quit
}

func (m Model) handleSetupKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "h":
		m.widthIdx = (m.widthIdx + len(config.BoardWidths) - 1) % len(config.BoardWidths)
	case "right", "l":
		m.widthIdx = (m.widthIdx + 1) % len(config.BoardWidths)
	case "up", "k":
		m.diffIdx = (m.diffIdx + len(config.Difficulties) - 1) % len(config.Difficulties)
	case "down", "j":
		m.diffIdx = (m.diffIdx + 1) % len(config.Difficulties)
	case "enter", " ", "space":
		return m.startSession()
	}
	return m, nil
}

func (m Model) handlePlayingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session == nil || m.session.GameOver() {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.session.Slide(-1)
	case "right", "l":
		m.session.Slide(1)
	case "down", "j":
		m.session.SoftDrop()
	case "up", "x":
		m.session.Rotate()
	case " ", "space":
		m.session.HardDrop()
	case "c", "z":
		m.session.Hold()
	case "p":
		m.session.TogglePause()
	case "s":
		if m.shop != nil {
			m.shopOpen = true
			m.notice = ""
		}
		return m, nil
	}

	next, cmd, _ := m.settle()
	return next, cmd
}

func (m Model) handleShopKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var item shop.Item
	switch msg.String() {
	case "esc", "s":
		m.shopOpen = false
		return m, nil
	case "1":
		item = shop.SlowDown
	case "2":
		item = shop.ClearBottomRow
	case "3":
		item = shop.Recolor
	default:
		return m, nil
	}

	if err := m.shop.Buy(item, m.session, time.Now()); err != nil {
		if errors.Is(err, shop.ErrInsufficientCoins) {
			m.notice = "not enough coins for " + item.String()
		} else if errors.Is(err, shop.ErrUnavailable) {
			m.notice = item.String() + " is unavailable right now"
		} else {
			m.notice = err.Error()
		}
		m.log.Debug("purchase refused", zap.Stringer("item", item), zap.Error(err))
		return m, nil
	}
	m.notice = "bought " + item.String()
	m.log.Info("purchase", zap.Stringer("item", item), zap.Int("coins_left", m.shop.Coins()))
	return m, nil
}

func (m Model) handleGameOverKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "r":
		return m.startSession()
	case "m", "esc":
		m.screen = ScreenSetup
		m.session = nil
		return m, nil
	}
	return m, nil
}

// --- Tick handlers ---

func (m Model) handleGameTick(msg GameTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.tickGen || m.screen != ScreenPlaying || m.session == nil {
		return m, nil
	}

	// The shop overlay and pause hold the piece in place.
	if !m.shopOpen && !m.session.Paused() {
		m.session.Tick()
		if next, cmd, changed := m.settle(); changed {
			return next, cmd
		}
	}
	return m, gameTickCmd(m.tickGen, m.session.GravityPeriod(time.Now()))
}

func (m Model) handleAnimTick(msg AnimTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.tickGen || m.session == nil || !m.animating {
		return m, nil
	}
	if m.session.AnimationStep() {
		return m, animTickCmd(m.tickGen)
	}

	m.animating = false
	if m.session.GameOver() {
		return m.endSession()
	}
	m.tickGen++
	return m, gameTickCmd(m.tickGen, m.session.GravityPeriod(time.Now()))
}

func (m Model) handleSnapshotTick(msg SnapshotTickMsg) (tea.Model, tea.Cmd) {
	if msg.session != m.sessionID || m.screen != ScreenPlaying || m.client == nil || m.session == nil {
		return m, nil
	}
	m.client.PublishSnapshot(m.session.Snapshot())
	return m, snapshotTickCmd(m.sessionID)
}

// --- View ---

func (m Model) View() string {
	switch m.screen {
	case ScreenConnecting:
		return m.renderCentered("Connecting to relay...")
	case ScreenSetup:
		return m.renderCentered(RenderSetup(m.widthIdx, m.diffIdx, m.notice, m.err))
	case ScreenPlaying:
		return m.renderPlaying()
	case ScreenGameOver:
		return m.renderGameOver()
	}
	return ""
}

func (m Model) renderCentered(content string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (m Model) palette() []string {
	if m.shop != nil {
		return m.shop.Palette()
	}
	return shop.DefaultPalette
}

func (m Model) coins() int {
	if m.shop == nil {
		return -1
	}
	return m.shop.Coins()
}

func (m Model) renderPlaying() string {
	if m.session == nil {
		return "Loading..."
	}

	snap := m.session.Snapshot()
	palette := m.palette()

	leftPanel := lipgloss.NewStyle().
		Width(24).
		Render(RenderInfo(snap, m.cfg.Player, m.coins(), palette))

	center := RenderBoard(snap, palette)
	if m.shopOpen {
		center = lipgloss.JoinVertical(lipgloss.Left, center, RenderShop(m.shop.Coins(), m.notice))
	}
	centerPanel := lipgloss.NewStyle().
		Padding(1, 2).
		Render(center)

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, centerPanel)

	if peerView := RenderPeers(m.peers, maxPeers, palette); peerView != "" {
		rightPanel := lipgloss.NewStyle().
			Padding(1, 2).
			Render(peerView)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, centerPanel, rightPanel)
	}

	return m.renderCentered(mainContent)
}

func (m Model) renderGameOver() string {
	if m.session == nil {
		return m.renderCentered("Game Over")
	}
	return m.renderCentered(RenderGameOver(m.session.Score(), m.session.HighScore(), m.leaderboard))
}

func (m Model) Screen() Screen {
	return m.screen
}

func (m Model) Session() *game.Session {
	return m.session
}
