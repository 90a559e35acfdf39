package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okiba/blastarena/internal/game"
	"github.com/okiba/blastarena/internal/session"
)

// snapshotMsg carries a new snapshot from the network client.
type snapshotMsg game.GameState

// errMsg carries a fatal client error.
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

// Model is the Bubbletea model for the game client.
type Model struct {
	client   *session.Client
	state    *game.GameState
	playerID int
	err      error
	quitting bool
}

// NewModel creates a TUI model bound to a connected client.
func NewModel(client *session.Client) Model {
	return Model{
		client:   client,
		playerID: client.PlayerID(),
	}
}

// Init starts listening for snapshots.
func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.client)
}

// Update handles key presses and snapshot arrivals.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case snapshotMsg:
		state := game.GameState(msg)
		m.state = &state
		return m, waitForSnapshot(m.client)

	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

// View renders the current snapshot.
func (m Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.err != nil {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff4444")).
			Render("Error: "+m.err.Error()) + "\n"
	}

	board := RenderBoard(m.state, m.playerID)
	hud := RenderHUD(m.state, m.playerID)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		board,
		"  ",
		hud,
	) + "\n"
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "w":
		m.client.SendIntent(game.IntentMoveUp)
	case "down", "s":
		m.client.SendIntent(game.IntentMoveDown)
	case "left", "a":
		m.client.SendIntent(game.IntentMoveLeft)
	case "right", "d":
		m.client.SendIntent(game.IntentMoveRight)
	case " ":
		m.client.SendIntent(game.IntentPlaceBomb)
	case "enter":
		m.client.SendStart()
	}

	return m, nil
}

// waitForSnapshot blocks on the client's state channel.
func waitForSnapshot(client *session.Client) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-client.States()
		if !ok {
			return errMsg{err: fmt.Errorf("server connection closed")}
		}
		return snapshotMsg(state)
	}
}
