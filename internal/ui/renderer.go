package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okiba/blastarena/internal/game"
)

var (
	wallStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3a3a3a")).
			Foreground(lipgloss.Color("#555555"))

	blockStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6914")).
			Foreground(lipgloss.Color("#A0772B"))

	emptyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#1a1a2e"))

	bombStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(lipgloss.Color("#ff4444")).
			Bold(true)

	flameStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#ff6600")).
			Foreground(lipgloss.Color("#ffcc00")).
			Bold(true)

	playerColors = []lipgloss.Color{
		lipgloss.Color("#00ff88"),
		lipgloss.Color("#4488ff"),
		lipgloss.Color("#ff44ff"),
		lipgloss.Color("#ffff44"),
	}

	deadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	hudBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8844")).
			Bold(true)

	lobbyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44aaff")).
			Bold(true)

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// RenderBoard converts a snapshot into a styled terminal string.
func RenderBoard(state *game.GameState, myID int) string {
	if state == nil || state.Grid.Height == 0 {
		return "Waiting for game state..."
	}

	flameSet := make(map[game.Position]bool, len(state.Flames))
	for _, f := range state.Flames {
		flameSet[f.Pos] = true
	}

	bombSet := make(map[game.Position]*game.Bomb, len(state.Bombs))
	for _, b := range state.Bombs {
		bombSet[b.Pos] = b
	}

	playerSet := make(map[game.Position]*game.Player, len(state.Players))
	for _, p := range state.Players {
		if p.Alive {
			playerSet[p.Pos] = p
		}
	}

	var rows []string
	for y := 0; y < state.Grid.Height; y++ {
		var cells []string
		for x := 0; x < state.Grid.Width; x++ {
			pos := game.Position{X: x, Y: y}
			cells = append(cells, renderCell(state.Grid.Cells[y][x], pos, flameSet, bombSet, playerSet, myID))
		}
		rows = append(rows, strings.Join(cells, ""))
	}

	return strings.Join(rows, "\n")
}

// renderCell renders one cell, two characters wide for a square-ish look.
// Priority: player > flame > bomb > grid cell.
func renderCell(
	cell game.CellKind,
	pos game.Position,
	flameSet map[game.Position]bool,
	bombSet map[game.Position]*game.Bomb,
	playerSet map[game.Position]*game.Player,
	myID int,
) string {
	if p, ok := playerSet[pos]; ok {
		color := playerColors[(p.ID-1+len(playerColors))%len(playerColors)]
		style := lipgloss.NewStyle().
			Background(lipgloss.Color("#1a1a2e")).
			Foreground(color).
			Bold(true)

		label := fmt.Sprintf("P%d", p.ID)
		if p.ID == myID {
			label = "██"
			style = style.Background(color)
		}
		return style.Render(label)
	}

	if flameSet[pos] {
		return flameStyle.Render("░░")
	}

	if b, ok := bombSet[pos]; ok {
		label := "()"
		// Show the countdown once it is about to blow.
		if b.Countdown < 100 {
			label = fmt.Sprintf("%2d", b.Countdown)
		}
		return bombStyle.Render(label)
	}

	switch cell {
	case game.CellWall:
		return wallStyle.Render("██")
	case game.CellBlock:
		return blockStyle.Render("▒▒")
	default:
		return emptyStyle.Render("  ")
	}
}

// RenderHUD renders the phase, tick counter and player roster.
func RenderHUD(state *game.GameState, myID int) string {
	if state == nil {
		return ""
	}

	var parts []string

	parts = append(parts, titleStyle.Render("BLAST ARENA"))
	parts = append(parts, dimStyle.Render(fmt.Sprintf("tick %d", state.Tick)))
	parts = append(parts, "")

	switch state.Phase {
	case game.PhaseLobby:
		parts = append(parts, lobbyStyle.Render("LOBBY: waiting for players"))
		parts = append(parts, "   Press [Enter] to start!")
	case game.PhaseRunning:
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render("MATCH IN PROGRESS"))
	case game.PhaseEnded:
		if p, ok := state.Players[state.Winner]; ok {
			parts = append(parts, winnerStyle.Render(fmt.Sprintf("%s WINS!", p.Name)))
		} else {
			parts = append(parts, dimStyle.Render("DRAW: nobody survived"))
		}
	}
	parts = append(parts, "")

	parts = append(parts, dimStyle.Render("Players:"))
	ids := make([]int, 0, len(state.Players))
	for id := range state.Players {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		p := state.Players[id]
		nameStyle := lipgloss.NewStyle().
			Foreground(playerColors[(p.ID-1+len(playerColors))%len(playerColors)])

		status := "+"
		if !p.Alive {
			status = "x"
			nameStyle = deadStyle
		}

		marker := "  "
		if p.ID == myID {
			marker = "→ "
		}

		parts = append(parts, fmt.Sprintf("%s%s %s [bombs %d/%d range %d]",
			marker,
			status,
			nameStyle.Render(p.Name),
			p.BombLimit-p.ActiveBombs,
			p.BombLimit,
			p.BlastRange,
		))
	}

	parts = append(parts, "")
	parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("#555555")).Render("WASD/Arrows: Move | Space: Bomb | Q: Quit"))

	return hudBorderStyle.Render(strings.Join(parts, "\n"))
}
