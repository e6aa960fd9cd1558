package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Cue names a feedback sound.
type Cue string

const (
	CueComplete Cue = "choreCompleteSound"
	CueClaim    Cue = "choreClaimSound"
)

type Player interface {
	Play(Cue)
}

// Bell rings the terminal bell for every cue.
type Bell struct {
	W io.Writer
}

func (b Bell) Play(Cue) { _, _ = io.WriteString(b.W, "\a") }

// Silent plays nothing.
type Silent struct{}

func (Silent) Play(Cue) {}

func play(p Player, c Cue) tea.Cmd {
	return func() tea.Msg {
		p.Play(c)
		return nil
	}
}
