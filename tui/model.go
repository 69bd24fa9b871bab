// This file is part of Gophersynth.
//
// Gophersynth is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gophersynth is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gophersynth.  If not, see <https://www.gnu.org/licenses/>.

package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jetsetilly/gophersynth/hardware/lcd"
	"github.com/jetsetilly/gophersynth/hardware/panel"
)

// Device is the part of the device used by the front panel.
type Device interface {
	DisplayLines() [lcd.Lines]string
	LedState(l panel.Led) bool
	SetButtonState(b panel.Button, pressed bool) bool
	RotateEncoder(e panel.Encoder, delta int) bool
	IsMultiMode() bool
}

// refresh rate of the front panel
const refresh = 50 * time.Millisecond

// TickMsg is sent to the model on every refresh.
type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refresh, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

var (
	lcdStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5f8700")).
			Foreground(lipgloss.Color("#d7ff5f")).
			Background(lipgloss.Color("#1c1c1c")).
			Padding(0, 1)
	ledOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f00")).Bold(true)
	ledOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4e4e4e"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00afff"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	selStyle    = lipgloss.NewStyle().Reverse(true)
)

// Model is the bubbletea model of the front panel.
type Model struct {
	dev Device

	// the encoder turned by the -/+ keys
	encoder panel.Encoder

	// buttons pressed by the previous key press. released on the next tick
	held []panel.Button

	quitting bool
}

// NewModel is the preferred method of initialisation for the Model type.
func NewModel(dev Device) Model {
	return Model{
		dev:     dev,
		encoder: panel.EncoderValue,
	}
}

// Init implements the tea.Model interface.
func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) release() Model {
	for _, b := range m.held {
		m.dev.SetButtonState(b, false)
	}
	m.held = m.held[:0]
	return m
}

// Update implements the tea.Model interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "esc", "ctrl+c", "q":
			m = m.release()
			m.quitting = true
			return m, tea.Quit

		case "tab":
			m.encoder = (m.encoder + 1) % panel.NumEncoders

		case "shift+tab":
			m.encoder = (m.encoder + panel.NumEncoders - 1) % panel.NumEncoders

		case "+", "=":
			m.dev.RotateEncoder(m.encoder, 1)

		case "-", "_":
			m.dev.RotateEncoder(m.encoder, -1)

		default:
			if b, ok := keyButtons[key]; ok {
				m.dev.SetButtonState(b, true)
				m.held = append(m.held, b)
			}
		}

	case TickMsg:
		m = m.release()
		return m, tick()
	}

	return m, nil
}

// View implements the tea.Model interface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	mode := "SINGLE"
	if m.dev.IsMultiMode() {
		mode = "MULTI"
	}
	header := headerStyle.Render(fmt.Sprintf("gophersynth  %s", mode))

	lines := m.dev.DisplayLines()
	display := lcdStyle.Render(strings.Join(lines[:], "\n"))

	var leds strings.Builder
	for l := range panel.NumLeds {
		if l > 0 {
			leds.WriteString(" ")
		}
		if m.dev.LedState(l) {
			leds.WriteString(ledOnStyle.Render("●" + l.String()))
		} else {
			leds.WriteString(ledOffStyle.Render("○" + l.String()))
		}
	}

	var encs strings.Builder
	for e := range panel.NumEncoders {
		if e > 0 {
			encs.WriteString(" ")
		}
		if e == m.encoder {
			encs.WriteString(selStyle.Render(e.String()))
		} else {
			encs.WriteString(dimStyle.Render(e.String()))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		display,
		leds.String(),
		encs.String(),
		"",
		dimStyle.Render(helpText),
	)
}

// Run the front panel until the user quits.
func Run(dev Device) error {
	p := tea.NewProgram(NewModel(dev), tea.WithAltScreen())
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
