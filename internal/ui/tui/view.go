package tui

import (
	"fmt"
	"image/color"
	"strings"

	"pomodoro/internal/audio"
	"pomodoro/internal/core/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	clockStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 2)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("205")).Padding(0, 1)
	tabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	bannerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("208")).Padding(0, 1)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pomodoro Timer"))
	b.WriteString("\n\n")
	b.WriteString(m.renderModes())
	b.WriteString("\n\n")

	theme := activeTheme(m.mix)
	clock := clockStyle.
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color(hexColor(theme.Primary))).
		Render(m.state.Clock())
	status := "paused"
	if m.state.IsRunning {
		status = "running"
	}
	b.WriteString(clock + "  " + dimStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.progress.ViewAs(m.state.Progress()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(completedText(m.state.CompletedPomodoros)))
	b.WriteString("\n\n")

	b.WriteString(m.renderMixer())

	if m.banner.Body != "" && m.now().Sub(m.banner.At) < bannerTTL {
		b.WriteString("\n")
		b.WriteString(bannerStyle.Render(m.banner.Title + ": " + m.banner.Body))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderModes() string {
	tabs := make([]string, 0, 3)
	for i, mode := range model.Modes {
		label := fmt.Sprintf("%d %s", i+1, mode.Label())
		if mode == m.state.Mode {
			tabs = append(tabs, activeStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderMixer() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Ambient sounds"))
	b.WriteString("\n")
	for i, sound := range m.mix {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		state := dimStyle.Render("off")
		if sound.IsPlaying {
			state = lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(audio.ThemeFor(sound.ID).Accent))).Render("on ")
		}
		fmt.Fprintf(&b, "%s%-12s %s %s %3d%%\n", pointer, sound.Name, state, volumeBar(sound.Volume, 10), int(sound.Volume*100+0.5))
	}
	return b.String()
}

func activeTheme(sounds []audio.Sound) audio.Theme {
	for _, sound := range sounds {
		if sound.IsPlaying {
			return audio.ThemeFor(sound.ID)
		}
	}
	return audio.DefaultTheme
}

func volumeBar(volume float64, width int) string {
	filled := int(audio.ClampVolume(volume)*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func completedText(count int) string {
	if count == 1 {
		return "1 pomodoro completed"
	}
	return fmt.Sprintf("%d pomodoros completed", count)
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
