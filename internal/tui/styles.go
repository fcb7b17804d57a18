package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/model"
)

// toastWidth is the width of a toast box in cells, borders included.
const toastWidth = 44

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// renderToast draws one toast box. Exiting toasts fade and shrink toward
// the anchored edge as progress goes from 0 to 1.
func renderToast(nd *node, accents config.AccentConfig, selected bool, now time.Time, maxWidth int) string {
	width := min(toastWidth, maxWidth)
	if p := nd.progress(); p > 0 {
		width = max(int(float64(width)*(1-p)), 4)
	}

	accent := lipgloss.Color(accents.For(nd.n.Variant))
	border := lipgloss.RoundedBorder()
	if selected {
		border = lipgloss.ThickBorder()
	}

	box := lipgloss.NewStyle().
		Border(border).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width - 2)

	iconStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	body := iconStyle.Render(nd.n.Variant.Icon()) + " " + nd.n.Message
	age := dimStyle.Render(humanize.RelTime(nd.n.CreatedAt, now, "ago", "from now"))

	if nd.exiting {
		box = box.Faint(true)
	}

	return box.Render(body + "\n" + age)
}

// placement maps a stack position to lipgloss alignment.
func placement(pos model.Position) (lipgloss.Position, lipgloss.Position) {
	h, v := lipgloss.Right, lipgloss.Top
	if pos.IsLeft() {
		h = lipgloss.Left
	}
	if pos.IsBottom() {
		v = lipgloss.Bottom
	}
	return h, v
}

// joinStack stacks toast boxes vertically.
func joinStack(boxes []string, align lipgloss.Position) string {
	if len(boxes) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(align, boxes...)
}
