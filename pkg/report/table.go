package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const undefinedText = "undefined"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	undefinedStyle = cellStyle.
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))
)

// FormatScore renders a score with the fewest digits that round-trip, and
// NaN as "undefined".
func FormatScore(v float64) string {
	if math.IsNaN(v) {
		return undefinedText
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Table renders ranked entries as a bordered Index/Node/Value table.
func Table(ranked []Entry) string {
	rows := make([][]string, len(ranked))
	for i, e := range ranked {
		rows[i] = []string{strconv.Itoa(e.Index), e.Label, FormatScore(e.Score)}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("Index", "Node", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2 && row >= 0 && row < len(ranked) && ranked[row].Undefined():
				return undefinedStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

// WritePlain writes the fixed-width table used when output is not a
// terminal: three centred ten-character columns under a dashed rule.
func WritePlain(w io.Writer, ranked []Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s%s\n", center("Index", 10), center("Node", 10), center("Value", 10))
	b.WriteString(strings.Repeat("-", 30))
	b.WriteByte('\n')
	for _, e := range ranked {
		fmt.Fprintf(&b, "%s%s%s\n", center(strconv.Itoa(e.Index), 10), center(e.Label, 10), center(FormatScore(e.Score), 10))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// center pads s to width, putting the odd space on the right.
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}
