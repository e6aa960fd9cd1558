package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var namedColors = map[string]string{
	DailyColor:  "#4682B4",
	WeeklyColor: "#FFA500",
	"white":     "#FFFFFF",
}

func termColor(name string) lipgloss.Color {
	if hex, ok := namedColors[name]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(name)
}

var dateStyle = lipgloss.NewStyle().Faint(true)

type cell struct {
	r      rune
	bar    int
	filled bool
}

// Terminal draws the surface on a cols×rows character grid for the bars,
// plus one row of date labels. Geometry is scaled from the surface, so the
// relative bar sizes match the SVG output.
func Terminal(s *Surface, cols, rows int) string {
	if cols < 1 || rows < 1 || s.Width <= 0 {
		return ""
	}
	plotH := s.Height - LabelSpace

	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, cols)
		for c := range grid[r] {
			grid[r][c] = cell{r: ' ', bar: -1}
		}
	}

	for bi, bar := range s.Bars {
		c0 := int(bar.X / s.Width * float64(cols))
		c1 := int((bar.X + bar.Width) / s.Width * float64(cols))
		if c1 <= c0 {
			c1 = c0 + 1
		}
		c0, c1 = max(c0, 0), min(c1, cols)
		if c0 >= c1 {
			continue
		}

		h := 1
		if plotH > 0 {
			h = int(math.Ceil(bar.Height / plotH * float64(rows)))
		}
		h = min(max(h, 1), rows)
		top := rows - h

		for r := top; r < rows; r++ {
			for c := c0; c < c1; c++ {
				if bar.Value == 0 {
					grid[r][c] = cell{r: '▁', bar: bi}
					continue
				}
				grid[r][c] = cell{r: ' ', bar: bi, filled: true}
			}
		}

		label := []rune(bar.ValueLabel.Text)
		if len(label) <= c1-c0 && bar.Value != 0 {
			mid := top + (h-1)/2
			start := c0 + (c1-c0-len(label))/2
			for i, ch := range label {
				grid[mid][start+i].r = ch
			}
		}
	}

	var b strings.Builder
	for r := range grid {
		for _, cl := range grid[r] {
			switch {
			case cl.bar < 0:
				b.WriteRune(cl.r)
			case cl.filled:
				b.WriteString(lipgloss.NewStyle().
					Background(termColor(s.Bars[cl.bar].Fill)).
					Foreground(termColor("white")).
					Render(string(cl.r)))
			default:
				b.WriteString(lipgloss.NewStyle().
					Foreground(termColor(s.Bars[cl.bar].Fill)).
					Render(string(cl.r)))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(dateStyle.Render(dateRow(s, cols)))
	return b.String()
}

// dateRow places each date label under its bar, skipping labels that would
// overlap an earlier one.
func dateRow(s *Surface, cols int) string {
	row := []rune(strings.Repeat(" ", cols))
	end := 0
	for _, bar := range s.Bars {
		label := []rune(bar.DateLabel.Text)
		centre := int(bar.DateLabel.X / s.Width * float64(cols))
		start := centre - len(label)/2
		if start < end || start < 0 || start+len(label) > cols {
			continue
		}
		copy(row[start:], label)
		end = start + len(label) + 1
	}
	return strings.TrimRight(string(row), " ")
}
