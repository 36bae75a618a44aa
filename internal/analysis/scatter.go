package analysis

import "strings"

// Point is one coordinate pair on the unit square.
type Point struct {
	X, Y float64
}

// Scatter holds coordinates i and j of a sample.
type Scatter struct {
	XIndex, YIndex int
	Points         []Point
}

// NewScatter projects samples onto coordinates i and j. Rows too short for
// either index are skipped.
func NewScatter(samples [][]float64, i, j int) *Scatter {
	s := &Scatter{XIndex: i, YIndex: j, Points: make([]Point, 0, len(samples))}
	for _, u := range samples {
		if len(u) <= i || len(u) <= j {
			continue
		}
		s.Points = append(s.Points, Point{X: u[i], Y: u[j]})
	}
	return s
}

var shades = []rune{' ', '·', '∘', '•', '●'}

// ScatterToASCII renders the unit square with cells shaded by point count.
func ScatterToASCII(s *Scatter, width, height int) string {
	if s == nil || len(s.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	counts := make([][]int, height)
	for i := range counts {
		counts[i] = make([]int, width)
	}
	peak := 0
	for _, p := range s.Points {
		col := int(p.X * float64(width))
		row := height - 1 - int(p.Y*float64(height))
		if col < 0 || col >= width || row < 0 || row >= height {
			continue
		}
		counts[row][col]++
		if counts[row][col] > peak {
			peak = counts[row][col]
		}
	}

	var sb strings.Builder
	border := "+" + strings.Repeat("-", width) + "+\n"
	sb.WriteString(border)
	for _, row := range counts {
		sb.WriteRune('|')
		for _, c := range row {
			sb.WriteRune(shade(c, peak))
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(border)
	return sb.String()
}

func shade(count, peak int) rune {
	if count == 0 || peak == 0 {
		return shades[0]
	}
	idx := 1 + (count*(len(shades)-1)-1)/peak
	if idx >= len(shades) {
		idx = len(shades) - 1
	}
	return shades[idx]
}
