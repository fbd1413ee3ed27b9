package pdf

import (
	"math"
	"sort"
)

// Tolerance for floating point comparisons
const FloatTolerance = 0.1

// isHorizontal reports whether a line runs along the X axis
func isHorizontal(l LineObject) bool {
	return math.Abs(l.Y0-l.Y1) < FloatTolerance
}

// isVertical reports whether a line runs along the Y axis
func isVertical(l LineObject) bool {
	return math.Abs(l.X0-l.X1) < FloatTolerance
}

// normalizeLine orders endpoints so X0<=X1 and Y0<=Y1
func normalizeLine(l LineObject) LineObject {
	if l.X0 > l.X1 {
		l.X0, l.X1 = l.X1, l.X0
	}
	if l.Y0 > l.Y1 {
		l.Y0, l.Y1 = l.Y1, l.Y0
	}
	return l
}

// RectEdges converts a rectangle into ruling edges. Rectangles thinner than
// the tolerance are filled rules and collapse to a single edge; anything
// larger contributes its four borders.
func RectEdges(r RectObject, tolerance float64) []LineObject {
	w, h := r.X1-r.X0, r.Y1-r.Y0
	switch {
	case h <= tolerance && w > tolerance:
		y := (r.Y0 + r.Y1) / 2
		return []LineObject{{X0: r.X0, Y0: y, X1: r.X1, Y1: y, Width: h}}
	case w <= tolerance && h > tolerance:
		x := (r.X0 + r.X1) / 2
		return []LineObject{{X0: x, Y0: r.Y0, X1: x, Y1: r.Y1, Width: w}}
	case w <= tolerance && h <= tolerance:
		return nil
	}
	return []LineObject{
		{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y0},
		{X0: r.X0, Y0: r.Y1, X1: r.X1, Y1: r.Y1},
		{X0: r.X0, Y0: r.Y0, X1: r.X0, Y1: r.Y1},
		{X0: r.X1, Y0: r.Y0, X1: r.X1, Y1: r.Y1},
	}
}

// SnapLines moves lines whose positions lie within tolerance of each other
// onto their mean position. Diagonal lines are dropped.
func SnapLines(lines []LineObject, tolerance float64) (horizontal, vertical []LineObject) {
	for _, line := range lines {
		line = normalizeLine(line)
		switch {
		case isHorizontal(line):
			horizontal = append(horizontal, line)
		case isVertical(line):
			vertical = append(vertical, line)
		}
	}

	snapAxis(horizontal, tolerance,
		func(l LineObject) float64 { return l.Y0 },
		func(l *LineObject, v float64) { l.Y0, l.Y1 = v, v })
	snapAxis(vertical, tolerance,
		func(l LineObject) float64 { return l.X0 },
		func(l *LineObject, v float64) { l.X0, l.X1 = v, v })
	return horizontal, vertical
}

func snapAxis(lines []LineObject, tolerance float64, pos func(LineObject) float64, set func(*LineObject, float64)) {
	if len(lines) == 0 {
		return
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return pos(lines[i]) < pos(lines[j])
	})

	start := 0
	for i := 1; i <= len(lines); i++ {
		if i < len(lines) && pos(lines[i])-pos(lines[i-1]) <= tolerance {
			continue
		}
		var sum float64
		for _, l := range lines[start:i] {
			sum += pos(l)
		}
		mean := sum / float64(i-start)
		for k := start; k < i; k++ {
			set(&lines[k], mean)
		}
		start = i
	}
}

// ConsolidateTableLines merges collinear lines that overlap or whose ends are
// within joinTolerance of each other
func ConsolidateTableLines(lines []LineObject, joinTolerance float64) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	var horizontal, vertical []LineObject
	for _, line := range lines {
		line = normalizeLine(line)
		if isHorizontal(line) {
			horizontal = append(horizontal, line)
		} else if isVertical(line) {
			vertical = append(vertical, line)
		}
	}

	horizontal = consolidateHorizontalLines(horizontal, joinTolerance)
	vertical = consolidateVerticalLines(vertical, joinTolerance)

	return append(horizontal, vertical...)
}

func consolidateHorizontalLines(lines []LineObject, joinTolerance float64) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	// Sort by Y position, then X
	sort.Slice(lines, func(i, j int) bool {
		if math.Abs(lines[i].Y0-lines[j].Y0) > FloatTolerance {
			return lines[i].Y0 < lines[j].Y0
		}
		return lines[i].X0 < lines[j].X0
	})

	result := []LineObject{}
	current := lines[0]

	for i := 1; i < len(lines); i++ {
		line := lines[i]

		if math.Abs(line.Y0-current.Y0) < FloatTolerance &&
			line.X0 <= current.X1+joinTolerance {
			current.X1 = math.Max(current.X1, line.X1)
			current.Width = math.Max(current.Width, line.Width)
			continue
		}

		result = append(result, current)
		current = line
	}

	return append(result, current)
}

func consolidateVerticalLines(lines []LineObject, joinTolerance float64) []LineObject {
	if len(lines) == 0 {
		return lines
	}

	// Sort by X position, then Y
	sort.Slice(lines, func(i, j int) bool {
		if math.Abs(lines[i].X0-lines[j].X0) > FloatTolerance {
			return lines[i].X0 < lines[j].X0
		}
		return lines[i].Y0 < lines[j].Y0
	})

	result := []LineObject{}
	current := lines[0]

	for i := 1; i < len(lines); i++ {
		line := lines[i]

		if math.Abs(line.X0-current.X0) < FloatTolerance &&
			line.Y0 <= current.Y1+joinTolerance {
			current.Y1 = math.Max(current.Y1, line.Y1)
			current.Width = math.Max(current.Width, line.Width)
			continue
		}

		result = append(result, current)
		current = line
	}

	return append(result, current)
}

// DeduplicateRectangles removes rectangles drawn more than once
func DeduplicateRectangles(rects []RectObject) []RectObject {
	if len(rects) == 0 {
		return rects
	}

	sorted := make([]RectObject, len(rects))
	copy(sorted, rects)
	sort.Slice(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y0-sorted[j].Y0) > FloatTolerance {
			return sorted[i].Y0 < sorted[j].Y0
		}
		if math.Abs(sorted[i].X0-sorted[j].X0) > FloatTolerance {
			return sorted[i].X0 < sorted[j].X0
		}
		if math.Abs(sorted[i].Y1-sorted[j].Y1) > FloatTolerance {
			return sorted[i].Y1 < sorted[j].Y1
		}
		return sorted[i].X1 < sorted[j].X1
	})

	result := []RectObject{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if !rectsEqual(result[len(result)-1], sorted[i]) {
			result = append(result, sorted[i])
		}
	}
	return result
}

// rectsEqual checks if two rectangles are essentially the same
func rectsEqual(a, b RectObject) bool {
	return math.Abs(a.X0-b.X0) < FloatTolerance &&
		math.Abs(a.Y0-b.Y0) < FloatTolerance &&
		math.Abs(a.X1-b.X1) < FloatTolerance &&
		math.Abs(a.Y1-b.Y1) < FloatTolerance
}
