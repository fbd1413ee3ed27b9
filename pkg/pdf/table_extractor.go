package pdf

import (
	"math"
	"sort"
	"strings"
)

// tableExtractor handles table extraction from PDF pages
type tableExtractor struct {
	objects            Objects
	verticalStrategy   string
	horizontalStrategy string
	minTableSize       int
	textTolerance      float64
	snapTolerance      float64
	joinTolerance      float64
	intersectTolerance float64
}

// newTableExtractor creates a new table extractor with default settings
func newTableExtractor(page Page, opts ...TableExtractionOption) *tableExtractor {
	config := &tableExtractionConfig{
		VerticalStrategy:   StrategyLines,
		HorizontalStrategy: StrategyLines,
		MinTableSize:       1,
		TextTolerance:      3.0,
		SnapTolerance:      3.0,
	}
	for _, opt := range opts {
		opt(config)
	}

	return &tableExtractor{
		objects:            page.GetObjects(),
		verticalStrategy:   config.VerticalStrategy,
		horizontalStrategy: config.HorizontalStrategy,
		minTableSize:       config.MinTableSize,
		textTolerance:      config.TextTolerance,
		snapTolerance:      config.SnapTolerance,
		joinTolerance:      3.0,
		intersectTolerance: 3.0,
	}
}

// extractTables returns the page's tables ordered top to bottom, then left
// to right
func (te *tableExtractor) extractTables() []Table {
	var tables []Table
	if te.verticalStrategy == StrategyText || te.horizontalStrategy == StrategyText {
		tables = te.extractTextBasedTables()
	} else {
		tables = te.extractLineBasedTables()
	}

	result := make([]Table, 0, len(tables))
	for _, t := range tables {
		if len(t.Rows) >= te.minTableSize {
			result = append(result, t)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if math.Abs(result[i].BBox.Y0-result[j].BBox.Y0) > FloatTolerance {
			return result[i].BBox.Y0 < result[j].BBox.Y0
		}
		return result[i].BBox.X0 < result[j].BBox.X0
	})
	return result
}

// point is a snapped edge intersection
type point struct {
	x, y float64
}

// junction records which edges pass through an intersection
type junction struct {
	h map[int]bool
	v map[int]bool
}

func sharesEdge(a, b map[int]bool) bool {
	for id := range a {
		if b[id] {
			return true
		}
	}
	return false
}

// collectEdges gathers ruling edges from lines and rectangle borders, snaps
// them together and joins collinear pieces
func (te *tableExtractor) collectEdges() (horizontal, vertical []LineObject) {
	edges := make([]LineObject, 0, len(te.objects.Lines))
	edges = append(edges, te.objects.Lines...)
	for _, r := range DeduplicateRectangles(te.objects.Rects) {
		edges = append(edges, RectEdges(r, te.snapTolerance)...)
	}

	h, v := SnapLines(edges, te.snapTolerance)
	for _, line := range ConsolidateTableLines(append(h, v...), te.joinTolerance) {
		if isHorizontal(line) {
			horizontal = append(horizontal, line)
		} else {
			vertical = append(vertical, line)
		}
	}
	return horizontal, vertical
}

// extractLineBasedTables extracts tables from ruled cells
func (te *tableExtractor) extractLineBasedTables() []Table {
	horizontal, vertical := te.collectEdges()
	if len(horizontal) < 2 || len(vertical) < 2 {
		return nil
	}

	junctions := te.findIntersections(horizontal, vertical)
	cells := findCells(junctions)
	if len(cells) == 0 {
		return nil
	}

	var tables []Table
	for _, group := range groupCells(cells) {
		tables = append(tables, te.buildTable(group))
	}
	return tables
}

// findIntersections locates every point where a vertical edge crosses a
// horizontal one
func (te *tableExtractor) findIntersections(horizontal, vertical []LineObject) map[point]*junction {
	tol := te.intersectTolerance
	junctions := make(map[point]*junction)
	for vi, v := range vertical {
		for hi, h := range horizontal {
			if v.X0 < h.X0-tol || v.X0 > h.X1+tol {
				continue
			}
			if h.Y0 < v.Y0-tol || h.Y0 > v.Y1+tol {
				continue
			}
			p := point{x: v.X0, y: h.Y0}
			j, ok := junctions[p]
			if !ok {
				j = &junction{h: map[int]bool{}, v: map[int]bool{}}
				junctions[p] = j
			}
			j.h[hi] = true
			j.v[vi] = true
		}
	}
	return junctions
}

// findCells builds the smallest cells whose four corners are intersections
// connected by edges
func findCells(junctions map[point]*junction) []BoundingBox {
	points := make([]point, 0, len(junctions))
	for p := range junctions {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].y != points[j].y {
			return points[i].y < points[j].y
		}
		return points[i].x < points[j].x
	})

	var cells []BoundingBox
	for i, p := range points {
		var below, right []point
		for _, q := range points[i+1:] {
			if q.x == p.x {
				below = append(below, q)
			}
			if q.y == p.y {
				right = append(right, q)
			}
		}

	search:
		for _, b := range below {
			if !sharesEdge(junctions[p].v, junctions[b].v) {
				continue
			}
			for _, r := range right {
				if !sharesEdge(junctions[p].h, junctions[r].h) {
					continue
				}
				corner := point{x: r.x, y: b.y}
				j, ok := junctions[corner]
				if !ok {
					continue
				}
				if sharesEdge(j.v, junctions[r].v) && sharesEdge(j.h, junctions[b].h) {
					cells = append(cells, BoundingBox{X0: p.x, Y0: p.y, X1: r.x, Y1: b.y})
					break search
				}
			}
		}
	}
	return cells
}

// groupCells joins cells sharing a corner into tables
func groupCells(cells []BoundingBox) [][]BoundingBox {
	byCorner := make(map[point][]int)
	corners := func(c BoundingBox) []point {
		return []point{{c.X0, c.Y0}, {c.X1, c.Y0}, {c.X0, c.Y1}, {c.X1, c.Y1}}
	}
	for i, c := range cells {
		for _, p := range corners(c) {
			byCorner[p] = append(byCorner[p], i)
		}
	}

	seen := make([]bool, len(cells))
	var groups [][]BoundingBox
	for i := range cells {
		if seen[i] {
			continue
		}
		seen[i] = true
		queue := []int{i}
		var group []BoundingBox
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			group = append(group, cells[idx])
			for _, p := range corners(cells[idx]) {
				for _, n := range byCorner[p] {
					if !seen[n] {
						seen[n] = true
						queue = append(queue, n)
					}
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// buildTable lays cells out by their distinct tops and lefts
func (te *tableExtractor) buildTable(cells []BoundingBox) Table {
	var tops, lefts []float64
	byOrigin := make(map[point]BoundingBox, len(cells))
	bbox := cells[0]
	for _, c := range cells {
		byOrigin[point{c.X0, c.Y0}] = c
		tops = appendUnique(tops, c.Y0)
		lefts = appendUnique(lefts, c.X0)
		bbox = bbox.Union(c)
	}
	sort.Float64s(tops)
	sort.Float64s(lefts)

	rows := make([][]string, len(tops))
	for r, y := range tops {
		row := make([]string, len(lefts))
		for c, x := range lefts {
			if cell, ok := byOrigin[point{x, y}]; ok {
				row[c] = te.extractCellText(cell)
			}
		}
		rows[r] = row
	}
	return Table{Rows: rows, BBox: bbox}
}

func appendUnique(values []float64, v float64) []float64 {
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

// extractCellText extracts text whose glyph centres fall inside a cell
func (te *tableExtractor) extractCellText(cell BoundingBox) string {
	var cellChars []CharObject
	for _, char := range te.objects.Chars {
		centerX := (char.X0 + char.X1) / 2
		centerY := (char.Y0 + char.Y1) / 2
		if cell.Contains(centerX, centerY) {
			cellChars = append(cellChars, char)
		}
	}

	lines := groupWordLines(cellChars, te.textTolerance, te.textTolerance)
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		words := make([]string, len(line))
		for i, w := range line {
			words[i] = w.Text
		}
		texts = append(texts, strings.Join(words, " "))
	}
	return strings.Join(texts, "\n")
}

// extractTextBasedTables infers columns from word starts that line up
// across several text lines
func (te *tableExtractor) extractTextBasedTables() []Table {
	lines := groupWordLines(te.objects.Chars, te.textTolerance, te.textTolerance)
	if len(lines) < 2 {
		return nil
	}

	columns := te.findAlignedColumns(lines)
	if len(columns) < 2 {
		return nil
	}
	return []Table{te.createTableFromWordLines(lines, columns)}
}

// findAlignedColumns finds vertically aligned columns from word positions
func (te *tableExtractor) findAlignedColumns(lines [][]Word) []float64 {
	xPositions := make(map[float64]int)
	for _, line := range lines {
		for _, word := range line {
			x := math.Round(word.X0/te.snapTolerance) * te.snapTolerance
			xPositions[x]++
		}
	}

	// A column must start words on at least 2 lines or 30% of them
	minCount := max(2, len(lines)*3/10)
	var columns []float64
	for x, count := range xPositions {
		if count >= minCount {
			columns = append(columns, x)
		}
	}
	sort.Float64s(columns)
	return columns
}

// createTableFromWordLines creates a table from aligned word lines
func (te *tableExtractor) createTableFromWordLines(lines [][]Word, columns []float64) Table {
	rows := make([][]string, 0, len(lines))
	bbox := lines[0][0].GetBBox()
	for _, line := range lines {
		row := make([]string, len(columns))
		for _, word := range line {
			bbox = bbox.Union(word.GetBBox())

			col := te.findWordColumn(word.X0, columns)
			if col < 0 {
				continue
			}
			if row[col] != "" {
				row[col] += " "
			}
			row[col] += word.Text
		}
		rows = append(rows, row)
	}
	return Table{Rows: rows, BBox: bbox}
}

// findWordColumn finds the nearest column start within reach of wordX
func (te *tableExtractor) findWordColumn(wordX float64, columns []float64) int {
	bestCol := -1
	minDist := math.MaxFloat64
	for i, colX := range columns {
		dist := math.Abs(wordX - colX)
		if dist < minDist && dist < te.snapTolerance*3 {
			minDist = dist
			bestCol = i
		}
	}
	return bestCol
}
