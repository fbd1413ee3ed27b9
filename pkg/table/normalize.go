package table

// Normalize turns ragged extracted rows into a rectangular table. Short rows
// are padded with null cells, then rows and columns made only of empty cells
// are dropped. Normalizing a normalized table returns an equal table.
func Normalize(rows []RawRow) Table {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	keepCol := make([]bool, width)
	var keptRows []RawRow
	for _, row := range rows {
		nonEmpty := false
		for j, c := range row {
			if !c.Empty() {
				nonEmpty = true
				keepCol[j] = true
			}
		}
		if nonEmpty {
			keptRows = append(keptRows, row)
		}
	}

	out := make(Table, 0, len(keptRows))
	for _, row := range keptRows {
		r := make(RawRow, 0, width)
		for j := 0; j < width; j++ {
			if !keepCol[j] {
				continue
			}
			if j < len(row) {
				r = append(r, row[j])
			} else {
				r = append(r, NullCell)
			}
		}
		out = append(out, r)
	}
	return out
}
