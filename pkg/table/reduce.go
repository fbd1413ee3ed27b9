package table

// Reduce pads every row with empty-string cells up to the schema's minimum
// width, then removes the drop positions highest first so the remaining
// columns are renumbered contiguously. The result has
// max(width, MinColumns) - len(Drop) columns.
func Reduce(t Table, s Schema) Table {
	width := max(t.Width(), s.MinColumns)
	drop := s.dropDescending()

	out := make(Table, len(t))
	for i, row := range t {
		r := make(RawRow, width)
		copy(r, row)
		for j := len(row); j < width; j++ {
			r[j] = Str("")
		}
		for _, d := range drop {
			r = append(r[:d], r[d+1:]...)
		}
		out[i] = r
	}
	return out
}
