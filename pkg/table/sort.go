package table

import (
	"sort"
)

// SortStats reports how the time column was compared
type SortStats struct {
	Parsed         int
	Unparsed       int
	StringFallback bool
}

// Sort orders records by counterparty ascending, then time descending.
// Blank counterparties and unparseable times sort last in every group. When
// no time value parses, times are compared as strings with the same
// direction and blanks last. Afterwards every parseable time is rewritten
// in TimeLayout. Tables narrower than two columns are returned unchanged.
func Sort(t Table, s Schema) (Table, SortStats) {
	out := t.Clone()
	if t.Width() < 2 {
		return out, SortStats{}
	}

	type key struct {
		party      Cell
		time       Timestamp
		timeString Cell
	}
	keys := make([]key, len(out))
	var stats SortStats
	for i := range out {
		k := key{
			party:      out.At(i, s.Counterparty),
			timeString: out.At(i, s.Time),
		}
		k.time = ParseTimestamp(k.timeString.String())
		if k.time.OK {
			stats.Parsed++
		} else {
			stats.Unparsed++
		}
		keys[i] = k
	}
	stats.StringFallback = stats.Parsed == 0

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		if c := compareAscending(ka.party, kb.party); c != 0 {
			return c < 0
		}
		if stats.StringFallback {
			return compareDescending(ka.timeString, kb.timeString) < 0
		}
		return compareTimes(ka.time, kb.time) < 0
	})

	sorted := make(Table, len(out))
	for i, idx := range order {
		row := out[idx]
		if ts := keys[idx].time; ts.OK && s.Time < len(row) {
			row[s.Time] = Str(ts.Format())
		}
		sorted[i] = row
	}
	return sorted, stats
}

// compareAscending orders non-empty values by string, empty values last
func compareAscending(a, b Cell) int {
	if c, done := compareEmpty(a.Empty(), b.Empty()); done {
		return c
	}
	return compareStrings(a.Value, b.Value)
}

// compareDescending orders non-empty values by reverse string, empty last
func compareDescending(a, b Cell) int {
	if c, done := compareEmpty(a.Empty(), b.Empty()); done {
		return c
	}
	return compareStrings(b.Value, a.Value)
}

// compareTimes orders parsed times most recent first, unparsed last
func compareTimes(a, b Timestamp) int {
	if c, done := compareEmpty(!a.OK, !b.OK); done {
		return c
	}
	switch {
	case a.Value.After(b.Value):
		return -1
	case a.Value.Before(b.Value):
		return 1
	}
	return 0
}

// compareEmpty places missing keys last regardless of direction
func compareEmpty(aMissing, bMissing bool) (int, bool) {
	switch {
	case aMissing && bMissing:
		return 0, true
	case aMissing:
		return 1, true
	case bMissing:
		return -1, true
	}
	return 0, false
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
