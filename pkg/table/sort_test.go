package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record builds a reduced-layout row: time, kind, direction, method, amount, party
func record(time, party string) []string {
	return []string{time, "商户消费", "支出", "零钱", "10.00", party}
}

func TestSortGroupsAndOrdersByTime(t *testing.T) {
	in := FromStrings([][]string{
		record("2024-01-01 09:00:00", "B"),
		record("2024-01-03 09:00:00", "A"),
		record("not a time", "A"),
		record("2024-01-02 09:00:00", "A"),
		record("2024-01-05 09:00:00", "B"),
	})
	original := in.Clone()

	got, stats := Sort(in, DefaultSchema())
	assert.Equal(t, original, in, "input must not be mutated")
	assert.False(t, stats.StringFallback)
	assert.Equal(t, 4, stats.Parsed)
	assert.Equal(t, 1, stats.Unparsed)

	var times, parties []string
	for _, row := range got {
		times = append(times, row[0].Value)
		parties = append(parties, row[5].Value)
	}
	assert.Equal(t, []string{"A", "A", "A", "B", "B"}, parties)
	assert.Equal(t, []string{
		"2024-01-03 09:00",
		"2024-01-02 09:00",
		"not a time",
		"2024-01-05 09:00",
		"2024-01-01 09:00",
	}, times)
}

func TestSortBlankCounterpartyLast(t *testing.T) {
	in := FromStrings([][]string{
		record("2024-01-01 09:00", ""),
		record("2024-01-01 09:00", "Z"),
		record("2024-01-01 09:00", "A"),
	})

	got, _ := Sort(in, DefaultSchema())
	assert.Equal(t, "A", got[0][5].Value)
	assert.Equal(t, "Z", got[1][5].Value)
	assert.Equal(t, "", got[2][5].Value)
}

func TestSortStringFallback(t *testing.T) {
	in := FromStrings([][]string{
		record("b", "P"),
		record("", "P"),
		record("c", "P"),
		record("a", "P"),
	})

	got, stats := Sort(in, DefaultSchema())
	require.True(t, stats.StringFallback)

	var times []string
	for _, row := range got {
		times = append(times, row[0].Value)
	}
	assert.Equal(t, []string{"c", "b", "a", ""}, times)
}

func TestSortStable(t *testing.T) {
	a := record("2024-01-01 09:00", "P")
	a[4] = "1"
	b := record("2024-01-01 09:00", "P")
	b[4] = "2"

	got, _ := Sort(FromStrings([][]string{a, b}), DefaultSchema())
	assert.Equal(t, "1", got[0][4].Value)
	assert.Equal(t, "2", got[1][4].Value)
}

func TestSortNarrowTablePassthrough(t *testing.T) {
	in := FromStrings([][]string{{"2024-01-02 10:00:00"}, {"2024-01-03 10:00:00"}})
	got, stats := Sort(in, DefaultSchema())
	assert.Equal(t, in, got)
	assert.Equal(t, SortStats{}, stats)
}

func TestSortInvariants(t *testing.T) {
	in := FromStrings([][]string{
		record("2023-12-31 23:59:59", "C"),
		record("2024-02-01 00:00:00", "A"),
		record("bad", "C"),
		record("2024-01-01 00:00:00", "C"),
		record("", "A"),
		record("2024-03-01 00:00:00", "A"),
		record("2024-02-15 12:00:00", "B"),
	})

	got, _ := Sort(in, DefaultSchema())
	require.Len(t, got, len(in))

	// Groups are contiguous
	seen := map[string]bool{}
	prev := ""
	for _, row := range got {
		party := row[5].Value
		if party != prev {
			assert.False(t, seen[party], "group %q split", party)
			seen[party] = true
			prev = party
		}
	}

	// Within a group parsed times are non-increasing and unparsed come last
	for i := 1; i < len(got); i++ {
		if got[i][5].Value != got[i-1][5].Value {
			continue
		}
		prevTS := ParseTimestamp(got[i-1][0].Value)
		curTS := ParseTimestamp(got[i][0].Value)
		if !prevTS.OK {
			assert.False(t, curTS.OK, "parsed time after unparsed in group %q", got[i][5].Value)
			continue
		}
		if curTS.OK {
			assert.False(t, curTS.Value.After(prevTS.Value))
		}
	}
}
