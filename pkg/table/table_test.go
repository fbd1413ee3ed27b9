package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	raw := []RawRow{
		{Str("a"), NullCell, Str("c")},
		{NullCell, Str("  "), NullCell},
		{Str("d")},
		{},
	}

	got := Normalize(raw)
	require.Len(t, got, 2)
	assert.Equal(t, Table{
		{Str("a"), Str("c")},
		{Str("d"), NullCell},
	}, got)
}

func TestNormalizeIdempotent(t *testing.T) {
	testCases := []struct {
		name string
		raw  []RawRow
	}{
		{"ragged", []RawRow{{Str("1")}, {Str("2"), Str("3"), NullCell}, {NullCell}}},
		{"blank column", []RawRow{{Str("x"), Str(""), Str("y")}, {Str("z"), NullCell, Str("")}}},
		{"empty", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			once := Normalize(tc.raw)
			twice := Normalize(once)
			assert.Equal(t, once, twice)
			for _, row := range once {
				assert.Len(t, row, once.Width())
			}
		})
	}
}

func TestReduceWidths(t *testing.T) {
	testCases := []struct {
		name    string
		columns int
		want    int
	}{
		{"narrow input is padded first", 5, 6},
		{"exact", 9, 6},
		{"wide", 12, 9},
		{"single column", 1, 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			row := make(RawRow, tc.columns)
			for i := range row {
				row[i] = Str("v")
			}
			got := Reduce(Table{row}, DefaultSchema())
			assert.Equal(t, tc.want, got.Width())
		})
	}
}

func TestReduceDropsFixedPositions(t *testing.T) {
	in := FromStrings([][]string{{"id", "t", "k", "dir", "m", "amt", "party", "x", "y", "z"}})
	original := in.Clone()

	got := Reduce(in, DefaultSchema())
	assert.Equal(t, [][]string{{"t", "k", "dir", "m", "amt", "party", "z"}}, got.Strings())
	assert.Equal(t, original, in, "input must not be mutated")
}

func TestReducePadsWithEmptyStrings(t *testing.T) {
	got := Reduce(FromStrings([][]string{{"id", "t"}}), DefaultSchema())
	require.Len(t, got[0], 6)
	assert.Equal(t, "t", got[0][0].Value)
	for _, c := range got[0][1:] {
		assert.False(t, c.Null)
		assert.Equal(t, "", c.Value)
	}
}

func TestSchemaValidate(t *testing.T) {
	require.NoError(t, DefaultSchema().Validate())

	testCases := []struct {
		name   string
		mutate func(*Schema)
	}{
		{"role collision", func(s *Schema) { s.Counterparty = s.Amount }},
		{"role beyond reduced width", func(s *Schema) { s.Counterparty = 6 }},
		{"negative role", func(s *Schema) { s.Time = -1 }},
		{"duplicate drop", func(s *Schema) { s.Drop = []int{0, 0, 8} }},
		{"drop beyond width", func(s *Schema) { s.Drop = []int{0, 7, 9} }},
		{"nothing left", func(s *Schema) { s.MinColumns = 3 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := DefaultSchema()
			tc.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrSchema)
		})
	}
}
