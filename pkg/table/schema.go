package table

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrSchema is returned when column roles cannot be satisfied by the
// reduced table layout
var ErrSchema = errors.New("invalid column schema")

// Schema is the positional contract of a statement table. Drop lists the
// source positions removed by Reduce; the role fields are zero-based
// positions in the reduced table.
type Schema struct {
	Drop       []int
	MinColumns int

	Time         int
	Direction    int
	Amount       int
	Counterparty int
}

// DefaultSchema matches the WeChat Pay statement layout: the transaction id
// and two trailing administrative columns are dropped, leaving time, type,
// direction, method, amount and counterparty.
func DefaultSchema() Schema {
	return Schema{
		Drop:         []int{0, 7, 8},
		MinColumns:   9,
		Time:         0,
		Direction:    2,
		Amount:       4,
		Counterparty: 5,
	}
}

// ReducedWidth is the guaranteed column count after Reduce
func (s Schema) ReducedWidth() int {
	return s.MinColumns - len(s.Drop)
}

// Validate checks that drop positions are distinct and inside the padded
// width, and that every role addresses its own column of the reduced table
func (s Schema) Validate() error {
	if s.MinColumns < 1 {
		return errors.Wrapf(ErrSchema, "min columns %d", s.MinColumns)
	}
	seen := make(map[int]bool, len(s.Drop))
	for _, d := range s.Drop {
		if d < 0 || d >= s.MinColumns {
			return errors.Wrapf(ErrSchema, "drop position %d outside 0..%d", d, s.MinColumns-1)
		}
		if seen[d] {
			return errors.Wrapf(ErrSchema, "drop position %d listed twice", d)
		}
		seen[d] = true
	}

	width := s.ReducedWidth()
	if width < 1 {
		return errors.Wrapf(ErrSchema, "dropping %d of %d columns leaves none", len(s.Drop), s.MinColumns)
	}

	roles := []struct {
		name string
		pos  int
	}{
		{"time", s.Time},
		{"direction", s.Direction},
		{"amount", s.Amount},
		{"counterparty", s.Counterparty},
	}
	used := make(map[int]string, len(roles))
	for _, r := range roles {
		if r.pos < 0 || r.pos >= width {
			return errors.Wrapf(ErrSchema, "%s column %d outside reduced width %d", r.name, r.pos, width)
		}
		if other, ok := used[r.pos]; ok {
			return errors.Wrapf(ErrSchema, "%s and %s share column %d", other, r.name, r.pos)
		}
		used[r.pos] = r.name
	}
	return nil
}

// dropDescending returns the drop positions highest first
func (s Schema) dropDescending() []int {
	drop := append([]int(nil), s.Drop...)
	sort.Sort(sort.Reverse(sort.IntSlice(drop)))
	return drop
}
