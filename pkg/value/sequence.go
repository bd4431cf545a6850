package value

import (
	"strings"
)

// Sequence is an ordered list of values. Entries may be Absent.
type Sequence []Value

func (Sequence) Kind() Kind { return KindSequence }
func (Sequence) sealed()    {}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		if v == nil {
			parts[i] = "nil"
			continue
		}
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Expect returns an error unless s has exactly n entries.
func (s Sequence) Expect(n int) error {
	if len(s) != n {
		return Mismatch("value: expected a sequence of length %d, got %d", n, len(s))
	}
	return nil
}

// At returns the i-th entry, or an error if i is out of range.
func (s Sequence) At(i int) (Value, error) {
	if i < 0 || i >= len(s) {
		return nil, Mismatch("value: index %d out of range for sequence of length %d", i, len(s))
	}
	return s[i], nil
}

// Of builds a Sequence from its arguments.
func Of(values ...Value) Sequence {
	return Sequence(values)
}

// Scalars returns a Sequence of the given scalars.
func Scalars(scalars []*Scalar) Sequence {
	s := make(Sequence, len(scalars))
	for i, x := range scalars {
		s[i] = x
	}
	return s
}
