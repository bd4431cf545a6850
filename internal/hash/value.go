package hash

import (
	"io"

	"github.com/go-errors/errors"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// sequence writes the length of a value.Sequence followed by its entries.
type sequence value.Sequence

func (s sequence) WriteTo(w io.Writer) (int64, error) {
	n, err := writeLength(w, len(s))
	if err != nil {
		return n, err
	}
	for _, v := range s {
		if err = writeValue(w, v); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (sequence) Domain() string {
	return "Sequence"
}

// writeValue writes a tree, separating each node by its kind.
func writeValue(w io.Writer, v value.Value) error {
	switch t := v.(type) {
	case nil:
		return errors.New("nil value")
	case value.Sequence:
		return writeWithDomain(w, sequence(t))
	case *value.Scalar:
		return writeWithDomain(w, frame{domain: "Scalar", data: t.Big().Bytes()})
	case *value.Point:
		data, err := t.Point().MarshalBinary()
		if err != nil {
			return err
		}
		return writeWithDomain(w, frame{domain: "Point", data: data})
	case *value.Params:
		data, err := t.Generator().MarshalBinary()
		if err != nil {
			return err
		}
		return writeWithDomain(w, frame{domain: "Params", data: append([]byte(t.Group().Name()), data...)})
	}
	if value.IsAbsent(v) {
		return writeWithDomain(w, frame{domain: "Absent"})
	}
	return errors.New("unknown value kind")
}
