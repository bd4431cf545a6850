package value

import (
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-errors/errors"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
)

type wire struct {
	Kind     Kind                     `cbor:"k"`
	Data     []byte                   `cbor:"d,omitempty"`
	Point    *curve.MarshallablePoint `cbor:"p,omitempty"`
	Curve    string                   `cbor:"c,omitempty"`
	Children []wire                   `cbor:"s,omitempty"`
}

func toWire(v Value) (wire, error) {
	switch t := v.(type) {
	case absent:
		return wire{Kind: KindAbsent}, nil
	case *Scalar:
		return wire{Kind: KindScalar, Data: t.Big().Bytes()}, nil
	case *Point:
		return wire{Kind: KindPoint, Point: curve.NewMarshallablePoint(t.p)}, nil
	case *Params:
		return wire{Kind: KindParams, Curve: t.group.Name(), Point: curve.NewMarshallablePoint(t.generator)}, nil
	case Sequence:
		children := make([]wire, len(t))
		for i, child := range t {
			w, err := toWire(child)
			if err != nil {
				return wire{}, err
			}
			children[i] = w
		}
		return wire{Kind: KindSequence, Children: children}, nil
	}
	return wire{}, Mismatch("value: cannot marshal %T", v)
}

func fromWire(w wire) (Value, error) {
	switch w.Kind {
	case KindAbsent:
		return Absent, nil
	case KindScalar:
		return ScalarFromBig(new(big.Int).SetBytes(w.Data)), nil
	case KindPoint:
		if w.Point == nil {
			return nil, Mismatch("value: point without data")
		}
		return NewPoint(w.Point.Point), nil
	case KindParams:
		if w.Point == nil {
			return nil, Mismatch("value: params without generator")
		}
		group, err := curve.FromName(w.Curve)
		if err != nil {
			return nil, errors.WrapPrefix(err, "value: params", 0)
		}
		if w.Point.Point.Curve().Name() != group.Name() {
			return nil, Mismatch("value: generator on %s for params on %s", w.Point.Point.Curve().Name(), group.Name())
		}
		return NewParams(group, w.Point.Point), nil
	case KindSequence:
		out := make(Sequence, len(w.Children))
		for i, child := range w.Children {
			v, err := fromWire(child)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, Mismatch("value: unknown kind %d", uint8(w.Kind))
}

// Marshal encodes the tree rooted at v with CBOR.
func Marshal(v Value) ([]byte, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(w)
}

// Unmarshal decodes a tree produced by Marshal.
func Unmarshal(data []byte) (Value, error) {
	var w wire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, errors.WrapPrefix(err, "value: unmarshal", 0)
	}
	return fromWire(w)
}
