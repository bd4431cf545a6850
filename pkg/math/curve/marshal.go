package curve

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

type marshallableWire struct {
	Curve string `cbor:"c"`
	Data  []byte `cbor:"d"`
}

// MarshallableScalar wraps a Scalar so that it can be encoded with CBOR
// without knowing the Curve in advance.
type MarshallableScalar struct {
	Scalar Scalar
}

func NewMarshallableScalar(scalar Scalar) *MarshallableScalar {
	return &MarshallableScalar{Scalar: scalar}
}

func (m *MarshallableScalar) MarshalCBOR() ([]byte, error) {
	data, err := m.Scalar.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&marshallableWire{Curve: m.Scalar.Curve().Name(), Data: data})
}

func (m *MarshallableScalar) UnmarshalCBOR(data []byte) error {
	var wire marshallableWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	group, err := FromName(wire.Curve)
	if err != nil {
		return fmt.Errorf("curve.MarshallableScalar: %w", err)
	}
	scalar := group.NewScalar()
	if err = scalar.UnmarshalBinary(wire.Data); err != nil {
		return err
	}
	m.Scalar = scalar
	return nil
}

// MarshallablePoint wraps a Point so that it can be encoded with CBOR
// without knowing the Curve in advance.
type MarshallablePoint struct {
	Point Point
}

func NewMarshallablePoint(point Point) *MarshallablePoint {
	return &MarshallablePoint{Point: point}
}

func (m *MarshallablePoint) MarshalCBOR() ([]byte, error) {
	data, err := m.Point.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&marshallableWire{Curve: m.Point.Curve().Name(), Data: data})
}

func (m *MarshallablePoint) UnmarshalCBOR(data []byte) error {
	var wire marshallableWire
	if err := cbor.Unmarshal(data, &wire); err != nil {
		return err
	}
	group, err := FromName(wire.Curve)
	if err != nil {
		return fmt.Errorf("curve.MarshallablePoint: %w", err)
	}
	point := group.NewPoint()
	if err = point.UnmarshalBinary(wire.Data); err != nil {
		return err
	}
	m.Point = point
	return nil
}
