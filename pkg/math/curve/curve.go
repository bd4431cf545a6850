package curve

import (
	"encoding"
	"fmt"

	"github.com/cronokirby/saferith"
)

// Curve represents the prime order group used as the algebraic setting of the
// Sigma protocols.
//
// Points and Scalars created by one Curve are only meant to be combined with
// elements of the same Curve.
type Curve interface {
	// NewPoint returns the identity element of the group.
	NewPoint() Point
	// NewBasePoint returns the canonical generator of the group.
	NewBasePoint() Point
	// NewScalar returns the scalar 0.
	NewScalar() Scalar
	// Name returns a unique identifier for this Curve.
	Name() string
	// ScalarBits returns the number of bits needed to represent a Scalar.
	ScalarBits() int
	// SafeScalarBytes returns the number of random bytes needed to sample a
	// Scalar with negligible bias.
	SafeScalarBytes() int
	// Order returns the order of the group as a Modulus.
	Order() *saferith.Modulus
	// HashToPoint deterministically derives a point from a domain string.
	HashToPoint(domain string) Point
}

// Scalar represents an element of ℤ/qℤ, with q the order of the group.
//
// Arithmetic methods modify the receiver and return it.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Invert() Scalar
	Negate() Scalar
	Equal(Scalar) bool
	IsZero() bool
	Set(Scalar) Scalar
	SetNat(*saferith.Nat) Scalar
	// Act returns s•P as a new Point.
	Act(Point) Point
	// ActOnBase returns s•G as a new Point, with G the canonical generator.
	ActOnBase() Point
}

// Point represents an element of the group.
//
// Unlike Scalar, Point arithmetic returns a new element and leaves the
// receiver untouched.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Set(Point) Point
	Negate() Point
	Equal(Point) bool
	IsIdentity() bool
}

// MakeNat returns the value of s as a natural number in [0, q).
func MakeNat(s Scalar) *saferith.Nat {
	bytes, err := s.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("curve.MakeNat: %v", err))
	}
	return new(saferith.Nat).SetBytes(bytes)
}

// FromName returns the Curve identified by name.
func FromName(name string) (Curve, error) {
	switch name {
	case Secp256k1{}.Name():
		return Secp256k1{}, nil
	default:
		return nil, fmt.Errorf("curve: unknown curve %q", name)
	}
}

// FromHash converts a hash value to a Scalar.
//
// There is some disagreement about how this should be done.
// [NSA] suggests that this is done in the obvious
// manner, but [SECG] truncates the hash to the bit-length of the curve order
// first. We follow [SECG] because that's what OpenSSL does. Additionally,
// OpenSSL right shifts excess bits from the number if the hash is too large
// and we mirror that too.
//
// Taken from crypto/ecdsa.
func FromHash(group Curve, h []byte) Scalar {
	order := group.Order()
	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(h) > orderBytes {
		h = h[:orderBytes]
	}
	s := new(saferith.Nat).SetBytes(h)
	excess := len(h)*8 - orderBits
	if excess > 0 {
		s.Rsh(s, uint(excess), -1)
	}
	return group.NewScalar().SetNat(s)
}
