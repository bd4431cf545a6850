package value

import (
	"fmt"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
)

// Scalar is a non-negative arbitrary precision integer.
//
// Scalars hold both group exponents and challenges. They are reduced modulo
// the group order only when they take part in group arithmetic.
type Scalar struct {
	n *saferith.Nat
}

func (*Scalar) Kind() Kind { return KindScalar }
func (*Scalar) sealed()    {}

// NewScalar returns a Scalar holding a copy of n.
func NewScalar(n *saferith.Nat) *Scalar {
	return &Scalar{n: new(saferith.Nat).SetNat(n)}
}

// ScalarFromUint64 returns the Scalar x.
func ScalarFromUint64(x uint64) *Scalar {
	return &Scalar{n: new(saferith.Nat).SetUint64(x)}
}

// ScalarFromBig returns the Scalar |x|.
func ScalarFromBig(x *big.Int) *Scalar {
	abs := new(big.Int).Abs(x)
	return &Scalar{n: new(saferith.Nat).SetBig(abs, abs.BitLen())}
}

// ScalarFromCurve returns the canonical representative in [0, q) of s.
func ScalarFromCurve(s curve.Scalar) *Scalar {
	return &Scalar{n: curve.MakeNat(s)}
}

// Nat returns a copy of the underlying natural number.
func (s *Scalar) Nat() *saferith.Nat {
	return new(saferith.Nat).SetNat(s.n)
}

// Big returns the value of s as a big.Int.
func (s *Scalar) Big() *big.Int {
	return s.n.Big()
}

// Curve returns s mod q as an element of group.
func (s *Scalar) Curve(group curve.Curve) curve.Scalar {
	return group.NewScalar().SetNat(s.n)
}

// Mod returns s mod m.
func (s *Scalar) Mod(m *saferith.Modulus) *saferith.Nat {
	return new(saferith.Nat).Mod(s.n, m)
}

// IsZero returns true if s = 0.
func (s *Scalar) IsZero() bool {
	return s.n.Big().Sign() == 0
}

// Equal compares the integer values of s and t, regardless of their capacity.
func (s *Scalar) Equal(t *Scalar) bool {
	return s.n.Big().Cmp(t.n.Big()) == 0
}

// Xor returns s ⊕ t as a new Scalar.
func (s *Scalar) Xor(t *Scalar) *Scalar {
	return ScalarFromBig(new(big.Int).Xor(s.n.Big(), t.n.Big()))
}

func (s *Scalar) String() string {
	return s.n.Big().Text(16)
}

// Point wraps a group element. The identity is a valid Point.
type Point struct {
	p curve.Point
}

func (*Point) Kind() Kind { return KindPoint }
func (*Point) sealed()    {}

// NewPoint wraps p.
func NewPoint(p curve.Point) *Point {
	return &Point{p: p}
}

// Point returns the wrapped group element.
func (p *Point) Point() curve.Point {
	return p.p
}

func (p *Point) Equal(q *Point) bool {
	if p.p.Curve().Name() != q.p.Curve().Name() {
		return false
	}
	return p.p.Equal(q.p)
}

func (p *Point) String() string {
	data, err := p.p.MarshalBinary()
	if err != nil {
		return "point(?)"
	}
	return fmt.Sprintf("%x", data)
}

// Params describes a group together with a distinguished generator.
//
// It carries the public parameters of an atomic protocol: the generator is
// not necessarily the group's canonical base point.
type Params struct {
	group     curve.Curve
	generator curve.Point
}

func (*Params) Kind() Kind { return KindParams }
func (*Params) sealed()    {}

// NewParams returns the parameters (group, generator).
func NewParams(group curve.Curve, generator curve.Point) *Params {
	return &Params{group: group, generator: generator}
}

// BaseParams returns the parameters of group with its canonical base point.
func BaseParams(group curve.Curve) *Params {
	return &Params{group: group, generator: group.NewBasePoint()}
}

func (p *Params) Group() curve.Curve {
	return p.group
}

func (p *Params) Generator() curve.Point {
	return p.generator
}

// Order returns the order of the group.
func (p *Params) Order() *saferith.Modulus {
	return p.group.Order()
}

func (p *Params) Equal(q *Params) bool {
	return p.group.Name() == q.group.Name() && p.generator.Equal(q.generator)
}

func (p *Params) String() string {
	return fmt.Sprintf("%s(%s)", p.group.Name(), NewPoint(p.generator))
}
