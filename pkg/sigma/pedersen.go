package sigma

import (
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// input: [Y, r₁, r₂, m, r]
func pedersenCommit(e *environment, in *reader) value.Value {
	r1, r2 := in.scalar(1), in.scalar(2)
	// A = r₁⋅G + r₂⋅H
	return value.Of(value.NewPoint(r1.Act(e.g).Add(r2.Act(e.h))))
}

// input: [Y, z₁, z₂]
func pedersenSimulate(e *environment, in *reader, c curve.Scalar) value.Value {
	Y, z1, z2 := in.point(0), in.scalar(1), in.scalar(2)
	// A = z₁⋅G + z₂⋅H - c⋅Y
	A := z1.Act(e.g).Add(z2.Act(e.h)).Sub(c.Act(Y))
	return value.Of(value.NewPoint(A))
}

func pedersenRespond(e *environment, in *reader, c curve.Scalar) value.Value {
	r1, r2, m, r := in.scalar(1), in.scalar(2), in.scalar(3), in.scalar(4)
	// z₁ = r₁ + c⋅m (mod q)
	z1 := e.group.NewScalar().Set(c).Mul(m).Add(r1)
	// z₂ = r₂ + c⋅r (mod q)
	z2 := e.group.NewScalar().Set(c).Mul(r).Add(r2)
	return value.Of(value.ScalarFromCurve(z1), value.ScalarFromCurve(z2))
}

func pedersenVerify(e *environment, in, com, resp *reader, c curve.Scalar) bool {
	Y := in.point(0)
	A := com.point(0)
	z1, z2 := resp.scalar(0), resp.scalar(1)
	// z₁⋅G + z₂⋅H = A + c⋅Y
	lhs := z1.Act(e.g).Add(z2.Act(e.h))
	rhs := c.Act(Y).Add(A)
	return lhs.Equal(rhs)
}
