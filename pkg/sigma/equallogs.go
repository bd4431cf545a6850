package sigma

import (
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// input: [Y₁, Y₂, r, x]
func eqlogsCommit(e *environment, in *reader) value.Value {
	r := in.scalar(2)
	// A₁ = r⋅G, A₂ = r⋅H
	return value.Of(value.NewPoint(r.Act(e.g)), value.NewPoint(r.Act(e.h)))
}

// input: [Y₁, Y₂, z]
func eqlogsSimulate(e *environment, in *reader, c curve.Scalar) value.Value {
	Y1, Y2, z := in.point(0), in.point(1), in.scalar(2)
	A1 := z.Act(e.g).Sub(c.Act(Y1))
	A2 := z.Act(e.h).Sub(c.Act(Y2))
	return value.Of(value.NewPoint(A1), value.NewPoint(A2))
}

func eqlogsRespond(e *environment, in *reader, c curve.Scalar) value.Value {
	r, x := in.scalar(2), in.scalar(3)
	z := e.group.NewScalar().Set(c).Mul(x).Add(r)
	return value.Of(value.ScalarFromCurve(z))
}

func eqlogsVerify(e *environment, in, com, resp *reader, c curve.Scalar) bool {
	Y1, Y2 := in.point(0), in.point(1)
	A1, A2 := com.point(0), com.point(1)
	z := resp.scalar(0)
	// z⋅G = A₁ + c⋅Y₁ and z⋅H = A₂ + c⋅Y₂
	ok1 := z.Act(e.g).Equal(c.Act(Y1).Add(A1))
	ok2 := z.Act(e.h).Equal(c.Act(Y2).Add(A2))
	return ok1 && ok2
}
