package sigma

import (
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// input: [Y, r, x]
func dlogCommit(e *environment, in *reader) value.Value {
	r := in.scalar(1)
	// A = r⋅G
	return value.Of(value.NewPoint(r.Act(e.g)))
}

// input: [Y, z]
func dlogSimulate(e *environment, in *reader, c curve.Scalar) value.Value {
	Y, z := in.point(0), in.scalar(1)
	// A = z⋅G - c⋅Y
	return value.Of(value.NewPoint(z.Act(e.g).Sub(c.Act(Y))))
}

func dlogRespond(e *environment, in *reader, c curve.Scalar) value.Value {
	r, x := in.scalar(1), in.scalar(2)
	// z = r + c⋅x (mod q)
	z := e.group.NewScalar().Set(c).Mul(x).Add(r)
	return value.Of(value.ScalarFromCurve(z))
}

func dlogVerify(e *environment, in, com, resp *reader, c curve.Scalar) bool {
	Y := in.point(0)
	A := com.point(0)
	z := resp.scalar(0)
	// z⋅G = A + c⋅Y
	lhs := z.Act(e.g)
	rhs := c.Act(Y).Add(A)
	return lhs.Equal(rhs)
}
