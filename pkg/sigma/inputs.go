package sigma

import (
	"io"

	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

func scalars(xs ...curve.Scalar) []value.Value {
	out := make([]value.Value, len(xs))
	for i, x := range xs {
		out[i] = value.ScalarFromCurve(x)
	}
	return out
}

// DiscreteLogEnvironment returns [G].
func DiscreteLogEnvironment(params *value.Params) value.Sequence {
	return value.Of(params)
}

// DiscreteLogProverInput returns [Y, r, x] with Y = x⋅G and a fresh nonce r.
func DiscreteLogProverInput(rand io.Reader, params *value.Params, x curve.Scalar) value.Sequence {
	r := sample.Scalar(rand, params.Group())
	Y := x.Act(params.Generator())
	return append(value.Of(value.NewPoint(Y)), scalars(r, x)...)
}

// DiscreteLogSimulatorInput returns [Y, z] with a fresh response z.
func DiscreteLogSimulatorInput(rand io.Reader, params *value.Params, Y curve.Point) value.Sequence {
	z := sample.Scalar(rand, params.Group())
	return append(value.Of(value.NewPoint(Y)), scalars(z)...)
}

// DiscreteLogPublicInput returns [Y].
func DiscreteLogPublicInput(Y curve.Point) value.Sequence {
	return value.Of(value.NewPoint(Y))
}

// PedersenEnvironment returns [G, H].
func PedersenEnvironment(params *value.Params, H curve.Point) value.Sequence {
	return value.Of(params, value.NewPoint(H))
}

// PedersenProverInput returns [Y, r₁, r₂, m, r] with Y = m⋅G + r⋅H.
func PedersenProverInput(rand io.Reader, params *value.Params, H curve.Point, m, r curve.Scalar) value.Sequence {
	group := params.Group()
	r1, r2 := sample.Scalar(rand, group), sample.Scalar(rand, group)
	Y := m.Act(params.Generator()).Add(r.Act(H))
	return append(value.Of(value.NewPoint(Y)), scalars(r1, r2, m, r)...)
}

// PedersenSimulatorInput returns [Y, z₁, z₂].
func PedersenSimulatorInput(rand io.Reader, params *value.Params, Y curve.Point) value.Sequence {
	group := params.Group()
	z1, z2 := sample.Scalar(rand, group), sample.Scalar(rand, group)
	return append(value.Of(value.NewPoint(Y)), scalars(z1, z2)...)
}

// PedersenPublicInput returns [Y].
func PedersenPublicInput(Y curve.Point) value.Sequence {
	return value.Of(value.NewPoint(Y))
}

// EqualLogsEnvironment returns [G, H].
func EqualLogsEnvironment(params *value.Params, H curve.Point) value.Sequence {
	return value.Of(params, value.NewPoint(H))
}

// EqualLogsProverInput returns [Y₁, Y₂, r, x] with Y₁ = x⋅G and Y₂ = x⋅H.
func EqualLogsProverInput(rand io.Reader, params *value.Params, H curve.Point, x curve.Scalar) value.Sequence {
	r := sample.Scalar(rand, params.Group())
	Y1, Y2 := x.Act(params.Generator()), x.Act(H)
	return append(value.Of(value.NewPoint(Y1), value.NewPoint(Y2)), scalars(r, x)...)
}

// EqualLogsSimulatorInput returns [Y₁, Y₂, z].
func EqualLogsSimulatorInput(rand io.Reader, params *value.Params, Y1, Y2 curve.Point) value.Sequence {
	z := sample.Scalar(rand, params.Group())
	return append(value.Of(value.NewPoint(Y1), value.NewPoint(Y2)), scalars(z)...)
}

// EqualLogsPublicInput returns [Y₁, Y₂].
func EqualLogsPublicInput(Y1, Y2 curve.Point) value.Sequence {
	return value.Of(value.NewPoint(Y1), value.NewPoint(Y2))
}
