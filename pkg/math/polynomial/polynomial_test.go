package polynomial

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
)

func nat(x uint64) *saferith.Nat {
	return new(saferith.Nat).SetUint64(x)
}

func TestPolynomial_Constant(t *testing.T) {
	field := curve.Secp256k1{}.Order()
	deg := 10
	secret := sample.ModN(rand.Reader, field)
	poly := NewPolynomial(rand.Reader, field, deg, secret)
	require.Equal(t, 0, poly.Constant().Big().Cmp(secret.Big()))
	require.Equal(t, 0, poly.Evaluate(nat(0)).Big().Cmp(secret.Big()))
}

func TestPolynomial_Evaluate(t *testing.T) {
	field := curve.Secp256k1{}.Order()
	polynomial := FromCoefficients(field, nat(1), nat(0), nat(1))

	for index := 0; index < 100; index++ {
		x := mrand.Uint32()
		result := big.NewInt(int64(x))
		result.Mul(result, result)
		result.Add(result, big.NewInt(1))
		computedResult := polynomial.Evaluate(nat(uint64(x)))
		assert.Equal(t, 0, result.Cmp(computedResult.Big()))
	}
}

func TestPolynomial_Degree(t *testing.T) {
	field := saferith.ModulusFromUint64(65521)
	assert.Equal(t, 2, FromCoefficients(field, nat(3), nat(0), nat(5), nat(0)).Degree())
	assert.Equal(t, -1, FromCoefficients(field, nat(0), nat(65521)).Degree())
}

func TestInterpolate(t *testing.T) {
	field := curve.Secp256k1{}.Order()
	for degree := 0; degree < 6; degree++ {
		poly := NewPolynomial(rand.Reader, field, degree, sample.ModN(rand.Reader, field))
		points := make([]Point, degree+1)
		for i := range points {
			x := nat(uint64(i + 1))
			points[i] = Point{X: x, Y: poly.Evaluate(x)}
		}
		interpolated, err := Interpolate(field, points)
		require.NoError(t, err)
		assert.LessOrEqual(t, interpolated.Degree(), degree)
		assert.Equal(t, 0, interpolated.Constant().Big().Cmp(poly.Constant().Big()))

		x := sample.ModN(rand.Reader, field)
		assert.Equal(t, 0, interpolated.Evaluate(x).Big().Cmp(poly.Evaluate(x).Big()))

		at, err := LagrangeAt(field, points, x)
		require.NoError(t, err)
		assert.Equal(t, 0, at.Big().Cmp(poly.Evaluate(x).Big()))
	}
}

func TestInterpolate_DegreeDetectsExtraPoint(t *testing.T) {
	field := saferith.ModulusFromUint64(65521)
	poly := FromCoefficients(field, nat(7), nat(3))
	points := []Point{
		{X: nat(0), Y: poly.Evaluate(nat(0))},
		{X: nat(1), Y: poly.Evaluate(nat(1))},
		{X: nat(2), Y: poly.Evaluate(nat(2))},
	}
	interpolated, err := Interpolate(field, points)
	require.NoError(t, err)
	assert.Equal(t, 1, interpolated.Degree())

	points[2].Y = nat(1)
	interpolated, err = Interpolate(field, points)
	require.NoError(t, err)
	assert.Equal(t, 2, interpolated.Degree())
}

func TestInterpolate_Duplicate(t *testing.T) {
	field := saferith.ModulusFromUint64(65521)
	_, err := Interpolate(field, []Point{{X: nat(1), Y: nat(2)}, {X: nat(65522), Y: nat(3)}})
	assert.ErrorIs(t, err, ErrDuplicateAbscissa)
}
