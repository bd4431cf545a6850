package value

import (
	"crypto/rand"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
)

var group = curve.Secp256k1{}

func randomPoint() *Point {
	_, p := sample.ScalarPointPair(rand.Reader, group)
	return NewPoint(p)
}

func TestAccessors(t *testing.T) {
	s := ScalarFromUint64(7)
	p := randomPoint()
	params := BaseParams(group)

	got, err := AsScalar(s)
	require.NoError(t, err)
	assert.True(t, got.Equal(s))

	_, err = AsScalar(p)
	assert.True(t, errors.Is(err, ErrStructuralMismatch))

	_, err = AsPoint(s)
	assert.True(t, errors.Is(err, ErrStructuralMismatch))

	_, err = AsParams(Absent)
	assert.True(t, errors.Is(err, ErrStructuralMismatch))

	_, err = AsScalar(nil)
	assert.True(t, errors.Is(err, ErrStructuralMismatch))

	seq := Of(s, p, params)
	_, err = AsSequence(seq, 2)
	assert.True(t, errors.Is(err, ErrStructuralMismatch))
	out, err := AsSequence(seq, 3)
	require.NoError(t, err)
	assert.Len(t, out, 3)
	_, err = AsSequence(seq, -1)
	assert.NoError(t, err)

	_, err = seq.At(3)
	assert.True(t, errors.Is(err, ErrStructuralMismatch))
}

func TestAsScalars(t *testing.T) {
	seq := Of(ScalarFromUint64(1), ScalarFromUint64(0), ScalarFromUint64(3))
	scalars, err := AsScalars(seq, 3)
	require.NoError(t, err)
	assert.True(t, scalars[1].IsZero())

	_, err = AsScalars(Of(ScalarFromUint64(1), Absent), 2)
	assert.True(t, errors.Is(err, ErrStructuralMismatch))
}

func TestAbsent(t *testing.T) {
	assert.True(t, IsAbsent(Absent))
	assert.False(t, IsAbsent(ScalarFromUint64(0)), "zero is not absent")
	assert.False(t, HasAbsent(Of(ScalarFromUint64(1), Of(randomPoint()))))
	assert.True(t, HasAbsent(Of(ScalarFromUint64(1), Of(randomPoint(), Absent))))

	env := Of(BaseParams(group), Of(BaseParams(group), randomPoint()))
	assert.NoError(t, CheckEnvironment(env))
	err := CheckEnvironment(Of(BaseParams(group), Of(Absent)))
	assert.True(t, errors.Is(err, ErrStructuralMismatch))
	err = CheckComplete(Of(nil))
	assert.True(t, errors.Is(err, ErrStructuralMismatch))
}

func TestScalarXor(t *testing.T) {
	a := ScalarFromUint64(0b1100)
	b := ScalarFromUint64(0b1010)
	assert.True(t, a.Xor(b).Equal(ScalarFromUint64(0b0110)))
	assert.True(t, a.Xor(a).IsZero())

	big1, _ := new(big.Int).SetString("123456789abcdef0123456789abcdef0123456789", 16)
	x := ScalarFromBig(big1)
	assert.True(t, x.Xor(a).Xor(a).Equal(x))
}

func TestScalarCurve(t *testing.T) {
	x := sample.Scalar(rand.Reader, group)
	s := ScalarFromCurve(x)
	assert.True(t, s.Curve(group).Equal(x))

	// q + 5 reduces to 5
	q := group.Order().Big()
	overflow := ScalarFromBig(new(big.Int).Add(q, big.NewInt(5)))
	assert.True(t, overflow.Curve(group).Equal(ScalarFromUint64(5).Curve(group)))
}

func TestEqualAndShape(t *testing.T) {
	p := randomPoint()
	a := Of(ScalarFromUint64(1), Of(p, Absent), BaseParams(group))
	b := Of(ScalarFromUint64(1), Of(NewPoint(p.Point()), Absent), BaseParams(group))
	c := Of(ScalarFromUint64(2), Of(p, Absent), BaseParams(group))

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(a, Of(ScalarFromUint64(1))))
	assert.Equal(t, "[scalar [point ⊥] params]", Shape(a))
}

func TestMarshal(t *testing.T) {
	other := group.HashToPoint("value test generator")
	tree := Of(
		ScalarFromUint64(0),
		ScalarFromCurve(sample.Scalar(rand.Reader, group)),
		Of(randomPoint(), Absent, NewPoint(group.NewPoint())),
		NewParams(group, other),
		Of(),
	)
	data, err := Marshal(tree)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, Equal(tree, decoded), "expected %s, got %s", tree, decoded)

	_, err = Unmarshal([]byte{0xff, 0x00})
	assert.Error(t, err)
}
