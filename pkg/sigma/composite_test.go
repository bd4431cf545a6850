package sigma

import (
	"context"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/sigmaproofs/pkg/math/polynomial"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

func proveAndVerify(t *testing.T, st statement) *Transcript {
	transcript, err := Prove(rand.Reader, group, st.protocol, st.prover, st.env)
	require.NoError(t, err, st.protocol.String())
	require.NoError(t, Verify(st.protocol, st.public, st.env, transcript), st.protocol.String())
	return transcript
}

func TestCompleteness(t *testing.T) {
	cases := map[string]func() statement{
		"AND": func() statement {
			return andOf(dlStatement(), pedersenStatement(), eqlogsStatement())
		},
		"OR first": func() statement {
			return orOf(0, dlStatement(), pedersenStatement(), eqlogsStatement())
		},
		"OR last": func() statement {
			return orOf(2, dlStatement(), pedersenStatement(), eqlogsStatement())
		},
		"THRESHOLD": func() statement {
			return thresholdOf(2, []int{1, 3}, dlStatement(), dlStatement(), pedersenStatement(), eqlogsStatement())
		},
		"AND of OR": func() statement {
			return andOf(orOf(1, dlStatement(), dlStatement()), pedersenStatement())
		},
		"OR of AND": func() statement {
			return orOf(1,
				andOf(dlStatement(), dlStatement()),
				andOf(eqlogsStatement(), pedersenStatement()),
			)
		},
		"OR of OR": func() statement {
			return orOf(0,
				orOf(1, dlStatement(), eqlogsStatement()),
				orOf(0, dlStatement(), dlStatement(), pedersenStatement()),
			)
		},
		"depth 3": func() statement {
			return andOf(
				orOf(1,
					thresholdOf(2, []int{0, 2}, dlStatement(), dlStatement(), dlStatement()),
					andOf(dlStatement(), orOf(0, pedersenStatement(), dlStatement())),
				),
				thresholdOf(1, []int{2},
					orOf(1, dlStatement(), eqlogsStatement()),
					andOf(dlStatement(), dlStatement()),
					thresholdOf(3, []int{0, 1, 2}, dlStatement(), pedersenStatement(), eqlogsStatement()),
				),
			)
		},
	}
	for name, newStatement := range cases {
		t.Run(name, func(t *testing.T) {
			st := newStatement()
			transcript := proveAndVerify(t, st)
			assert.NoError(t, Verify(st.protocol, st.prover, st.env, transcript))

			simulated, err := Simulate(st.protocol, st.simulator, st.env, randomChallenge())
			require.NoError(t, err)
			assert.NoError(t, Verify(st.protocol, st.public, st.env, simulated))
			assert.Equal(t, value.Shape(transcript.Commitment), value.Shape(simulated.Commitment))
			assert.Equal(t, value.Shape(transcript.Response), value.Shape(simulated.Response))
		})
	}
}

func TestAndSoundness(t *testing.T) {
	st := andOf(dlStatement(), dlStatement())
	transcript := proveAndVerify(t, st)

	for i := 0; i < 2; i++ {
		bad := *transcript
		bad.Response = tamper(transcript.Response, i, 0)
		assert.ErrorIs(t, Verify(st.protocol, st.public, st.env, &bad), ErrVerificationFailed)
	}

	_, err := st.protocol.InitialComm(value.Of(st.prover.(value.Sequence)[0]), st.env)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
}

func TestAndAbsent(t *testing.T) {
	first, second := dlStatement(), dlStatement()
	st := andOf(first, second)
	input := value.Of(first.prover, value.Absent)

	a, err := st.protocol.InitialComm(input, st.env)
	require.NoError(t, err)
	assert.True(t, value.IsAbsent(a.(value.Sequence)[1]))

	c := randomChallenge()
	z, err := st.protocol.CalcResponse(input, st.env, c)
	require.NoError(t, err)
	assert.Equal(t, []*value.Scalar{c}, NullChallenges(st.protocol, z, c))
	assert.False(t, st.protocol.VerifyResponse(st.public, st.env, a, c, z))
}

func TestOrBinding(t *testing.T) {
	branches := []statement{dlStatement(), dlStatement(), dlStatement()}
	children, env, _, public := unzip(branches)
	or := NewOr(children...)

	c0, c2 := randomChallenge(), randomChallenge()
	input := value.Of(
		branches[0].simulator,
		branches[1].prover,
		branches[2].simulator,
		value.Of(c0, value.ScalarFromUint64(0), c2),
	)
	commitment, err := or.InitialComm(input, env)
	require.NoError(t, err)

	C := randomChallenge()
	response, err := or.CalcResponse(input, env, C)
	require.NoError(t, err)

	cs, err := value.AsScalars(response.(value.Sequence)[3], 3)
	require.NoError(t, err)
	assert.True(t, cs[0].Equal(c0))
	assert.True(t, cs[2].Equal(c2))
	assert.True(t, cs[0].Xor(cs[1]).Xor(cs[2]).Equal(C))
	assert.True(t, or.VerifyResponse(public, env, commitment, C, response))

	// the real branch answers the derived challenge
	assert.True(t, children[1].VerifyResponse(public[1], env[1], commitment.(value.Sequence)[1], cs[1], response.(value.Sequence)[1]))

	assert.False(t, or.VerifyResponse(public, env, commitment, tamper(C).(*value.Scalar), response))
	assert.False(t, or.VerifyResponse(public, env, commitment, C, tamper(response, 3, 1)))
	assert.False(t, or.VerifyResponse(public, env, commitment, C, tamper(response, 1, 0)))
	assert.False(t, or.VerifyResponse(public, env, commitment, C, tamper(response, 0, 0)))
}

func TestOrInputErrors(t *testing.T) {
	branches := []statement{dlStatement(), dlStatement(), dlStatement()}
	children, env, _, _ := unzip(branches)
	or := NewOr(children...)
	zero := value.ScalarFromUint64(0)
	in := func(cs ...value.Value) value.Sequence {
		return value.Of(branches[0].prover, branches[1].simulator, branches[2].simulator, value.Of(cs...))
	}

	_, err := or.InitialComm(in(zero, randomChallenge()), env)
	assert.ErrorIs(t, err, ErrArraySizesDoNotMatch)
	assert.ErrorIs(t, err, ErrStructuralMismatch)

	_, err = or.InitialComm(in(randomChallenge(), randomChallenge(), randomChallenge()), env)
	assert.ErrorIs(t, err, ErrNoTrueProof)

	_, err = or.InitialComm(in(zero, zero, randomChallenge()), env)
	assert.ErrorIs(t, err, ErrMultipleTrueProofs)

	_, err = or.CalcResponse(in(zero, zero, randomChallenge()), env, randomChallenge())
	assert.ErrorIs(t, err, ErrMultipleTrueProofs)

	_, err = or.InitialCommSim(in(randomChallenge(), randomChallenge(), randomChallenge()), env, randomChallenge())
	assert.ErrorIs(t, err, ErrNoTrueProof)

	_, err = or.InitialComm(value.Of(branches[0].prover, branches[1].simulator), env)
	assert.ErrorIs(t, err, ErrStructuralMismatch)

	_, err = or.InitialComm(in(zero, randomChallenge(), randomChallenge()), env[:2])
	assert.ErrorIs(t, err, ErrStructuralMismatch)
}

func TestOrSimulationMarksBranchBeforeLast(t *testing.T) {
	branches := []statement{dlStatement(), dlStatement(), dlStatement()}
	children, env, sim, public := unzip(branches)
	or := NewOr(children...)
	zero := value.ScalarFromUint64(0)

	last := append(sim[:3:3], value.Of(randomChallenge(), randomChallenge(), zero))
	_, err := Simulate(or, last, env, randomChallenge())
	assert.ErrorIs(t, err, ErrNoTrueProof)
	_, err = or.SimulatorGetResponse(last, randomChallenge())
	assert.ErrorIs(t, err, ErrNoTrueProof)

	middle := append(sim[:3:3], value.Of(randomChallenge(), zero, randomChallenge()))
	transcript, err := Simulate(or, middle, env, randomChallenge())
	require.NoError(t, err)
	assert.NoError(t, Verify(or, public, env, transcript))

	// a real proof may still use the last branch
	proven := value.Of(branches[0].simulator, branches[1].simulator, branches[2].prover,
		value.Of(randomChallenge(), randomChallenge(), zero))
	transcript, err = Prove(rand.Reader, group, or, proven, env)
	require.NoError(t, err)
	assert.NoError(t, Verify(or, public, env, transcript))
}

func TestOrRejectsOversizedChallenges(t *testing.T) {
	branches := []statement{dlStatement(), dlStatement(), dlStatement()}
	children, env, _, public := unzip(branches)
	or := NewOr(children...)
	zero := value.ScalarFromUint64(0)

	c0 := randomChallenge()
	shifted := value.ScalarFromBig(new(big.Int).Add(c0.Big(), group.Order().Big()))
	input := func(c *value.Scalar) value.Sequence {
		return value.Of(branches[0].simulator, branches[1].prover, branches[2].simulator,
			value.Of(c, zero, randomChallenge()))
	}

	transcript, err := Prove(rand.Reader, group, or, input(c0), env)
	require.NoError(t, err)
	assert.NoError(t, Verify(or, public, env, transcript))

	// c₀ + q acts on the leaf exactly like c₀
	transcript, err = Prove(rand.Reader, group, or, input(shifted), env)
	require.NoError(t, err)
	assert.True(t, children[0].VerifyResponse(public[0], env[0],
		transcript.Commitment.(value.Sequence)[0], shifted, transcript.Response.(value.Sequence)[0]))
	assert.ErrorIs(t, Verify(or, public, env, transcript), ErrVerificationFailed)
}

func TestOrDoesNotMutateInput(t *testing.T) {
	st := orOf(1, dlStatement(), dlStatement())
	before, err := value.Marshal(st.simulator)
	require.NoError(t, err)

	_, err = Simulate(st.protocol, st.simulator, st.env, randomChallenge())
	require.NoError(t, err)
	_, err = Prove(rand.Reader, group, st.protocol, st.prover, st.env)
	require.NoError(t, err)

	after, err := value.Marshal(st.simulator)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestThreshold(t *testing.T) {
	st := thresholdOf(2, []int{0, 2}, dlStatement(), dlStatement(), dlStatement(), dlStatement())
	transcript := proveAndVerify(t, st)
	n := 4

	z := transcript.Response.(value.Sequence)
	cs, err := value.AsScalars(z[n], n)
	require.NoError(t, err)
	assert.True(t, cs[1].Equal(st.prover.(value.Sequence)[n].(value.Sequence)[1].(*value.Scalar)))

	// moving a simulated challenge off the polynomial breaks the degree bound
	bad := *transcript
	bad.Response = tamper(transcript.Response, n, 3)
	assert.ErrorIs(t, Verify(st.protocol, st.public, st.env, &bad), ErrVerificationFailed)

	bad = *transcript
	bad.Response = tamper(transcript.Response, 0, 0)
	assert.ErrorIs(t, Verify(st.protocol, st.public, st.env, &bad), ErrVerificationFailed)

	bad = *transcript
	bad.Challenge = tamper(transcript.Challenge).(*value.Scalar)
	assert.ErrorIs(t, Verify(st.protocol, st.public, st.env, &bad), ErrVerificationFailed)
}

func TestThresholdRejectsForgedChallenges(t *testing.T) {
	// a prover holding a single witness cannot satisfy 2 out of 3 by
	// choosing every branch challenge freely
	branches := []statement{dlStatement(), dlStatement(), dlStatement()}
	children, env, _, public := unzip(branches)
	threshold := &Threshold{Children: children, K: 2, FieldPrime: group.Order()}

	cs := []*value.Scalar{randomChallenge(), randomChallenge(), randomChallenge()}
	C := randomChallenge()
	commitment := make(value.Sequence, 3)
	response := make(value.Sequence, 3)
	for i, b := range branches {
		transcript, err := Simulate(b.protocol, b.simulator, b.env, cs[i])
		require.NoError(t, err)
		commitment[i], response[i] = transcript.Commitment, transcript.Response
	}
	response = append(response, value.Scalars(cs))
	assert.False(t, threshold.VerifyResponse(public, env, commitment, C, response))
}

func TestThresholdInputErrors(t *testing.T) {
	branches := []statement{dlStatement(), dlStatement(), dlStatement(), dlStatement()}
	children, env, _, _ := unzip(branches)
	threshold := &Threshold{Children: children, K: 2, FieldPrime: group.Order()}
	zero := value.ScalarFromUint64(0)
	in := func(cs ...value.Value) value.Sequence {
		return value.Of(branches[0].prover, branches[1].prover, branches[2].simulator, branches[3].simulator, value.Of(cs...))
	}

	_, err := threshold.InitialComm(in(zero, randomChallenge(), randomChallenge(), randomChallenge()), env)
	assert.ErrorIs(t, err, ErrNoTrueProof)

	_, err = threshold.InitialComm(in(zero, zero, zero, randomChallenge()), env)
	assert.ErrorIs(t, err, ErrMultipleTrueProofs)

	_, err = threshold.InitialComm(in(zero, zero, randomChallenge()), env)
	assert.ErrorIs(t, err, ErrArraySizesDoNotMatch)

	tooLarge := value.ScalarFromBig(group.Order().Big())
	_, err = threshold.InitialComm(in(zero, zero, tooLarge, randomChallenge()), env)
	assert.ErrorIs(t, err, ErrStructuralMismatch)

	broken := &Threshold{Children: children, K: 5, FieldPrime: group.Order()}
	_, err = broken.InitialComm(in(zero, zero, randomChallenge(), randomChallenge()), env)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
}

func TestNewThreshold(t *testing.T) {
	dl := Atomic{Relation: DiscreteLog}
	p := group.Order()

	single, err := NewThreshold(1, p, dl)
	require.NoError(t, err)
	assert.Equal(t, dl, single)

	or, err := NewThreshold(1, p, dl, dl, dl)
	require.NoError(t, err)
	assert.IsType(t, &Or{}, or)

	and, err := NewThreshold(3, p, dl, dl, dl)
	require.NoError(t, err)
	assert.IsType(t, &And{}, and)

	threshold, err := NewThreshold(2, p, dl, dl, dl)
	require.NoError(t, err)
	assert.Equal(t, "THRESHOLD[2](DL, DL, DL)", threshold.String())

	_, err = NewThreshold(4, p, dl, dl, dl)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	_, err = NewThreshold(0, p, dl, dl)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	_, err = NewThreshold(1, p)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
}

func TestThresholdFieldPrime(t *testing.T) {
	dl := Atomic{Relation: DiscreteLog}

	// the coordinates 0 … n must be distinct in the field
	_, err := NewThreshold(2, saferith.ModulusFromUint64(3), dl, dl, dl)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	_, err = NewThreshold(2, nil, dl, dl, dl)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	_, err = NewThreshold(2, saferith.ModulusFromUint64(5), dl, dl, dl)
	assert.NoError(t, err)

	st := thresholdOf(2, []int{0, 1}, dlStatement(), dlStatement(), dlStatement())
	children := st.protocol.(*Threshold).Children
	small := &Threshold{Children: children, K: 2, FieldPrime: saferith.ModulusFromUint64(3)}
	_, err = small.InitialComm(st.prover, st.env)
	assert.ErrorIs(t, err, ErrStructuralMismatch)

	// a field larger than the group would let c and c + q share a leaf challenge
	b := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 521), big.NewInt(1))
	mersenne := saferith.ModulusFromNat(new(saferith.Nat).SetBig(b, 521))
	large, err := NewThreshold(2, mersenne, children...)
	require.NoError(t, err)
	_, err = large.InitialComm(st.prover, st.env)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	_, err = large.CalcResponse(st.prover, st.env, randomChallenge())
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	_, err = large.InitialCommSim(st.simulator, st.env, randomChallenge())
	assert.ErrorIs(t, err, ErrStructuralMismatch)

	transcript := proveAndVerify(t, st)
	assert.False(t, large.VerifyResponse(st.public, st.env, transcript.Commitment, transcript.Challenge, transcript.Response))
}

func TestNullChallenges(t *testing.T) {
	branches := []statement{dlStatement(), dlStatement()}
	children, env, _, public := unzip(branches)
	or := NewOr(children...)

	// the placeholder branch receives the derived challenge
	c1 := randomChallenge()
	input := value.Of(value.Absent, branches[1].simulator, value.Of(value.ScalarFromUint64(0), c1))
	C := randomChallenge()
	transcript, err := Simulate(or, input, env, C)
	require.NoError(t, err)
	assert.True(t, value.IsAbsent(transcript.Commitment.(value.Sequence)[0]))

	nulls := NullChallenges(or, transcript.Response, C)
	require.Len(t, nulls, 1)
	assert.True(t, nulls[0].Equal(C.Xor(c1)))

	// filling the placeholder afterwards yields an accepting transcript
	filled, err := Simulate(children[0], branches[0].simulator, env[0], nulls[0])
	require.NoError(t, err)
	commitment := transcript.Commitment.(value.Sequence)
	response := transcript.Response.(value.Sequence)
	commitment[0], response[0] = filled.Commitment, filled.Response
	assert.True(t, or.VerifyResponse(public, env, commitment, C, response))
	assert.Empty(t, NullChallenges(or, response, C))
}

func TestNullChallengesNested(t *testing.T) {
	inner := orOf(0, dlStatement(), dlStatement())
	innerInput := inner.simulator.(value.Sequence)
	innerCs := innerInput[2].(value.Sequence)
	withPlaceholder := value.Of(innerInput[0], value.Absent, innerCs)

	outer := NewAnd(inner.protocol, Atomic{Relation: DiscreteLog})
	C := randomChallenge()
	response, err := outer.SimulatorGetResponse(value.Of(withPlaceholder, value.Absent), C)
	require.NoError(t, err)

	nulls := NullChallenges(outer, response, C)
	require.Len(t, nulls, 2)
	assert.True(t, nulls[0].Equal(innerCs[1].(*value.Scalar)))
	assert.True(t, nulls[1].Equal(C))

	assert.Empty(t, NullChallenges(outer, value.Of(value.Of(), value.Of()), C))
	assert.Equal(t, []*value.Scalar{C}, NullChallenges(outer, value.Absent, C))
}

func TestNullChallengesThreshold(t *testing.T) {
	st := thresholdOf(2, []int{0, 1}, dlStatement(), dlStatement(), dlStatement())
	input := st.prover.(value.Sequence)
	input = value.Of(input[0], value.Absent, input[2], input[3])
	c2 := input[3].(value.Sequence)[2].(*value.Scalar)

	transcript, err := Prove(rand.Reader, group, st.protocol, input, st.env)
	require.NoError(t, err)
	assert.True(t, value.IsAbsent(transcript.Commitment.(value.Sequence)[1]))

	// the placeholder receives f(2), f being fixed by (0, C) and (3, c₂)
	q := group.Order()
	f, err := polynomial.Interpolate(q, []polynomial.Point{
		{X: new(saferith.Nat).SetUint64(0), Y: transcript.Challenge.Mod(q)},
		{X: new(saferith.Nat).SetUint64(3), Y: c2.Nat()},
	})
	require.NoError(t, err)
	expected := f.Evaluate(new(saferith.Nat).SetUint64(2))

	nulls := NullChallenges(st.protocol, transcript.Response, transcript.Challenge)
	require.Len(t, nulls, 1)
	assert.Equal(t, expected.Big(), nulls[0].Big())
	cs := transcript.Response.(value.Sequence)[3].(value.Sequence)
	assert.True(t, nulls[0].Equal(cs[1].(*value.Scalar)))
}

func TestVerifyAll(t *testing.T) {
	var instances []Instance
	for i := 0; i < 6; i++ {
		st := orOf(i%2, dlStatement(), pedersenStatement())
		transcript := proveAndVerify(t, st)
		instances = append(instances, Instance{
			Protocol:    st.protocol,
			Input:       st.public,
			Environment: st.env,
			Transcript:  transcript,
		})
	}
	assert.NoError(t, VerifyAll(context.Background(), 2, instances))
	assert.NoError(t, VerifyAll(context.Background(), 0, instances))

	bad := *instances[3].Transcript
	bad.Challenge = tamper(bad.Challenge).(*value.Scalar)
	instances[3].Transcript = &bad
	assert.ErrorIs(t, VerifyAll(context.Background(), 2, instances), ErrVerificationFailed)
}

func TestTranscriptDigest(t *testing.T) {
	st := andOf(dlStatement(), eqlogsStatement())
	transcript := proveAndVerify(t, st)

	digest, err := transcript.Digest(st.protocol)
	require.NoError(t, err)
	again, err := transcript.Digest(st.protocol)
	require.NoError(t, err)
	assert.Equal(t, digest, again)

	bad := *transcript
	bad.Response = tamper(transcript.Response, 0, 0)
	other, err := bad.Digest(st.protocol)
	require.NoError(t, err)
	assert.NotEqual(t, digest, other)
}
