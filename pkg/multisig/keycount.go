package multisig

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// KeyCount proves k out of n by committing to one bit per key.
//
// The prover publishes Pedersen commitments Bᵢ = bᵢ·G + rᵢ·H, with bᵢ = 1 for
// the known keys, and proves
//
//	AND(AND(OR(DL_H(Bᵢ), AND(DL_H(Bᵢ - G), DL_G(Yᵢ))) …), DL_H(ΣBᵢ - k·G))
//
// so that every committed bit is 0 or backed by a secret key, and the bits
// sum to k. The size of the proof grows linearly with n and does not depend
// on a field prime. When k = 1, k = n or n = 1 no commitment is needed and
// the builder falls back to the shapes of Threshold.
type KeyCount struct {
	n, k     int
	params   *value.Params
	blinding *value.Params
	simple   *Threshold
	protocol sigma.Protocol
}

// NewKeyCount returns the key counting k-of-n builder. H is the blinding base
// of the commitments; nobody may know its discrete logarithm in base G.
func NewKeyCount(n, k int, params *value.Params, H curve.Point) (*KeyCount, error) {
	if err := checkParameters(n, k); err != nil {
		return nil, err
	}
	b := &KeyCount{n: n, k: k, params: params, blinding: value.NewParams(params.Group(), H)}
	if n == 1 || k == 1 || k == n {
		simple, err := NewThreshold(n, k, params, nil)
		if err != nil {
			return nil, err
		}
		b.simple, b.protocol = simple, simple.Protocol()
		return b, nil
	}
	bit := sigma.NewOr(key, sigma.NewAnd(key, key))
	b.protocol = sigma.NewAnd(sigma.NewAnd(repeat[sigma.Protocol](bit, n)...), key)
	return b, nil
}

func (b *KeyCount) Protocol() sigma.Protocol {
	return b.protocol
}

func (b *KeyCount) Environment() value.Value {
	if b.simple != nil {
		return b.simple.Environment()
	}
	blinded := sigma.DiscreteLogEnvironment(b.blinding)
	bit := value.Of(blinded, value.Of(blinded, sigma.DiscreteLogEnvironment(b.params)))
	return value.Of(value.Of(repeat[value.Value](bit, b.n)...), blinded)
}

// Tally holds the commitments to the bits marking the known keys, together
// with their openings.
type Tally struct {
	Commitments []curve.Point
	bits        []bool
	blinding    []curve.Scalar
}

// Commit commits to the bits of the given positions, exactly k of them.
func (b *KeyCount) Commit(rand io.Reader, positions []int) (*Tally, error) {
	if len(positions) != b.k {
		return nil, value.Mismatch("multisig: %d positions, expected %d", len(positions), b.k)
	}
	t := &Tally{
		Commitments: make([]curve.Point, b.n),
		bits:        make([]bool, b.n),
		blinding:    make([]curve.Scalar, b.n),
	}
	for _, i := range positions {
		if i < 0 || i >= b.n || t.bits[i] {
			return nil, value.Mismatch("multisig: invalid position %d", i)
		}
		t.bits[i] = true
	}
	G, H := b.params.Generator(), b.blinding.Generator()
	for i := range t.Commitments {
		t.blinding[i] = sample.Scalar(rand, b.params.Group())
		t.Commitments[i] = t.blinding[i].Act(H)
		if t.bits[i] {
			t.Commitments[i] = t.Commitments[i].Add(G)
		}
	}
	return t, nil
}

func (b *KeyCount) checkCommitments(commitments []curve.Point) error {
	if b.simple == nil && len(commitments) != b.n {
		return value.Mismatch("multisig: %d commitments, expected %d", len(commitments), b.n)
	}
	return nil
}

// excess returns ΣBᵢ - k·G, a commitment to 0 when the bits sum to k.
func (b *KeyCount) excess(commitments []curve.Point) curve.Point {
	group := b.params.Group()
	k := group.NewScalar().SetNat(new(saferith.Nat).SetUint64(uint64(b.k)))
	sum := group.NewPoint()
	for _, B := range commitments {
		sum = sum.Add(B)
	}
	return sum.Sub(k.Act(b.params.Generator()))
}

// ProverInput returns the input of a prover knowing the secret keys of the
// positions committed to by tally.
func (b *KeyCount) ProverInput(rand io.Reader, publicKeys []curve.Point, secrets map[int]curve.Scalar, tally *Tally) (value.Value, error) {
	if b.simple != nil {
		return b.simple.ProverInput(rand, publicKeys, secrets)
	}
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	if tally == nil {
		return nil, value.Mismatch("multisig: missing commitments")
	}
	if err := b.checkCommitments(tally.Commitments); err != nil {
		return nil, err
	}
	positions, err := signers(b.params, b.k, publicKeys, secrets)
	if err != nil {
		return nil, err
	}
	for _, i := range positions {
		if !tally.bits[i] {
			return nil, value.Mismatch("multisig: key %d is not committed to", i)
		}
	}

	G := b.params.Generator()
	group := b.params.Group()
	bits := make(value.Sequence, b.n)
	total := group.NewScalar()
	for i, B := range tally.Commitments {
		r := tally.blinding[i]
		total = total.Add(r)
		if x, ok := secrets[i]; ok {
			bits[i] = value.Of(
				simulatorKey(rand, b.blinding, B),
				value.Of(proverKey(rand, b.blinding, r), proverKey(rand, b.params, x)),
				value.Of(randomChallenge(rand, group), value.ScalarFromUint64(0)),
			)
		} else {
			bits[i] = value.Of(
				proverKey(rand, b.blinding, r),
				value.Of(simulatorKey(rand, b.blinding, B.Sub(G)), simulatorKey(rand, b.params, publicKeys[i])),
				value.Of(value.ScalarFromUint64(0), randomChallenge(rand, group)),
			)
		}
	}
	return value.Of(bits, proverKey(rand, b.blinding, total)), nil
}

func (b *KeyCount) SimulatorInput(rand io.Reader, publicKeys, commitments []curve.Point) (value.Value, error) {
	if b.simple != nil {
		return b.simple.SimulatorInput(rand, publicKeys)
	}
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	if err := b.checkCommitments(commitments); err != nil {
		return nil, err
	}
	G := b.params.Generator()
	bits := make(value.Sequence, b.n)
	for i, B := range commitments {
		bits[i] = value.Of(
			simulatorKey(rand, b.blinding, B),
			value.Of(simulatorKey(rand, b.blinding, B.Sub(G)), simulatorKey(rand, b.params, publicKeys[i])),
			value.Of(value.ScalarFromUint64(0), randomChallenge(rand, b.params.Group())),
		)
	}
	return value.Of(bits, simulatorKey(rand, b.blinding, b.excess(commitments))), nil
}

func (b *KeyCount) PublicInput(publicKeys, commitments []curve.Point) (value.Value, error) {
	if b.simple != nil {
		return b.simple.PublicInput(publicKeys)
	}
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	if err := b.checkCommitments(commitments); err != nil {
		return nil, err
	}
	G := b.params.Generator()
	bits := make(value.Sequence, b.n)
	for i, B := range commitments {
		bits[i] = value.Of(
			sigma.DiscreteLogPublicInput(B),
			value.Of(sigma.DiscreteLogPublicInput(B.Sub(G)), sigma.DiscreteLogPublicInput(publicKeys[i])),
		)
	}
	return value.Of(bits, sigma.DiscreteLogPublicInput(b.excess(commitments))), nil
}

// Bind returns a Builder proving with the commitments of tally.
func (b *KeyCount) Bind(tally *Tally) Builder {
	return &committed{KeyCount: b, tally: tally}
}

type committed struct {
	*KeyCount
	tally *Tally
}

func (c *committed) commitments() []curve.Point {
	if c.tally == nil {
		return nil
	}
	return c.tally.Commitments
}

func (c *committed) ProverInput(rand io.Reader, publicKeys []curve.Point, secrets map[int]curve.Scalar) (value.Value, error) {
	return c.KeyCount.ProverInput(rand, publicKeys, secrets, c.tally)
}

func (c *committed) SimulatorInput(rand io.Reader, publicKeys []curve.Point) (value.Value, error) {
	return c.KeyCount.SimulatorInput(rand, publicKeys, c.commitments())
}

func (c *committed) PublicInput(publicKeys []curve.Point) (value.Value, error) {
	return c.KeyCount.PublicInput(publicKeys, c.commitments())
}
