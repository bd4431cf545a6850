package multisig

import (
	"io"

	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Naive proves k out of n as OR(AND(key …) …), with one AND of k Schnorr
// proofs per k-subset of the keys. The AND layer is omitted when k = 1 and
// the OR layer when k = n.
type Naive struct {
	n, k     int
	params   *value.Params
	subsets  [][]int
	protocol sigma.Protocol
}

// NewNaive returns the naive k-of-n builder. The table must cover n.
func NewNaive(n, k int, params *value.Params, binomials *Binomials) (*Naive, error) {
	if err := checkParameters(n, k); err != nil {
		return nil, err
	}
	count, err := binomials.Choose(n, k)
	if err != nil {
		return nil, err
	}
	subsets := Subsets(n, k)
	if len(subsets) != count {
		return nil, value.Mismatch("multisig: %d subsets, expected C(%d, %d) = %d", len(subsets), n, k, count)
	}

	var mid sigma.Protocol = key
	if k > 1 {
		mid = sigma.NewAnd(repeat[sigma.Protocol](key, k)...)
	}
	protocol := mid
	if count > 1 {
		protocol = sigma.NewOr(repeat(mid, count)...)
	}
	return &Naive{n: n, k: k, params: params, subsets: subsets, protocol: protocol}, nil
}

func (b *Naive) Protocol() sigma.Protocol {
	return b.protocol
}

// wrapSubset applies the AND layer to the per-key values of a subset.
func (b *Naive) wrapSubset(values []value.Value) value.Value {
	if b.k == 1 {
		return values[0]
	}
	return value.Of(values...)
}

func (b *Naive) Environment() value.Value {
	mid := b.wrapSubset(repeat[value.Value](sigma.DiscreteLogEnvironment(b.params), b.k))
	if len(b.subsets) == 1 {
		return mid
	}
	return value.Of(repeat(mid, len(b.subsets))...)
}

func (b *Naive) ProverInput(rand io.Reader, publicKeys []curve.Point, secrets map[int]curve.Scalar) (value.Value, error) {
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	positions, err := signers(b.params, b.k, publicKeys, secrets)
	if err != nil {
		return nil, err
	}

	inputs := make(value.Sequence, len(b.subsets))
	challenges := make([]*value.Scalar, len(b.subsets))
	for i, subset := range b.subsets {
		keys := make([]value.Value, b.k)
		if equal(subset, positions) {
			for j, position := range subset {
				keys[j] = proverKey(rand, b.params, secrets[position])
			}
			challenges[i] = value.ScalarFromUint64(0)
		} else {
			for j, position := range subset {
				keys[j] = simulatorKey(rand, b.params, publicKeys[position])
			}
			challenges[i] = randomChallenge(rand, b.params.Group())
		}
		inputs[i] = b.wrapSubset(keys)
	}
	if len(b.subsets) == 1 {
		return inputs[0], nil
	}
	return append(inputs, value.Scalars(challenges)), nil
}

func (b *Naive) SimulatorInput(rand io.Reader, publicKeys []curve.Point) (value.Value, error) {
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	inputs := make(value.Sequence, len(b.subsets))
	challenges := make([]*value.Scalar, len(b.subsets))
	for i, subset := range b.subsets {
		keys := make([]value.Value, b.k)
		for j, position := range subset {
			keys[j] = simulatorKey(rand, b.params, publicKeys[position])
		}
		inputs[i] = b.wrapSubset(keys)
		challenges[i] = randomChallenge(rand, b.params.Group())
	}
	if len(b.subsets) == 1 {
		return inputs[0], nil
	}
	// the first subset absorbs the external challenge
	challenges[0] = value.ScalarFromUint64(0)
	return append(inputs, value.Scalars(challenges)), nil
}

func (b *Naive) PublicInput(publicKeys []curve.Point) (value.Value, error) {
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	inputs := make(value.Sequence, len(b.subsets))
	for i, subset := range b.subsets {
		keys := make([]value.Value, b.k)
		for j, position := range subset {
			keys[j] = sigma.DiscreteLogPublicInput(publicKeys[position])
		}
		inputs[i] = b.wrapSubset(keys)
	}
	if len(b.subsets) == 1 {
		return inputs[0], nil
	}
	return inputs, nil
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
