package multisig

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Threshold proves k out of n with a single threshold node over the n keys.
// As with sigma.NewThreshold, k = 1 yields an OR, k = n an AND, and a single
// key is proven directly.
type Threshold struct {
	n, k       int
	params     *value.Params
	fieldPrime *saferith.Modulus
	protocol   sigma.Protocol
}

// NewThreshold returns the threshold k-of-n builder. If fieldPrime is nil,
// the order of the group is used.
func NewThreshold(n, k int, params *value.Params, fieldPrime *saferith.Modulus) (*Threshold, error) {
	if err := checkParameters(n, k); err != nil {
		return nil, err
	}
	if fieldPrime == nil {
		fieldPrime = params.Order()
	}
	protocol, err := sigma.NewThreshold(k, fieldPrime, repeat[sigma.Protocol](key, n)...)
	if err != nil {
		return nil, err
	}
	return &Threshold{n: n, k: k, params: params, fieldPrime: fieldPrime, protocol: protocol}, nil
}

func (b *Threshold) Protocol() sigma.Protocol {
	return b.protocol
}

func (b *Threshold) Environment() value.Value {
	env := sigma.DiscreteLogEnvironment(b.params)
	if b.n == 1 {
		return env
	}
	return value.Of(repeat[value.Value](env, b.n)...)
}

// challenge returns the challenge of a simulated branch.
func (b *Threshold) challenge(rand io.Reader) *value.Scalar {
	if b.k == 1 {
		return randomChallenge(rand, b.params.Group())
	}
	return value.NewScalar(sample.FieldChallenge(rand, b.fieldPrime))
}

// branches assembles [in₀ … inₙ₋₁] followed by the challenge array, except
// for the AND case which has none.
func (b *Threshold) branches(inputs value.Sequence, challenges []*value.Scalar) value.Value {
	if b.n == 1 {
		return inputs[0]
	}
	if b.k == b.n {
		return inputs
	}
	return append(inputs, value.Scalars(challenges))
}

func (b *Threshold) ProverInput(rand io.Reader, publicKeys []curve.Point, secrets map[int]curve.Scalar) (value.Value, error) {
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	if _, err := signers(b.params, b.k, publicKeys, secrets); err != nil {
		return nil, err
	}
	inputs := make(value.Sequence, b.n, b.n+1)
	challenges := make([]*value.Scalar, b.n)
	for i, Y := range publicKeys {
		if x, ok := secrets[i]; ok {
			inputs[i] = proverKey(rand, b.params, x)
			challenges[i] = value.ScalarFromUint64(0)
		} else {
			inputs[i] = simulatorKey(rand, b.params, Y)
			challenges[i] = b.challenge(rand)
		}
	}
	return b.branches(inputs, challenges), nil
}

func (b *Threshold) SimulatorInput(rand io.Reader, publicKeys []curve.Point) (value.Value, error) {
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	inputs := make(value.Sequence, b.n, b.n+1)
	challenges := make([]*value.Scalar, b.n)
	for i, Y := range publicKeys {
		inputs[i] = simulatorKey(rand, b.params, Y)
		if i < b.k {
			challenges[i] = value.ScalarFromUint64(0)
		} else {
			challenges[i] = b.challenge(rand)
		}
	}
	return b.branches(inputs, challenges), nil
}

func (b *Threshold) PublicInput(publicKeys []curve.Point) (value.Value, error) {
	if err := checkKeys(b.n, publicKeys); err != nil {
		return nil, err
	}
	if b.n == 1 {
		return sigma.DiscreteLogPublicInput(publicKeys[0]), nil
	}
	inputs := make(value.Sequence, b.n)
	for i, Y := range publicKeys {
		inputs[i] = sigma.DiscreteLogPublicInput(Y)
	}
	return inputs, nil
}
