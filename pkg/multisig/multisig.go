// Package multisig builds proofs that a prover knows k out of n discrete
// logarithms, without revealing which ones.
//
// Three constructions are offered. Naive proves an OR over the C(n, k)
// subsets of keys, each subset being an AND of Schnorr proofs. Threshold uses
// a single sigma.Threshold node, whose size grows linearly with n. KeyCount
// commits to one bit per key and proves that the bits are backed by keys and
// sum to k.
package multisig

import (
	"io"
	"sort"

	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Builder assembles the protocol tree of a k-of-n proof together with its
// environment and inputs.
type Builder interface {
	Protocol() sigma.Protocol
	Environment() value.Value
	// ProverInput returns the input of a prover knowing the secret keys of
	// the given positions. Exactly k secrets must be given.
	ProverInput(rand io.Reader, publicKeys []curve.Point, secrets map[int]curve.Scalar) (value.Value, error)
	// SimulatorInput returns an input from which a transcript can be
	// simulated under any challenge.
	SimulatorInput(rand io.Reader, publicKeys []curve.Point) (value.Value, error)
	PublicInput(publicKeys []curve.Point) (value.Value, error)
}

var key = sigma.Atomic{Relation: sigma.DiscreteLog}

func repeat[T any](x T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = x
	}
	return out
}

func checkParameters(n, k int) error {
	if n < 1 || k < 1 || k > n {
		return value.Mismatch("multisig: cannot prove %d out of %d", k, n)
	}
	return nil
}

func checkKeys(n int, publicKeys []curve.Point) error {
	if len(publicKeys) != n {
		return value.Mismatch("multisig: %d public keys, expected %d", len(publicKeys), n)
	}
	return nil
}

// signers validates secrets and returns their positions in increasing order.
func signers(params *value.Params, k int, publicKeys []curve.Point, secrets map[int]curve.Scalar) ([]int, error) {
	if len(secrets) != k {
		return nil, value.Mismatch("multisig: %d secrets, expected %d", len(secrets), k)
	}
	positions := make([]int, 0, k)
	for i, x := range secrets {
		if i < 0 || i >= len(publicKeys) {
			return nil, value.Mismatch("multisig: position %d out of range", i)
		}
		if !x.Act(params.Generator()).Equal(publicKeys[i]) {
			return nil, value.Mismatch("multisig: secret %d does not match its public key", i)
		}
		positions = append(positions, i)
	}
	sort.Ints(positions)
	return positions, nil
}

func proverKey(rand io.Reader, params *value.Params, x curve.Scalar) value.Value {
	return sigma.DiscreteLogProverInput(rand, params, x)
}

func simulatorKey(rand io.Reader, params *value.Params, Y curve.Point) value.Value {
	return sigma.DiscreteLogSimulatorInput(rand, params, Y)
}

func randomChallenge(rand io.Reader, group curve.Curve) *value.Scalar {
	return value.NewScalar(sample.Challenge(rand, group))
}
