package sigma

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// splitBranches decodes an input of the form [in₀ … inₙ₋₁, [c₀ … cₙ₋₁]].
func splitBranches(name string, input value.Value, n int) (value.Sequence, []*value.Scalar, error) {
	seq, err := value.AsSequence(input, n+1)
	if err != nil {
		return nil, nil, wrap(err, "%s: input", name)
	}
	challenges, err := value.AsSequence(seq[n], -1)
	if err != nil {
		return nil, nil, wrap(err, "%s: challenges", name)
	}
	if len(challenges) != n {
		return nil, nil, wrap(ErrArraySizesDoNotMatch, "%s: %d branches but %d challenges", name, n, len(challenges))
	}
	cs, err := value.AsScalars(challenges, n)
	if err != nil {
		return nil, nil, wrap(err, "%s: challenges", name)
	}
	return seq[:n], cs, nil
}

// publicBranches accepts [in₀ … inₙ₋₁] with or without a trailing challenge
// array, so that a prover input can be given to a verifier.
func publicBranches(name string, input value.Value, n int) (value.Sequence, error) {
	seq, err := value.AsSequence(input, -1)
	if err != nil {
		return nil, wrap(err, "%s: input", name)
	}
	if len(seq) != n && len(seq) != n+1 {
		return nil, value.Mismatch("%s: input of length %d for %d branches", name, len(seq), n)
	}
	return seq[:n], nil
}

func environments(name string, env value.Value, n int) (value.Sequence, error) {
	envs, err := value.AsSequence(env, n)
	if err != nil {
		return nil, wrap(err, "%s: environment", name)
	}
	return envs, nil
}

// splitResponse decodes a response of the form [z₀ … zₙ₋₁, [c₀ … cₙ₋₁]].
func splitResponse(response value.Value, n int) (value.Sequence, []*value.Scalar, error) {
	z, err := value.AsSequence(response, n+1)
	if err != nil {
		return nil, nil, err
	}
	cs, err := value.AsScalars(z[n], n)
	if err != nil {
		return nil, nil, err
	}
	return z[:n], cs, nil
}

// respond assembles [z₀ … zₙ₋₁, [c₀ … cₙ₋₁]].
func respond(z value.Sequence, challenges []*value.Scalar) value.Sequence {
	return append(z, value.Scalars(challenges))
}

func branchNullChallenges(children []Protocol, response value.Value, challenge *value.Scalar, acc []*value.Scalar) []*value.Scalar {
	if value.IsAbsent(response) {
		return append(acc, challenge)
	}
	if !value.HasAbsent(response) {
		return acc
	}
	z, cs, err := splitResponse(response, len(children))
	if err != nil {
		return acc
	}
	for i, child := range children {
		acc = child.NullChallenges(z[i], cs[i], acc)
	}
	return acc
}

// groupOrder returns the order of the first group found in env, or nil.
func groupOrder(env value.Value) *saferith.Modulus {
	switch t := env.(type) {
	case *value.Params:
		return t.Order()
	case value.Sequence:
		for _, v := range t {
			if q := groupOrder(v); q != nil {
				return q
			}
		}
	}
	return nil
}
