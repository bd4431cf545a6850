package sigma

import (
	"crypto/rand"
	"math/big"

	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

var (
	group  = curve.Secp256k1{}
	params = value.BaseParams(group)
	H      = group.HashToPoint("sigma test H")
)

// statement bundles a protocol with matching environment and inputs.
type statement struct {
	protocol  Protocol
	env       value.Value
	prover    value.Value
	simulator value.Value
	public    value.Value
}

func randomChallenge() *value.Scalar {
	return value.NewScalar(sample.Challenge(rand.Reader, group))
}

func dlStatement() statement {
	x := sample.Scalar(rand.Reader, group)
	prover := DiscreteLogProverInput(rand.Reader, params, x)
	Y := x.Act(params.Generator())
	return statement{
		protocol:  Atomic{Relation: DiscreteLog},
		env:       DiscreteLogEnvironment(params),
		prover:    prover,
		simulator: DiscreteLogSimulatorInput(rand.Reader, params, Y),
		public:    DiscreteLogPublicInput(Y),
	}
}

func pedersenStatement() statement {
	m, r := sample.Scalar(rand.Reader, group), sample.Scalar(rand.Reader, group)
	prover := PedersenProverInput(rand.Reader, params, H, m, r)
	Y := m.Act(params.Generator()).Add(r.Act(H))
	return statement{
		protocol:  Atomic{Relation: PedersenOpening},
		env:       PedersenEnvironment(params, H),
		prover:    prover,
		simulator: PedersenSimulatorInput(rand.Reader, params, Y),
		public:    PedersenPublicInput(Y),
	}
}

func eqlogsStatement() statement {
	x := sample.Scalar(rand.Reader, group)
	prover := EqualLogsProverInput(rand.Reader, params, H, x)
	Y1, Y2 := x.Act(params.Generator()), x.Act(H)
	return statement{
		protocol:  Atomic{Relation: EqualDiscreteLogs},
		env:       EqualLogsEnvironment(params, H),
		prover:    prover,
		simulator: EqualLogsSimulatorInput(rand.Reader, params, Y1, Y2),
		public:    EqualLogsPublicInput(Y1, Y2),
	}
}

func unzip(branches []statement) (children []Protocol, env, sim, public value.Sequence) {
	n := len(branches)
	children = make([]Protocol, n)
	env, sim, public = make(value.Sequence, n), make(value.Sequence, n), make(value.Sequence, n)
	for i, b := range branches {
		children[i], env[i], sim[i], public[i] = b.protocol, b.env, b.simulator, b.public
	}
	return
}

func andOf(branches ...statement) statement {
	children, env, sim, public := unzip(branches)
	prover := make(value.Sequence, len(branches))
	for i, b := range branches {
		prover[i] = b.prover
	}
	return statement{protocol: NewAnd(children...), env: env, prover: prover, simulator: sim, public: public}
}

// withChallenges returns the prover and simulator inputs of a composite
// where the branches in proven are proven and the others simulated.
func withChallenges(branches []statement, proven map[int]bool) (prover, sim value.Sequence) {
	n := len(branches)
	prover = make(value.Sequence, n, n+1)
	sim = make(value.Sequence, n, n+1)
	cs := make([]*value.Scalar, n)
	for i, b := range branches {
		sim[i] = b.simulator
		if proven[i] {
			prover[i] = b.prover
			cs[i] = value.ScalarFromUint64(0)
		} else {
			prover[i] = b.simulator
			cs[i] = randomChallenge()
		}
	}
	return append(prover, value.Scalars(cs)), append(sim, value.Scalars(cs))
}

func orOf(trueBranch int, branches ...statement) statement {
	children, env, _, public := unzip(branches)
	prover, sim := withChallenges(branches, map[int]bool{trueBranch: true})
	if n := len(branches); trueBranch == n-1 && n > 1 {
		// a simulated OR derives the challenge of a branch before the last
		cs := append(value.Sequence(nil), sim[n].(value.Sequence)...)
		cs[0], cs[n-1] = cs[n-1], cs[0]
		sim = append(sim[:n:n], cs)
	}
	return statement{protocol: NewOr(children...), env: env, prover: prover, simulator: sim, public: public}
}

func thresholdOf(k int, proven []int, branches ...statement) statement {
	children, env, _, public := unzip(branches)
	marked := make(map[int]bool, len(proven))
	for _, i := range proven {
		marked[i] = true
	}
	prover, sim := withChallenges(branches, marked)
	return statement{
		protocol:  &Threshold{Children: children, K: k, FieldPrime: group.Order()},
		env:       env,
		prover:    prover,
		simulator: sim,
		public:    public,
	}
}

// tamper returns a copy of v where the scalar at path is incremented.
func tamper(v value.Value, path ...int) value.Value {
	if len(path) == 0 {
		s := v.(*value.Scalar)
		return value.ScalarFromBig(new(big.Int).Add(s.Big(), big.NewInt(1)))
	}
	seq := v.(value.Sequence)
	out := make(value.Sequence, len(seq))
	copy(out, seq)
	out[path[0]] = tamper(seq[path[0]], path[1:]...)
	return out
}
