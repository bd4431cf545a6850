package cli

import (
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
	"github.com/taurusgroup/sigmaproofs/pkg/sigma"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// statement is a random instance of a protocol tree, with an input for each
// role.
type statement struct {
	env       value.Value
	prover    value.Value
	simulator value.Value
	public    value.Value
}

// generator draws fresh witnesses for every leaf of a protocol tree.
type generator struct {
	rand   io.Reader
	params *value.Params
	// H is the second generator of PEDERSEN and EQLOGS leaves.
	H curve.Point
}

func newGenerator(rand io.Reader, group curve.Curve) *generator {
	return &generator{
		rand:   rand,
		params: value.BaseParams(group),
		H:      group.HashToPoint("sigma cli H"),
	}
}

func (g *generator) generate(p sigma.Protocol) (statement, error) {
	switch p := p.(type) {
	case sigma.Atomic:
		return g.atomic(p.Relation)
	case *sigma.And:
		children, err := g.children(p.Children)
		if err != nil {
			return statement{}, err
		}
		out := collect(children)
		for i, child := range children {
			out.prover.(value.Sequence)[i] = child.prover
		}
		return out, nil
	case *sigma.Or:
		group := g.params.Group()
		out, err := g.composite(p.Children, 1, func() *value.Scalar {
			return value.NewScalar(sample.Challenge(g.rand, group))
		})
		if err != nil {
			return statement{}, err
		}
		// a simulated OR derives the challenge of a branch before the last
		n := len(p.Children)
		if cs := out.simulator.(value.Sequence)[n].(value.Sequence); n > 1 && cs[n-1].(*value.Scalar).IsZero() {
			cs[0], cs[n-1] = cs[n-1], cs[0]
		}
		return out, nil
	case *sigma.Threshold:
		return g.composite(p.Children, p.K, func() *value.Scalar {
			return value.NewScalar(sample.FieldChallenge(g.rand, p.FieldPrime))
		})
	}
	return statement{}, value.Mismatch("cli: cannot generate a statement for %v", p)
}

func (g *generator) atomic(relation sigma.Relation) (statement, error) {
	group := g.params.Group()
	G := g.params.Generator()
	switch relation {
	case sigma.DiscreteLog:
		x := sample.Scalar(g.rand, group)
		Y := x.Act(G)
		return statement{
			env:       sigma.DiscreteLogEnvironment(g.params),
			prover:    sigma.DiscreteLogProverInput(g.rand, g.params, x),
			simulator: sigma.DiscreteLogSimulatorInput(g.rand, g.params, Y),
			public:    sigma.DiscreteLogPublicInput(Y),
		}, nil
	case sigma.PedersenOpening:
		m, r := sample.Scalar(g.rand, group), sample.Scalar(g.rand, group)
		Y := m.Act(G).Add(r.Act(g.H))
		return statement{
			env:       sigma.PedersenEnvironment(g.params, g.H),
			prover:    sigma.PedersenProverInput(g.rand, g.params, g.H, m, r),
			simulator: sigma.PedersenSimulatorInput(g.rand, g.params, Y),
			public:    sigma.PedersenPublicInput(Y),
		}, nil
	case sigma.EqualDiscreteLogs:
		x := sample.Scalar(g.rand, group)
		Y1, Y2 := x.Act(G), x.Act(g.H)
		return statement{
			env:       sigma.EqualLogsEnvironment(g.params, g.H),
			prover:    sigma.EqualLogsProverInput(g.rand, g.params, g.H, x),
			simulator: sigma.EqualLogsSimulatorInput(g.rand, g.params, Y1, Y2),
			public:    sigma.EqualLogsPublicInput(Y1, Y2),
		}, nil
	}
	return statement{}, value.Mismatch("cli: unknown relation %v", relation)
}

func (g *generator) children(protocols []sigma.Protocol) ([]statement, error) {
	out := make([]statement, len(protocols))
	for i, p := range protocols {
		s, err := g.generate(p)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// collect lays out the environments and the simulator and public inputs of
// children. The prover input is left for the caller to fill.
func collect(children []statement) statement {
	n := len(children)
	env, prover, sim, public := make(value.Sequence, n), make(value.Sequence, n), make(value.Sequence, n), make(value.Sequence, n)
	for i, child := range children {
		env[i], sim[i], public[i] = child.env, child.simulator, child.public
	}
	return statement{env: env, prover: prover, simulator: sim, public: public}
}

// composite builds the inputs of an OR or THRESHOLD node where k randomly
// chosen branches are proven and the others simulated under challenges drawn
// from challenge.
func (g *generator) composite(protocols []sigma.Protocol, k int, challenge func() *value.Scalar) (statement, error) {
	children, err := g.children(protocols)
	if err != nil {
		return statement{}, err
	}
	out := collect(children)
	proven := g.choose(len(children), k)
	cs := make([]*value.Scalar, len(children))
	prover := out.prover.(value.Sequence)
	for i, child := range children {
		if proven[i] {
			cs[i] = value.ScalarFromUint64(0)
			prover[i] = child.prover
		} else {
			cs[i] = challenge()
			prover[i] = child.simulator
		}
	}
	out.prover = append(prover, value.Scalars(cs))
	out.simulator = append(out.simulator.(value.Sequence), value.Scalars(cs))
	return out, nil
}

// choose returns k distinct positions out of n.
func (g *generator) choose(n, k int) map[int]bool {
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	// partial Fisher-Yates
	for i := 0; i < k && i < n-1; i++ {
		remaining := saferith.ModulusFromUint64(uint64(n - i))
		j := i + int(sample.ModN(g.rand, remaining).Uint64())
		positions[i], positions[j] = positions[j], positions[i]
	}
	out := make(map[int]bool, k)
	for _, i := range positions[:k] {
		out[i] = true
	}
	return out
}
