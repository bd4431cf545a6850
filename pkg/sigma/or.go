package sigma

import (
	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Or proves that one of its children holds without revealing which.
//
// The input is [in₀ … inₙ₋₁, [c₀ … cₙ₋₁]]: exactly one cⱼ is zero and marks
// the branch proven with a real witness, the others are the challenges under
// which the remaining branches are simulated. The branch challenges are bound
// to the external challenge C by c₀ ⊕ … ⊕ cₙ₋₁ = C, the zero entry being
// replaced by the value satisfying this equation.
//
// When the whole node is simulated, the last branch is always simulated under
// its own challenge, so the zero entry must sit among the first n-1 branches.
//
// The commitment is [a₀ … aₙ₋₁] and the response [z₀ … zₙ₋₁, [c₀ … cₙ₋₁]],
// where the challenge array is complete. Every branch challenge of a response
// is at most as long as the longer of C and a simulated challenge, which
// keeps transcripts canonical.
type Or struct {
	Children []Protocol
}

// NewOr returns the disjunction of children.
func NewOr(children ...Protocol) *Or {
	return &Or{Children: children}
}

func (*Or) protocol() {}

func (p *Or) String() string {
	return "OR(" + join(p.Children) + ")"
}

// open decodes the input and returns the index of the real branch.
func (p *Or) open(input value.Value) (value.Sequence, []*value.Scalar, int, error) {
	in, cs, err := splitBranches("OR", input, len(p.Children))
	if err != nil {
		return nil, nil, 0, err
	}
	trueBranch := -1
	for i, c := range cs {
		if !c.IsZero() {
			continue
		}
		if trueBranch >= 0 {
			return nil, nil, 0, wrap(ErrMultipleTrueProofs, "OR: branches %d and %d", trueBranch, i)
		}
		trueBranch = i
	}
	if trueBranch < 0 {
		return nil, nil, 0, wrap(ErrNoTrueProof, "OR")
	}
	return in, cs, trueBranch, nil
}

// openSim decodes the input of a simulated node.
func (p *Or) openSim(input value.Value) (value.Sequence, []*value.Scalar, int, error) {
	in, cs, trueBranch, err := p.open(input)
	if err != nil {
		return nil, nil, 0, err
	}
	if trueBranch == len(p.Children)-1 {
		return nil, nil, 0, wrap(ErrNoTrueProof, "OR: no branch among the first %d is marked", trueBranch)
	}
	return in, cs, trueBranch, nil
}

// bind returns the challenge array where the real branch receives
// C ⊕ (⊕_{j ≠ real} cⱼ).
func bind(cs []*value.Scalar, trueBranch int, challenge *value.Scalar) []*value.Scalar {
	trueChallenge := challenge
	for j, c := range cs {
		if j != trueBranch {
			trueChallenge = trueChallenge.Xor(c)
		}
	}
	out := make([]*value.Scalar, len(cs))
	copy(out, cs)
	out[trueBranch] = trueChallenge
	return out
}

func (p *Or) InitialComm(input, env value.Value) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	in, cs, trueBranch, err := p.open(input)
	if err != nil {
		return nil, err
	}
	envs, err := environments("OR", env, len(p.Children))
	if err != nil {
		return nil, err
	}
	out := make(value.Sequence, len(p.Children))
	for i, child := range p.Children {
		if i == trueBranch {
			out[i], err = child.InitialComm(in[i], envs[i])
		} else {
			out[i], err = child.InitialCommSim(in[i], envs[i], cs[i])
		}
		if err != nil {
			return nil, wrap(err, "OR[%d]", i)
		}
	}
	return out, nil
}

// InitialCommSim simulates every branch. The zero entry of the challenge
// array marks the branch whose challenge is derived from the external one.
func (p *Or) InitialCommSim(input, env value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	if err := requireChallenge(p, challenge); err != nil {
		return nil, err
	}
	in, cs, trueBranch, err := p.openSim(input)
	if err != nil {
		return nil, err
	}
	envs, err := environments("OR", env, len(p.Children))
	if err != nil {
		return nil, err
	}
	cs = bind(cs, trueBranch, challenge)
	out := make(value.Sequence, len(p.Children))
	for i, child := range p.Children {
		if out[i], err = child.InitialCommSim(in[i], envs[i], cs[i]); err != nil {
			return nil, wrap(err, "OR[%d]", i)
		}
	}
	return out, nil
}

func (p *Or) CalcResponse(input, env value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	if err := requireChallenge(p, challenge); err != nil {
		return nil, err
	}
	in, cs, trueBranch, err := p.open(input)
	if err != nil {
		return nil, err
	}
	envs, err := environments("OR", env, len(p.Children))
	if err != nil {
		return nil, err
	}
	cs = bind(cs, trueBranch, challenge)
	out := make(value.Sequence, len(p.Children), len(p.Children)+1)
	for i, child := range p.Children {
		if i == trueBranch {
			out[i], err = child.CalcResponse(in[i], envs[i], cs[i])
		} else {
			out[i], err = child.SimulatorGetResponse(in[i], cs[i])
		}
		if err != nil {
			return nil, wrap(err, "OR[%d]", i)
		}
	}
	return respond(out, cs), nil
}

func (p *Or) SimulatorGetResponse(input value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	if err := requireChallenge(p, challenge); err != nil {
		return nil, err
	}
	in, cs, trueBranch, err := p.openSim(input)
	if err != nil {
		return nil, err
	}
	cs = bind(cs, trueBranch, challenge)
	out := make(value.Sequence, len(p.Children), len(p.Children)+1)
	for i, child := range p.Children {
		if out[i], err = child.SimulatorGetResponse(in[i], cs[i]); err != nil {
			return nil, wrap(err, "OR[%d]", i)
		}
	}
	return respond(out, cs), nil
}

func (p *Or) VerifyResponse(input, env, commitment value.Value, challenge *value.Scalar, response value.Value) bool {
	n := len(p.Children)
	if err := requireChallenge(p, challenge); err != nil {
		reject(p, err)
		return false
	}
	in, err := publicBranches("OR", input, n)
	if err != nil {
		reject(p, err)
		return false
	}
	envs, err := environments("OR", env, n)
	if err != nil {
		reject(p, err)
		return false
	}
	a, err := value.AsSequence(commitment, n)
	if err != nil {
		reject(p, wrap(err, "commitment"))
		return false
	}
	z, cs, err := splitResponse(response, n)
	if err != nil {
		reject(p, wrap(err, "response"))
		return false
	}
	q := groupOrder(envs)
	if q == nil {
		reject(p, value.Mismatch("OR: no group in the environment"))
		return false
	}
	bound := q.BitLen() - 1
	if challenge.Big().BitLen() > bound {
		bound = challenge.Big().BitLen()
	}
	for i, c := range cs {
		if c.Big().BitLen() > bound {
			reject(p, value.Mismatch("OR: challenge %d is longer than %d bits", i, bound))
			return false
		}
	}

	ok := true
	xored := challenge
	for i, child := range p.Children {
		xored = xored.Xor(cs[i])
		if !child.VerifyResponse(in[i], envs[i], a[i], cs[i], z[i]) {
			Logger.WithFields(logrus.Fields{"protocol": "OR", "branch": i}).Debug("branch failed verification")
			ok = false
		}
	}
	if !xored.IsZero() {
		Logger.WithFields(logrus.Fields{
			"protocol":  "OR",
			"challenge": challenge.String(),
		}).Debug("branch challenges are not bound to the challenge")
		ok = false
	}
	return ok
}

func (p *Or) NullChallenges(response value.Value, challenge *value.Scalar, acc []*value.Scalar) []*value.Scalar {
	return branchNullChallenges(p.Children, response, challenge, acc)
}
