package sigma

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/sigmaproofs/pkg/math/polynomial"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Threshold proves that K of its n children hold without revealing which.
//
// Branch i sits at the coordinate i+1 of ℤₚ, with p = FieldPrime, and the
// external challenge C at the coordinate 0. The branch challenges are the
// evaluations f(1) … f(n) of a polynomial f of degree at most n-K with
// f(0) = C mod p.
//
// FieldPrime must exceed n so that the coordinates 0 … n are distinct, and
// must not exceed the order of the group of the branches, so that every
// branch challenge stands for a single challenge of its leaves.
//
// The input is [in₀ … inₙ₋₁, [c₀ … cₙ₋₁]] where exactly K entries are zero and
// mark the real branches. The n-K others are the challenges, smaller than p,
// under which the remaining branches are simulated; together with (0, C) they
// determine f. Commitment and response are laid out as for Or.
type Threshold struct {
	Children   []Protocol
	K          int
	FieldPrime *saferith.Modulus
}

// NewThreshold returns a protocol proving that k of the children hold.
//
// A single child is returned as is, k = 1 yields an Or and k = n an And.
func NewThreshold(k int, fieldPrime *saferith.Modulus, children ...Protocol) (Protocol, error) {
	n := len(children)
	switch {
	case n == 0:
		return nil, value.Mismatch("THRESHOLD: no children")
	case k < 1 || k > n:
		return nil, value.Mismatch("THRESHOLD: cannot prove %d out of %d", k, n)
	case n == 1:
		return children[0], nil
	case k == 1:
		return NewOr(children...), nil
	case k == n:
		return NewAnd(children...), nil
	}
	if err := checkField(fieldPrime, n); err != nil {
		return nil, err
	}
	return &Threshold{Children: children, K: k, FieldPrime: fieldPrime}, nil
}

func (*Threshold) protocol() {}

func (p *Threshold) String() string {
	return fmt.Sprintf("THRESHOLD[%d](%s)", p.K, join(p.Children))
}

func (p *Threshold) check() error {
	n := len(p.Children)
	if n == 0 || p.K < 1 || p.K > n {
		return value.Mismatch("THRESHOLD: cannot prove %d out of %d", p.K, n)
	}
	return checkField(p.FieldPrime, n)
}

func checkField(fieldPrime *saferith.Modulus, n int) error {
	if fieldPrime == nil {
		return value.Mismatch("THRESHOLD: missing field prime")
	}
	if _, _, lt := new(saferith.Nat).SetUint64(uint64(n)).CmpMod(fieldPrime); lt != 1 {
		return value.Mismatch("THRESHOLD: field prime %v leaves no room for %d branches", fieldPrime.Big(), n)
	}
	return nil
}

// checkGroup rejects a field prime larger than the order of the group found
// in the branch environments.
func (p *Threshold) checkGroup(envs value.Sequence) error {
	q := groupOrder(envs)
	if q == nil {
		return value.Mismatch("THRESHOLD: no group in the environment")
	}
	if p.FieldPrime.Big().Cmp(q.Big()) > 0 {
		return value.Mismatch("THRESHOLD: field prime exceeds the group order")
	}
	return nil
}

// environments decodes the branch environments and checks them against the
// field prime.
func (p *Threshold) environments(env value.Value) (value.Sequence, error) {
	envs, err := environments("THRESHOLD", env, len(p.Children))
	if err != nil {
		return nil, err
	}
	if err = p.checkGroup(envs); err != nil {
		return nil, err
	}
	return envs, nil
}

func (p *Threshold) inField(c *value.Scalar) bool {
	return c.Big().Cmp(p.FieldPrime.Big()) < 0
}

func (p *Threshold) open(input value.Value) (value.Sequence, []*value.Scalar, error) {
	if err := p.check(); err != nil {
		return nil, nil, err
	}
	in, cs, err := splitBranches("THRESHOLD", input, len(p.Children))
	if err != nil {
		return nil, nil, err
	}
	zeros := 0
	for i, c := range cs {
		if c.IsZero() {
			zeros++
			continue
		}
		if !p.inField(c) {
			return nil, nil, value.Mismatch("THRESHOLD: challenge %d exceeds the field prime", i)
		}
	}
	switch {
	case zeros < p.K:
		return nil, nil, wrap(ErrNoTrueProof, "THRESHOLD: %d real branches, need %d", zeros, p.K)
	case zeros > p.K:
		return nil, nil, wrap(ErrMultipleTrueProofs, "THRESHOLD: %d real branches, need %d", zeros, p.K)
	}
	return in, cs, nil
}

func coordinate(i int) *saferith.Nat {
	return new(saferith.Nat).SetUint64(uint64(i) + 1)
}

// share returns the challenge array where each zero entry i is replaced by
// f(i+1), f being the polynomial through (0, C) and the simulated branches.
func (p *Threshold) share(cs []*value.Scalar, challenge *value.Scalar) ([]*value.Scalar, error) {
	points := make([]polynomial.Point, 0, len(cs)-p.K+1)
	points = append(points, polynomial.Point{
		X: new(saferith.Nat).SetUint64(0),
		Y: challenge.Mod(p.FieldPrime),
	})
	for i, c := range cs {
		if !c.IsZero() {
			points = append(points, polynomial.Point{X: coordinate(i), Y: c.Nat()})
		}
	}
	f, err := polynomial.Interpolate(p.FieldPrime, points)
	if err != nil {
		return nil, wrap(err, "THRESHOLD")
	}
	out := make([]*value.Scalar, len(cs))
	for i, c := range cs {
		if c.IsZero() {
			out[i] = value.NewScalar(f.Evaluate(coordinate(i)))
		} else {
			out[i] = c
		}
	}
	return out, nil
}

func (p *Threshold) InitialComm(input, env value.Value) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	in, cs, err := p.open(input)
	if err != nil {
		return nil, err
	}
	envs, err := p.environments(env)
	if err != nil {
		return nil, err
	}
	out := make(value.Sequence, len(p.Children))
	for i, child := range p.Children {
		if cs[i].IsZero() {
			out[i], err = child.InitialComm(in[i], envs[i])
		} else {
			out[i], err = child.InitialCommSim(in[i], envs[i], cs[i])
		}
		if err != nil {
			return nil, wrap(err, "THRESHOLD[%d]", i)
		}
	}
	return out, nil
}

// InitialCommSim simulates every branch, the branches marked real receiving
// the challenges derived from the external one.
func (p *Threshold) InitialCommSim(input, env value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	if err := requireChallenge(p, challenge); err != nil {
		return nil, err
	}
	in, cs, err := p.open(input)
	if err != nil {
		return nil, err
	}
	envs, err := p.environments(env)
	if err != nil {
		return nil, err
	}
	if cs, err = p.share(cs, challenge); err != nil {
		return nil, err
	}
	out := make(value.Sequence, len(p.Children))
	for i, child := range p.Children {
		if out[i], err = child.InitialCommSim(in[i], envs[i], cs[i]); err != nil {
			return nil, wrap(err, "THRESHOLD[%d]", i)
		}
	}
	return out, nil
}

func (p *Threshold) CalcResponse(input, env value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	if err := requireChallenge(p, challenge); err != nil {
		return nil, err
	}
	in, cs, err := p.open(input)
	if err != nil {
		return nil, err
	}
	envs, err := p.environments(env)
	if err != nil {
		return nil, err
	}
	final, err := p.share(cs, challenge)
	if err != nil {
		return nil, err
	}
	out := make(value.Sequence, len(p.Children), len(p.Children)+1)
	for i, child := range p.Children {
		if cs[i].IsZero() {
			out[i], err = child.CalcResponse(in[i], envs[i], final[i])
		} else {
			out[i], err = child.SimulatorGetResponse(in[i], final[i])
		}
		if err != nil {
			return nil, wrap(err, "THRESHOLD[%d]", i)
		}
	}
	return respond(out, final), nil
}

func (p *Threshold) SimulatorGetResponse(input value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	if err := requireChallenge(p, challenge); err != nil {
		return nil, err
	}
	in, cs, err := p.open(input)
	if err != nil {
		return nil, err
	}
	if cs, err = p.share(cs, challenge); err != nil {
		return nil, err
	}
	out := make(value.Sequence, len(p.Children), len(p.Children)+1)
	for i, child := range p.Children {
		if out[i], err = child.SimulatorGetResponse(in[i], cs[i]); err != nil {
			return nil, wrap(err, "THRESHOLD[%d]", i)
		}
	}
	return respond(out, cs), nil
}

// VerifyResponse interpolates the branch challenges and checks that the
// resulting polynomial has degree at most n-K and maps 0 to C mod p.
func (p *Threshold) VerifyResponse(input, env, commitment value.Value, challenge *value.Scalar, response value.Value) bool {
	n := len(p.Children)
	if err := p.check(); err != nil {
		reject(p, err)
		return false
	}
	if err := requireChallenge(p, challenge); err != nil {
		reject(p, err)
		return false
	}
	in, err := publicBranches("THRESHOLD", input, n)
	if err != nil {
		reject(p, err)
		return false
	}
	envs, err := p.environments(env)
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

	points := make([]polynomial.Point, n)
	for i, c := range cs {
		if !p.inField(c) {
			reject(p, value.Mismatch("challenge %d exceeds the field prime", i))
			return false
		}
		points[i] = polynomial.Point{X: coordinate(i), Y: c.Nat()}
	}
	f, err := polynomial.Interpolate(p.FieldPrime, points)
	if err != nil {
		reject(p, err)
		return false
	}

	ok := true
	for i, child := range p.Children {
		if !child.VerifyResponse(in[i], envs[i], a[i], cs[i], z[i]) {
			Logger.WithFields(logrus.Fields{"protocol": "THRESHOLD", "branch": i}).Debug("branch failed verification")
			ok = false
		}
	}
	if degree := f.Degree(); degree > n-p.K {
		Logger.WithFields(logrus.Fields{
			"protocol": "THRESHOLD",
			"degree":   degree,
			"bound":    n - p.K,
		}).Debug("branch challenges do not lie on a low degree polynomial")
		ok = false
	}
	if f.Constant().Big().Cmp(challenge.Mod(p.FieldPrime).Big()) != 0 {
		Logger.WithField("protocol", "THRESHOLD").Debug("branch challenges are not bound to the challenge")
		ok = false
	}
	return ok
}

func (p *Threshold) NullChallenges(response value.Value, challenge *value.Scalar, acc []*value.Scalar) []*value.Scalar {
	return branchNullChallenges(p.Children, response, challenge, acc)
}
