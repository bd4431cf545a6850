package sigma

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Relation identifies the statement proven by an Atomic protocol.
type Relation uint8

const (
	// DiscreteLog proves knowledge of x such that Y = x⋅G (Schnorr).
	DiscreteLog Relation = iota + 1
	// PedersenOpening proves knowledge of (m, r) such that Y = m⋅G + r⋅H.
	PedersenOpening
	// EqualDiscreteLogs proves knowledge of x such that Y₁ = x⋅G and Y₂ = x⋅H
	// (Chaum-Pedersen).
	EqualDiscreteLogs
)

func (r Relation) String() string {
	switch r {
	case DiscreteLog:
		return "DL"
	case PedersenOpening:
		return "PEDERSEN"
	case EqualDiscreteLogs:
		return "EQLOGS"
	default:
		return fmt.Sprintf("RELATION(%d)", uint8(r))
	}
}

type inputMode int

const (
	publicInput inputMode = iota
	simulatorInput
	proverInput
)

// inputLengths returns the arity of the public, simulator and prover inputs.
func (r Relation) inputLengths() [3]int {
	switch r {
	case DiscreteLog:
		return [3]int{1, 2, 3}
	case PedersenOpening:
		return [3]int{1, 3, 5}
	case EqualDiscreteLogs:
		return [3]int{2, 3, 4}
	}
	return [3]int{-1, -1, -1}
}

func (r Relation) environmentLength() int {
	if r == DiscreteLog {
		return 1
	}
	return 2
}

func (r Relation) commitmentLength() int {
	if r == EqualDiscreteLogs {
		return 2
	}
	return 1
}

func (r Relation) responseLength() int {
	if r == PedersenOpening {
		return 2
	}
	return 1
}

// Atomic is a leaf of a protocol tree.
//
// The trees it expects are, with G the generator carried by the Params:
//
//	relation   environment    prover input           simulator input   public input
//	DL         [G]            [Y, r, x]              [Y, z]            [Y]
//	PEDERSEN   [G, H]         [Y, r₁, r₂, m, r]      [Y, z₁, z₂]       [Y]
//	EQLOGS     [G, H]         [Y₁, Y₂, r, x]         [Y₁, Y₂, z]       [Y₁, Y₂]
//
// VerifyResponse accepts any of the three input forms, and reads only the
// public prefix. An Absent input yields an Absent commitment and response.
type Atomic struct {
	Relation Relation
}

func (Atomic) protocol() {}

func (a Atomic) String() string {
	return a.Relation.String()
}

// environment holds the decoded public parameters of an Atomic protocol.
type environment struct {
	group curve.Curve
	g, h  curve.Point
}

func (a Atomic) environment(env value.Value) (*environment, error) {
	seq, err := value.AsSequence(env, a.Relation.environmentLength())
	if err != nil {
		return nil, wrap(err, "%s: environment", a)
	}
	params, err := value.AsParams(seq[0])
	if err != nil {
		return nil, wrap(err, "%s: environment", a)
	}
	e := &environment{group: params.Group(), g: params.Generator()}
	if len(seq) == 2 {
		h, err := value.AsPoint(seq[1])
		if err != nil {
			return nil, wrap(err, "%s: environment", a)
		}
		e.h = h.Point()
	}
	return e, nil
}

// reader decodes the entries of a sequence, remembering the first failure.
type reader struct {
	group curve.Curve
	seq   value.Sequence
	err   error
}

func (r *reader) scalar(i int) curve.Scalar {
	if r.err != nil {
		return r.group.NewScalar()
	}
	s, err := value.AsScalar(r.seq[i])
	if err != nil {
		r.err = wrap(err, "[%d]", i)
		return r.group.NewScalar()
	}
	return s.Curve(r.group)
}

func (r *reader) point(i int) curve.Point {
	if r.err != nil {
		return r.group.NewPoint()
	}
	p, err := value.AsPoint(r.seq[i])
	if err != nil {
		r.err = wrap(err, "[%d]", i)
		return r.group.NewPoint()
	}
	return p.Point()
}

// open decodes the environment and checks the arity of the input for the
// given mode.
func (a Atomic) open(input, env value.Value, mode inputMode) (*environment, *reader, error) {
	if a.Relation.inputLengths()[0] < 0 {
		return nil, nil, wrap(ErrStructuralMismatch, "unknown relation %d", uint8(a.Relation))
	}
	e, err := a.environment(env)
	if err != nil {
		return nil, nil, err
	}
	seq, err := value.AsSequence(input, -1)
	if err != nil {
		return nil, nil, wrap(err, "%s: input", a)
	}
	lengths := a.Relation.inputLengths()
	n := len(seq)
	switch {
	case n == lengths[mode]:
	case mode == publicInput && (n == lengths[simulatorInput] || n == lengths[proverInput]):
	case mode == proverInput && (n == lengths[publicInput] || n == lengths[simulatorInput]):
		return nil, nil, wrap(ErrNoTrueProof, "%s: input of length %d carries no witness", a, n)
	default:
		return nil, nil, value.Mismatch("%s: input of length %d, expected %d", a, n, lengths[mode])
	}
	return e, &reader{group: e.group, seq: seq}, nil
}

func (a Atomic) InitialComm(input, env value.Value) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	e, in, err := a.open(input, env, proverInput)
	if err != nil {
		return nil, err
	}
	var out value.Value
	switch a.Relation {
	case DiscreteLog:
		out = dlogCommit(e, in)
	case PedersenOpening:
		out = pedersenCommit(e, in)
	case EqualDiscreteLogs:
		out = eqlogsCommit(e, in)
	}
	if in.err != nil {
		return nil, wrap(in.err, "%s: input", a)
	}
	return out, nil
}

func (a Atomic) InitialCommSim(input, env value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	if err := requireChallenge(a, challenge); err != nil {
		return nil, err
	}
	e, in, err := a.open(input, env, simulatorInput)
	if err != nil {
		return nil, err
	}
	c := challenge.Curve(e.group)
	var out value.Value
	switch a.Relation {
	case DiscreteLog:
		out = dlogSimulate(e, in, c)
	case PedersenOpening:
		out = pedersenSimulate(e, in, c)
	case EqualDiscreteLogs:
		out = eqlogsSimulate(e, in, c)
	}
	if in.err != nil {
		return nil, wrap(in.err, "%s: input", a)
	}
	return out, nil
}

func (a Atomic) CalcResponse(input, env value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	if err := requireChallenge(a, challenge); err != nil {
		return nil, err
	}
	e, in, err := a.open(input, env, proverInput)
	if err != nil {
		return nil, err
	}
	c := challenge.Curve(e.group)
	var out value.Value
	switch a.Relation {
	case DiscreteLog:
		out = dlogRespond(e, in, c)
	case PedersenOpening:
		out = pedersenRespond(e, in, c)
	case EqualDiscreteLogs:
		out = eqlogsRespond(e, in, c)
	}
	if in.err != nil {
		return nil, wrap(in.err, "%s: input", a)
	}
	return out, nil
}

// SimulatorGetResponse returns the response stored in a simulator input.
// The challenge is not needed by leaves.
func (a Atomic) SimulatorGetResponse(input value.Value, _ *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	seq, err := value.AsSequence(input, a.Relation.inputLengths()[simulatorInput])
	if err != nil {
		return nil, wrap(err, "%s: simulator input", a)
	}
	public := a.Relation.inputLengths()[publicInput]
	out := make(value.Sequence, 0, len(seq)-public)
	for i := public; i < len(seq); i++ {
		if _, err = value.AsScalar(seq[i]); err != nil {
			return nil, wrap(err, "%s: simulator input [%d]", a, i)
		}
		out = append(out, seq[i])
	}
	return out, nil
}

func (a Atomic) VerifyResponse(input, env, commitment value.Value, challenge *value.Scalar, response value.Value) bool {
	e, in, err := a.open(input, env, publicInput)
	if err != nil {
		reject(a, err)
		return false
	}
	com := &reader{group: e.group}
	if com.seq, err = value.AsSequence(commitment, a.Relation.commitmentLength()); err != nil {
		reject(a, wrap(err, "commitment"))
		return false
	}
	resp := &reader{group: e.group}
	if resp.seq, err = value.AsSequence(response, a.Relation.responseLength()); err != nil {
		reject(a, wrap(err, "response"))
		return false
	}
	if err = requireChallenge(a, challenge); err != nil {
		reject(a, err)
		return false
	}
	c := challenge.Curve(e.group)

	var ok bool
	switch a.Relation {
	case DiscreteLog:
		ok = dlogVerify(e, in, com, resp, c)
	case PedersenOpening:
		ok = pedersenVerify(e, in, com, resp, c)
	case EqualDiscreteLogs:
		ok = eqlogsVerify(e, in, com, resp, c)
	}
	for _, r := range []*reader{in, com, resp} {
		if r.err != nil {
			reject(a, r.err)
			return false
		}
	}
	if !ok {
		Logger.WithField("protocol", a.String()).Debug("verification equation does not hold")
	}
	return ok
}

func (Atomic) NullChallenges(response value.Value, challenge *value.Scalar, acc []*value.Scalar) []*value.Scalar {
	if value.IsAbsent(response) {
		return append(acc, challenge)
	}
	return acc
}

func reject(p Protocol, err error) {
	Logger.WithFields(logrus.Fields{
		"protocol": p.String(),
		"error":    err,
	}).Debug("malformed transcript")
}

func requireChallenge(p Protocol, challenge *value.Scalar) error {
	if challenge == nil {
		return value.Mismatch("%s: missing challenge", p)
	}
	return nil
}
