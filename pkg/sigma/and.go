package sigma

import (
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// And proves all of its children under a single shared challenge.
//
// Environment, input, commitment and response are sequences holding one
// entry per child.
type And struct {
	Children []Protocol
}

// NewAnd returns the conjunction of children.
func NewAnd(children ...Protocol) *And {
	return &And{Children: children}
}

func (*And) protocol() {}

func (p *And) String() string {
	return "AND(" + join(p.Children) + ")"
}

func join(children []Protocol) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.String()
	}
	return strings.Join(parts, ", ")
}

func (p *And) open(input, env value.Value) (value.Sequence, value.Sequence, error) {
	n := len(p.Children)
	in, err := value.AsSequence(input, n)
	if err != nil {
		return nil, nil, wrap(err, "AND: input")
	}
	envs, err := value.AsSequence(env, n)
	if err != nil {
		return nil, nil, wrap(err, "AND: environment")
	}
	return in, envs, nil
}

func (p *And) InitialComm(input, env value.Value) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	in, envs, err := p.open(input, env)
	if err != nil {
		return nil, err
	}
	out := make(value.Sequence, len(p.Children))
	for i, child := range p.Children {
		if out[i], err = child.InitialComm(in[i], envs[i]); err != nil {
			return nil, wrap(err, "AND[%d]", i)
		}
	}
	return out, nil
}

func (p *And) InitialCommSim(input, env value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	in, envs, err := p.open(input, env)
	if err != nil {
		return nil, err
	}
	out := make(value.Sequence, len(p.Children))
	for i, child := range p.Children {
		if out[i], err = child.InitialCommSim(in[i], envs[i], challenge); err != nil {
			return nil, wrap(err, "AND[%d]", i)
		}
	}
	return out, nil
}

func (p *And) CalcResponse(input, env value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	in, envs, err := p.open(input, env)
	if err != nil {
		return nil, err
	}
	out := make(value.Sequence, len(p.Children))
	for i, child := range p.Children {
		if out[i], err = child.CalcResponse(in[i], envs[i], challenge); err != nil {
			return nil, wrap(err, "AND[%d]", i)
		}
	}
	return out, nil
}

func (p *And) SimulatorGetResponse(input value.Value, challenge *value.Scalar) (value.Value, error) {
	if value.IsAbsent(input) {
		return value.Absent, nil
	}
	in, err := value.AsSequence(input, len(p.Children))
	if err != nil {
		return nil, wrap(err, "AND: input")
	}
	out := make(value.Sequence, len(p.Children))
	for i, child := range p.Children {
		if out[i], err = child.SimulatorGetResponse(in[i], challenge); err != nil {
			return nil, wrap(err, "AND[%d]", i)
		}
	}
	return out, nil
}

func (p *And) VerifyResponse(input, env, commitment value.Value, challenge *value.Scalar, response value.Value) bool {
	n := len(p.Children)
	in, envs, err := p.open(input, env)
	if err != nil {
		reject(p, err)
		return false
	}
	a, err := value.AsSequence(commitment, n)
	if err != nil {
		reject(p, wrap(err, "commitment"))
		return false
	}
	z, err := value.AsSequence(response, n)
	if err != nil {
		reject(p, wrap(err, "response"))
		return false
	}
	ok := true
	for i, child := range p.Children {
		if !child.VerifyResponse(in[i], envs[i], a[i], challenge, z[i]) {
			Logger.WithFields(logrus.Fields{"protocol": "AND", "branch": i}).Debug("branch failed verification")
			ok = false
		}
	}
	return ok
}

func (p *And) NullChallenges(response value.Value, challenge *value.Scalar, acc []*value.Scalar) []*value.Scalar {
	if value.IsAbsent(response) {
		return append(acc, challenge)
	}
	if !value.HasAbsent(response) {
		return acc
	}
	z, err := value.AsSequence(response, len(p.Children))
	if err != nil {
		return acc
	}
	for i, child := range p.Children {
		acc = child.NullChallenges(z[i], challenge, acc)
	}
	return acc
}
