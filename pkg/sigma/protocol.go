// Package sigma implements interactive Sigma protocols and their composition.
//
// A protocol tree is built from Atomic leaves and the And, Or and Threshold
// composers. Every node implements the same three-move contract: the prover
// produces a commitment with InitialComm, receives a challenge, and answers
// with CalcResponse; the verifier checks the transcript with VerifyResponse.
// Branches for which the prover has no witness are simulated with
// InitialCommSim and SimulatorGetResponse.
//
// Protocol trees are immutable and safe for concurrent use. Every message is
// a value.Value, and the environment, input, commitment and response trees
// given to a node must follow the shape documented by that node.
package sigma

import (
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Protocol is a node of a protocol tree.
//
// The implementations are Atomic, *And, *Or and *Threshold.
type Protocol interface {
	// InitialComm returns the first message of a real proof.
	InitialComm(input, env value.Value) (value.Value, error)

	// InitialCommSim returns a commitment consistent with the given challenge
	// and with the response later returned by SimulatorGetResponse.
	// No witness is needed.
	InitialCommSim(input, env value.Value, challenge *value.Scalar) (value.Value, error)

	// CalcResponse returns the third message of a real proof.
	CalcResponse(input, env value.Value, challenge *value.Scalar) (value.Value, error)

	// SimulatorGetResponse returns the response fixed by InitialCommSim when
	// it was called with the same input and challenge.
	SimulatorGetResponse(input value.Value, challenge *value.Scalar) (value.Value, error)

	// VerifyResponse returns true if (commitment, challenge, response) is an
	// accepting transcript for the public part of input.
	VerifyResponse(input, env, commitment value.Value, challenge *value.Scalar, response value.Value) bool

	// NullChallenges appends to acc the challenge of every Absent subtree of
	// response, where challenge is the challenge this node answered.
	NullChallenges(response value.Value, challenge *value.Scalar, acc []*value.Scalar) []*value.Scalar

	// String returns the protocol expression of the tree, as accepted by Parse.
	String() string

	protocol()
}

// NullChallenges returns the challenges assigned to the Absent subtrees of
// a response produced by p under challenge.
func NullChallenges(p Protocol, response value.Value, challenge *value.Scalar) []*value.Scalar {
	return p.NullChallenges(response, challenge, nil)
}
