package sigma

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Error is the type of the sentinel errors returned by protocol operations.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrNoTrueProof is returned when a composite node has fewer real
	// branches than it requires, or when a witness is requested from an input
	// that carries none.
	ErrNoTrueProof Error = "no true proof"
	// ErrMultipleTrueProofs is returned when a composite node has more real
	// branches than it allows.
	ErrMultipleTrueProofs Error = "multiple true proofs"
	// ErrVerificationFailed is returned by Verify when a well formed proof is
	// rejected.
	ErrVerificationFailed Error = "verification failed"
	// ErrInvalidExpression is returned by Parse.
	ErrInvalidExpression Error = "invalid protocol expression"
)

// ErrStructuralMismatch is reported when the shape of a tree does not match
// the protocol tree it is given to.
const ErrStructuralMismatch = value.ErrStructuralMismatch

type arityError string

func (e arityError) Error() string { return string(e) }

// Is makes an arity error a structural mismatch as well.
func (arityError) Is(target error) bool {
	return target == value.ErrStructuralMismatch
}

// ErrArraySizesDoNotMatch is returned when the challenge array of an OR or
// THRESHOLD input does not have one entry per branch.
// errors.Is(err, ErrStructuralMismatch) holds for it.
const ErrArraySizesDoNotMatch arityError = "array sizes do not match"

func wrap(err error, format string, args ...interface{}) error {
	return errors.WrapPrefix(err, fmt.Sprintf(format, args...), 1)
}
