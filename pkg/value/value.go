// Package value implements the recursive tree used for every message of a
// Sigma protocol: public environments, prover inputs, commitments,
// challenges and responses.
//
// A tree is built from five variants. Scalar, Point and Params are leaves,
// Sequence is an ordered list of children, and Absent marks a position where
// no witness is available. Absent is legal in input and response trees only;
// use CheckEnvironment to reject it where it must not appear.
package value

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindScalar
	KindPoint
	KindParams
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindPoint:
		return "point"
	case KindParams:
		return "params"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a node of a tree. The set of implementations is closed.
type Value interface {
	Kind() Kind
	String() string
	sealed()
}

// Error is the type of the sentinel errors of this package.
type Error string

func (e Error) Error() string { return string(e) }

// ErrStructuralMismatch is reported whenever the kind or arity of a tree does
// not match what the protocol expects. It signals a misuse by the caller.
const ErrStructuralMismatch Error = "structural mismatch"

// Mismatch returns an ErrStructuralMismatch annotated with a description and
// the current stack.
func Mismatch(format string, args ...interface{}) *errors.Error {
	return errors.WrapPrefix(ErrStructuralMismatch, fmt.Sprintf(format, args...), 1)
}

type absent struct{}

func (absent) Kind() Kind     { return KindAbsent }
func (absent) String() string { return "⊥" }
func (absent) sealed()        {}

// Absent marks a position of an input or response tree for which the prover
// has no witness. It is distinct from a zero Scalar.
var Absent Value = absent{}

// IsAbsent returns true if v is the Absent marker.
func IsAbsent(v Value) bool {
	_, ok := v.(absent)
	return ok
}

// HasAbsent returns true if Absent occurs anywhere in the tree rooted at v.
func HasAbsent(v Value) bool {
	switch t := v.(type) {
	case absent:
		return true
	case Sequence:
		for _, child := range t {
			if HasAbsent(child) {
				return true
			}
		}
	}
	return false
}

// CheckEnvironment verifies that an environment tree is fully populated.
func CheckEnvironment(v Value) error {
	return checkPresent(v, "environment")
}

// CheckComplete verifies that a tree received by a verifier, such as a
// commitment, contains neither nil nor Absent nodes.
func CheckComplete(v Value) error {
	return checkPresent(v, "tree")
}

func checkPresent(v Value, what string) error {
	switch t := v.(type) {
	case nil:
		return Mismatch("value: %s contains a nil node", what)
	case absent:
		return Mismatch("value: %s contains an absent node", what)
	case Sequence:
		for i, child := range t {
			if err := checkPresent(child, what); err != nil {
				return errors.WrapPrefix(err, fmt.Sprintf("[%d]", i), 0)
			}
		}
	}
	return nil
}

// Shape renders the structure of v without its contents, for diagnostics.
func Shape(v Value) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case Sequence:
		parts := make([]string, len(t))
		for i, child := range t {
			parts[i] = Shape(child)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case absent:
		return "⊥"
	default:
		return v.Kind().String()
	}
}

// Equal returns true if a and b are the same tree.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case absent:
		return true
	case *Scalar:
		return x.Equal(b.(*Scalar))
	case *Point:
		return x.Equal(b.(*Point))
	case *Params:
		return x.Equal(b.(*Params))
	case Sequence:
		y := b.(Sequence)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return false
}
