package polynomial

import (
	"fmt"
	"io"
	"strings"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/sigmaproofs/pkg/math/sample"
)

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ over the prime field ℤₚ.
type Polynomial struct {
	field        *saferith.Modulus
	coefficients []*saferith.Nat
}

// NewPolynomial generates a Polynomial f(X) = constant + a₁⋅X + … + aₜ⋅Xᵗ,
// with random coefficients in ℤₚ, and degree at most t.
func NewPolynomial(rand io.Reader, field *saferith.Modulus, degree int, constant *saferith.Nat) *Polynomial {
	polynomial := &Polynomial{
		field:        field,
		coefficients: make([]*saferith.Nat, degree+1),
	}

	// if the constant is nil, we interpret it as 0.
	if constant == nil {
		constant = new(saferith.Nat)
	}
	polynomial.coefficients[0] = new(saferith.Nat).Mod(constant, field)

	for i := 1; i <= degree; i++ {
		polynomial.coefficients[i] = sample.ModN(rand, field)
	}

	return polynomial
}

// FromCoefficients returns the polynomial a₀ + a₁⋅X + … with the given coefficients reduced mod p.
func FromCoefficients(field *saferith.Modulus, coefficients ...*saferith.Nat) *Polynomial {
	polynomial := &Polynomial{
		field:        field,
		coefficients: make([]*saferith.Nat, len(coefficients)),
	}
	for i, c := range coefficients {
		polynomial.coefficients[i] = new(saferith.Nat).Mod(c, field)
	}
	return polynomial
}

// Evaluate evaluates a polynomial in a given variable index
// We use Horner's method: https://en.wikipedia.org/wiki/Horner%27s_method
func (p *Polynomial) Evaluate(index *saferith.Nat) *saferith.Nat {
	x := new(saferith.Nat).Mod(index, p.field)
	result := new(saferith.Nat).Mod(new(saferith.Nat), p.field)
	// reverse order
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ * x + aₙ₋₁
		result.ModMul(result, x, p.field)
		result.ModAdd(result, p.coefficients[i], p.field)
	}
	return result
}

// Constant returns a copy of the constant coefficient of the polynomial.
func (p *Polynomial) Constant() *saferith.Nat {
	if len(p.coefficients) == 0 {
		return new(saferith.Nat).Mod(new(saferith.Nat), p.field)
	}
	return new(saferith.Nat).SetNat(p.coefficients[0])
}

// Degree is the highest power of the Polynomial with a non-zero coefficient.
//
// The zero polynomial has degree -1.
func (p *Polynomial) Degree() int {
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		if p.coefficients[i].EqZero() != 1 {
			return i
		}
	}
	return -1
}

// Field returns the modulus p of the coefficient field.
func (p *Polynomial) Field() *saferith.Modulus {
	return p.field
}

func (p *Polynomial) String() string {
	terms := make([]string, 0, len(p.coefficients))
	for i, c := range p.coefficients {
		if c.EqZero() == 1 {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, c.Big().String())
		case 1:
			terms = append(terms, fmt.Sprintf("%s⋅X", c.Big()))
		default:
			terms = append(terms, fmt.Sprintf("%s⋅X^%d", c.Big(), i))
		}
	}
	if len(terms) == 0 {
		return "0"
	}
	return strings.Join(terms, " + ")
}
