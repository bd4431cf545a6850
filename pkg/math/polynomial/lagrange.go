package polynomial

import (
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
)

// ErrDuplicateAbscissa is returned when two interpolation points share the same x coordinate.
var ErrDuplicateAbscissa = errors.New("polynomial: duplicate interpolation coordinate")

// Point is an evaluation (X, Y) of a polynomial over ℤₚ.
type Point struct {
	X, Y *saferith.Nat
}

// Interpolate returns the unique polynomial of degree < len(points) passing
// through all the given points.
//
// The following formulas are taken from
// https://en.wikipedia.org/wiki/Lagrange_polynomial
//
// f(X) = ∑ⱼ yⱼ⋅ℓⱼ(X), with ℓⱼ(X) = ∏_{i≠j} (X - xᵢ) / (xⱼ - xᵢ).
func Interpolate(field *saferith.Modulus, points []Point) (*Polynomial, error) {
	xs := make([]*saferith.Nat, len(points))
	for j, pt := range points {
		xs[j] = new(saferith.Nat).Mod(pt.X, field)
		for i := 0; i < j; i++ {
			if xs[i].Eq(xs[j]) == 1 {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateAbscissa, xs[j].Big())
			}
		}
	}

	result := make([]*saferith.Nat, len(points))
	for i := range result {
		result[i] = new(saferith.Nat).Mod(new(saferith.Nat), field)
	}

	for j, pt := range points {
		// numerator = ∏_{i≠j} (X - xᵢ), kept as coefficients
		numerator := []*saferith.Nat{new(saferith.Nat).Mod(new(saferith.Nat).SetUint64(1), field)}
		// denominator = ∏_{i≠j} (xⱼ - xᵢ)
		denominator := new(saferith.Nat).Mod(new(saferith.Nat).SetUint64(1), field)
		for i, xI := range xs {
			if i == j {
				continue
			}
			numerator = mulLinear(field, numerator, xI)
			diff := new(saferith.Nat).ModSub(xs[j], xI, field)
			denominator.ModMul(denominator, diff, field)
		}

		// scale = yⱼ / denominator
		scale := new(saferith.Nat).ModInverse(denominator, field)
		scale.ModMul(scale, new(saferith.Nat).Mod(pt.Y, field), field)
		for k, c := range numerator {
			term := new(saferith.Nat).ModMul(c, scale, field)
			result[k].ModAdd(result[k], term, field)
		}
	}
	return &Polynomial{field: field, coefficients: result}, nil
}

// mulLinear returns the coefficients of q(X)⋅(X - root).
func mulLinear(field *saferith.Modulus, q []*saferith.Nat, root *saferith.Nat) []*saferith.Nat {
	out := make([]*saferith.Nat, len(q)+1)
	for i := range out {
		out[i] = new(saferith.Nat).Mod(new(saferith.Nat), field)
	}
	for i, c := range q {
		// X⋅cᵢXⁱ
		out[i+1].ModAdd(out[i+1], c, field)
		// -root⋅cᵢXⁱ
		term := new(saferith.Nat).ModMul(c, root, field)
		out[i].ModSub(out[i], term, field)
	}
	return out
}

// LagrangeAt evaluates at x the unique polynomial of degree < len(points)
// passing through points, without computing its coefficients.
func LagrangeAt(field *saferith.Modulus, points []Point, x *saferith.Nat) (*saferith.Nat, error) {
	at := new(saferith.Nat).Mod(x, field)
	result := new(saferith.Nat).Mod(new(saferith.Nat), field)
	for j, pj := range points {
		xJ := new(saferith.Nat).Mod(pj.X, field)
		num := new(saferith.Nat).Mod(new(saferith.Nat).SetUint64(1), field)
		den := new(saferith.Nat).Mod(new(saferith.Nat).SetUint64(1), field)
		for i, pi := range points {
			if i == j {
				continue
			}
			xI := new(saferith.Nat).Mod(pi.X, field)
			if xI.Eq(xJ) == 1 {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateAbscissa, xI.Big())
			}
			// num *= x - xᵢ
			num.ModMul(num, new(saferith.Nat).ModSub(at, xI, field), field)
			// den *= xⱼ - xᵢ
			den.ModMul(den, new(saferith.Nat).ModSub(xJ, xI, field), field)
		}
		// lⱼ(x) = num/den
		lJ := new(saferith.Nat).ModInverse(den, field)
		lJ.ModMul(lJ, num, field)
		lJ.ModMul(lJ, new(saferith.Nat).Mod(pj.Y, field), field)
		result.ModAdd(result, lJ, field)
	}
	return result, nil
}
