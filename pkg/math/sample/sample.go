package sample

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/sigmaproofs/pkg/math/curve"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ.
//
// A candidate of n's bit length is drawn and rejected while it is ≥ n, so the
// output is uniform in [0, n).
func ModN(rand io.Reader, n *saferith.Modulus) *saferith.Nat {
	out := new(saferith.Nat)
	bits := n.BitLen()
	buf := make([]byte, (bits+7)/8)
	for {
		mustReadBits(rand, buf)
		maskTop(buf, bits)
		out.SetBytes(buf)
		_, _, lt := out.CmpMod(n)
		if lt == 1 {
			break
		}
	}
	return out
}

// Bits samples a natural number in [0, 2ᵇⁱᵗˢ).
func Bits(rand io.Reader, bits int) *saferith.Nat {
	buf := make([]byte, (bits+7)/8)
	mustReadBits(rand, buf)
	maskTop(buf, bits)
	return new(saferith.Nat).SetBytes(buf)
}

// maskTop clears the bits of the big-endian buf above the requested length.
func maskTop(buf []byte, bits int) {
	if excess := len(buf)*8 - bits; excess > 0 {
		buf[0] &= byte(0xff >> excess)
	}
}

// Scalar returns a new uniformly random curve.Scalar.
func Scalar(rand io.Reader, group curve.Curve) curve.Scalar {
	return group.NewScalar().SetNat(ModN(rand, group.Order()))
}

// ScalarPointPair returns a random scalar x together with x•G.
func ScalarPointPair(rand io.Reader, group curve.Curve) (curve.Scalar, curve.Point) {
	s := Scalar(rand, group)
	return s, s.ActOnBase()
}

// Challenge samples a non-zero challenge for a simulated branch.
//
// Challenges are one bit shorter than the group order, leaving a bit of
// margin so that combining branch challenges never wraps past the order.
// Zero is excluded since it marks the branch that is proven for real.
func Challenge(rand io.Reader, group curve.Curve) *saferith.Nat {
	bits := group.Order().BitLen() - 1
	for i := 0; i < maxIterations; i++ {
		c := Bits(rand, bits)
		if c.EqZero() != 1 {
			return c
		}
	}
	panic(ErrMaxIterations)
}

// FieldChallenge samples a non-zero element of the prime field ℤₚ.
func FieldChallenge(rand io.Reader, p *saferith.Modulus) *saferith.Nat {
	for i := 0; i < maxIterations; i++ {
		c := ModN(rand, p)
		if c.EqZero() != 1 {
			return c
		}
	}
	panic(ErrMaxIterations)
}

// NewStream returns a deterministic stream of pseudo-random bytes derived
// from seed.
//
// It is meant for reproducible test vectors and demos. The same seed always
// produces the same stream, so it must never be reused to create real proofs.
func NewStream(seed []byte) io.Reader {
	key := blake3.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		panic(fmt.Sprintf("sample.NewStream: %v", err))
	}
	return &stream{cipher: cipher}
}

type stream struct {
	cipher *chacha20.Cipher
}

func (s *stream) Read(buf []byte) (int, error) {
	for i := range buf {
		buf[i] = 0
	}
	s.cipher.XORKeyStream(buf, buf)
	return len(buf), nil
}
