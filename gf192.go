package sigma

// GF(2^192) field arithmetic and polynomial interpolation (spec §4.B).
// Grounded on the shape of teacher's util.go (VecPoly1/Poly2/ScalarExp):
// the same Horner-evaluation, iterator-style exponentiation idiom is
// reused here, but over a binary extension field with three 64-bit limbs
// instead of the ristretto scalar field, per the design notes in spec §9.

import (
	"math/big"
)

// GF192 is an element of GF(2^192), stored as three 64-bit limbs:
// limb[0] holds bits 0..63, limb[1] bits 64..127, limb[2] bits 128..191.
type GF192 struct {
	limb [3]uint64
}

// reductionPoly192 represents x^7 + x^2 + x + 1, the low-degree part of
// the fixed irreducible reduction polynomial x^192 + x^7 + x^2 + x + 1.
var reductionPoly192 = GF192{limb: [3]uint64{0x87, 0, 0}} // bits 7,2,1,0

// GF192Zero is the additive identity.
var GF192Zero = GF192{}

// GF192FromInt embeds a small non-negative integer (an evaluation point,
// per spec §4.B "evaluate at integer points") into the field by literal
// bit pattern, the standard convention for GF(2^n) secret sharing.
func GF192FromInt(x uint8) GF192 {
	return GF192{limb: [3]uint64{uint64(x), 0, 0}}
}

// Add is field addition, i.e. bitwise XOR.
func (a GF192) Add(b GF192) GF192 {
	return GF192{limb: [3]uint64{a.limb[0] ^ b.limb[0], a.limb[1] ^ b.limb[1], a.limb[2] ^ b.limb[2]}}
}

// IsZero reports whether a is the additive identity.
func (a GF192) IsZero() bool {
	return a.limb[0] == 0 && a.limb[1] == 0 && a.limb[2] == 0
}

// Equal reports field-element equality.
func (a GF192) Equal(b GF192) bool {
	return a.limb == b.limb
}

func bitAtWide(w [6]uint64, pos int) uint64 {
	return (w[pos/64] >> uint(pos%64)) & 1
}

func setBitWide(w *[6]uint64, pos int) {
	w[pos/64] |= 1 << uint(pos%64)
}

func elemToWide(a GF192) [6]uint64 {
	return [6]uint64{a.limb[0], a.limb[1], a.limb[2], 0, 0, 0}
}

func shiftLeftWide(w [6]uint64, shift int) [6]uint64 {
	var out [6]uint64
	if shift == 0 {
		return w
	}
	for pos := 383 - shift; pos >= 0; pos-- {
		if bitAtWide(w, pos) == 1 {
			setBitWide(&out, pos+shift)
		}
	}
	return out
}

func xorWide(a, b [6]uint64) [6]uint64 {
	var out [6]uint64
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// Mul is carryless (binary-field) multiplication followed by reduction
// modulo x^192 + x^7 + x^2 + x + 1.
func (a GF192) Mul(b GF192) GF192 {
	var wide [6]uint64
	aw := elemToWide(a)
	for bit := 0; bit < 192; bit++ {
		if bitAtWide(elemToWide(b), bit) == 1 {
			wide = xorWide(wide, shiftLeftWide(aw, bit))
		}
	}
	return reduceWide(wide)
}

func reduceWide(wide [6]uint64) GF192 {
	rw := elemToWide(reductionPoly192)
	for pos := 383; pos >= 192; pos-- {
		if bitAtWide(wide, pos) == 1 {
			wide = xorWide(wide, shiftLeftWide(rw, pos-192))
		}
	}
	return GF192{limb: [3]uint64{wide[0], wide[1], wide[2]}}
}

func (a GF192) Square() GF192 {
	return a.Mul(a)
}

var exp192Minus2 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 192), big.NewInt(2))

// Inverse returns a^-1 via a^(2^192-2) (Fermat's little theorem analog
// for GF(2^192)\{0}). Panics on zero, mirroring the teacher's pattern of
// surfacing a malicious/degenerate dealer as a hard failure rather than
// a silently wrong result (party.go's MaliciousDealer check).
func (a GF192) Inverse() GF192 {
	if a.IsZero() {
		panic("sigma: GF192 inverse of zero")
	}
	result := GF192FromInt(1)
	base := a
	for i := exp192Minus2.BitLen() - 1; i >= 0; i-- {
		result = result.Square()
		if exp192Minus2.Bit(i) == 1 {
			result = result.Mul(base)
		}
	}
	return result
}

// ToBytes renders a as ChallengeLen big-endian bytes (limb[2] first).
func (a GF192) ToBytes() [ChallengeLen]byte {
	var out [ChallengeLen]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(a.limb[2] >> uint(8*(7-i)))
		out[8+i] = byte(a.limb[1] >> uint(8*(7-i)))
		out[16+i] = byte(a.limb[0] >> uint(8*(7-i)))
	}
	return out
}

// GF192FromBytes parses ChallengeLen big-endian bytes into a field element.
func GF192FromBytes(b [ChallengeLen]byte) GF192 {
	var a GF192
	for i := 0; i < 8; i++ {
		a.limb[2] |= uint64(b[i]) << uint(8*(7-i))
		a.limb[1] |= uint64(b[8+i]) << uint(8*(7-i))
		a.limb[0] |= uint64(b[16+i]) << uint(8*(7-i))
	}
	return a
}

// Polynomial is a GF(2^192) polynomial, coefficients in ascending degree
// order; Coeffs[0] is the constant term.
type Polynomial struct {
	Coeffs []GF192
}

// Degree returns len(Coeffs)-1: the degree when the highest stored
// coefficient is non-zero (trailing zero coefficients are counted), and
// -1 for an empty coefficient list.
func (p *Polynomial) Degree() int {
	return len(p.Coeffs) - 1
}

// Evaluate computes p(x) by Horner's method, the same evaluation shape
// as teacher's Poly2.Eval in util.go.
func (p *Polynomial) Evaluate(x uint8) GF192 {
	if len(p.Coeffs) == 0 {
		return GF192Zero
	}
	fx := GF192FromInt(x)
	acc := p.Coeffs[len(p.Coeffs)-1]
	for i := len(p.Coeffs) - 2; i >= 0; i-- {
		acc = acc.Mul(fx).Add(p.Coeffs[i])
	}
	return acc
}

// ToBytes packs the polynomial's non-constant coefficients (ascending
// degree) into ChallengeLen-wide big-endian chunks; withZero additionally
// includes the constant term (spec §4.B; default callers want withZero=false).
func (p *Polynomial) ToBytes(withZero bool) []byte {
	start := 1
	if withZero {
		start = 0
	}
	out := make([]byte, 0, (len(p.Coeffs)-start)*ChallengeLen)
	for i := start; i < len(p.Coeffs); i++ {
		b := p.Coeffs[i].ToBytes()
		out = append(out, b[:]...)
	}
	return out
}

// PolynomialFromBytes reconstructs a polynomial from its constant term
// and the packed non-constant coefficient bytes (spec §4.B fromBytes).
func PolynomialFromBytes(constantTerm GF192, data []byte) (*Polynomial, error) {
	if len(data)%ChallengeLen != 0 {
		return nil, wrapf(ErrMalformedProof, "polynomial bytes length %d not a multiple of %d", len(data), ChallengeLen)
	}
	n := len(data) / ChallengeLen
	coeffs := make([]GF192, n+1)
	coeffs[0] = constantTerm
	for i := 0; i < n; i++ {
		var chunk [ChallengeLen]byte
		copy(chunk[:], data[i*ChallengeLen:(i+1)*ChallengeLen])
		coeffs[i+1] = GF192FromBytes(chunk)
	}
	return &Polynomial{Coeffs: coeffs}, nil
}

// Interpolate builds the unique lowest-degree polynomial passing through
// the given (x, y) pairs via Lagrange interpolation over GF(2^192)
// (spec §4.B interpolate). xs must be distinct.
func Interpolate(xs []uint8, ys []GF192) (*Polynomial, error) {
	if len(xs) != len(ys) {
		return nil, wrapf(ErrInvalidProposition, "interpolate: mismatched point/value count %d/%d", len(xs), len(ys))
	}
	n := len(xs)
	if n == 0 {
		return &Polynomial{}, nil
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if xs[i] == xs[j] {
				return nil, wrapf(ErrInvalidProposition, "interpolate: duplicate point %d", xs[i])
			}
		}
	}

	result := make([]GF192, n)

	for j := 0; j < n; j++ {
		// numerator coefficients: product over m!=j of (x + x_m)
		numerator := []GF192{GF192FromInt(1)}
		denom := GF192FromInt(1)
		xj := GF192FromInt(xs[j])
		for m := 0; m < n; m++ {
			if m == j {
				continue
			}
			xm := GF192FromInt(xs[m])
			numerator = polyMulLinear(numerator, xm)
			denom = denom.Mul(xj.Add(xm))
		}
		scale := ys[j].Mul(denom.Inverse())
		for i, c := range numerator {
			scaled := c.Mul(scale)
			if i >= len(result) {
				result = append(result, GF192Zero)
			}
			result[i] = result[i].Add(scaled)
		}
	}

	return &Polynomial{Coeffs: result}, nil
}

// polyMulLinear multiplies poly (ascending-degree coeffs) by (x + root),
// returning a new coefficient slice one degree higher.
func polyMulLinear(poly []GF192, root GF192) []GF192 {
	out := make([]GF192, len(poly)+1)
	for i, c := range poly {
		out[i] = out[i].Add(c.Mul(root))
		out[i+1] = out[i+1].Add(c)
	}
	return out
}
