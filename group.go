package sigma

// Group/hash facade (spec §4.A). Wraps github.com/bwesterb/go-ristretto
// the same way the teacher's mod.go and generators.go wrap it for
// mlsag/bulletproof math, and adapts its canonical 32-byte point
// encoding to the spec's 33-byte sign-prefixed wire format.

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/bwesterb/go-ristretto"
	"github.com/dchest/blake2b"
	"golang.org/x/crypto/sha3"
)

const (
	// SoundnessBits is the challenge width in bits (spec §1/§3).
	SoundnessBits = 192
	// ChallengeLen is SoundnessBits/8.
	ChallengeLen = SoundnessBits / 8
	// ScalarOrderLen is the byte width of a scalar encoding (spec §3).
	ScalarOrderLen = 32
	// PointLen is the byte width of an encoded group element (spec §6).
	PointLen = 33

	groupHashDomainTag   = "sigma-engine/group-hash"
	hashToPointDomainTag = "sigma-engine/hash-to-point"
	hashToAuxGenDomainTag = "sigma-engine/aux-generator"
)

// groupOrder is the order of the ristretto255 prime-order subgroup.
var groupOrder = mustBigInt("7237005577332262213973186563042994240857116359379907606001950938285454250989")

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("sigma: bad group order constant")
	}
	return n
}

// Point is an opaque element of the prime-order group.
type Point struct{ p ristretto.Point }

// Scalar is an integer modulo the group order.
type Scalar struct{ s ristretto.Scalar }

// Generator returns the fixed base point g.
func Generator() Point {
	var p Point
	p.p.SetBase()
	return p
}

// Identity returns the group identity element.
func Identity() Point {
	var p Point
	p.p.SetZero()
	return p
}

// Order returns the group order q as a big.Int (copy; callers must not
// mutate the returned value).
func Order() *big.Int {
	return new(big.Int).Set(groupOrder)
}

// Exp computes g^k, i.e. scalar multiplication of p by k.
func Exp(p Point, k Scalar) Point {
	var out Point
	out.p.ScalarMult(&p.p, &k.s)
	return out
}

// ExpGenerator computes generator^k without requiring a base point value.
func ExpGenerator(k Scalar) Point {
	var out Point
	out.p.ScalarMultBase(&k.s)
	return out
}

// Mul is the group operation (point addition in the underlying curve).
func Mul(a, b Point) Point {
	var out Point
	out.p.Add(&a.p, &b.p)
	return out
}

// Inv returns p^-1.
func Inv(p Point) Point {
	var out Point
	out.p.Neg(&p.p)
	return out
}

// Normalize forces a point to its unique canonical representation.
// go-ristretto's encoding is already canonical after any operation; this
// round-trips the point through the wire encoding for callers that want
// that guarantee made explicit.
func Normalize(p Point) Point {
	decoded, err := DecodePoint(EncodePoint(p))
	if err != nil {
		// Only the identity's special-cased encoding can legitimately
		// fail to decode back through DecodePoint's canonical check,
		// and Identity() never does; any other failure is a bug in
		// this adapter, not a caller error.
		panic("sigma: normalize of well-formed point failed: " + err.Error())
	}
	return decoded
}

// IsIdentity reports whether p is the group identity.
func IsIdentity(p Point) bool {
	var zero ristretto.Point
	zero.SetZero()
	return p.p.Equals(&zero)
}

// EncodePoint renders p as 33 bytes: a sign byte followed by the 32-byte
// canonical encoding, or 33 zero bytes for the identity (spec §6).
func EncodePoint(p Point) [PointLen]byte {
	var out [PointLen]byte
	if IsIdentity(p) {
		return out
	}
	out[0] = 0x02
	copy(out[1:], p.p.Bytes())
	return out
}

// DecodePoint parses the 33-byte wire encoding, returning ErrInvalidEncoding
// if the sign byte is not in {0,2,3} or the remaining 32 bytes are not a
// canonical ristretto encoding.
func DecodePoint(b [PointLen]byte) (Point, error) {
	var zero [PointLen]byte
	if b == zero {
		return Identity(), nil
	}
	if b[0] != 0x02 && b[0] != 0x03 {
		return Point{}, wrapf(ErrInvalidEncoding, "bad sign byte 0x%02x", b[0])
	}
	var coords [32]byte
	copy(coords[:], b[1:])
	var pt Point
	pt.p.SetBytes(&coords)
	// Reject non-canonical encodings: re-encoding must round-trip.
	if !bytes.Equal(pt.p.Bytes(), coords[:]) {
		return Point{}, wrapf(ErrInvalidEncoding, "non-canonical point encoding")
	}
	return pt, nil
}

// EncodeScalar renders s as ScalarOrderLen big-endian bytes.
func EncodeScalar(s Scalar) [ScalarOrderLen]byte {
	var out [ScalarOrderLen]byte
	le := s.s.Bytes() // go-ristretto scalars are little-endian internally
	for i := 0; i < ScalarOrderLen; i++ {
		out[ScalarOrderLen-1-i] = le[i]
	}
	return out
}

// DecodeScalar parses ScalarOrderLen big-endian bytes into a Scalar.
func DecodeScalar(b [ScalarOrderLen]byte) Scalar {
	var le [32]byte
	for i := 0; i < ScalarOrderLen; i++ {
		le[i] = b[ScalarOrderLen-1-i]
	}
	var s Scalar
	s.s.SetBytes(&le)
	return s
}

// RandomScalar draws a uniform scalar in [0, q) from the process CSPRNG.
func RandomScalar() Scalar {
	var s Scalar
	s.s.Rand()
	return s
}

// NegatedChallengeScalar negates a challenge e (read as a positive
// big-endian integer, spec §4.F step 3) modulo q and returns it as a Scalar,
// used to reconstruct leaf commitments as g^z * h^-e.
func NegatedChallengeScalar(e [ChallengeLen]byte) Scalar {
	x := new(big.Int).SetBytes(e[:])
	x.Mod(x, groupOrder)
	x.Sub(groupOrder, x)
	x.Mod(x, groupOrder)
	return scalarFromBigInt(x)
}

// ChallengeAsScalar reduces a challenge (read as a positive big-endian
// integer) modulo q into a Scalar without negation; the prover uses it
// to compute a real leaf's response z = r + e*w.
func ChallengeAsScalar(e [ChallengeLen]byte) Scalar {
	x := new(big.Int).SetBytes(e[:])
	x.Mod(x, groupOrder)
	return scalarFromBigInt(x)
}

func scalarFromBigInt(x *big.Int) Scalar {
	buf := make([]byte, ScalarOrderLen)
	b := x.Bytes()
	copy(buf[ScalarOrderLen-len(b):], b)
	var le [32]byte
	for i := 0; i < ScalarOrderLen; i++ {
		le[i] = buf[ScalarOrderLen-1-i]
	}
	var s Scalar
	s.s.SetBytes(&le)
	return s
}

// Hash is the process-wide hash facade (spec §4.A): a domain-separated
// blake2b-256 digest, matching the teacher's hashToPoint/hashToScalar
// domain-tag convention in mod.go.
func Hash(data []byte) [32]byte {
	h := blake2b.New256()
	h.Write([]byte(groupHashDomainTag))
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// TruncatedChallenge hashes data and keeps the high ChallengeLen bytes,
// exactly as spec §6 requires for the Fiat-Shamir root challenge.
func TruncatedChallenge(data []byte) [ChallengeLen]byte {
	digest := Hash(data)
	var out [ChallengeLen]byte
	copy(out[:], digest[:ChallengeLen])
	return out
}

// AuxiliaryGenerator derives a second nothing-up-my-sleeve generator from
// the base point, the way teacher's generators.go derives BBlinding from
// B via sha3.New512 — used by ProveDHTuple fixtures that need a second
// generator independent of Generator().
func AuxiliaryGenerator() Point {
	var base ristretto.Point
	base.SetBase()
	h := sha3.New512()
	h.Write([]byte(hashToAuxGenDomainTag))
	h.Write(base.Bytes())
	var wide [64]byte
	copy(wide[:], h.Sum(nil))
	var a, b ristretto.Point
	var lo, hi [32]byte
	copy(lo[:], wide[:32])
	copy(hi[:], wide[32:])
	a.SetElligator(&lo)
	b.SetElligator(&hi)
	var out Point
	out.p.Add(&a, &b)
	return out
}

func wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)
}
