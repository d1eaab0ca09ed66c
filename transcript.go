package sigma

// Domain-separated nonce derivation for the prover, built the same way
// teacher's tx_prefix.go/dealer.go bind labeled fields into a merlin
// transcript before squeezing a challenge scalar out of it. This sits
// beside, not on, the Fiat-Shamir critical path: §6 fixes the exact byte
// concatenation hashed for the root challenge, so that hash is computed
// directly (see Prove in prover.go and VerifyWithObserver in verifier.go).
// Here the transcript instead strengthens the *private* randomness the
// prover mixes into each commitment, binding it to the message and the
// leaf's position in the tree so a CSPRNG failure at one leaf cannot
// make two different leaves' nonces collide.

import (
	"encoding/binary"

	"github.com/gtank/merlin"
)

type proverTape struct {
	message []byte
}

func newProverTape(message []byte) *proverTape {
	return &proverTape{message: append([]byte(nil), message...)}
}

// nonceScalar derives a domain-separated scalar for the leaf at path, to
// be mixed (added) into a freshly drawn random scalar. Each call builds
// a fresh transcript rather than cloning one, since merlin.Transcript's
// STROBE state is not documented as safely copyable.
func (pt *proverTape) nonceScalar(path []int) Scalar {
	t := merlin.NewTranscript("sigma-engine/prover-tape")
	t.AppendMessage([]byte("message"), pt.message)
	buf := make([]byte, 8)
	for _, step := range path {
		binary.LittleEndian.PutUint64(buf, uint64(step))
		t.AppendMessage([]byte("path"), buf)
	}
	data := t.ExtractBytes([]byte("nonce"), 64)
	var wide [64]byte
	copy(wide[:], data)
	var s Scalar
	s.s.SetReduced(&wide)
	return s
}

// blindedScalar draws a fresh CSPRNG scalar and folds in the tape's
// domain-separated nonce for the given tree path, so leaf randomness
// never depends solely on the OS entropy source.
func blindedScalar(tape *proverTape, path []int) Scalar {
	fresh := RandomScalar()
	nonce := tape.nonceScalar(path)
	var out Scalar
	out.s.Add(&fresh.s, &nonce.s)
	return out
}
