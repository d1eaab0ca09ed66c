package sigma

// Verifier (spec §4.H). A thin layer over Parse, which reconstructs
// every leaf's commitment from its response: it recomputes the root
// Fiat-Shamir challenge and compares it against the one carried in the
// proof. The final comparison is constant-time (spec §12 supplement),
// since it is the accept/reject decision a timing side channel could
// leak.

import "crypto/subtle"

// Verify checks proofBytes against prop and message, using
// DefaultObserver.
func Verify(prop *SigmaBoolean, message []byte, proofBytes []byte) error {
	return VerifyWithObserver(prop, message, proofBytes, DefaultObserver)
}

// VerifyWithObserver is Verify with an explicit OperationObserver.
func VerifyWithObserver(prop *SigmaBoolean, message []byte, proofBytes []byte, observer OperationObserver) error {
	tree, err := ParseWithObserver(prop, proofBytes, observer)
	if err != nil {
		return err
	}
	if tree.IsNoProof() {
		return wrapf(ErrInvalidSignature, "empty proof")
	}

	var commitBytes []byte
	collectUncheckedCommitmentBytes(tree, &commitBytes)
	fsInput := append(commitBytes, PropositionBytes(prop)...)
	fsInput = append(fsInput, message...)
	recomputed := TruncatedChallenge(fsInput)

	if subtle.ConstantTimeCompare(recomputed[:], tree.Challenge[:]) != 1 {
		return wrapf(ErrInvalidSignature, "root challenge mismatch")
	}
	return nil
}

func collectUncheckedCommitmentBytes(node *UncheckedTree, out *[]byte) {
	switch node.Kind {
	case KindProveDlog:
		a := EncodePoint(node.CommitmentA)
		*out = append(*out, a[:]...)
	case KindProveDHTuple:
		a := EncodePoint(node.CommitmentA)
		b := EncodePoint(node.CommitmentB)
		*out = append(*out, a[:]...)
		*out = append(*out, b[:]...)
	default:
		for _, c := range node.Children {
			collectUncheckedCommitmentBytes(c, out)
		}
	}
}
