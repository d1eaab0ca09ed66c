package sigma

// Canonical proposition-tree encoding (spec §6: "the proposition bytes
// as produced by the script collaborator's tree serializer"). The real
// script collaborator owns this encoding as a side effect of compiling
// a script to its tree form; that collaborator is out of scope here
// (spec §1), so this package carries its own minimal, deterministic
// encoding of a SigmaBoolean — tag byte, point/child counts, then a
// depth-first recursion — grounded on the same tag+length-prefix shape
// register.go/box.go already use for their own wire formats.

// PropositionBytes renders prop's structure and public data into the
// fixed byte string both the prover and the verifier fold into the
// Fiat-Shamir root challenge (spec §6).
func PropositionBytes(prop *SigmaBoolean) []byte {
	var out []byte
	appendPropositionBytes(&out, prop)
	return out
}

func appendPropositionBytes(out *[]byte, prop *SigmaBoolean) {
	*out = append(*out, byte(prop.Kind))
	switch prop.Kind {
	case KindProveDlog:
		h := EncodePoint(prop.Dlog.H)
		*out = append(*out, h[:]...)
	case KindProveDHTuple:
		g := EncodePoint(prop.DHTuple.G)
		h := EncodePoint(prop.DHTuple.H)
		u := EncodePoint(prop.DHTuple.U)
		v := EncodePoint(prop.DHTuple.V)
		*out = append(*out, g[:]...)
		*out = append(*out, h[:]...)
		*out = append(*out, u[:]...)
		*out = append(*out, v[:]...)
	case KindAnd, KindOr:
		*out = append(*out, byte(len(prop.Children)))
		for _, c := range prop.Children {
			appendPropositionBytes(out, c)
		}
	case KindThreshold:
		*out = append(*out, prop.K, byte(len(prop.Children)))
		for _, c := range prop.Children {
			appendPropositionBytes(out, c)
		}
	}
}
