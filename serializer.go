package sigma

// Proof serializer (spec §4.E): emits only the challenges the verifier
// cannot recompute, mirroring the economy of teacher's RingMLSAG wire
// form (mlsag.go emits c[0] once and a flat response vector, never the
// per-index challenges the verifier re-derives).

// Serialize renders a completed unchecked tree as proof bytes.
func Serialize(root *UncheckedTree) ([]byte, error) {
	if root.IsNoProof() {
		return []byte{}, nil
	}
	out := append([]byte{}, root.Challenge[:]...)
	body, err := serializeBody(root)
	if err != nil {
		return nil, err
	}
	return append(out, body...), nil
}

// serializeBody writes node's contents assuming node.Challenge is
// already known to the reader (as the root, or propagated from a
// parent); it never re-writes node.Challenge itself.
func serializeBody(node *UncheckedTree) ([]byte, error) {
	switch node.Kind {
	case KindProveDlog, KindProveDHTuple:
		z := EncodeScalar(node.Response)
		return z[:], nil

	case KindAnd:
		var out []byte
		for _, child := range node.Children {
			b, err := serializeBody(child)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil

	case KindOr:
		var out []byte
		n := len(node.Children)
		for i, child := range node.Children {
			if i < n-1 {
				out = append(out, child.Challenge[:]...)
			}
			b, err := serializeBody(child)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil

	case KindThreshold:
		if node.Poly == nil {
			return nil, wrapf(ErrInvalidProposition, "threshold node missing polynomial")
		}
		out := append([]byte{}, node.Poly.ToBytes(false)...)
		for _, child := range node.Children {
			b, err := serializeBody(child)
			if err != nil {
				return nil, err
			}
			out = append(out, b...)
		}
		return out, nil

	default:
		return nil, wrapf(ErrInvalidProposition, "serialize: unexpected node kind %v", node.Kind)
	}
}
