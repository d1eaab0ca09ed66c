package sigma

// Proof parser (spec §4.F): a single top-down pass over a proposition
// tree and a proof byte string, reconstructing every node's challenge
// and (for leaves) its commitment, recomputing each node's challenge
// before recursing into its children, over an arbitrary AND/OR/THRESHOLD
// tree.

type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, wrapf(ErrMalformedProof, "need %d bytes at offset %d, have %d", n, c.pos, len(c.buf))
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Parse reconstructs an UncheckedTree from prop and proofBytes, using
// DefaultObserver.
func Parse(prop *SigmaBoolean, proofBytes []byte) (*UncheckedTree, error) {
	return ParseWithObserver(prop, proofBytes, DefaultObserver)
}

// ParseWithObserver is Parse with an explicit OperationObserver,
// notified once per node visited (spec §12 supplement).
func ParseWithObserver(prop *SigmaBoolean, proofBytes []byte, observer OperationObserver) (*UncheckedTree, error) {
	if observer == nil {
		observer = DefaultObserver
	}
	if len(proofBytes) == 0 {
		return NoProof, nil
	}
	c := &cursor{buf: proofBytes}
	root, err := parseNode(prop, c, nil, 0, observer)
	if err != nil {
		return nil, err
	}
	if c.pos != len(c.buf) {
		return nil, wrapf(ErrMalformedProof, "%d trailing bytes after parse", len(c.buf)-c.pos)
	}
	return root, nil
}

func xorChallenge(a, b [ChallengeLen]byte) [ChallengeLen]byte {
	var out [ChallengeLen]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func parseNode(prop *SigmaBoolean, c *cursor, incoming *[ChallengeLen]byte, depth int, observer OperationObserver) (*UncheckedTree, error) {
	if prop == nil {
		return nil, wrapf(ErrInvalidProposition, "nil proposition node")
	}
	observer.OnNode(prop.Kind.String(), depth)

	var challenge [ChallengeLen]byte
	if incoming != nil {
		challenge = *incoming
	} else {
		b, err := c.readBytes(ChallengeLen)
		if err != nil {
			return nil, err
		}
		copy(challenge[:], b)
	}

	switch prop.Kind {
	case KindProveDlog:
		zb, err := c.readBytes(ScalarOrderLen)
		if err != nil {
			return nil, err
		}
		var zArr [ScalarOrderLen]byte
		copy(zArr[:], zb)
		z := DecodeScalar(zArr)
		a := reconstructDlogCommitment(prop.Dlog.H, challenge, z)
		return &UncheckedTree{
			Kind: KindProveDlog, Challenge: challenge, Proposition: prop,
			Response: z, CommitmentA: a,
		}, nil

	case KindProveDHTuple:
		zb, err := c.readBytes(ScalarOrderLen)
		if err != nil {
			return nil, err
		}
		var zArr [ScalarOrderLen]byte
		copy(zArr[:], zb)
		z := DecodeScalar(zArr)
		a, b := reconstructDHTupleCommitments(prop.DHTuple.G, prop.DHTuple.H, prop.DHTuple.U, prop.DHTuple.V, challenge, z)
		return &UncheckedTree{
			Kind: KindProveDHTuple, Challenge: challenge, Proposition: prop,
			Response: z, CommitmentA: a, CommitmentB: b,
		}, nil

	case KindAnd:
		if len(prop.Children) > 255 {
			return nil, wrapf(ErrInvalidProposition, "CAND node with %d children", len(prop.Children))
		}
		children := make([]*UncheckedTree, len(prop.Children))
		for i, childProp := range prop.Children {
			child, err := parseNode(childProp, c, &challenge, depth+1, observer)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return &UncheckedTree{Kind: KindAnd, Challenge: challenge, Proposition: prop, Children: children}, nil

	case KindOr:
		n := len(prop.Children)
		if n < 2 || n > 255 {
			return nil, wrapf(ErrInvalidProposition, "COR node with %d children", n)
		}
		children := make([]*UncheckedTree, n)
		running := challenge
		for i := 0; i < n-1; i++ {
			child, err := parseNode(prop.Children[i], c, nil, depth+1, observer)
			if err != nil {
				return nil, err
			}
			children[i] = child
			running = xorChallenge(running, child.Challenge)
		}
		lastChallenge := running
		lastChild, err := parseNode(prop.Children[n-1], c, &lastChallenge, depth+1, observer)
		if err != nil {
			return nil, err
		}
		children[n-1] = lastChild
		return &UncheckedTree{Kind: KindOr, Challenge: challenge, Proposition: prop, Children: children}, nil

	case KindThreshold:
		n := len(prop.Children)
		k := int(prop.K)
		if n > 255 || k < 1 || k > n {
			return nil, wrapf(ErrInvalidProposition, "CTHRESHOLD(%d,%d) out of range", k, n)
		}
		coeffLen := (n - k) * ChallengeLen
		data, err := c.readBytes(coeffLen)
		if err != nil {
			return nil, err
		}
		poly, err := PolynomialFromBytes(GF192FromBytes(challenge), data)
		if err != nil {
			return nil, err
		}
		children := make([]*UncheckedTree, n)
		for i := 0; i < n; i++ {
			childChallenge := poly.Evaluate(uint8(i + 1)).ToBytes()
			child, err := parseNode(prop.Children[i], c, &childChallenge, depth+1, observer)
			if err != nil {
				return nil, err
			}
			children[i] = child
		}
		return &UncheckedTree{
			Kind: KindThreshold, Challenge: challenge, Proposition: prop,
			K: prop.K, Children: children, Poly: poly,
		}, nil

	default:
		return nil, wrapf(ErrInvalidProposition, "parse: unexpected node kind %v", prop.Kind)
	}
}
