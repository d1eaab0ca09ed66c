package sigma

// Prover composition (spec §4.G). The four-phase shape — mark which
// leaves are real, simulate everything else, commit, then respond once
// the root challenge is known — is the structure teacher's dealer.go/
// party.go use for their own two-round aggregated rangeproof protocol,
// widened here from a fixed dealer/party split to an arbitrary real/
// simulated marking over an AND/OR/THRESHOLD tree.

// proverNode mirrors SigmaBoolean through the marking, commit and
// respond phases, carrying the per-node working state those phases
// need before it collapses into an UncheckedTree.
type proverNode struct {
	Kind     Kind
	Prop     *SigmaBoolean
	Children []*proverNode

	Real     bool
	fromHint bool
	hint     *Hint

	witness    Scalar
	hasWitness bool

	r           Scalar
	CommitmentA Point
	CommitmentB Point

	Challenge    [ChallengeLen]byte
	hasChallenge bool
	Response     Scalar

	Poly *Polynomial
}

// Prove builds a complete sigma-protocol proof for prop over message,
// using secrets and hints to decide which leaves are proved with a real
// witness and which are simulated. Returns ErrProverMissingSecret if
// the proposition cannot be satisfied at all given secrets and hints.
//
// A HintForceReal leaf supplies a precomputed (commitment, response)
// pair in place of a local witness; this models a cosigner's
// contribution from an external interactive round and is folded in
// as-is rather than re-derived, so Prove trusts the caller that the
// supplied response is valid for whatever challenge this call ends up
// assigning that leaf.
func Prove(prop *SigmaBoolean, secrets *SecretSet, hints *HintsBag, message []byte) (*UncheckedTree, error) {
	marked, err := mark(prop, secrets, hints)
	if err != nil {
		return nil, err
	}

	tape := newProverTape(message)
	if err := commit(marked, tape, nil); err != nil {
		return nil, err
	}

	var commitBytes []byte
	collectCommitmentBytes(marked, &commitBytes)
	fsInput := append(commitBytes, PropositionBytes(prop)...)
	fsInput = append(fsInput, message...)
	rootChallenge := TruncatedChallenge(fsInput)

	if err := assignChallenges(marked, rootChallenge); err != nil {
		return nil, err
	}
	respond(marked)

	return proverNodeToUnchecked(marked), nil
}

// mark decides, for every node, whether it will be proved with a real
// witness or simulated, per spec §4.G step 1: a bottom-up candidacy
// pass followed by a top-down pass that trims each connective down to
// exactly the real children it needs (one for COR, k for CTHRESHOLD).
func mark(prop *SigmaBoolean, secrets *SecretSet, hints *HintsBag) (*proverNode, error) {
	candidate := markCandidate(prop, secrets, hints)
	if !candidate.Real {
		return nil, wrapf(ErrProverMissingSecret, "proposition cannot be satisfied with the given secrets")
	}
	restrictReal(candidate, true)
	return candidate, nil
}

func markCandidate(prop *SigmaBoolean, secrets *SecretSet, hints *HintsBag) *proverNode {
	node := &proverNode{Kind: prop.Kind, Prop: prop}
	switch prop.Kind {
	case KindProveDlog, KindProveDHTuple:
		if h, ok := hints.lookup(prop); ok {
			node.hint = h
			switch h.Kind {
			case HintForceSimulated:
				node.Real = false
				return node
			case HintForceReal:
				node.Real = true
				node.fromHint = true
				return node
			}
		}
		if w, ok := secrets.lookup(prop); ok {
			node.witness = w
			node.hasWitness = true
			node.Real = true
		}
		return node

	case KindAnd:
		node.Children = make([]*proverNode, len(prop.Children))
		allReal := true
		for i, c := range prop.Children {
			child := markCandidate(c, secrets, hints)
			node.Children[i] = child
			allReal = allReal && child.Real
		}
		node.Real = allReal
		return node

	case KindOr:
		node.Children = make([]*proverNode, len(prop.Children))
		anyReal := false
		for i, c := range prop.Children {
			child := markCandidate(c, secrets, hints)
			node.Children[i] = child
			anyReal = anyReal || child.Real
		}
		node.Real = anyReal
		return node

	case KindThreshold:
		node.Children = make([]*proverNode, len(prop.Children))
		count := 0
		for i, c := range prop.Children {
			child := markCandidate(c, secrets, hints)
			node.Children[i] = child
			if child.Real {
				count++
			}
		}
		node.Real = count >= int(prop.K)
		return node

	default:
		return node
	}
}

// restrictReal fixes node's final Real flag to want (the decision made
// by its parent) and, for nodes that stay real, restricts exactly the
// right number of children to real: all of them for CAND, one for COR,
// K for CTHRESHOLD — preferring children already real from markCandidate.
func restrictReal(node *proverNode, want bool) {
	node.Real = want
	if !want {
		for _, c := range node.Children {
			restrictReal(c, false)
		}
		return
	}
	switch node.Kind {
	case KindProveDlog, KindProveDHTuple:
		return
	case KindAnd:
		for _, c := range node.Children {
			restrictReal(c, true)
		}
	case KindOr:
		chosen := -1
		for i, c := range node.Children {
			if c.Real {
				chosen = i
				break
			}
		}
		for i, c := range node.Children {
			restrictReal(c, i == chosen)
		}
	case KindThreshold:
		need := int(node.Prop.K)
		for _, c := range node.Children {
			keep := c.Real && need > 0
			if keep {
				need--
			}
			restrictReal(c, keep)
		}
	}
}

// commit fills in every leaf's commitment: sampled randomness at real
// leaves, a freshly chosen random challenge plus reconstructed
// commitment at simulated ones (spec §4.G step 2). path threads the
// tree position into the prover tape's domain separation.
func commit(node *proverNode, tape *proverTape, path []int) error {
	if !node.Real {
		simulate(node, randomChallenge())
		return nil
	}

	switch node.Kind {
	case KindProveDlog:
		if node.fromHint {
			node.CommitmentA = node.hint.Commitment
			return nil
		}
		node.r = blindedScalar(tape, path)
		node.CommitmentA = ExpGenerator(node.r)
		return nil

	case KindProveDHTuple:
		if node.fromHint {
			node.CommitmentA = node.hint.Commitment
			node.CommitmentB = node.hint.CommitmentB
			return nil
		}
		node.r = blindedScalar(tape, path)
		node.CommitmentA = Exp(node.Prop.DHTuple.G, node.r)
		node.CommitmentB = Exp(node.Prop.DHTuple.H, node.r)
		return nil

	case KindAnd:
		for i, c := range node.Children {
			if err := commit(c, tape, append(path, i)); err != nil {
				return err
			}
		}
		return nil

	case KindOr:
		for i, c := range node.Children {
			if err := commit(c, tape, append(path, i)); err != nil {
				return err
			}
		}
		return nil

	case KindThreshold:
		for i, c := range node.Children {
			if err := commit(c, tape, append(path, i)); err != nil {
				return err
			}
		}
		return nil

	default:
		return wrapf(ErrInvalidProposition, "commit: unexpected node kind %v", node.Kind)
	}
}

// simulate fills in node's entire subtree under a challenge the prover
// is free to choose, since no real witness along this path is needed:
// leaves pick a random response and reconstruct a matching commitment,
// connectives split the fixed challenge across freshly chosen
// sub-challenges the same way the real case splits a challenge that
// arrives from its own parent (spec §4.G step 2 / §4.F symmetry).
func simulate(node *proverNode, challenge [ChallengeLen]byte) {
	node.Challenge = challenge
	node.hasChallenge = true

	switch node.Kind {
	case KindProveDlog:
		z := RandomScalar()
		node.Response = z
		node.CommitmentA = reconstructDlogCommitment(node.Prop.Dlog.H, challenge, z)

	case KindProveDHTuple:
		z := RandomScalar()
		node.Response = z
		a, b := reconstructDHTupleCommitments(node.Prop.DHTuple.G, node.Prop.DHTuple.H, node.Prop.DHTuple.U, node.Prop.DHTuple.V, challenge, z)
		node.CommitmentA, node.CommitmentB = a, b

	case KindAnd:
		for _, c := range node.Children {
			simulate(c, challenge)
		}

	case KindOr:
		n := len(node.Children)
		running := challenge
		for i := 0; i < n-1; i++ {
			childChallenge := randomChallenge()
			simulate(node.Children[i], childChallenge)
			running = xorChallenge(running, childChallenge)
		}
		simulate(node.Children[n-1], running)

	case KindThreshold:
		n := len(node.Children)
		k := int(node.Prop.K)
		xs := make([]uint8, 0, n-k+1)
		ys := make([]GF192, 0, n-k+1)
		xs = append(xs, 0)
		ys = append(ys, GF192FromBytes(challenge))
		for i := 0; i < n-k; i++ {
			cc := randomChallenge()
			xs = append(xs, uint8(i+1))
			ys = append(ys, GF192FromBytes(cc))
		}
		poly, err := Interpolate(xs, ys)
		if err != nil {
			panic("sigma: simulate threshold interpolation failed: " + err.Error())
		}
		node.Poly = poly
		for i := 0; i < n; i++ {
			cc := poly.Evaluate(uint8(i + 1)).ToBytes()
			simulate(node.Children[i], cc)
		}
	}
}

func randomChallenge() [ChallengeLen]byte {
	var out [ChallengeLen]byte
	s := RandomScalar()
	b := EncodeScalar(s)
	copy(out[:], b[len(b)-ChallengeLen:])
	return out
}

// collectCommitmentBytes appends the encoded leaf commitments in
// depth-first, left-to-right order (spec §6).
func collectCommitmentBytes(node *proverNode, out *[]byte) {
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
			collectCommitmentBytes(c, out)
		}
	}
}

// assignChallenges propagates the now-known root challenge top-down
// through the real part of the tree, deriving each real node's
// challenge from its parent's (spec §4.G step 3), while leaving the
// already-fixed simulated subtrees untouched.
func assignChallenges(node *proverNode, challenge [ChallengeLen]byte) error {
	if !node.Real {
		return nil // already fully resolved by simulate
	}
	node.Challenge = challenge
	node.hasChallenge = true

	switch node.Kind {
	case KindProveDlog, KindProveDHTuple:
		return nil

	case KindAnd:
		for _, c := range node.Children {
			if err := assignChallenges(c, challenge); err != nil {
				return err
			}
		}
		return nil

	case KindOr:
		running := challenge
		var realChild *proverNode
		for _, c := range node.Children {
			if c.Real {
				realChild = c
				continue
			}
			running = xorChallenge(running, c.Challenge)
		}
		if realChild == nil {
			return wrapf(ErrProverMissingSecret, "COR node has no real child at respond time")
		}
		return assignChallenges(realChild, running)

	case KindThreshold:
		n := len(node.Children)
		k := int(node.Prop.K)
		xs := make([]uint8, 0, n-k+1)
		ys := make([]GF192, 0, n-k+1)
		xs = append(xs, 0)
		ys = append(ys, GF192FromBytes(challenge))
		for i, c := range node.Children {
			if c.Real {
				continue
			}
			xs = append(xs, uint8(i+1))
			ys = append(ys, GF192FromBytes(c.Challenge))
		}
		poly, err := Interpolate(xs, ys)
		if err != nil {
			return err
		}
		node.Poly = poly
		for i, c := range node.Children {
			if !c.Real {
				continue
			}
			if err := assignChallenges(c, poly.Evaluate(uint8(i+1)).ToBytes()); err != nil {
				return err
			}
		}
		return nil

	default:
		return wrapf(ErrInvalidProposition, "assignChallenges: unexpected node kind %v", node.Kind)
	}
}

// respond fills in real leaves' responses now that every node's
// challenge is fixed (spec §4.G step 4): z = r + e*w mod q, or the
// hint-supplied response for a HintForceReal leaf.
func respond(node *proverNode) {
	if !node.Real {
		return // simulated leaves already carry their response
	}
	switch node.Kind {
	case KindProveDlog, KindProveDHTuple:
		if node.fromHint {
			node.Response = node.hint.Response
			return
		}
		e := ChallengeAsScalar(node.Challenge)
		node.Response = scalarMulAdd(node.r, e, node.witness)
	default:
		for _, c := range node.Children {
			respond(c)
		}
	}
}

func scalarMulAdd(r, e, w Scalar) Scalar {
	var ew Scalar
	ew.s.Mul(&e.s, &w.s)
	var z Scalar
	z.s.Add(&r.s, &ew.s)
	return z
}

// proverNodeToUnchecked collapses the working prover tree into the
// same UncheckedTree shape Parse produces, so Serialize can be shared
// between the prover and the parser.
func proverNodeToUnchecked(node *proverNode) *UncheckedTree {
	out := &UncheckedTree{
		Kind:        node.Kind,
		Challenge:   node.Challenge,
		Proposition: node.Prop,
		Response:    node.Response,
		CommitmentA: node.CommitmentA,
		CommitmentB: node.CommitmentB,
		Poly:        node.Poly,
	}
	if node.Kind == KindThreshold {
		out.K = node.Prop.K
	}
	if len(node.Children) > 0 {
		out.Children = make([]*UncheckedTree, len(node.Children))
		for i, c := range node.Children {
			out.Children[i] = proverNodeToUnchecked(c)
		}
	}
	return out
}
