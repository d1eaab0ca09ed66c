package sigma

// HintsBag generalizes teacher's single-known-secret assumption in
// signRing (mlsag.go) to support partial knowledge: a coordinator can
// mark leaves real without holding the witness itself (because another
// party already produced a commitment/response for that leaf), or force
// a leaf to simulate even if a secret happens to be available (spec
// §4.G step 1, §12 "Hints bag" supplement).

// SecretSet maps a leaf's public image, encoded via EncodePoint, to the
// witness scalar the prover holds for it.
type SecretSet struct {
	dlogSecrets    map[[PointLen]byte]Scalar
	dhtupleSecrets map[[PointLen]byte]Scalar
}

// NewSecretSet builds an empty secret set.
func NewSecretSet() *SecretSet {
	return &SecretSet{
		dlogSecrets:    map[[PointLen]byte]Scalar{},
		dhtupleSecrets: map[[PointLen]byte]Scalar{},
	}
}

// AddDlogSecret registers the witness w for a ProveDlog(h=g^w) leaf.
func (s *SecretSet) AddDlogSecret(h Point, w Scalar) {
	s.dlogSecrets[EncodePoint(h)] = w
}

// AddDHTupleSecret registers the witness w for a ProveDHTuple leaf,
// keyed by its u component (u = g^w).
func (s *SecretSet) AddDHTupleSecret(u Point, w Scalar) {
	s.dhtupleSecrets[EncodePoint(u)] = w
}

func (s *SecretSet) lookup(leaf *SigmaBoolean) (Scalar, bool) {
	if s == nil {
		return Scalar{}, false
	}
	switch leaf.Kind {
	case KindProveDlog:
		w, ok := s.dlogSecrets[EncodePoint(leaf.Dlog.H)]
		return w, ok
	case KindProveDHTuple:
		w, ok := s.dhtupleSecrets[EncodePoint(leaf.DHTuple.U)]
		return w, ok
	default:
		return Scalar{}, false
	}
}

// HintKind distinguishes the two ways a hint can steer leaf marking.
type HintKind int

const (
	// HintForceReal marks a leaf real even without a local witness,
	// supplying the response (and, for ProveDHTuple, both commitments)
	// a cosigner already computed.
	HintForceReal HintKind = iota
	// HintForceSimulated marks a leaf simulated even if a witness for
	// it is present in the SecretSet.
	HintForceSimulated
)

// Hint steers prover leaf marking for one leaf (identified by its image).
type Hint struct {
	Kind        HintKind
	Leaf        *SigmaBoolean
	Commitment  Point // ProveDlog, or ProveDHTuple's first commitment
	CommitmentB Point // ProveDHTuple's second commitment
	Response    Scalar
}

// HintsBag is an unordered collection of Hints, keyed internally by the
// leaf's encoded image for O(1) lookup during marking.
type HintsBag struct {
	byImage map[[PointLen]byte]*Hint
}

// NewHintsBag builds an empty hints bag.
func NewHintsBag() *HintsBag {
	return &HintsBag{byImage: map[[PointLen]byte]*Hint{}}
}

func leafImageKey(leaf *SigmaBoolean) ([PointLen]byte, bool) {
	switch leaf.Kind {
	case KindProveDlog:
		return EncodePoint(leaf.Dlog.H), true
	case KindProveDHTuple:
		return EncodePoint(leaf.DHTuple.U), true
	default:
		return [PointLen]byte{}, false
	}
}

// Add inserts or replaces the hint for h.Leaf's image.
func (hb *HintsBag) Add(h *Hint) {
	key, ok := leafImageKey(h.Leaf)
	if !ok {
		return
	}
	hb.byImage[key] = h
}

func (hb *HintsBag) lookup(leaf *SigmaBoolean) (*Hint, bool) {
	if hb == nil {
		return nil, false
	}
	key, ok := leafImageKey(leaf)
	if !ok {
		return nil, false
	}
	h, ok := hb.byImage[key]
	return h, ok
}
