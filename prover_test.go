package sigma

import (
	"encoding/hex"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedWitness(t *testing.T) Scalar {
	t.Helper()
	raw, err := hex.DecodeString("adf47e32000fc75e2923dba482c843c7f6b684cbf2ceec5bfdf5fe6d13cabe50")
	assert.NoError(t, err)
	var b [ScalarOrderLen]byte
	copy(b[ScalarOrderLen-len(raw):], raw)
	return DecodeScalar(b)
}

func TestProveVerifySingleDlogRoundTrip(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	w := fixedWitness(t)
	h := ExpGenerator(w)
	prop := NewProveDlog(h)

	secrets := NewSecretSet()
	secrets.AddDlogSecret(h, w)

	proof, err := Prove(prop, secrets, nil, message)
	assert.Nil(err)

	bytes, err := Serialize(proof)
	assert.Nil(err)
	log.Println("single ProveDlog signature length:", len(bytes))
	assert.NotEmpty(bytes)

	err = Verify(prop, message, bytes)
	assert.Nil(err)
}

func TestVerifyRejectsUnrelatedPublicKey(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	w := fixedWitness(t)
	h := ExpGenerator(w)
	prop := NewProveDlog(h)

	secrets := NewSecretSet()
	secrets.AddDlogSecret(h, w)

	proof, err := Prove(prop, secrets, nil, message)
	assert.Nil(err)
	bytes, err := Serialize(proof)
	assert.Nil(err)

	freshProp := NewProveDlog(ExpGenerator(RandomScalar()))
	err = Verify(freshProp, message, bytes)
	assert.ErrorIs(err, ErrInvalidSignature)
}

func TestCANDTwoDlogProofLength(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	w1, w2 := fixedWitness(t), RandomScalar()
	h1, h2 := ExpGenerator(w1), ExpGenerator(w2)
	prop, err := NewAnd(NewProveDlog(h1), NewProveDlog(h2))
	assert.Nil(err)

	secrets := NewSecretSet()
	secrets.AddDlogSecret(h1, w1)
	secrets.AddDlogSecret(h2, w2)

	proof, err := Prove(prop, secrets, nil, message)
	assert.Nil(err)
	bytes, err := Serialize(proof)
	assert.Nil(err)

	assert.Equal(ChallengeLen+2*ScalarOrderLen, len(bytes))
	assert.Equal(88, len(bytes))

	assert.Nil(Verify(prop, message, bytes))
}

func TestCORTwoDlogOnlyFirstSecretKnownProofLength(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	w1 := fixedWitness(t)
	h1, h2 := ExpGenerator(w1), ExpGenerator(RandomScalar())
	prop, err := NewOr(NewProveDlog(h1), NewProveDlog(h2))
	assert.Nil(err)

	secrets := NewSecretSet()
	secrets.AddDlogSecret(h1, w1)

	proof, err := Prove(prop, secrets, nil, message)
	assert.Nil(err)
	bytes, err := Serialize(proof)
	assert.Nil(err)

	assert.Equal(ChallengeLen+(ChallengeLen+ScalarOrderLen)+ScalarOrderLen, len(bytes))
	assert.Equal(112, len(bytes))

	parsed, err := Parse(prop, bytes)
	assert.Nil(err)
	xor := xorChallenge(parsed.Children[0].Challenge, parsed.Children[1].Challenge)
	assert.Equal(parsed.Challenge, xor)

	assert.Nil(Verify(prop, message, bytes))
}

func TestCThresholdTwoOfThreeProofShape(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	w1, w2 := fixedWitness(t), RandomScalar()
	h1, h2, h3 := ExpGenerator(w1), ExpGenerator(w2), ExpGenerator(RandomScalar())
	prop, err := NewThreshold(2, NewProveDlog(h1), NewProveDlog(h2), NewProveDlog(h3))
	assert.Nil(err)

	secrets := NewSecretSet()
	secrets.AddDlogSecret(h1, w1)
	secrets.AddDlogSecret(h2, w2)

	proof, err := Prove(prop, secrets, nil, message)
	assert.Nil(err)
	assert.NotNil(proof.Poly)
	assert.Len(proof.Poly.ToBytes(false), 24)

	bytes, err := Serialize(proof)
	assert.Nil(err)
	assert.Nil(Verify(prop, message, bytes))

	for i := range proof.Children {
		got := proof.Poly.Evaluate(uint8(i + 1))
		assert.Equal(got.ToBytes(), proof.Children[i].Challenge)
	}
	assert.Equal(GF192FromBytes(proof.Challenge), proof.Poly.Evaluate(0))
}

func TestTamperingFlipsVerification(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	w := fixedWitness(t)
	h := ExpGenerator(w)
	prop := NewProveDlog(h)

	secrets := NewSecretSet()
	secrets.AddDlogSecret(h, w)

	proof, err := Prove(prop, secrets, nil, message)
	assert.Nil(err)
	bytes, err := Serialize(proof)
	assert.Nil(err)

	tampered := append([]byte(nil), bytes...)
	tampered[len(tampered)-1] ^= 0x01
	assert.ErrorIs(Verify(prop, message, tampered), ErrInvalidSignature)

	assert.ErrorIs(Verify(prop, []byte{1, 2, 4}, bytes), ErrInvalidSignature)
}

func TestParseTruncationFailsWithMalformedProof(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	w := fixedWitness(t)
	h := ExpGenerator(w)
	prop := NewProveDlog(h)
	secrets := NewSecretSet()
	secrets.AddDlogSecret(h, w)

	proof, err := Prove(prop, secrets, nil, message)
	assert.Nil(err)
	bytes, err := Serialize(proof)
	assert.Nil(err)

	for _, cut := range []int{1, 5, len(bytes) - 1} {
		_, err := Parse(prop, bytes[:len(bytes)-cut])
		assert.ErrorIs(err, ErrMalformedProof, "cut=%d", cut)
	}
}

func TestProveMissingSecretFails(t *testing.T) {
	assert := assert.New(t)

	prop := NewProveDlog(ExpGenerator(RandomScalar()))
	_, err := Prove(prop, NewSecretSet(), nil, []byte("m"))
	assert.ErrorIs(err, ErrProverMissingSecret)
}

func TestHintForceSimulatedOverridesKnownSecret(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	w1, w2 := fixedWitness(t), RandomScalar()
	h1, h2 := ExpGenerator(w1), ExpGenerator(w2)
	prop, err := NewOr(NewProveDlog(h1), NewProveDlog(h2))
	assert.Nil(err)

	secrets := NewSecretSet()
	secrets.AddDlogSecret(h1, w1)
	secrets.AddDlogSecret(h2, w2)

	hints := NewHintsBag()
	hints.Add(&Hint{Kind: HintForceSimulated, Leaf: NewProveDlog(h1)})

	proof, err := Prove(prop, secrets, hints, message)
	assert.Nil(err)

	bytes, err := Serialize(proof)
	assert.Nil(err)
	assert.Nil(Verify(prop, message, bytes))
}

func TestProveVerifyDHTupleRoundTrip(t *testing.T) {
	assert := assert.New(t)
	message := []byte{1, 2, 3}

	g := Generator()
	altH := AuxiliaryGenerator()
	w := fixedWitness(t)
	u := Exp(g, w)
	v := Exp(altH, w)
	prop := NewProveDHTuple(g, altH, u, v)

	secrets := NewSecretSet()
	secrets.AddDHTupleSecret(u, w)

	proof, err := Prove(prop, secrets, nil, message)
	assert.Nil(err)
	bytes, err := Serialize(proof)
	assert.Nil(err)
	assert.Equal(ChallengeLen+ScalarOrderLen, len(bytes))

	assert.Nil(Verify(prop, message, bytes))
}
