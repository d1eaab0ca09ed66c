package sigma

import (
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleBox() *ErgoBox {
	return &ErgoBox{
		Value:          1000000,
		ScriptBytes:    []byte{0x01, 0x02, 0x03},
		CreationHeight: 500000,
		Tokens: []Token{
			{ID: [32]byte{1}, Amount: 10},
		},
		Registers: map[RegisterId]Constant{
			R4: IntConstant(7),
		},
		TransactionID: [32]byte{9},
		Index:         0,
	}
}

func TestBoxBytesRoundTrip(t *testing.T) {
	assert := assert.New(t)

	box := sampleBox()
	opts := SerializeOptions{}
	body, err := box.Bytes(opts)
	assert.Nil(err)
	log.Println("box body length:", len(body))

	parsed, err := ParseBox(body, ParseOptions{})
	assert.Nil(err)
	assert.Equal(box.Value, parsed.Value)
	assert.Equal(box.ScriptBytes, parsed.ScriptBytes)
	assert.Equal(box.CreationHeight, parsed.CreationHeight)
	assert.Equal(box.Tokens, parsed.Tokens)
	assert.Equal(box.Registers, parsed.Registers)
}

func TestBoxIdStableAcrossCalls(t *testing.T) {
	assert := assert.New(t)

	box := sampleBox()
	id1, err := box.Id(SerializeOptions{})
	assert.Nil(err)
	id2, err := box.Id(SerializeOptions{})
	assert.Nil(err)
	assert.Equal(id1, id2)
}

func TestBoxRegisterPackingViolation(t *testing.T) {
	assert := assert.New(t)

	box := sampleBox()
	delete(box.Registers, R4)
	box.Registers[R5] = IntConstant(1)

	_, err := box.Bytes(SerializeOptions{})
	assert.ErrorIs(err, ErrPackingViolation)
}

func TestBoxTooManyTokens(t *testing.T) {
	assert := assert.New(t)

	box := sampleBox()
	for i := 0; i < 256; i++ {
		box.Tokens = append(box.Tokens, Token{ID: [32]byte{byte(i)}, Amount: 1})
	}

	_, err := box.Bytes(SerializeOptions{})
	assert.ErrorIs(err, ErrTooManyTokens)
}

func TestBoxIndexedTokensRoundTrip(t *testing.T) {
	assert := assert.New(t)

	box := sampleBox()
	table := [][32]byte{box.Tokens[0].ID}
	opts := SerializeOptions{IndexedTokens: true, TokenTable: table}

	body, err := box.Bytes(opts)
	assert.Nil(err)

	parsed, err := ParseBox(body, ParseOptions{IndexedTokens: true, TokenTable: table})
	assert.Nil(err)
	assert.Equal(box.Tokens, parsed.Tokens)
}

func TestConstantEncodeDecode(t *testing.T) {
	assert := assert.New(t)

	c := IntConstant(-42)
	buf := c.Encode()
	got, n, err := DecodeConstant(buf)
	assert.Nil(err)
	assert.Equal(len(buf), n)
	assert.Equal(c, got)

	b := BytesConstant([]byte("hello"))
	buf = b.Encode()
	got, n, err = DecodeConstant(buf)
	assert.Nil(err)
	assert.Equal(len(buf), n)
	assert.Equal(b, got)
}

func TestGetRegisterReadsCreationInfo(t *testing.T) {
	assert := assert.New(t)

	box := sampleBox()
	v, ok := box.Get(R3)
	assert.True(ok)
	info, ok := v.(CreationInfo)
	assert.True(ok)
	assert.Equal(box.CreationHeight, info.Height)
}
