package sigma

// Box/register container (spec §4.D) — the deterministic binary layout
// of the object a sigma signature is produced over. Grounded on
// teacher's output.go/tx_prefix.go, which build and canonically digest
// an analogous value+commitment+token container (TxOut/Amount) before
// it ever reaches a challenge hash; ErgoBox generalizes that to an
// arbitrary set of typed registers.
//
// The real platform's script collaborator (ErgoTree) frames scriptBytes
// with its own self-delimiting header; that collaborator is explicitly
// out of scope here (spec §1), so this package stands in with its own
// varint length prefix around the opaque script blob rather than
// depending on ErgoTree internals it doesn't have.

import (
	"encoding/binary"
	"fmt"
)

const maxBoxBytes = 4096

// Token pairs a 32-byte identifier with an amount colocated with a box.
type Token struct {
	ID     [32]byte
	Amount uint64
}

// ErgoBox is the immutable UTXO container (spec §3).
type ErgoBox struct {
	Value          uint64
	ScriptBytes    []byte
	CreationHeight uint32
	Tokens         []Token
	Registers      map[RegisterId]Constant // only R4..R9 keys are valid
	TransactionID  [32]byte
	Index          uint16
}

// SerializeOptions selects the token-encoding variant (spec §4.D item 5).
type SerializeOptions struct {
	// IndexedTokens, when true, writes each token as a varint index into
	// TokenTable instead of its raw 32-byte id.
	IndexedTokens bool
	TokenTable    [][32]byte
}

// CreationInfo is the derived value of register R3.
type CreationInfo struct {
	Height       uint32
	TransactionID [32]byte
	Index        uint16
}

func nonMandatoryRegisterIDs() []RegisterId {
	return []RegisterId{R4, R5, R6, R7, R8, R9}
}

func (b *ErgoBox) validate(opts SerializeOptions) error {
	if len(b.Tokens) > 255 {
		return wrapf(ErrTooManyTokens, "box has %d tokens", len(b.Tokens))
	}
	if len(b.Registers) > maxNonMandatoryRegisters {
		return wrapf(ErrRegisterOverflow, "box has %d non-mandatory registers, max %d", len(b.Registers), maxNonMandatoryRegisters)
	}
	seenGap := false
	for i, id := range nonMandatoryRegisterIDs() {
		_, present := b.Registers[id]
		if !present {
			seenGap = true
			continue
		}
		if seenGap {
			return wrapf(ErrPackingViolation, "register %d set after a gap at index %d", id, i)
		}
	}
	if opts.IndexedTokens {
		for _, t := range b.Tokens {
			if tokenIndex(opts.TokenTable, t.ID) < 0 {
				return wrapf(ErrInvalidProposition, "token id not present in digest table")
			}
		}
	}
	return nil
}

func tokenIndex(table [][32]byte, id [32]byte) int {
	for i, t := range table {
		if t == id {
			return i
		}
	}
	return -1
}

// regCount returns the number of densely-packed non-mandatory registers.
func (b *ErgoBox) regCount() int {
	count := 0
	for _, id := range nonMandatoryRegisterIDs() {
		if _, ok := b.Registers[id]; !ok {
			break
		}
		count++
	}
	return count
}

// Bytes serializes the box body per spec §4.D.
func (b *ErgoBox) Bytes(opts SerializeOptions) ([]byte, error) {
	if err := b.validate(opts); err != nil {
		return nil, err
	}

	var out []byte
	out = appendUvarint(out, b.Value)

	scriptLen := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(scriptLen, uint64(len(b.ScriptBytes)))
	out = append(out, scriptLen[:n]...)
	out = append(out, b.ScriptBytes...)

	out = appendUvarint(out, uint64(b.CreationHeight))

	out = append(out, byte(len(b.Tokens)))
	for _, t := range b.Tokens {
		if opts.IndexedTokens {
			idx := tokenIndex(opts.TokenTable, t.ID)
			out = appendUvarint(out, uint64(idx))
		} else {
			out = append(out, t.ID[:]...)
		}
		out = appendUvarint(out, t.Amount)
	}

	regCount := b.regCount()
	out = append(out, byte(regCount))
	for _, id := range nonMandatoryRegisterIDs()[:regCount] {
		out = append(out, b.Registers[id].Encode()...)
	}

	if len(out) > maxBoxBytes {
		return nil, wrapf(ErrOversizeBox, "box is %d bytes, max %d", len(out), maxBoxBytes)
	}
	return out, nil
}

func appendUvarint(buf []byte, v uint64) []byte {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	return append(buf, tmp[:n]...)
}

// ParseOptions mirrors SerializeOptions for the reverse direction.
type ParseOptions struct {
	IndexedTokens bool
	TokenTable    [][32]byte
}

// ParseBox parses a box body produced by Bytes. TransactionID and Index
// are not part of the body and must be supplied by the caller (they are
// only mixed in for Id()).
func ParseBox(buf []byte, opts ParseOptions) (*ErgoBox, error) {
	if len(buf) > maxBoxBytes {
		return nil, wrapf(ErrOversizeBox, "box is %d bytes, max %d", len(buf), maxBoxBytes)
	}
	b := &ErgoBox{Registers: map[RegisterId]Constant{}}

	value, n, err := readUvarint(buf)
	if err != nil {
		return nil, err
	}
	b.Value = value
	buf = buf[n:]

	scriptLen, n, err := readUvarint(buf)
	if err != nil {
		return nil, err
	}
	buf = buf[n:]
	if uint64(len(buf)) < scriptLen {
		return nil, wrapf(ErrMalformedProof, "box: truncated script bytes")
	}
	b.ScriptBytes = append([]byte(nil), buf[:scriptLen]...)
	buf = buf[scriptLen:]

	height, n, err := readUvarint(buf)
	if err != nil {
		return nil, err
	}
	b.CreationHeight = uint32(height)
	buf = buf[n:]

	if len(buf) < 1 {
		return nil, wrapf(ErrMalformedProof, "box: missing token count")
	}
	tokenCount := int(buf[0])
	buf = buf[1:]
	for i := 0; i < tokenCount; i++ {
		var id [32]byte
		if opts.IndexedTokens {
			idx, n, err := readUvarint(buf)
			if err != nil {
				return nil, err
			}
			if int(idx) >= len(opts.TokenTable) {
				return nil, wrapf(ErrMalformedProof, "box: token index %d out of range", idx)
			}
			id = opts.TokenTable[idx]
			buf = buf[n:]
		} else {
			if len(buf) < 32 {
				return nil, wrapf(ErrMalformedProof, "box: truncated token id")
			}
			copy(id[:], buf[:32])
			buf = buf[32:]
		}
		amount, n, err := readUvarint(buf)
		if err != nil {
			return nil, err
		}
		buf = buf[n:]
		b.Tokens = append(b.Tokens, Token{ID: id, Amount: amount})
	}

	if len(buf) < 1 {
		return nil, wrapf(ErrMalformedProof, "box: missing register count")
	}
	regCount := int(buf[0])
	buf = buf[1:]
	if regCount > maxNonMandatoryRegisters {
		return nil, wrapf(ErrRegisterOverflow, "box: register count %d exceeds %d", regCount, maxNonMandatoryRegisters)
	}
	ids := nonMandatoryRegisterIDs()
	for i := 0; i < regCount; i++ {
		c, n, err := DecodeConstant(buf)
		if err != nil {
			return nil, err
		}
		b.Registers[ids[i]] = c
		buf = buf[n:]
	}

	if len(buf) != 0 {
		return nil, wrapf(ErrMalformedProof, "box: %d trailing bytes", len(buf))
	}
	return b, nil
}

func readUvarint(buf []byte) (uint64, int, error) {
	v, n := binary.Uvarint(buf)
	if n <= 0 {
		return 0, 0, wrapf(ErrMalformedProof, "box: truncated varint")
	}
	return v, n, nil
}

// Id is the cryptographic digest of the box's full byte image, including
// the transactionId/index suffix (spec §4.D/§6).
func (b *ErgoBox) Id(opts SerializeOptions) ([32]byte, error) {
	body, err := b.Bytes(opts)
	if err != nil {
		return [32]byte{}, err
	}
	full := append(append([]byte{}, body...), b.TransactionID[:]...)
	full = append(full, byte(b.Index), byte(b.Index>>8))
	return Hash(full), nil
}

// Get reads a register's value (spec §4.D read side). R0..R3 are derived
// from the box's other fields; R4..R9 return the stored constant.
func (b *ErgoBox) Get(id RegisterId) (interface{}, bool) {
	switch id {
	case R0:
		return b.Value, true
	case R1:
		return b.ScriptBytes, true
	case R2:
		return b.Tokens, true
	case R3:
		return CreationInfo{Height: b.CreationHeight, TransactionID: b.TransactionID, Index: b.Index}, true
	default:
		if id < R4 || id > R9 {
			return nil, false
		}
		c, ok := b.Registers[id]
		return c, ok
	}
}

func (b *ErgoBox) String() string {
	return fmt.Sprintf("ErgoBox{value=%d, tokens=%d, regs=%d}", b.Value, len(b.Tokens), len(b.Registers))
}
