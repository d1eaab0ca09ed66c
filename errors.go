package sigma

import "errors"

// Error codes exposed to callers (spec §6). Callers should compare with
// errors.Is; every returned error wraps exactly one of these sentinels.
var (
	ErrMalformedProof     = errors.New("sigma: malformed proof")
	ErrInvalidSignature   = errors.New("sigma: invalid signature")
	ErrInvalidEncoding    = errors.New("sigma: invalid encoding")
	ErrInvalidProposition = errors.New("sigma: invalid proposition")
	ErrOversizeBox        = errors.New("sigma: oversize box")
	ErrPackingViolation   = errors.New("sigma: register packing violation")
	ErrTooManyTokens      = errors.New("sigma: too many tokens")
	ErrRegisterOverflow   = errors.New("sigma: register overflow")
	ErrProverMissingSecret = errors.New("sigma: prover missing secret")
)
