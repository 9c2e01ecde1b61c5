package types

import (
	"errors"
	"fmt"
)

// ErrorCode is the stable 16-bit error code surfaced across the
// program's external interface. Clients match on the code, not on the
// Go error's string form, since the string form is free to change.
type ErrorCode uint16

// Error codes, fixed for on-chain binary compatibility.
const (
	ErrUnauthorized        ErrorCode = 0x1770
	ErrExtDataHashMismatch ErrorCode = 0x1771
	ErrUnknownRoot         ErrorCode = 0x1772
	ErrDepositLimitExceeded ErrorCode = 0x1773
	ErrInvalidMintAddress  ErrorCode = 0x1774
	ErrInvalidProof        ErrorCode = 0x1775
	ErrInvalidFeeRate      ErrorCode = 0x1776
	ErrArithmeticOverflow  ErrorCode = 0x1777
	ErrTreeFull            ErrorCode = 0x1778
	ErrRecipientMismatch   ErrorCode = 0x1779
)

var errCodeNames = map[ErrorCode]string{
	ErrUnauthorized:         "unauthorized",
	ErrExtDataHashMismatch:  "ext data hash mismatch",
	ErrUnknownRoot:          "unknown root",
	ErrDepositLimitExceeded: "deposit limit exceeded",
	ErrInvalidMintAddress:   "invalid mint address",
	ErrInvalidProof:         "invalid proof",
	ErrInvalidFeeRate:       "invalid fee rate",
	ErrArithmeticOverflow:   "arithmetic overflow",
	ErrTreeFull:             "tree full",
	ErrRecipientMismatch:    "recipient mismatch",
}

// String returns the human-readable name of the error code.
func (c ErrorCode) String() string {
	if s, ok := errCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("unknown error code 0x%04x", uint16(c))
}

// ProtocolError wraps a stable ErrorCode with optional extra context.
// Callers that need the wire-stable code recover it with AsErrorCode;
// callers that only care whether a particular failure occurred use
// errors.Is against the package-level sentinels below.
type ProtocolError struct {
	Code    ErrorCode
	Context string
}

func (e *ProtocolError) Error() string {
	if e.Context == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code.String(), e.Context)
}

// Is reports whether target is a ProtocolError with the same code,
// which is what errors.Is(err, SentinelXxx) checks against.
func (e *ProtocolError) Is(target error) bool {
	other, ok := target.(*ProtocolError)
	if !ok {
		return false
	}
	return e.Code == other.Code
}

// NewError builds a ProtocolError for the given code with context.
func NewError(code ErrorCode, context string) *ProtocolError {
	return &ProtocolError{Code: code, Context: context}
}

// AsErrorCode extracts the wire-stable code from err, if it is (or
// wraps) a *ProtocolError.
func AsErrorCode(err error) (ErrorCode, bool) {
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		return 0, false
	}
	return pe.Code, true
}

// Sentinel instances for errors.Is comparisons that don't need
// per-call context.
var (
	SentinelUnauthorized         = &ProtocolError{Code: ErrUnauthorized}
	SentinelExtDataHashMismatch  = &ProtocolError{Code: ErrExtDataHashMismatch}
	SentinelUnknownRoot          = &ProtocolError{Code: ErrUnknownRoot}
	SentinelDepositLimitExceeded = &ProtocolError{Code: ErrDepositLimitExceeded}
	SentinelInvalidMintAddress   = &ProtocolError{Code: ErrInvalidMintAddress}
	SentinelInvalidProof         = &ProtocolError{Code: ErrInvalidProof}
	SentinelInvalidFeeRate       = &ProtocolError{Code: ErrInvalidFeeRate}
	SentinelArithmeticOverflow   = &ProtocolError{Code: ErrArithmeticOverflow}
	SentinelTreeFull             = &ProtocolError{Code: ErrTreeFull}
	SentinelRecipientMismatch    = &ProtocolError{Code: ErrRecipientMismatch}
)
