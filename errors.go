// errors.go defines the public error types for the vorbis package.

package vorbis

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies a decode failure per the Vorbis I error taxonomy
// (spec section 7). Every error returned by this package can be matched
// against a Kind via errors.As, or against the sentinel Err* values below
// via errors.Is.
type ErrorKind uint8

const (
	// KindIoShort means the bitstream ran out of bits before a read completed.
	KindIoShort ErrorKind = iota
	// KindInvalidHeader means the identification or setup header failed validation.
	KindInvalidHeader
	// KindInvalidCodebook means a codebook's Huffman tree or VQ lookup is malformed.
	KindInvalidCodebook
	// KindInvalidFloor means a floor configuration or per-channel read is malformed.
	KindInvalidFloor
	// KindInvalidResidue means a residue configuration or per-channel read is malformed.
	KindInvalidResidue
	// KindInvalidMapping means a channel mapping is malformed or out of range.
	KindInvalidMapping
	// KindInvalidMode means a mode's reserved fields are nonzero or its mapping is out of range.
	KindInvalidMode
	// KindInvalidCode means a Huffman walk escaped the prefix tree.
	KindInvalidCode
	// KindPacketTypeMismatch means the first bit of an audio packet was set.
	KindPacketTypeMismatch
	// KindUnsupported means the stream needs a feature this decoder does not
	// implement (more than 8 channels, a non-zero Vorbis version, or missing
	// extra data).
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindIoShort:
		return "io_short"
	case KindInvalidHeader:
		return "invalid_header"
	case KindInvalidCodebook:
		return "invalid_codebook"
	case KindInvalidFloor:
		return "invalid_floor"
	case KindInvalidResidue:
		return "invalid_residue"
	case KindInvalidMapping:
		return "invalid_mapping"
	case KindInvalidMode:
		return "invalid_mode"
	case KindInvalidCode:
		return "invalid_code"
	case KindPacketTypeMismatch:
		return "packet_type_mismatch"
	case KindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// DecodeError wraps an ErrorKind with a human-readable message and,
// optionally, the lower-level cause that produced it. errors.Is(err,
// ErrInvalidHeader) matches regardless of message or wrapped cause.
type DecodeError struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *DecodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("vorbis: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("vorbis: %s", e.msg)
}

func (e *DecodeError) Unwrap() error { return e.err }

// Is reports whether target is the sentinel for this error's Kind.
func (e *DecodeError) Is(target error) bool {
	de, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return de.Kind == e.Kind
}

func newErr(kind ErrorKind, msg string) *DecodeError {
	return &DecodeError{Kind: kind, msg: msg}
}

// wrapErr builds a *DecodeError for kind, wrapping cause with
// github.com/pkg/errors so the offending bitstream position or field name
// survives in the formatted message and in %+v stack traces.
func wrapErr(kind ErrorKind, msg string, cause error) *DecodeError {
	return &DecodeError{Kind: kind, msg: msg, err: errors.WithStack(cause)}
}

// Sentinel errors, one per ErrorKind, usable with errors.Is.
var (
	ErrIoShort            = newErr(KindIoShort, "ran out of bits")
	ErrInvalidHeader      = newErr(KindInvalidHeader, "invalid header")
	ErrInvalidCodebook    = newErr(KindInvalidCodebook, "invalid codebook")
	ErrInvalidFloor       = newErr(KindInvalidFloor, "invalid floor")
	ErrInvalidResidue     = newErr(KindInvalidResidue, "invalid residue")
	ErrInvalidMapping     = newErr(KindInvalidMapping, "invalid mapping")
	ErrInvalidMode        = newErr(KindInvalidMode, "invalid mode")
	ErrInvalidCode        = newErr(KindInvalidCode, "invalid code")
	ErrPacketTypeMismatch = newErr(KindPacketTypeMismatch, "not an audio packet")
	ErrUnsupported        = newErr(KindUnsupported, "unsupported stream")
)
