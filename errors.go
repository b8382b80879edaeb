package ion

import (
	"fmt"

	"golang.org/x/xerrors"
)

// ErrorKind distinguishes the two error kinds a Cursor or Reader can return:
// Io (the byte source misbehaved) and Decoding (the bytes it returned don't
// parse as valid Ion). Contract violations such as reading the same value
// twice are never reported as either kind; they panic instead.
type ErrorKind uint8

const (
	// KindIO marks an error propagated from the byte source.
	KindIO ErrorKind = iota
	// KindDecoding marks a malformed-encoding error.
	KindDecoding
)

func (k ErrorKind) String() string {
	if k == KindIO {
		return "io"
	}
	return "decoding"
}

// Kind classifies err as KindIO or KindDecoding. Truncation counts as
// KindIO even when the cursor was mid-value: running out of bytes is the
// source's doing, not the encoding's. Errors that are neither of this
// package's typed errors are treated as KindDecoding, since by the time
// they reach the caller the cursor has already given up trying to make
// sense of the bytes.
func Kind(err error) ErrorKind {
	var ioErr *IOError
	if xerrors.As(err, &ioErr) {
		return KindIO
	}
	var eofErr *UnexpectedEOFError
	if xerrors.As(err, &eofErr) {
		return KindIO
	}
	return KindDecoding
}

// An IOError wraps a failure from the underlying ByteSource: truncation, a
// read error, or a failed seek.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("ion: i/o error: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// A SyntaxError is returned for malformed Ion input with no more specific
// error type.
type SyntaxError struct {
	Msg    string
	Offset uint64
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ion: syntax error: %v (offset %v)", e.Msg, e.Offset)
}

// An UnexpectedEOFError is returned when the byte source runs out of data
// in the middle of a value the cursor has already committed to decoding.
// It classifies as KindIO: the truncation is the source's, even though
// the cursor notices it mid-decode.
type UnexpectedEOFError struct {
	Offset uint64
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("ion: unexpected end of input (offset %v)", e.Offset)
}

// An UnsupportedVersionError is returned when a binary version marker names
// a major.minor version this package does not understand.
type UnsupportedVersionError struct {
	Major  int
	Minor  int
	Offset uint64
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("ion: unsupported version %v.%v (offset %v)", e.Major, e.Minor, e.Offset)
}

// An InvalidTagByteError is returned when the cursor encounters a header
// byte whose type code/length code combination is reserved or invalid in
// context.
type InvalidTagByteError struct {
	Byte   byte
	Offset uint64
}

func (e *InvalidTagByteError) Error() string {
	return fmt.Sprintf("ion: invalid tag byte 0x%02X (offset %v)", e.Byte, e.Offset)
}

// An UnexpectedTokenError is returned when a value's body fails a
// content-level check, such as a string body that isn't valid UTF-8.
type UnexpectedTokenError struct {
	Token  string
	Offset uint64
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("ion: unexpected token %q (offset %v)", e.Token, e.Offset)
}

// usage panics with a contract-violation message. Per the error handling
// design, reading the same value twice, stepping out of the root, and
// stepping into a non-container are programmer errors, not Decoding errors,
// and are never returned to the caller as an error value.
func usage(api, msg string) {
	panic(fmt.Sprintf("ion: usage error in %v: %v", api, msg))
}
