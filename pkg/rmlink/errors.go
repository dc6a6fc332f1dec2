package rmlink

import (
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer indicates the declared or implied length exceeds the available bytes.
	ErrShortBuffer = errors.New("short buffer")
	// ErrChecksum indicates a checksum mismatch.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrClosed indicates the link is no longer running.
	ErrClosed = errors.New("link closed")
)

// UnknownTypeError reports a parameter base type not understood by the decoder.
type UnknownTypeError struct {
	Type byte
}

// Error implements error.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown parameter type %d", e.Type)
}

// DecodeFailure is a non-fatal failure decoding one parameter.
type DecodeFailure struct {
	ID  byte
	Err error
}

// Error implements error.
func (f DecodeFailure) Error() string {
	return fmt.Sprintf("param %d: %v", f.ID, f.Err)
}

// Unwrap returns the underlying error.
func (f DecodeFailure) Unwrap() error {
	return f.Err
}
