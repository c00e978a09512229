package quadmind

import (
	"errors"
	"fmt"

	"github.com/autergame/quadmind/internal/container"
)

// ErrorKind classifies the failures quadmind can return, letting callers
// branch on the Kind of a *quadmind.Error obtained with errors.As (target
// of type **quadmind.Error) without string matching.
type ErrorKind int

const (
	ErrIO ErrorKind = iota
	ErrContainerSignatureMismatch
	ErrContainerIntegrityMismatch
	ErrContainerMalformed
	ErrUnsupportedBlockSize
	ErrInvalidConfig
)

func (k ErrorKind) String() string {
	switch k {
	case ErrIO:
		return "io"
	case ErrContainerSignatureMismatch:
		return "container signature mismatch"
	case ErrContainerIntegrityMismatch:
		return "container integrity mismatch"
	case ErrContainerMalformed:
		return "container malformed"
	case ErrUnsupportedBlockSize:
		return "unsupported block size"
	case ErrInvalidConfig:
		return "invalid config"
	default:
		return "unknown"
	}
}

// Error is the structured error type returned by quadmind's public API.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("quadmind: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("quadmind: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func invalidBlockSizeErr(n int) error {
	return fmt.Errorf("block size %d not in {2,4,...,512}", n)
}

func invalidRangeErr(field string, lo, hi, got int) error {
	return fmt.Errorf("%s = %d out of range [%d,%d]", field, got, lo, hi)
}

func minExceedsMaxErr(min, max int) error {
	return fmt.Errorf("min_size %d exceeds max_size %d", min, max)
}

func invalidBlockSizeFor2x2Err(field string) error {
	return fmt.Errorf("%s = 2 requires 4:4:4 subsampling (non-4:4:4 subsampling needs a padded width that is a multiple of 4)", field)
}

// wrapContainerErr classifies an error returned from internal/container
// into the matching structured Error
func wrapContainerErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var sig *container.SignatureMismatchError
	if errors.As(err, &sig) {
		return &Error{Kind: ErrContainerSignatureMismatch, Op: op, Err: err}
	}
	var integrity *container.IntegrityMismatchError
	if errors.As(err, &integrity) {
		return &Error{Kind: ErrContainerIntegrityMismatch, Op: op, Err: err}
	}
	var malformed *container.MalformedError
	if errors.As(err, &malformed) {
		return &Error{Kind: ErrContainerMalformed, Op: op, Err: err}
	}
	return &Error{Kind: ErrIO, Op: op, Err: err}
}
