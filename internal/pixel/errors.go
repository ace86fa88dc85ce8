package pixel

import (
	"github.com/pkg/errors"
)

// ErrMalformed is the cause of a DecodeError raised for a variant whose
// sample buffer disagrees with its dimensions.
var ErrMalformed = errors.New("malformed pixel data")

// DecodeError reports that source data could not be interpreted as a
// supported image. It is always fatal to the call that returned it.
type DecodeError struct {
	Op  string // "decode", "normalize"
	Err error
}

func (e *DecodeError) Error() string {
	return "pixel: " + e.Op + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
