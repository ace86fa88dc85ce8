package encoder

import (
	"github.com/pkg/errors"
)

var (
	// ErrCodecUnavailable means the external engine is not installed.
	ErrCodecUnavailable = errors.New("avifenc not found in PATH; install with: brew install libavif / apt install libavif-bin")
	// ErrEmptyBuffer is returned for nil or zero-sized buffers.
	ErrEmptyBuffer = errors.New("empty pixel buffer")
	// ErrBufferSize is returned when len(Pix) != Width*Height.
	ErrBufferSize = errors.New("pixel count does not match dimensions")
	// ErrTooLarge is returned for dimensions the container cannot hold.
	ErrTooLarge = errors.New("image dimensions exceed encoder limit")
)

// EncodeError reports that the engine rejected the buffer or parameters
// or failed while compressing. It is never retried.
type EncodeError struct {
	Op  string // "validate", "stage", "run", "inspect"
	Err error
}

func (e *EncodeError) Error() string {
	return "encoder: " + e.Op + ": " + e.Err.Error()
}

func (e *EncodeError) Unwrap() error { return e.Err }
