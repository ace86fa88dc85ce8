package encoder

import (
	"github.com/kolserdav/ravif-go/internal/pixel"
)

// Encoder compresses a canonical pixel buffer.
type Encoder interface {
	// Format returns the output format name (e.g. "avif").
	Format() string

	// Encode compresses buf under p. Failures are *EncodeError.
	Encode(buf *pixel.Buffer, p Params) (*Result, error)

	// Available returns true if the encoder is ready to use.
	// External engines (avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}

// Result is the compressed artifact plus the coded size of each plane.
// The sizes are informational and not part of the artifact.
type Result struct {
	Data          []byte
	ColorByteSize int
	AlphaByteSize int
}

// Default is the engine used by the package-level Encode.
var Default Encoder = &AVIFEncoder{}

// Encode compresses buf with the Default engine.
func Encode(buf *pixel.Buffer, p Params) (*Result, error) {
	return Default.Encode(buf, p)
}
