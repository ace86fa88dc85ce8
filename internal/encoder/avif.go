package encoder

import (
	"fmt"
	"image/png"
	"math"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/kolserdav/ravif-go/internal/avif"
	"github.com/kolserdav/ravif-go/internal/pixel"
	"github.com/pkg/errors"
)

// MaxDimension is the largest width or height accepted for encoding.
const MaxDimension = 65535

// Atomic counter for unique temp file names across goroutines.
var tempCounter atomic.Int64

// AVIFEncoder encodes buffers to AVIF by shelling out to avifenc
// (libavif 1.0 or newer).
// Install: brew install libavif / apt install libavif-bin
type AVIFEncoder struct {
	// Binary is the avifenc executable name or path. Empty means "avifenc".
	Binary string

	once        sync.Once
	available   bool
	avifencPath string
}

func (e *AVIFEncoder) Format() string    { return "avif" }
func (e *AVIFEncoder) Extension() string { return "avif" }

func (e *AVIFEncoder) Available() bool {
	e.once.Do(func() {
		name := e.Binary
		if name == "" {
			name = "avifenc"
		}
		path, err := exec.LookPath(name)
		if err == nil {
			e.available = true
			e.avifencPath = path
		}
	})
	return e.available
}

func (e *AVIFEncoder) Encode(buf *pixel.Buffer, p Params) (*Result, error) {
	if err := checkBuffer(buf); err != nil {
		return nil, &EncodeError{Op: "validate", Err: err}
	}
	if !p.valid() {
		return nil, &EncodeError{Op: "validate", Err: errors.Wrap(ErrInvalidParams, "params not built with NewParams")}
	}
	if !e.Available() {
		return nil, &EncodeError{Op: "validate", Err: ErrCodecUnavailable}
	}

	staged := buf
	if p.AlphaColorMode() == AlphaUnassociatedClean && !buf.Opaque() {
		staged = clearTransparent(buf)
	}

	id := tempCounter.Add(1)
	srcFile, err := os.CreateTemp("", fmt.Sprintf("ravif_src_%d_*.png", id))
	if err != nil {
		return nil, &EncodeError{Op: "stage", Err: errors.Wrap(err, "create temp")}
	}
	srcPath := srcFile.Name()
	defer os.Remove(srcPath)

	dstFile, err := os.CreateTemp("", fmt.Sprintf("ravif_dst_%d_*.avif", id))
	if err != nil {
		srcFile.Close()
		return nil, &EncodeError{Op: "stage", Err: errors.Wrap(err, "create temp")}
	}
	dstPath := dstFile.Name()
	dstFile.Close()
	defer os.Remove(dstPath)

	enc := &png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(srcFile, staged.ToNRGBA()); err != nil {
		srcFile.Close()
		return nil, &EncodeError{Op: "stage", Err: errors.Wrap(err, "encode temp png")}
	}
	if err := srcFile.Close(); err != nil {
		return nil, &EncodeError{Op: "stage", Err: errors.Wrap(err, "close temp png")}
	}

	args := append(engineArgs(p), srcPath, dstPath)
	cmd := exec.Command(e.avifencPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, &EncodeError{Op: "run", Err: errors.Wrapf(err, "avifenc: %s", out)}
	}

	data, err := os.ReadFile(dstPath)
	if err != nil {
		return nil, &EncodeError{Op: "run", Err: errors.Wrap(err, "read output")}
	}
	info, err := avif.Parse(data)
	if err != nil {
		return nil, &EncodeError{Op: "inspect", Err: errors.Wrap(err, "parse output")}
	}

	return &Result{
		Data:          data,
		ColorByteSize: info.ColorItemSize,
		AlphaByteSize: info.AlphaItemSize,
	}, nil
}

// engineArgs translates p into avifenc flags. Color and alpha quality
// stay separate; threads == 0 leaves --jobs to the engine.
func engineArgs(p Params) []string {
	args := []string{
		"--qcolor", strconv.Itoa(int(math.Round(p.Quality()))),
		"--qalpha", strconv.Itoa(int(math.Round(p.AlphaQuality()))),
		"--speed", strconv.Itoa(int(p.Speed())),
	}
	if p.Threads() > 0 {
		args = append(args, "--jobs", strconv.FormatUint(uint64(p.Threads()), 10))
	}
	return args
}

func checkBuffer(buf *pixel.Buffer) error {
	switch {
	case buf == nil:
		return errors.Wrap(ErrEmptyBuffer, "nil buffer")
	case buf.Width <= 0 || buf.Height <= 0 || len(buf.Pix) == 0:
		return errors.Wrapf(ErrEmptyBuffer, "%dx%d with %d pixels", buf.Width, buf.Height, len(buf.Pix))
	case len(buf.Pix) != buf.Width*buf.Height:
		return errors.Wrapf(ErrBufferSize, "%dx%d with %d pixels", buf.Width, buf.Height, len(buf.Pix))
	case buf.Width > MaxDimension || buf.Height > MaxDimension:
		return errors.Wrapf(ErrTooLarge, "%dx%d > %d", buf.Width, buf.Height, MaxDimension)
	}
	return nil
}
