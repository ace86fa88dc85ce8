package encoder

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidParams is returned by NewParams for out-of-range values and
// by Encode for a zero Params.
var ErrInvalidParams = errors.New("invalid encoder parameters")

// AlphaColorMode selects what the engine may do with the color of
// fully transparent pixels. Alpha is always stored unassociated.
type AlphaColorMode int

const (
	// AlphaUnassociatedDirty keeps color under transparency as is.
	AlphaUnassociatedDirty AlphaColorMode = iota + 1
	// AlphaUnassociatedClean lets that color be replaced with whatever
	// compresses best.
	AlphaUnassociatedClean
)

func (m AlphaColorMode) String() string {
	switch m {
	case AlphaUnassociatedDirty:
		return "unassociated-dirty"
	case AlphaUnassociatedClean:
		return "unassociated-clean"
	}
	return fmt.Sprintf("AlphaColorMode(%d)", int(m))
}

// Quality and speed bounds accepted by NewParams.
const (
	MinQuality = 1
	MaxQuality = 100
	MinSpeed   = 1
	MaxSpeed   = 10
)

// Params is the immutable configuration of one encode call. Build it
// with NewParams; the zero value is rejected by Encode.
type Params struct {
	quality      float64
	alphaQuality float64
	speed        uint8
	alphaMode    AlphaColorMode
	threads      uint32
}

// NewParams validates and bundles the encoder settings. threads == 0
// leaves the worker count to the engine.
func NewParams(quality float64, speed uint8, alphaQuality float64, dirtyAlpha bool, threads uint32) (Params, error) {
	if !inRange(quality) {
		return Params{}, errors.Wrapf(ErrInvalidParams, "quality %v out of range [%d, %d]", quality, MinQuality, MaxQuality)
	}
	if !inRange(alphaQuality) {
		return Params{}, errors.Wrapf(ErrInvalidParams, "alpha quality %v out of range [%d, %d]", alphaQuality, MinQuality, MaxQuality)
	}
	if speed < MinSpeed || speed > MaxSpeed {
		return Params{}, errors.Wrapf(ErrInvalidParams, "speed %d out of range [%d, %d]", speed, MinSpeed, MaxSpeed)
	}
	mode := AlphaUnassociatedClean
	if dirtyAlpha {
		mode = AlphaUnassociatedDirty
	}
	return Params{
		quality:      quality,
		alphaQuality: alphaQuality,
		speed:        speed,
		alphaMode:    mode,
		threads:      threads,
	}, nil
}

func inRange(q float64) bool {
	return q >= MinQuality && q <= MaxQuality // false for NaN
}

func (p Params) Quality() float64               { return p.quality }
func (p Params) AlphaQuality() float64          { return p.alphaQuality }
func (p Params) Speed() uint8                   { return p.speed }
func (p Params) AlphaColorMode() AlphaColorMode { return p.alphaMode }
func (p Params) DirtyAlpha() bool               { return p.alphaMode == AlphaUnassociatedDirty }

// Threads returns the requested worker count; 0 means engine default.
func (p Params) Threads() uint32 { return p.threads }

func (p Params) valid() bool {
	return p.alphaMode != 0
}

func (p Params) String() string {
	threads := "auto"
	if p.threads > 0 {
		threads = fmt.Sprint(p.threads)
	}
	return fmt.Sprintf("quality=%g alpha-quality=%g speed=%d alpha=%s threads=%s",
		p.quality, p.alphaQuality, p.speed, p.alphaMode, threads)
}
