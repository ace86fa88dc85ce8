package cmd

import (
	"fmt"

	"github.com/kolserdav/ravif-go/internal/encoder"
	"github.com/kolserdav/ravif-go/internal/profile"
	"github.com/spf13/cobra"
)

// encodeFlags are the encoder settings shared by encode and build.
// Explicit flags override the selected profile.
type encodeFlags struct {
	profile      string
	quality      float64
	alphaQuality float64
	speed        uint8
	dirtyAlpha   bool
	premultiply  bool
	threads      uint32
	maxWidth     int
}

func (f *encodeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.profile, "profile", "p", "default", fmt.Sprintf("encoder profile %v", profile.Names()))
	fs.Float64VarP(&f.quality, "quality", "q", 0, "color quality 1-100 (default from profile)")
	fs.Float64Var(&f.alphaQuality, "alpha-quality", 0, "alpha quality 1-100 (default from profile)")
	fs.Uint8VarP(&f.speed, "speed", "s", 0, "encoder speed 1-10, 1 = slowest (default from profile)")
	fs.BoolVar(&f.dirtyAlpha, "dirty-alpha", false, "keep color under fully transparent pixels")
	fs.BoolVar(&f.premultiply, "premultiply", false, "premultiply color by alpha before encoding")
	fs.Uint32VarP(&f.threads, "threads", "j", 0, "encoder threads (0 = engine default)")
	fs.IntVar(&f.maxWidth, "max-width", 0, "downscale sources wider than this (default from profile)")
}

// resolve applies explicitly set flags on top of the profile and
// validates the resulting encoder parameters.
func (f *encodeFlags) resolve(cmd *cobra.Command) (profile.Profile, encoder.Params, error) {
	prof := profile.Get(f.profile)
	fs := cmd.Flags()
	if fs.Changed("quality") {
		prof.Quality = f.quality
	}
	if fs.Changed("alpha-quality") {
		prof.AlphaQuality = f.alphaQuality
	}
	if fs.Changed("speed") {
		prof.Speed = f.speed
	}
	if fs.Changed("dirty-alpha") {
		prof.DirtyAlpha = f.dirtyAlpha
	}
	if fs.Changed("premultiply") {
		prof.Premultiply = f.premultiply
	}
	if fs.Changed("max-width") {
		prof.MaxWidth = f.maxWidth
	}

	params, err := prof.Params(f.threads)
	if err != nil {
		return prof, encoder.Params{}, fmt.Errorf("profile %s: %w", prof.Name, err)
	}
	return prof, params, nil
}
