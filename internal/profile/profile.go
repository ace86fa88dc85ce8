package profile

import (
	"github.com/kolserdav/ravif-go/internal/encoder"
)

// Profile is a named set of encoder settings.
type Profile struct {
	Name         string
	Quality      float64 // color quality 1-100
	AlphaQuality float64 // alpha quality 1-100
	Speed        uint8   // 1 = slowest/best, 10 = fastest
	DirtyAlpha   bool    // keep color under fully transparent pixels
	Premultiply  bool    // premultiply color by alpha before encoding
	MaxWidth     int     // downscale wider sources; 0 = keep size
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:         "default",
		Quality:      80,
		AlphaQuality: 80,
		Speed:        4,
	},
	"fast": {
		Name:         "fast",
		Quality:      70,
		AlphaQuality: 70,
		Speed:        9,
	},
	"quality": {
		Name:         "quality",
		Quality:      92,
		AlphaQuality: 95,
		Speed:        2,
	},
	"lossless-alpha": {
		Name:         "lossless-alpha",
		Quality:      85,
		AlphaQuality: 100,
		Speed:        4,
		DirtyAlpha:   true,
	},
	"web": {
		Name:         "web",
		Quality:      75,
		AlphaQuality: 70,
		Speed:        6,
		MaxWidth:     1920,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profiles in a stable order.
func Names() []string {
	return []string{"default", "fast", "quality", "lossless-alpha", "web"}
}

// Params builds validated encoder parameters from the profile.
func (p Profile) Params(threads uint32) (encoder.Params, error) {
	return encoder.NewParams(p.Quality, p.Speed, p.AlphaQuality, p.DirtyAlpha, threads)
}
