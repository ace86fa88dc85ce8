package pixel

// Source is a decoded image in one of the eight supported sample layouts.
// The set is closed: only the types in this file implement it.
type Source interface {
	// Dims returns width and height in pixels.
	Dims() (width, height int)

	// channels is the number of interleaved samples per pixel.
	channels() int
	samples() int
}

// RGB8Image holds 8-bit R,G,B triplets.
type RGB8Image struct {
	Width, Height int
	Pix           []uint8
}

// RGBA8Image holds 8-bit R,G,B,A quadruplets with unassociated alpha.
type RGBA8Image struct {
	Width, Height int
	Pix           []uint8
}

// RGB16Image holds 16-bit R,G,B triplets.
type RGB16Image struct {
	Width, Height int
	Pix           []uint16
}

// RGBA16Image holds 16-bit R,G,B,A quadruplets with unassociated alpha.
type RGBA16Image struct {
	Width, Height int
	Pix           []uint16
}

// Gray8Image holds one 8-bit luma sample per pixel.
type Gray8Image struct {
	Width, Height int
	Pix           []uint8
}

// Gray16Image holds one 16-bit luma sample per pixel.
type Gray16Image struct {
	Width, Height int
	Pix           []uint16
}

// GrayAlpha8Image holds 8-bit luma,alpha pairs.
type GrayAlpha8Image struct {
	Width, Height int
	Pix           []uint8
}

// GrayAlpha16Image holds 16-bit luma,alpha pairs.
type GrayAlpha16Image struct {
	Width, Height int
	Pix           []uint16
}

func (s *RGB8Image) Dims() (int, int)        { return s.Width, s.Height }
func (s *RGBA8Image) Dims() (int, int)       { return s.Width, s.Height }
func (s *RGB16Image) Dims() (int, int)       { return s.Width, s.Height }
func (s *RGBA16Image) Dims() (int, int)      { return s.Width, s.Height }
func (s *Gray8Image) Dims() (int, int)       { return s.Width, s.Height }
func (s *Gray16Image) Dims() (int, int)      { return s.Width, s.Height }
func (s *GrayAlpha8Image) Dims() (int, int)  { return s.Width, s.Height }
func (s *GrayAlpha16Image) Dims() (int, int) { return s.Width, s.Height }

func (s *RGB8Image) channels() int        { return 3 }
func (s *RGBA8Image) channels() int       { return 4 }
func (s *RGB16Image) channels() int       { return 3 }
func (s *RGBA16Image) channels() int      { return 4 }
func (s *Gray8Image) channels() int       { return 1 }
func (s *Gray16Image) channels() int      { return 1 }
func (s *GrayAlpha8Image) channels() int  { return 2 }
func (s *GrayAlpha16Image) channels() int { return 2 }

func (s *RGB8Image) samples() int        { return len(s.Pix) }
func (s *RGBA8Image) samples() int       { return len(s.Pix) }
func (s *RGB16Image) samples() int       { return len(s.Pix) }
func (s *RGBA16Image) samples() int      { return len(s.Pix) }
func (s *Gray8Image) samples() int       { return len(s.Pix) }
func (s *Gray16Image) samples() int      { return len(s.Pix) }
func (s *GrayAlpha8Image) samples() int  { return len(s.Pix) }
func (s *GrayAlpha16Image) samples() int { return len(s.Pix) }

// Kind names the variant, e.g. "rgba16". Used in diagnostics.
func Kind(s Source) string {
	switch s.(type) {
	case *RGB8Image:
		return "rgb8"
	case *RGBA8Image:
		return "rgba8"
	case *RGB16Image:
		return "rgb16"
	case *RGBA16Image:
		return "rgba16"
	case *Gray8Image:
		return "gray8"
	case *Gray16Image:
		return "gray16"
	case *GrayAlpha8Image:
		return "graya8"
	case *GrayAlpha16Image:
		return "graya16"
	}
	return "unknown"
}
