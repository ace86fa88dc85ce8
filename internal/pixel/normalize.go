package pixel

import (
	"github.com/pkg/errors"
)

// Normalize converts src into a canonical RGBA8 buffer. 16-bit samples
// keep their high byte; missing alpha becomes 255; gray is replicated
// into R, G and B. With premultiply set, color is scaled by alpha
// afterwards.
func Normalize(src Source, premultiply bool) (*Buffer, error) {
	if src == nil {
		return nil, &DecodeError{Op: "normalize", Err: errors.Wrap(ErrMalformed, "nil source")}
	}
	w, h := src.Dims()
	if w <= 0 || h <= 0 {
		return nil, &DecodeError{Op: "normalize", Err: errors.Wrapf(ErrMalformed, "%s: invalid dimensions %dx%d", Kind(src), w, h)}
	}
	if want := w * h * src.channels(); src.samples() != want {
		return nil, &DecodeError{Op: "normalize", Err: errors.Wrapf(ErrMalformed, "%s %dx%d: have %d samples, want %d",
			Kind(src), w, h, src.samples(), want)}
	}

	buf := NewBuffer(w, h)
	out := buf.Pix

	switch s := src.(type) {
	case *RGB8Image:
		for i := range out {
			p := s.Pix[i*3 : i*3+3]
			out[i] = RGBA8{p[0], p[1], p[2], 255}
		}
	case *RGBA8Image:
		for i := range out {
			p := s.Pix[i*4 : i*4+4]
			out[i] = RGBA8{p[0], p[1], p[2], p[3]}
		}
	case *RGB16Image:
		for i := range out {
			p := s.Pix[i*3 : i*3+3]
			out[i] = RGBA8{hi(p[0]), hi(p[1]), hi(p[2]), 255}
		}
	case *RGBA16Image:
		for i := range out {
			p := s.Pix[i*4 : i*4+4]
			out[i] = RGBA8{hi(p[0]), hi(p[1]), hi(p[2]), hi(p[3])}
		}
	case *Gray8Image:
		for i, g := range s.Pix {
			out[i] = RGBA8{g, g, g, 255}
		}
	case *Gray16Image:
		for i, v := range s.Pix {
			g := hi(v)
			out[i] = RGBA8{g, g, g, 255}
		}
	case *GrayAlpha8Image:
		for i := range out {
			g, a := s.Pix[i*2], s.Pix[i*2+1]
			out[i] = RGBA8{g, g, g, a}
		}
	case *GrayAlpha16Image:
		for i := range out {
			g, a := hi(s.Pix[i*2]), hi(s.Pix[i*2+1])
			out[i] = RGBA8{g, g, g, a}
		}
	default:
		return nil, &DecodeError{Op: "normalize", Err: errors.Errorf("unsupported source %T", src)}
	}

	if premultiply {
		Premultiply(buf)
	}
	return buf, nil
}

// Premultiply scales R, G and B of every pixel by alpha/255 in place,
// truncating. Alpha is unchanged.
func Premultiply(buf *Buffer) {
	for i := range buf.Pix {
		px := &buf.Pix[i]
		a := uint16(px.A)
		px.R = uint8(uint16(px.R) * a / 255)
		px.G = uint8(uint16(px.G) * a / 255)
		px.B = uint8(uint16(px.B) * a / 255)
	}
}

// hi keeps the most significant byte of a 16-bit sample.
func hi(v uint16) uint8 {
	return uint8(v >> 8)
}
