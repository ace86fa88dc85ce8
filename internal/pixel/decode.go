package pixel

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// MaxDimension is the largest width or height Decode accepts.
	MaxDimension = 65535
	// MaxPixels caps the decoded area so a forged header cannot force a
	// huge allocation before the body is read.
	MaxPixels = 1 << 26
)

// Decode parses an encoded image (PNG, JPEG, GIF, BMP, TIFF or WebP) and
// returns it as a Source variant. Unrecognized or corrupt data yields a
// *DecodeError.
func Decode(data []byte) (Source, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Op: "decode", Err: errors.Wrap(err, "parse header")}
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension || cfg.Width*cfg.Height > MaxPixels {
		return nil, &DecodeError{Op: "decode", Err: errors.Wrapf(ErrMalformed, "%s: header claims %dx%d, limit %d per side and %d pixels",
			format, cfg.Width, cfg.Height, MaxDimension, MaxPixels)}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Op: "decode", Err: errors.Wrap(err, "parse image")}
	}
	if r := img.Bounds(); r.Empty() {
		return nil, &DecodeError{Op: "decode", Err: errors.Wrapf(ErrMalformed, "%s: empty image", format)}
	}
	return FromImage(img), nil
}

// NormalizeBytes decodes data and normalizes the result.
func NormalizeBytes(data []byte, premultiply bool) (*Buffer, error) {
	src, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Normalize(src, premultiply)
}

// FromImage maps a decoded Go image onto the narrowest matching variant.
// Types with premultiplied color are un-premultiplied unless opaque.
func FromImage(img image.Image) Source {
	r := img.Bounds()
	w, h := r.Dx(), r.Dy()

	switch src := img.(type) {
	case *image.Gray:
		out := &Gray8Image{Width: w, Height: h, Pix: make([]uint8, 0, w*h)}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			o := src.PixOffset(r.Min.X, y)
			out.Pix = append(out.Pix, src.Pix[o:o+w]...)
		}
		return out
	case *image.Gray16:
		out := &Gray16Image{Width: w, Height: h, Pix: make([]uint16, 0, w*h)}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			out.Pix = appendBE16(out.Pix, src.Pix[src.PixOffset(r.Min.X, y):], w)
		}
		return out
	case *image.NRGBA:
		return rgba8From(src)
	case *image.NRGBA64:
		return rgba16From(src)
	case *image.RGBA:
		if src.Opaque() {
			out := &RGB8Image{Width: w, Height: h, Pix: make([]uint8, 0, w*h*3)}
			for y := r.Min.Y; y < r.Max.Y; y++ {
				row := src.Pix[src.PixOffset(r.Min.X, y):]
				for x := 0; x < w; x++ {
					out.Pix = append(out.Pix, row[x*4], row[x*4+1], row[x*4+2])
				}
			}
			return out
		}
	case *image.RGBA64:
		if src.Opaque() {
			out := &RGB16Image{Width: w, Height: h, Pix: make([]uint16, 0, w*h*3)}
			for y := r.Min.Y; y < r.Max.Y; y++ {
				row := src.Pix[src.PixOffset(r.Min.X, y):]
				for x := 0; x < w; x++ {
					p := row[x*8:]
					out.Pix = append(out.Pix, be16(p[0:]), be16(p[2:]), be16(p[4:]))
				}
			}
			return out
		}
		dst := image.NewNRGBA64(image.Rect(0, 0, w, h))
		draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
		return rgba16From(dst)
	}

	// Paletted, YCbCr, CMYK and the rest go through an 8-bit NRGBA copy.
	nrgba := imaging.Clone(img)
	rgba := rgba8From(nrgba)
	for i := 3; i < len(rgba.Pix); i += 4 {
		if rgba.Pix[i] != 255 {
			return rgba
		}
	}
	out := &RGB8Image{Width: w, Height: h, Pix: make([]uint8, 0, w*h*3)}
	for i := 0; i < len(rgba.Pix); i += 4 {
		out.Pix = append(out.Pix, rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2])
	}
	return out
}

func rgba8From(src *image.NRGBA) *RGBA8Image {
	r := src.Bounds()
	w, h := r.Dx(), r.Dy()
	out := &RGBA8Image{Width: w, Height: h, Pix: make([]uint8, 0, w*h*4)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := src.PixOffset(r.Min.X, y)
		out.Pix = append(out.Pix, src.Pix[o:o+w*4]...)
	}
	return out
}

func rgba16From(src *image.NRGBA64) *RGBA16Image {
	r := src.Bounds()
	w, h := r.Dx(), r.Dy()
	out := &RGBA16Image{Width: w, Height: h, Pix: make([]uint16, 0, w*h*4)}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		out.Pix = appendBE16(out.Pix, src.Pix[src.PixOffset(r.Min.X, y):], w*4)
	}
	return out
}

// appendBE16 appends n big-endian 16-bit samples read from b.
func appendBE16(dst []uint16, b []uint8, n int) []uint16 {
	for i := 0; i < n; i++ {
		dst = append(dst, be16(b[i*2:]))
	}
	return dst
}

func be16(b []uint8) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
