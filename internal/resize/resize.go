// Package resize scales canonical pixel buffers.
package resize

import (
	"bytes"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/kolserdav/ravif-go/internal/pixel"
)

// Scale resamples buf to w×h with a triangle (bilinear) filter. If one
// of w or h is 0 the aspect ratio is preserved; if both are 0 buf is
// returned unchanged.
func Scale(buf *pixel.Buffer, w, h int) *pixel.Buffer {
	if (w == 0 && h == 0) || (w == buf.Width && h == buf.Height) {
		return buf
	}
	return pixel.FromNRGBA(imaging.Resize(buf.ToNRGBA(), w, h, imaging.Linear))
}

// Fit shrinks buf to maxWidth keeping its aspect ratio. Narrower
// buffers and maxWidth <= 0 leave buf as is.
func Fit(buf *pixel.Buffer, maxWidth int) *pixel.Buffer {
	if maxWidth <= 0 || buf.Width <= maxWidth {
		return buf
	}
	return Scale(buf, maxWidth, 0)
}

// Prepare fits an unassociated buffer to maxWidth and premultiplies the
// result if asked. The filter weights color by alpha itself, so it must
// run before premultiplication.
func Prepare(buf *pixel.Buffer, maxWidth int, premultiply bool) *pixel.Buffer {
	buf = Fit(buf, maxWidth)
	if premultiply {
		pixel.Premultiply(buf)
	}
	return buf
}

// EncodePNG serializes buf as an 8-bit RGBA PNG.
func EncodePNG(buf *pixel.Buffer) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(512 * 1024) // pre-alloc 512KB

	enc := &png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&out, buf.ToNRGBA()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
