package pixel

import (
	"image"
)

// RGBA8 is one canonical pixel.
type RGBA8 struct {
	R, G, B, A uint8
}

// Buffer is the canonical row-major RGBA8 image every source is
// normalized into. len(Pix) == Width*Height.
type Buffer struct {
	Width  int
	Height int
	Pix    []RGBA8
}

// NewBuffer allocates a zeroed w×h buffer.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{Width: w, Height: h, Pix: make([]RGBA8, w*h)}
}

// At returns the pixel at column x, row y.
func (b *Buffer) At(x, y int) RGBA8 {
	return b.Pix[y*b.Width+x]
}

// Set stores px at column x, row y.
func (b *Buffer) Set(x, y int, px RGBA8) {
	b.Pix[y*b.Width+x] = px
}

// Opaque reports whether every pixel has alpha 255.
func (b *Buffer) Opaque() bool {
	for _, px := range b.Pix {
		if px.A != 255 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]RGBA8, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// ToNRGBA copies the buffer into an *image.NRGBA. Channel values are
// copied verbatim, so a premultiplied buffer stays premultiplied.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, px := range b.Pix {
		o := i * 4
		img.Pix[o+0] = px.R
		img.Pix[o+1] = px.G
		img.Pix[o+2] = px.B
		img.Pix[o+3] = px.A
	}
	return img
}

// FromNRGBA builds a buffer from an *image.NRGBA, honoring its stride
// and bounds.
func FromNRGBA(img *image.NRGBA) *Buffer {
	r := img.Bounds()
	buf := NewBuffer(r.Dx(), r.Dy())
	for y := 0; y < buf.Height; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		for x := 0; x < buf.Width; x++ {
			o := x * 4
			buf.Pix[y*buf.Width+x] = RGBA8{row[o], row[o+1], row[o+2], row[o+3]}
		}
	}
	return buf
}
