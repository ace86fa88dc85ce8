package pixel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Variants(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		want RGBA8
	}{
		{"rgb8", &RGB8Image{1, 1, []uint8{10, 20, 30}}, RGBA8{10, 20, 30, 255}},
		{"rgba8", &RGBA8Image{1, 1, []uint8{10, 20, 30, 40}}, RGBA8{10, 20, 30, 40}},
		{"rgb16", &RGB16Image{1, 1, []uint16{0x1234, 0xABCD, 0x00FF}}, RGBA8{0x12, 0xAB, 0x00, 255}},
		{"rgba16", &RGBA16Image{1, 1, []uint16{0x1234, 0xABCD, 0x0100, 0x7FFF}}, RGBA8{0x12, 0xAB, 0x01, 0x7F}},
		{"gray8", &Gray8Image{1, 1, []uint8{200}}, RGBA8{200, 200, 200, 255}},
		{"gray16", &Gray16Image{1, 1, []uint16{0xC8FF}}, RGBA8{0xC8, 0xC8, 0xC8, 255}},
		{"graya8", &GrayAlpha8Image{1, 1, []uint8{90, 17}}, RGBA8{90, 90, 90, 17}},
		{"graya16", &GrayAlpha16Image{1, 1, []uint16{0x64C8, 0x3200}}, RGBA8{0x64, 0x64, 0x64, 0x32}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, Kind(tt.src))
			buf, err := Normalize(tt.src, false)
			require.NoError(t, err)
			require.Len(t, buf.Pix, 1)
			assert.Equal(t, tt.want, buf.Pix[0])
		})
	}
}

func TestNormalize_Truncation(t *testing.T) {
	for _, tc := range []struct {
		in   uint16
		want uint8
	}{
		{0x0000, 0x00},
		{0x00FF, 0x00},
		{0x0100, 0x01},
		{0x80FF, 0x80},
		{0xFFFF, 0xFF},
	} {
		buf, err := Normalize(&Gray16Image{1, 1, []uint16{tc.in}}, false)
		require.NoError(t, err)
		assert.Equal(t, tc.want, buf.Pix[0].R, "gray16 %#04x", tc.in)

		buf, err = Normalize(&RGBA16Image{1, 1, []uint16{tc.in, tc.in, tc.in, tc.in}}, false)
		require.NoError(t, err)
		assert.Equal(t, RGBA8{tc.want, tc.want, tc.want, tc.want}, buf.Pix[0], "rgba16 %#04x", tc.in)
	}
}

func TestNormalize_Premultiply(t *testing.T) {
	t.Run("opaque is identity", func(t *testing.T) {
		buf, err := Normalize(&RGBA8Image{2, 1, []uint8{1, 128, 254, 255, 0, 77, 255, 255}}, true)
		require.NoError(t, err)
		assert.Equal(t, []RGBA8{{1, 128, 254, 255}, {0, 77, 255, 255}}, buf.Pix)
	})

	t.Run("transparent zeroes color", func(t *testing.T) {
		buf, err := Normalize(&RGBA8Image{1, 1, []uint8{255, 200, 13, 0}}, true)
		require.NoError(t, err)
		assert.Equal(t, RGBA8{0, 0, 0, 0}, buf.Pix[0])
	})

	t.Run("truncates", func(t *testing.T) {
		// 200*128/255 = 100.39, 255*128/255 = 128, 1*128/255 = 0.5
		buf, err := Normalize(&RGBA8Image{1, 1, []uint8{200, 255, 1, 128}}, true)
		require.NoError(t, err)
		assert.Equal(t, RGBA8{100, 128, 0, 128}, buf.Pix[0])
	})

	t.Run("applies after gray derivation", func(t *testing.T) {
		buf, err := Normalize(&GrayAlpha16Image{1, 1, []uint16{0xFF00, 0x8000}}, true)
		require.NoError(t, err)
		assert.Equal(t, RGBA8{128, 128, 128, 128}, buf.Pix[0])
	})

	t.Run("synthesized alpha keeps color", func(t *testing.T) {
		buf, err := Normalize(&RGB16Image{1, 1, []uint16{0x1000, 0x2000, 0x3000}}, true)
		require.NoError(t, err)
		assert.Equal(t, RGBA8{0x10, 0x20, 0x30, 255}, buf.Pix[0])
	})
}

func TestNormalize_LengthInvariant(t *testing.T) {
	for _, dims := range [][2]int{{1, 1}, {16, 16}, {1, 1000}, {1000, 1}} {
		w, h := dims[0], dims[1]
		n := w * h
		sources := []Source{
			&RGB8Image{w, h, make([]uint8, n*3)},
			&RGBA8Image{w, h, make([]uint8, n*4)},
			&RGB16Image{w, h, make([]uint16, n*3)},
			&RGBA16Image{w, h, make([]uint16, n*4)},
			&Gray8Image{w, h, make([]uint8, n)},
			&Gray16Image{w, h, make([]uint16, n)},
			&GrayAlpha8Image{w, h, make([]uint8, n*2)},
			&GrayAlpha16Image{w, h, make([]uint16, n*2)},
		}
		for _, src := range sources {
			for _, pm := range []bool{false, true} {
				t.Run(fmt.Sprintf("%s/%dx%d/pm=%v", Kind(src), w, h, pm), func(t *testing.T) {
					buf, err := Normalize(src, pm)
					require.NoError(t, err)
					assert.Equal(t, w, buf.Width)
					assert.Equal(t, h, buf.Height)
					assert.Len(t, buf.Pix, w*h)
				})
			}
		}
	}
}

func TestNormalize_RowMajor(t *testing.T) {
	src := &Gray8Image{Width: 3, Height: 2, Pix: []uint8{0, 1, 2, 10, 11, 12}}
	buf, err := Normalize(src, false)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), buf.At(2, 0).G)
	assert.Equal(t, uint8(10), buf.At(0, 1).B)
	assert.Equal(t, uint8(12), buf.At(2, 1).R)
}

func TestNormalize_Malformed(t *testing.T) {
	for name, src := range map[string]Source{
		"nil":          nil,
		"short":        &RGB8Image{2, 2, []uint8{1, 2, 3}},
		"long":         &GrayAlpha8Image{1, 1, []uint8{1, 2, 3}},
		"zero width":   &RGBA16Image{0, 4, nil},
		"negative":     &Gray16Image{-1, 1, []uint16{1}},
		"empty 16-bit": &RGBA16Image{1, 1, nil},
	} {
		t.Run(name, func(t *testing.T) {
			buf, err := Normalize(src, false)
			assert.Nil(t, buf)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "normalize", de.Op)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestBuffer_Helpers(t *testing.T) {
	buf := NewBuffer(2, 1)
	buf.Set(0, 0, RGBA8{1, 2, 3, 255})
	buf.Set(1, 0, RGBA8{4, 5, 6, 255})
	assert.True(t, buf.Opaque())

	c := buf.Clone()
	c.Set(1, 0, RGBA8{4, 5, 6, 7})
	assert.True(t, buf.Opaque(), "clone must not alias")
	assert.False(t, c.Opaque())

	img := c.ToNRGBA()
	assert.Equal(t, []uint8{1, 2, 3, 255, 4, 5, 6, 7}, img.Pix)
	assert.Equal(t, c, FromNRGBA(img))
}
