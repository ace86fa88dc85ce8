package encoder

import (
	"github.com/kolserdav/ravif-go/internal/pixel"
)

// clearTransparent returns a copy of buf where every fully transparent
// pixel takes the alpha-weighted mean color of its visible 3×3
// neighbours, or black when none is visible. Alpha is not touched.
func clearTransparent(buf *pixel.Buffer) *pixel.Buffer {
	out := buf.Clone()
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			if buf.At(x, y).A != 0 {
				continue
			}
			var r, g, b, wsum uint32
			for ny := y - 1; ny <= y+1; ny++ {
				if ny < 0 || ny >= buf.Height {
					continue
				}
				for nx := x - 1; nx <= x+1; nx++ {
					if nx < 0 || nx >= buf.Width {
						continue
					}
					n := buf.At(nx, ny)
					w := uint32(n.A)
					r += uint32(n.R) * w
					g += uint32(n.G) * w
					b += uint32(n.B) * w
					wsum += w
				}
			}
			px := pixel.RGBA8{}
			if wsum > 0 {
				px = pixel.RGBA8{R: uint8(r / wsum), G: uint8(g / wsum), B: uint8(b / wsum)}
			}
			out.Set(x, y, px)
		}
	}
	return out
}
