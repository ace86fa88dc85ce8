//go:build ignore

// gen_fixtures writes one source image per pixel layout ravif accepts,
// for a manual `ravif build` smoke run against a real avifenc.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	if err := os.MkdirAll(filepath.Join(dir, "deep"), 0o755); err != nil {
		fail(err)
	}

	write(filepath.Join(dir, "photo.jpg"), gradient(320, 180), encodeJPEG)
	write(filepath.Join(dir, "gray.png"), grayRamp(128, 64), png.Encode)
	write(filepath.Join(dir, "deep", "gray16.png"), gray16Ramp(64, 64), png.Encode)
	write(filepath.Join(dir, "deep", "rgba16.png"), rgba16Fade(96, 96), png.Encode)
	write(filepath.Join(dir, "logo.png"), holedLogo(100, 100), png.Encode)
	write(filepath.Join(dir, "tile.bmp"), gradient(48, 48), bmp.Encode)

	fmt.Fprintf(os.Stderr, "[ravif] created 6 fixtures in %s\n", dir)
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
}

func write(path string, img image.Image, enc func(io.Writer, image.Image) error) {
	f, err := os.Create(path)
	if err != nil {
		fail(err)
	}
	defer f.Close()
	if err := enc(f, img); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "[ravif]", err)
	os.Exit(1)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func grayRamp(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 255 / w)})
		}
	}
	return img
}

func gray16Ramp(w, h int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray16(x, y, color.Gray16{Y: uint16((x + y*w) * 65535 / (w * h))})
		}
	}
	return img
}

// rgba16Fade is a 16-bit image whose alpha falls off left to right.
func rgba16Fade(w, h int) *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: 0xffff, G: uint16(y * 0xffff / h), B: 0x4000,
				A: uint16(0xffff - x*0xffff/w),
			})
		}
	}
	return img
}

// holedLogo is an opaque disc with a fully transparent surround whose
// hidden color is noise, the case clean alpha mode rewrites.
func holedLogo(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy, r := w/2, h/2, min(w, h)/3
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: 255})
				continue
			}
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 37), G: uint8(y * 91), B: uint8(x ^ y), A: 0})
		}
	}
	return img
}
