package pipeline

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/kolserdav/ravif-go/internal/avif"
	"github.com/kolserdav/ravif-go/internal/avif/aviftest"
	"github.com/kolserdav/ravif-go/internal/encoder"
	"github.com/kolserdav/ravif-go/internal/pixel"
	"github.com/kolserdav/ravif-go/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEncoder emits a container with the buffer's dimensions and
// records every buffer it sees.
type stubEncoder struct {
	mu      sync.Mutex
	seen    []*pixel.Buffer
	padding int
}

func (s *stubEncoder) Format() string    { return "avif" }
func (s *stubEncoder) Extension() string { return "avif" }
func (s *stubEncoder) Available() bool   { return true }

func (s *stubEncoder) Encode(buf *pixel.Buffer, _ encoder.Params) (*encoder.Result, error) {
	s.mu.Lock()
	s.seen = append(s.seen, buf)
	s.mu.Unlock()

	alpha := uint32(0)
	if !buf.Opaque() {
		alpha = 5
	}
	data := aviftest.Still(uint32(buf.Width), uint32(buf.Height), 20+uint32(s.padding), alpha)
	return &encoder.Result{Data: data, ColorByteSize: 20 + s.padding, AlphaByteSize: int(alpha)}, nil
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func fixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	logo := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			logo.SetNRGBA(x, y, color.NRGBA{R: 220, G: 60, B: 30, A: uint8(x * 255 / 40)})
		}
	}
	writePNG(t, filepath.Join(dir, "logo.png"), logo)

	gray := image.NewGray16(image.Rect(0, 0, 8, 8))
	writePNG(t, filepath.Join(dir, "cards", "gray.png"), gray)

	photo := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for i := range photo.Pix {
		photo.Pix[i] = 200
	}
	f, err := os.Create(filepath.Join(dir, "banner.jpg"))
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, photo, &jpeg.Options{Quality: 85}))
	require.NoError(t, f.Close())

	writePNG(t, filepath.Join(dir, ".cache", "hidden.png"), gray)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	return dir
}

func mustParams(t *testing.T) encoder.Params {
	t.Helper()
	p, err := profile.Get("default").Params(0)
	require.NoError(t, err)
	return p
}

func TestScanImages(t *testing.T) {
	dir := fixtures(t)
	sources, err := ScanImages(dir)
	require.NoError(t, err)

	var keys []string
	for _, s := range sources {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{"banner", "cards/gray", "logo"}, keys)
	assert.Equal(t, "jpeg", sources[0].Format)
	assert.Equal(t, "cards/gray.png", sources[1].RelPath)
	assert.Positive(t, sources[2].Size)
}

func TestRun(t *testing.T) {
	in := fixtures(t)
	out := t.TempDir()
	stub := &stubEncoder{}

	m, err := New(Config{
		InputDir:  in,
		OutputDir: out,
		Profile:   profile.Get("default"),
		Params:    mustParams(t),
		Encoder:   stub,
		Workers:   2,
	}).Run()
	require.NoError(t, err)

	require.Len(t, m.Assets, 3)
	assert.Equal(t, 3, m.Stats.TotalAssets)
	assert.Equal(t, 2, m.BuildInfo.Workers)
	assert.Equal(t, "unassociated-clean", m.Encoder.AlphaMode)

	logo := m.Assets["logo"]
	assert.Equal(t, "rgba8", logo.Original.Pixel)
	assert.True(t, logo.Original.HasAlpha)
	assert.Equal(t, 5, logo.Output.AlphaBytes)

	gray := m.Assets["cards/gray"]
	assert.Equal(t, "gray16", gray.Original.Pixel)
	assert.False(t, gray.Original.HasAlpha)
	assert.Zero(t, gray.Output.AlphaBytes)

	banner := m.Assets["banner"]
	assert.Equal(t, "rgb8", banner.Original.Pixel)
	assert.Equal(t, 64, banner.Output.Width)

	for key, a := range m.Assets {
		data, err := os.ReadFile(filepath.Join(out, a.Output.Path))
		require.NoError(t, err, key)
		assert.Equal(t, a.Output.Size, int64(len(data)))
		assert.Len(t, a.Output.Hash, 16)

		info, err := avif.Parse(data)
		require.NoError(t, err, key)
		assert.Equal(t, a.Output.Width, info.Width)
		assert.Equal(t, a.Output.Height, info.Height)
	}
	assert.Regexp(t, `^cards/gray\.8\.8\.[0-9a-f]{8}\.avif$`, gray.Output.Path)
	assert.Len(t, stub.seen, 3)
}

func TestRun_MaxWidthAndPremultiply(t *testing.T) {
	in := fixtures(t)
	prof := profile.Get("default")
	prof.MaxWidth = 16
	prof.Premultiply = true
	stub := &stubEncoder{}

	m, err := New(Config{
		InputDir:  in,
		OutputDir: t.TempDir(),
		Profile:   prof,
		Params:    mustParams(t),
		Encoder:   stub,
	}).Run()
	require.NoError(t, err)

	logo := m.Assets["logo"]
	assert.Equal(t, 40, logo.Original.Width)
	assert.Equal(t, 16, logo.Output.Width)
	assert.Equal(t, 8, logo.Output.Height)
	assert.Equal(t, 8, m.Assets["cards/gray"].Output.Width, "narrow sources keep their size")
	assert.True(t, m.Encoder.Premultiply)

	for _, buf := range stub.seen {
		for _, px := range buf.Pix {
			if px.A == 0 {
				assert.Equal(t, pixel.RGBA8{}, px)
			}
		}
	}
}

func TestRun_NoRegressSize(t *testing.T) {
	in := fixtures(t)

	m, err := New(Config{
		InputDir:      in,
		OutputDir:     t.TempDir(),
		Profile:       profile.Get("default"),
		Params:        mustParams(t),
		Encoder:       &stubEncoder{padding: 1 << 20},
		NoRegressSize: true,
	}).Run()
	require.NoError(t, err)
	assert.Empty(t, m.Assets)
	assert.Equal(t, 3, m.Stats.SkippedRegress)
}

func TestRun_PartialFailure(t *testing.T) {
	in := fixtures(t)
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.png"), []byte("\x89PNG\r\n\x1a\n"), 0o644))

	m, err := New(Config{
		InputDir:  in,
		OutputDir: t.TempDir(),
		Params:    mustParams(t),
		Encoder:   &stubEncoder{},
	}).Run()
	require.NoError(t, err)
	assert.Len(t, m.Assets, 3)
	assert.NotContains(t, m.Assets, "broken")
}

func TestRun_AllFail(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.png"), []byte("nope"), 0o644))

	_, err := New(Config{
		InputDir:  in,
		OutputDir: t.TempDir(),
		Params:    mustParams(t),
		Encoder:   &stubEncoder{},
	}).Run()
	assert.ErrorContains(t, err, "all 1 images failed")
}

func TestRun_Empty(t *testing.T) {
	_, err := New(Config{
		InputDir:  t.TempDir(),
		OutputDir: t.TempDir(),
		Params:    mustParams(t),
		Encoder:   &stubEncoder{},
	}).Run()
	assert.ErrorContains(t, err, "no images found")
}

func TestRun_EngineUnavailable(t *testing.T) {
	_, err := New(Config{
		InputDir: fixtures(t),
		Params:   mustParams(t),
		Encoder:  &encoder.AVIFEncoder{Binary: "ravif-no-such-engine"},
	}).Run()
	assert.ErrorIs(t, err, encoder.ErrCodecUnavailable)
}
