package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kolserdav/ravif-go/internal/hasher"
	"github.com/kolserdav/ravif-go/internal/manifest"
	"github.com/kolserdav/ravif-go/internal/pixel"
	"github.com/kolserdav/ravif-go/internal/resize"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key     string
	asset   manifest.Asset
	err     error
	skipped bool // output not smaller than original
}

// processImage handles a single source image: read, normalize, fit, encode, write.
func (p *Pipeline) processImage(src Source) processResult {
	result := processResult{key: src.Key}

	data, err := os.ReadFile(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("read %s: %w", src.RelPath, err)
		return result
	}

	decoded, err := pixel.Decode(data)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}
	buf, err := pixel.Normalize(decoded, false)
	if err != nil {
		result.err = fmt.Errorf("normalize %s: %w", src.RelPath, err)
		return result
	}

	result.asset.Original = manifest.OriginalInfo{
		Width:    buf.Width,
		Height:   buf.Height,
		Format:   src.Format,
		Pixel:    pixel.Kind(decoded),
		Size:     src.Size,
		HasAlpha: !buf.Opaque(),
	}

	buf = resize.Prepare(buf, p.cfg.Profile.MaxWidth, p.cfg.Profile.Premultiply)

	res, err := p.cfg.Encoder.Encode(buf, p.cfg.Params)
	if err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}

	// Skip output if encoded size >= original (--no-regress-size).
	if p.cfg.NoRegressSize && int64(len(res.Data)) >= src.Size {
		if p.cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[ravif] skip: %s: encoded %d >= original %d bytes\n",
				src.Key, len(res.Data), src.Size)
		}
		result.skipped = true
		return result
	}

	// Content hash for filename.
	contentHash := hasher.ContentHash(res.Data, 16)

	// Build filename: key.w.h.hash.avif
	keyDir := filepath.Dir(src.Key)
	fileName := fmt.Sprintf("%s.%d.%d.%s.%s",
		filepath.Base(src.Key), buf.Width, buf.Height, contentHash[:8], p.cfg.Encoder.Extension())
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

	outPath := filepath.Join(p.cfg.OutputDir, relPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		result.err = fmt.Errorf("mkdir for %s: %w", relPath, err)
		return result
	}
	if err := os.WriteFile(outPath, res.Data, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	result.asset.Output = manifest.Output{
		Width:      buf.Width,
		Height:     buf.Height,
		Size:       int64(len(res.Data)),
		ColorBytes: res.ColorByteSize,
		AlphaBytes: res.AlphaByteSize,
		Hash:       contentHash,
		Path:       relPath,
	}
	return result
}
