package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/kolserdav/ravif-go/internal/encoder"
	"github.com/kolserdav/ravif-go/internal/manifest"
	"github.com/kolserdav/ravif-go/internal/profile"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir      string
	OutputDir     string
	Profile       profile.Profile
	Params        encoder.Params
	Encoder       encoder.Encoder // nil = encoder.Default
	Workers       int
	Verbose       bool
	NoRegressSize bool // skip outputs not smaller than the original
}

// Pipeline orchestrates image processing.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Encoder == nil {
		cfg.Encoder = encoder.Default
	}
	return &Pipeline{cfg: cfg}
}

// Run executes the full build pipeline and returns the manifest.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	if !p.cfg.Encoder.Available() {
		return nil, encoder.ErrCodecUnavailable
	}
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[ravif] encoder: %s (%s)\n", p.cfg.Encoder.Format(), p.cfg.Params)
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[ravif] found %d images\n", len(sources))
	}

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[ravif] processing: %s\n", s.Key)
			}

			results[idx] = p.processImage(s)

			if p.cfg.Verbose && results[idx].err == nil && !results[idx].skipped {
				out := results[idx].asset.Output
				fmt.Fprintf(os.Stderr, "[ravif] done: %s (%d bytes, color %d, alpha %d)\n",
					s.Key, out.Size, out.ColorBytes, out.AlphaBytes)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name)

	var errs []error
	for _, r := range results {
		switch {
		case r.err != nil:
			errs = append(errs, r.err)
		case r.skipped:
			m.Stats.SkippedRegress++
		default:
			m.Assets[r.key] = r.asset
		}
	}

	// Report errors but don't fail the entire build for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[ravif] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[ravif] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	m.Encoder = &manifest.EncoderInfo{
		Quality:      p.cfg.Params.Quality(),
		AlphaQuality: p.cfg.Params.AlphaQuality(),
		Speed:        p.cfg.Params.Speed(),
		AlphaMode:    p.cfg.Params.AlphaColorMode().String(),
		Threads:      p.cfg.Params.Threads(),
		Premultiply:  p.cfg.Profile.Premultiply,
	}
	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers}
	m.ComputeStats()
	return m, nil
}
