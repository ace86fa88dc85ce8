package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kolserdav/ravif-go/internal/manifest"
	"github.com/kolserdav/ravif-go/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	buildOutDir    string
	buildWorkers   int
	buildNoRegress bool
	buildZstd      bool
	buildOpts      encodeFlags
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Encode every image in a directory to AVIF and write a manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, gif, bmp, tiff, webp),
normalizes each to 8-bit RGBA, encodes it to AVIF and writes a manifest
with per-plane byte counts.

Output filenames are content-addressed: <key>.<w>.<h>.<hash>.avif`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutDir, "out", "o", "./ravif_out", "output directory")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel images (0 = NumCPU)")
	buildCmd.Flags().BoolVar(&buildNoRegress, "no-regress-size", true, "skip outputs not smaller than the original file")
	buildCmd.Flags().BoolVar(&buildZstd, "zstd", false, "write the manifest zstd-compressed (.json.zst)")
	buildOpts.register(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(buildOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof, params, err := buildOpts.resolve(cmd)
	if err != nil {
		return err
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (%s, premultiply=%v, max-width=%d)", prof.Name, params, prof.Premultiply, prof.MaxWidth)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:      absInput,
		OutputDir:     absOutput,
		Profile:       prof,
		Params:        params,
		Workers:       buildWorkers,
		Verbose:       verbose,
		NoRegressSize: buildNoRegress,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Write manifest.
	manifestPath := filepath.Join(absOutput, manifest.FileName)
	write := manifest.WriteJSON
	if buildZstd {
		manifestPath += ".zst"
		write = manifest.WriteZstd
	}
	if err := write(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, manifestPath, time.Since(start))
	return nil
}

func printBuildReport(m *manifest.Manifest, manifestPath string, elapsed time.Duration) {
	stats := m.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Println()
	fmt.Println("  ravif build complete")
	fmt.Println()
	fmt.Printf("  Assets:      %d\n", stats.TotalAssets)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s (color %s, alpha %s)\n",
		formatBytes(stats.TotalOutputBytes),
		formatBytes(stats.TotalColorBytes),
		formatBytes(stats.TotalAlphaBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	if stats.SkippedRegress > 0 {
		fmt.Printf("  Skipped:     %d images (AVIF not smaller than original)\n", stats.SkippedRegress)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	// Top 10 heaviest assets.
	if len(m.Assets) > 0 {
		type assetSize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []assetSize
		for key, a := range m.Assets {
			items = append(items, assetSize{key, a.Original.Size, a.Output.Size})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := min(len(items), 10)
		fmt.Printf("  Top %d heaviest (original → avif):\n", n)
		for _, it := range items[:n] {
			saved := float64(0)
			if it.inputSize > 0 {
				saved = (1 - float64(it.outputSize)/float64(it.inputSize)) * 100
			}
			fmt.Printf("    %-40s %8s → %8s  (−%.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				saved,
			)
		}
		fmt.Println()
	}

	fmt.Printf("  Manifest:    %s\n", filepath.Base(manifestPath))
	fmt.Println()
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
