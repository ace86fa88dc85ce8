package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kolserdav/ravif-go/internal/avif"
	"github.com/kolserdav/ravif-go/internal/hasher"
	"github.com/kolserdav/ravif-go/internal/manifest"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a ravif manifest and check every output it references",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	manifestPath := args[0]

	// A directory means its manifest, compressed or not.
	if info, err := os.Stat(manifestPath); err == nil && info.IsDir() {
		manifestPath = filepath.Join(manifestPath, manifest.FileName)
		if _, err := os.Stat(manifestPath); err != nil {
			manifestPath += ".zst"
		}
	}

	m, err := manifest.Read(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	errs := validateManifest(m, filepath.Dir(manifestPath))
	if len(errs) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d assets, all outputs present and readable\n", m.Stats.TotalAssets)
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m *manifest.Manifest, baseDir string) []string {
	var errs []string

	if m.Version != manifest.SupportedManifestVersion {
		errs = append(errs, fmt.Sprintf("unsupported manifest version: %d", m.Version))
	}

	seenPaths := map[string]string{}
	for key, asset := range m.Assets {
		if asset.Original.Width <= 0 || asset.Original.Height <= 0 {
			errs = append(errs, fmt.Sprintf("asset %q: invalid original dimensions %dx%d",
				key, asset.Original.Width, asset.Original.Height))
		}

		out := asset.Output
		if out.Hash == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing hash", key))
		}
		if out.Path == "" {
			errs = append(errs, fmt.Sprintf("asset %q: missing path", key))
			continue
		}
		if other, dup := seenPaths[out.Path]; dup {
			errs = append(errs, fmt.Sprintf("asset %q: path %q also used by %q", key, out.Path, other))
		}
		seenPaths[out.Path] = key

		data, err := os.ReadFile(filepath.Join(baseDir, out.Path))
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q: file not found: %s", key, out.Path))
			continue
		}
		if out.Size > 0 && int64(len(data)) != out.Size {
			errs = append(errs, fmt.Sprintf("asset %q: size mismatch: manifest=%d, disk=%d",
				key, out.Size, len(data)))
		}
		if out.Hash != "" && hasher.ContentHash(data, len(out.Hash)) != out.Hash {
			errs = append(errs, fmt.Sprintf("asset %q: hash mismatch", key))
		}

		info, err := avif.Parse(data)
		if err != nil {
			errs = append(errs, fmt.Sprintf("asset %q: %s: %v", key, out.Path, err))
			continue
		}
		if info.Width != out.Width || info.Height != out.Height {
			errs = append(errs, fmt.Sprintf("asset %q: dimensions mismatch: manifest=%dx%d, file=%dx%d",
				key, out.Width, out.Height, info.Width, info.Height))
		}
		if info.ColorItemSize != out.ColorBytes || info.AlphaItemSize != out.AlphaBytes {
			errs = append(errs, fmt.Sprintf("asset %q: plane sizes mismatch: manifest=%d/%d, file=%d/%d",
				key, out.ColorBytes, out.AlphaBytes, info.ColorItemSize, info.AlphaItemSize))
		}
	}

	if m.Stats.TotalAssets != len(m.Assets) {
		errs = append(errs, fmt.Sprintf("stats.total_assets mismatch: %d != %d", m.Stats.TotalAssets, len(m.Assets)))
	}

	return errs
}
