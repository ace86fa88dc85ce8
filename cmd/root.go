package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ravif",
	Short: "Normalize any raster image and encode it to AVIF",
	Long: `ravif converts PNG, JPEG, GIF, BMP, TIFF and WebP sources of any bit
depth and channel layout into canonical 8-bit RGBA and encodes them to AVIF
with independent color and alpha quality.

The AV1 work is done by avifenc (libavif), which must be on PATH.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"ravif %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[ravif] "+format+"\n", args...)
	}
}
