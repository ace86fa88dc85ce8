package cmd

import (
	"fmt"
	"os"

	"github.com/kolserdav/ravif-go/internal/pixel"
	"github.com/kolserdav/ravif-go/internal/resize"
	"github.com/spf13/cobra"
)

var (
	scaleOut    string
	scaleWidth  int
	scaleHeight int
)

var scaleCmd = &cobra.Command{
	Use:   "scale <input>",
	Short: "Resize an image with a triangle filter and write PNG",
	Long: `Decodes any supported source, normalizes it to 8-bit RGBA and resamples
it to --width × --height. Leave one of them at 0 to keep the aspect ratio.`,
	Args: cobra.ExactArgs(1),
	RunE: runScale,
}

func init() {
	scaleCmd.Flags().StringVarP(&scaleOut, "out", "o", "", "output PNG file")
	scaleCmd.Flags().IntVar(&scaleWidth, "width", 0, "target width (0 = keep aspect)")
	scaleCmd.Flags().IntVar(&scaleHeight, "height", 0, "target height (0 = keep aspect)")
	scaleCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(scaleCmd)
}

func runScale(_ *cobra.Command, args []string) error {
	if scaleWidth < 0 || scaleHeight < 0 || (scaleWidth == 0 && scaleHeight == 0) {
		return fmt.Errorf("need a positive --width or --height, got %dx%d", scaleWidth, scaleHeight)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	buf, err := pixel.NormalizeBytes(data, false)
	if err != nil {
		return err
	}

	scaled := resize.Scale(buf, scaleWidth, scaleHeight)
	logVerbose("scale: %dx%d → %dx%d", buf.Width, buf.Height, scaled.Width, scaled.Height)

	out, err := resize.EncodePNG(scaled)
	if err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := os.WriteFile(scaleOut, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("Scaled %dx%d → %dx%d → %s (%s)\n",
		buf.Width, buf.Height, scaled.Width, scaled.Height, scaleOut, formatBytes(int64(len(out))))
	return nil
}
