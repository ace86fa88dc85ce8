package cmd

import (
	"fmt"
	"os"

	"github.com/kolserdav/ravif-go/internal/avif"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.avif>...",
	Short: "Show dimensions and plane sizes of AVIF files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", path, err)
			failed++
			continue
		}
		info, err := avif.Parse(data)
		if err != nil {
			fmt.Printf("  ✗ %s: %v\n", path, err)
			failed++
			continue
		}

		fmt.Printf("  %s\n", path)
		fmt.Printf("    Brand:       %s\n", info.MajorBrand)
		fmt.Printf("    Dimensions:  %dx%d\n", info.Width, info.Height)
		fmt.Printf("    File size:   %s\n", formatBytes(int64(len(data))))
		fmt.Printf("    Color plane: %s (item %d)\n", formatBytes(int64(info.ColorItemSize)), info.PrimaryItemID)
		if info.HasAlpha {
			fmt.Printf("    Alpha plane: %s (item %d)\n", formatBytes(int64(info.AlphaItemSize)), info.AlphaItemID)
		} else {
			fmt.Printf("    Alpha plane: none\n")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read as AVIF", failed, len(args))
	}
	return nil
}
