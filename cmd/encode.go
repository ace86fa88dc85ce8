package cmd

import (
	"fmt"
	"os"

	"github.com/kolserdav/ravif-go/internal/encoder"
	"github.com/kolserdav/ravif-go/internal/pixel"
	"github.com/kolserdav/ravif-go/internal/resize"
	"github.com/spf13/cobra"
)

var (
	encodeOut  string
	encodeOpts encodeFlags
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input>",
	Short: "Encode one image to AVIF",
	Args:  cobra.ExactArgs(1),
	RunE:  runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOut, "out", "o", "", "output AVIF file")
	encodeOpts.register(encodeCmd)
	encodeCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	prof, params, err := encodeOpts.resolve(cmd)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	src, err := pixel.Decode(data)
	if err != nil {
		return err
	}
	buf, err := pixel.Normalize(src, false)
	if err != nil {
		return err
	}
	logVerbose("source: %s %dx%d (%s)", args[0], buf.Width, buf.Height, pixel.Kind(src))

	buf = resize.Prepare(buf, prof.MaxWidth, prof.Premultiply)
	logVerbose("encode: %dx%d, profile %s, %s", buf.Width, buf.Height, prof.Name, params)

	res, err := encoder.Encode(buf, params)
	if err != nil {
		return err
	}

	if err := os.WriteFile(encodeOut, res.Data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("Encoded %dx%d → %s (%s; color %s, alpha %s)\n",
		buf.Width, buf.Height, encodeOut,
		formatBytes(int64(len(res.Data))),
		formatBytes(int64(res.ColorByteSize)),
		formatBytes(int64(res.AlphaByteSize)),
	)
	return nil
}
