package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var outPath string

func init() {
	encodeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the frame to this file instead of printing hex")
	addFrameFlags(encodeCmd)
	rootCmd.AddCommand(encodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode SCORE...",
	Short: "Encodes scores without sending them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return encode(args)
	},
}

func encode(paths []string) error {
	songs, err := loadScores(paths)
	if err != nil {
		return err
	}
	f, resolved, err := encodeSongs(songs, cfg.FrameLayout(), cfg.MemoryLimit)
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Printf("% X\n", f.Bytes())
	} else if err := os.WriteFile(outPath, f.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", outPath)
	}
	printSummary(f, resolved)
	return nil
}
