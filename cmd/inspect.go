package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/dormbell/frame"
	"github.com/jsphweid/dormbell/resolve"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	addFrameFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FRAME",
	Short: "Inspects an encoded frame",
	Long:  `Decodes a frame written by encode -o and prints every song in it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	songs, err := frame.Decode(cfg.FrameLayout(), data)
	if err != nil {
		return err
	}

	for i, rs := range songs {
		fmt.Printf("song %d: %d notes, pause %d, tempo %d, %v\n", i+1, rs.Len(), rs.PauseTicks, rs.TempoTicks,
			resolve.PlaybackLength(rs, cfg.ClockFrequency))
		for j := range rs.Ticks {
			fmt.Printf("  %3d  ticks %3d  beats %3d\n", j+1, rs.Ticks[j], rs.Beats[j])
		}
	}
	return nil
}
