package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/dormbell/constants"
	"github.com/jsphweid/dormbell/frame"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/resolve"
	"github.com/jsphweid/dormbell/util"
	"github.com/spf13/cobra"
)

func init() {
	addFrameFlags(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report SCORE...",
	Short: "Reports how scores fit the receiver's memory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(args)
	},
}

type songReport struct {
	title    string
	notes    int
	bytes    int
	playback string
	problem  error
}

func analyzeSong(s model.Song, limit int) songReport {
	r := songReport{title: s.Title, notes: len(s.Notes), bytes: frame.Size(len(s.Notes))}
	rs, err := resolve.Song(s, cfg.ClockFrequency)
	if err != nil {
		r.problem = err
		return r
	}
	r.playback = durafmt.Parse(resolve.PlaybackLength(rs, cfg.ClockFrequency)).LimitFirstN(2).String()
	if _, err := frame.Encode(rs, limit); err != nil {
		r.problem = err
	}
	return r
}

func report(paths []string) error {
	songs, err := loadScores(paths)
	if err != nil {
		return err
	}
	limit := cfg.MemoryLimit

	var sizes []int
	for _, s := range songs {
		r := analyzeSong(s, limit)
		sizes = append(sizes, r.bytes)
		fmt.Printf("%s: %d notes, %s (%.0f%% of memory)", r.title, r.notes, humanize.Bytes(uint64(r.bytes)), 100*float64(r.bytes)/float64(limit))
		if r.playback != "" {
			fmt.Printf(", plays for %s", r.playback)
		}
		fmt.Println()
		if r.problem != nil {
			fmt.Printf("  cannot be sent: %v\n", r.problem)
		}
	}

	maxNotes := (limit - constants.SongOverhead) / constants.NoteSize
	fmt.Printf("memory: %s, at most %d notes in one song\n", humanize.Bytes(uint64(limit)), maxNotes)
	fmt.Printf("all songs packed: %s\n", humanize.Bytes(uint64(util.Sum(sizes))))
	return nil
}
