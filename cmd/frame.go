package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/jsphweid/dormbell/config"
	"github.com/jsphweid/dormbell/file"
	"github.com/jsphweid/dormbell/frame"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/resolve"
	"github.com/jsphweid/dormbell/score"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// flags shared by the commands that build frames
var (
	layoutFlag string
	limitFlag  int
)

func addFrameFlags(c *cobra.Command) {
	c.Flags().StringVar(&layoutFlag, "layout", "", "burst (one song, two halves) or packed (several songs)")
	c.Flags().IntVar(&limitFlag, "limit", 0, "receiver memory in bytes")
}

func applyFlags(c *cobra.Command) error {
	if f := c.Flags().Lookup("layout"); f != nil && f.Changed {
		cfg.Layout = layoutFlag
	}
	if f := c.Flags().Lookup("limit"); f != nil && f.Changed {
		cfg.MemoryLimit = limitFlag
	}
	if f := c.Flags().Lookup("port"); f != nil && f.Changed {
		cfg.Port = portFlag
	}
	if f := c.Flags().Lookup("pace"); f != nil && f.Changed {
		cfg.Pacing.Mode = paceFlag
	}
	if f := c.Flags().Lookup("delay"); f != nil && f.Changed {
		cfg.Pacing.DelayMS = config.Millis(int(delayFlag / time.Millisecond))
	}
	return cfg.Validate()
}

// loadScores reads every score named by args, walking directories.
func loadScores(args []string) ([]model.Song, error) {
	paths, err := file.GatherScorePaths(args)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no scores found in %v", args)
	}
	logger.Debug("loading scores", "paths", paths)
	return score.LoadAll(paths)
}

func encodeSongs(songs []model.Song, layout frame.Layout, limit int) (*frame.Frame, []model.ResolvedSong, error) {
	resolved, err := resolve.Songs(songs, cfg.ClockFrequency)
	if err != nil {
		return nil, nil, err
	}

	var f *frame.Frame
	if layout == frame.Burst {
		if len(resolved) != 1 {
			return nil, nil, errors.Errorf("burst layout carries one song, got %d (use --layout packed)", len(resolved))
		}
		f, err = frame.Encode(resolved[0], limit)
	} else {
		f, err = frame.EncodeAll(resolved, limit)
	}
	if err != nil {
		return nil, nil, err
	}
	if f.Dropped > 0 {
		logger.Warn("memory limit reached, songs left out", "kept", f.Songs, "dropped", f.Dropped, "limit", limit)
	}
	return f, resolved[:f.Songs], nil
}

func summarize(resolved []model.ResolvedSong) []model.SongSummary {
	var res []model.SongSummary
	for _, rs := range resolved {
		res = append(res, model.SongSummary{
			Title:          rs.Title,
			Notes:          rs.Len(),
			PlaybackMillis: resolve.PlaybackLength(rs, cfg.ClockFrequency).Milliseconds(),
		})
	}
	return res
}

func printSummary(f *frame.Frame, resolved []model.ResolvedSong) {
	for _, rs := range resolved {
		length := resolve.PlaybackLength(rs, cfg.ClockFrequency)
		fmt.Printf("%s: %d notes, tempo %d ticks, plays for %s\n", rs.Title, rs.Len(), rs.TempoTicks, durafmt.Parse(length).LimitFirstN(2))
	}
	fmt.Printf("%s layout, %s of %s used", f.Layout, humanize.Bytes(uint64(f.Len())), humanize.Bytes(uint64(f.Limit)))
	if f.Dropped > 0 {
		fmt.Printf(", %d songs left out", f.Dropped)
	}
	fmt.Println()
}
