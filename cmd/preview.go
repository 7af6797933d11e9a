package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/dormbell/sample"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var previewDir string

func init() {
	previewCmd.Flags().StringVarP(&previewDir, "out", "o", ".", "directory for the .mid files")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview SCORE...",
	Short: "Renders scores as MIDI files to listen to before sending",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return preview(args)
	},
}

func preview(paths []string) error {
	songs, err := loadScores(paths)
	if err != nil {
		return err
	}
	for i, s := range songs {
		name := strings.ReplaceAll(s.Title, string(filepath.Separator), "_")
		if name == "" {
			name = "song"
		}
		path := filepath.Join(previewDir, name+".mid")
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "song %d", i+1)
		}
		err = sample.Write(f, s)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return errors.Wrapf(err, "song %d (%s)", i+1, s.Title)
		}
		logger.Info("wrote preview", "song", s.Title, "path", path)
	}
	return nil
}
