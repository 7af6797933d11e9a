package cmd

import (
	"fmt"
	"time"

	"github.com/jsphweid/dormbell/transport"
	"github.com/spf13/cobra"
)

var (
	portFlag  string
	paceFlag  string
	delayFlag time.Duration
)

func init() {
	sendCmd.Flags().StringVarP(&portFlag, "port", "p", "", "serial port of the receiver")
	sendCmd.Flags().StringVar(&paceFlag, "pace", "", "ack (wait for the receiver) or delay (sleep)")
	sendCmd.Flags().DurationVar(&delayFlag, "delay", 0, "sleep between burst halves when --pace=delay")
	addFrameFlags(sendCmd)
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send SCORE...",
	Short: "Writes scores to the doorbell",
	Long: `Resolves the scores, encodes them into one frame and writes the frame
over the serial port. Scores may be .txt, .xml, .json or .mid files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(args)
	},
}

func send(paths []string) error {
	songs, err := loadScores(paths)
	if err != nil {
		return err
	}
	f, resolved, err := encodeSongs(songs, cfg.FrameLayout(), cfg.MemoryLimit)
	if err != nil {
		return err
	}

	port, err := transport.Open(cfg.Port, cfg.BaudRate)
	if err != nil {
		return err
	}
	opts := cfg.TransportOptions()
	opts.Logger = logger
	session := transport.NewSession(port, opts)
	defer session.Close()

	logger.Debug("opened session", "session", session.ID().String(), "baud", cfg.BaudRate)
	if err := session.Send(f); err != nil {
		return err
	}
	fmt.Printf("sent in session %s\n", session.ID())
	printSummary(f, resolved)
	return nil
}
