package cmd

import (
	"log/slog"
	"os"

	"github.com/jsphweid/dormbell/config"
	"github.com/jsphweid/dormbell/constants"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	debug   bool
	cfg     = config.Default()

	// safe to use before initLogger runs
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "dormbell",
	Short: "Writes songs to a dormbell doorbell",
	Long: `Converts scores into the doorbell's tone/beat payload and writes it over
the serial line to the receiving MSP430.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger(debug)
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return applyFlags(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", constants.GetConfigPath(), "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log at debug level with source locations")
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
