package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/dwgdraw"
)

var rootCmd = &cobra.Command{
	Use:   "dwgreplay",
	Short: "Replay drawing fixtures through the draw dispatcher",
	Long: `dwgreplay loads YAML drawing fixtures, draws them through the
dispatcher and prints the geometry records produced per block.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		return setupLogging(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); empty disables logging")
	rootCmd.PersistentFlags().String("config", "", "YAML file with dispatcher settings")
}

func setupLogging(level string) error {
	if level == "" {
		dwgdraw.SetLogger(nil)
		return nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("bad --log-level: %w", err)
	}
	dwgdraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}
