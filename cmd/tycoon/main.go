// Command tycoon is a turn-based business simulation: outprice, outbuild,
// and outlast a field of AI-run competitors before the clock runs out.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/tycoon/internal/config"
)

func main() {
	cfg := config.FromEnv()
	setupLogging(cfg.LogLevel)

	root := &cobra.Command{
		Use:          "tycoon",
		Short:        "Business empire simulation",
		SilenceUsage: true,
	}

	root.AddCommand(
		newPlayCmd(cfg),
		newAutoCmd(cfg),
		newReportCmd(cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
	slog.SetDefault(logger)
}
