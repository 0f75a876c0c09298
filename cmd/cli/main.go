package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/pkg/logger"
)

var (
	configPath string
	verbose    bool
	serverURL  string
	rootCmd    = &cobra.Command{
		Use:           "yt-audio",
		Short:         "yt-audio - Download audio with yt-dlp",
		Long:          `A command-line interface for downloading audio from video sites with daily limits, user-agent rotation and proxy support.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.yt-audio/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show application logs")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL for commands that talk to a running server")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(gateCmd)
	rootCmd.AddCommand(proxyCmd)
	rootCmd.AddCommand(antiBanCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(sidecarCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(activeCmd)
	rootCmd.AddCommand(cancelCmd)
}

// withContainer loads the configuration, wires the application in-process
// and runs fn against it
func withContainer(fn func(c *app.Container) error) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logCfg := logger.Config{Level: "warn", Format: "console", OutputPath: "stderr"}
	if verbose {
		logCfg.Level = cfg.Logging.Level
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	c, err := app.Bootstrap(cfg, log)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(c)
}

func printField(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "  %s %v\n", labelStyle.Render(fmt.Sprintf("%-10s", label+":")), value)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
