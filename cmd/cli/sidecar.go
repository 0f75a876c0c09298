package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/domain"
)

var sidecarCmd = &cobra.Command{
	Use:   "sidecar",
	Short: "Manage the yt-dlp and ffmpeg binaries",
}

var sidecarStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which helper binaries are available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			printSidecars(os.Stdout, c)
			return nil
		})
	},
}

var sidecarInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Download yt-dlp and ffmpeg into the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			return runSidecarInstall(cmd.Context(), c, os.Stdout, os.Stderr)
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the yt-dlp version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			version, err := c.Downloads.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("yt-dlp %s (%s backend)\n", version, c.Downloads.BackendName())
			return nil
		})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update [channel]",
	Short: "Update yt-dlp (stable, nightly or master)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel := ""
		if len(args) == 1 {
			channel = args[0]
		}
		return withContainer(func(c *app.Container) error {
			result, err := c.Downloads.Update(cmd.Context(), channel)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("update failed: %s", result.Message)
			}
			fmt.Println(okStyle.Render("yt-dlp " + result.Version))
			if result.Message != "" {
				fmt.Println(infoStyle.Render(result.Message))
			}
			return nil
		})
	},
}

func init() {
	sidecarCmd.AddCommand(sidecarStatusCmd, sidecarInstallCmd)
}

func runSidecarInstall(ctx context.Context, c *app.Container, out, progressOut io.Writer) error {
	events, unsubscribe := c.Events.Subscribe()
	printer := newProgressPrinter(progressOut)
	done := make(chan struct{})
	go func() {
		defer close(done)
		printer.Run(events)
	}()

	err := c.Sidecars.InstallAll(ctx)

	unsubscribe()
	<-done

	printSidecars(out, c)
	return err
}

func printSidecars(w io.Writer, c *app.Container) {
	status := c.Downloads.SidecarStatus(context.Background())
	fmt.Fprintln(w, labelStyle.Render("Sidecars:"))
	printField(w, "yt-dlp", availability(status.YTDLP, c, domain.SidecarYTDLP))
	printField(w, "ffmpeg", availability(status.FFmpeg, c, domain.SidecarFFmpeg))
}

func availability(ok bool, c *app.Container, sidecar domain.SidecarType) string {
	if !ok {
		return errorStyle.Render("missing")
	}
	path, err := c.Sidecars.Path(sidecar)
	if err != nil {
		return okStyle.Render("available")
	}
	return okStyle.Render("available") + " " + infoStyle.Render(path)
}
