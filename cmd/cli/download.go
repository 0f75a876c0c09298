package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yourusername/yt-audio-go/internal/app"
	"github.com/yourusername/yt-audio-go/internal/domain"
)

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download audio from a video URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withContainer(func(c *app.Container) error {
			return runDownload(ctx, c, args[0], format, os.Stdout, os.Stderr)
		})
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [url]",
	Short: "Show metadata for a video URL without downloading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(func(c *app.Container) error {
			return runInfo(cmd.Context(), c, args[0], os.Stdout)
		})
	},
}

func init() {
	downloadCmd.Flags().StringP("format", "f", "", "Audio format (mp3, flac)")
}

// runDownload performs one download, drawing progress to progressOut
func runDownload(ctx context.Context, c *app.Container, url, format string, out, progressOut io.Writer) error {
	events, unsubscribe := c.Events.Subscribe()
	printer := newProgressPrinter(progressOut)
	done := make(chan struct{})
	go func() {
		defer close(done)
		printer.Run(events)
	}()

	result, err := c.Downloads.StartDownload(ctx, domain.DownloadRequest{
		URL:    url,
		Format: domain.AudioFormat(format),
	})

	unsubscribe()
	<-done

	if err != nil {
		return err
	}

	fmt.Fprintln(out, okStyle.Render("Download complete!"))
	printField(out, "Title", result.Title)
	printField(out, "File", result.OutputPath)
	printField(out, "Today", fmt.Sprintf("%d/%d", c.Gate.Count(), domain.DailyLimit))
	return nil
}

func runInfo(ctx context.Context, c *app.Container, url string, out io.Writer) error {
	info, err := c.Downloads.GetVideoInfo(ctx, url)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, labelStyle.Render("Video Info:"))
	printField(out, "Title", info.Title)
	if info.Artist != nil {
		printField(out, "Artist", *info.Artist)
	}
	if info.Album != nil {
		printField(out, "Album", *info.Album)
	}
	if info.Duration != nil {
		printField(out, "Duration", formatSeconds(*info.Duration))
	}
	if info.ThumbnailPath != nil {
		printField(out, "Thumbnail", *info.ThumbnailPath)
	}
	return nil
}

func formatSeconds(secs uint64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
