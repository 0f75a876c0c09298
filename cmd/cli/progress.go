package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/yt-audio-go/internal/domain"
	"github.com/yourusername/yt-audio-go/internal/infrastructure"
)

const barWidth = 30

var (
	grey   = lipgloss.Color("240")
	green  = lipgloss.Color("46")
	yellow = lipgloss.Color("226")
	red    = lipgloss.Color("196")

	infoStyle  = lipgloss.NewStyle().Foreground(grey)
	warnStyle  = lipgloss.NewStyle().Foreground(yellow)
	errorStyle = lipgloss.NewStyle().Foreground(red).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(green).Bold(true)
	labelStyle = lipgloss.NewStyle().Bold(true)
)

// renderBar draws a fixed-width bar for percent in [0, 100]
func renderBar(label string, percent float64, status string) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(float64(barWidth) * percent / 100)

	color := yellow
	if percent >= 100 {
		color = green
	}

	var bar strings.Builder
	bar.WriteString(lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)))
	bar.WriteString(lipgloss.NewStyle().Foreground(grey).Render(strings.Repeat("━", barWidth-filled)))

	if len(label) > 8 {
		label = label[:8]
	}
	return fmt.Sprintf("%-8s %s %7.2f%% %s", label, bar.String(), percent, status)
}

// progressPrinter renders bus events to a terminal. Progress redraws one
// line in place; log events are printed above it.
type progressPrinter struct {
	out   io.Writer
	mu    sync.Mutex
	inBar bool
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out}
}

// Run prints events until the channel closes
func (p *progressPrinter) Run(events <-chan infrastructure.Event) {
	for ev := range events {
		p.Handle(ev)
	}
	p.finishLine()
}

// Handle prints a single event
func (p *progressPrinter) Handle(ev infrastructure.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch payload := ev.Payload.(type) {
	case domain.ProgressPayload:
		p.drawBar(renderBar("audio", payload.Progress, payload.Status))
	case domain.SetupProgressPayload:
		p.drawBar(renderBar(payload.Type, payload.Progress, payload.Status))
	case domain.LogPayload:
		if p.inBar {
			fmt.Fprintln(p.out)
			p.inBar = false
		}
		fmt.Fprintln(p.out, styleForLevel(payload.Level).Render(payload.Message))
	}
}

func (p *progressPrinter) drawBar(line string) {
	fmt.Fprintf(p.out, "\r%s", line)
	p.inBar = true
}

func (p *progressPrinter) finishLine() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inBar {
		fmt.Fprintln(p.out)
		p.inBar = false
	}
}

func styleForLevel(level string) lipgloss.Style {
	switch level {
	case domain.LogLevelWarn:
		return warnStyle
	case domain.LogLevelError:
		return errorStyle
	default:
		return infoStyle
	}
}
