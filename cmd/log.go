package cmd

import (
	"context"
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps writing to w.
func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of an operation.
type progress struct {
	start time.Time
}

func newProgress() *progress {
	return &progress{start: time.Now()}
}

func (p *progress) done(ctx context.Context, msg string, attrs ...slog.Attr) {
	attrs = append(attrs, slog.Duration("elapsed", time.Since(p.start).Round(time.Millisecond)))
	slog.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}
