// Package flightrecorder keeps a rolling execution trace in memory and writes it to disk when a plan request runs
// out of time.
package flightrecorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/trace"
	"sync"
	"time"
)

const (
	defaultMinAge   = 2 * time.Minute
	defaultMaxBytes = 32 * 1024 * 1024 // 32MB
	defaultCooldown = 15 * time.Minute
)

// Config configures a Recorder. Zero values select the defaults.
type Config struct {
	Logger *slog.Logger
	// Directory receives the trace files. It is created if missing.
	Directory string
	MinAge    time.Duration
	MaxBytes  uint64
	// Cooldown is the minimum time between two captures.
	Cooldown time.Duration
	Now      func() time.Time
}

// Recorder captures the recent execution trace of the process on demand.
//
// A nil *Recorder is valid and never captures anything.
type Recorder struct {
	logger    *slog.Logger
	fr        *trace.FlightRecorder
	directory string
	cooldown  time.Duration
	now       func() time.Time

	mu          sync.Mutex
	lastCapture time.Time
}

// New creates a stopped Recorder.
func New(cfg Config) (*Recorder, error) {
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Directory == "" {
		return nil, errors.New("traces directory is required")
	}
	if err := os.MkdirAll(cfg.Directory, 0o700); err != nil { //nolint:mnd // owner only
		return nil, fmt.Errorf("create traces directory: %w", err)
	}
	if cfg.MinAge == 0 {
		cfg.MinAge = defaultMinAge
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = defaultCooldown
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Recorder{
		logger:      cfg.Logger,
		fr:          trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: cfg.MinAge, MaxBytes: cfg.MaxBytes}),
		directory:   cfg.Directory,
		cooldown:    cfg.Cooldown,
		now:         cfg.Now,
		mu:          sync.Mutex{},
		lastCapture: time.Time{},
	}, nil
}

// Start begins recording.
func (r *Recorder) Start(ctx context.Context) error {
	if err := r.fr.Start(); err != nil {
		return fmt.Errorf("start flight recorder: %w", err)
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder started",
		slog.String("directory", r.directory), slog.Duration("cooldown", r.cooldown))
	return nil
}

// Stop ends recording.
func (r *Recorder) Stop(ctx context.Context) {
	r.fr.Stop()
	r.logger.LogAttrs(ctx, slog.LevelInfo, "flight recorder stopped")
}

// Capture writes the recorded trace to a file named after label and returns its path. It returns an empty path when
// the recorder is nil, not running, or still cooling down from the previous capture.
func (r *Recorder) Capture(ctx context.Context, label string) string {
	if r == nil || !r.fr.Enabled() {
		return ""
	}

	now := r.now()
	r.mu.Lock()
	if !r.lastCapture.IsZero() && now.Sub(r.lastCapture) < r.cooldown {
		r.mu.Unlock()
		r.logger.LogAttrs(ctx, slog.LevelDebug, "skipping trace capture due to cooldown",
			slog.Time("last_capture", r.lastCapture))
		return ""
	}
	r.lastCapture = now
	r.mu.Unlock()

	path := filepath.Join(r.directory, fmt.Sprintf("%s-%s.trace", label, now.UTC().Format("20060102-150405")))
	written, err := r.writeFile(path)
	if err != nil {
		r.logger.LogAttrs(ctx, slog.LevelError, "capture trace", slog.String("file", path), slog.Any("error", err))
		return ""
	}
	r.logger.LogAttrs(ctx, slog.LevelWarn, "captured trace", slog.String("file", path), slog.Int64("bytes", written))
	return path
}

func (r *Recorder) writeFile(path string) (int64, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create trace file: %w", err)
	}
	written, err := r.fr.WriteTo(file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		return written, fmt.Errorf("write trace: %w", err)
	}
	return written, nil
}
