package core

// scheduler.go runs the background jobs behind the live dashboard feed.
//
// StartLiveRefresh re-simulates an uploaded log on every tick while
// auto-refresh is on; StartLabFeed publishes fresh lab readings. Both run
// until ctx is cancelled and log, rather than stop on, individual failures.

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/thermodash/internal/store"
	"github.com/JonMunkholm/thermodash/internal/synth"
)

// DefaultLiveInterval matches the dashboard's refresh cadence.
const DefaultLiveInterval = 5 * time.Second

// DefaultLabInterval is the lab readings cadence.
const DefaultLabInterval = 10 * time.Second

// StartLiveRefresh calls Refresh every interval and hands each changed
// snapshot to publish. It blocks until ctx is cancelled.
func (s *Service) StartLiveRefresh(ctx context.Context, interval time.Duration, publish func(store.Snapshot)) {
	if interval <= 0 {
		interval = DefaultLiveInterval
	}
	slog.Info("live refresh started", "interval", interval)

	every(ctx, interval, func() {
		snap, changed, err := s.Refresh(ctx)
		if err != nil {
			if ctx.Err() == nil {
				slog.Error("live refresh failed", "error", err)
			}
			return
		}
		if changed && publish != nil {
			publish(snap)
		}
	})

	slog.Info("live refresh stopped")
}

// StartLabFeed publishes fresh lab readings every interval. It blocks until
// ctx is cancelled.
func (s *Service) StartLabFeed(ctx context.Context, interval time.Duration, publish func(synth.LabReadings)) {
	if interval <= 0 {
		interval = DefaultLabInterval
	}
	slog.Info("lab feed started", "interval", interval)

	every(ctx, interval, func() {
		if publish != nil {
			publish(s.Lab())
		}
	})

	slog.Info("lab feed stopped")
}

func every(ctx context.Context, interval time.Duration, job func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job()
		}
	}
}
