package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/thermodash/internal/aida"
	"github.com/JonMunkholm/thermodash/internal/config"
	"github.com/JonMunkholm/thermodash/internal/logging"
	"github.com/JonMunkholm/thermodash/internal/store"
	"github.com/JonMunkholm/thermodash/internal/synth"
)

// SampleFileName is recorded in history for ingests of the bundled sample.
const SampleFileName = "aida64-sample.csv"

// DefaultIngestTimeout bounds a single ingest when none is configured.
const DefaultIngestTimeout = 2 * time.Minute

// Service owns the dashboard state: it ingests logs, substitutes synthetic
// data when an ingest fails and produces the live variations.
type Service struct {
	store    store.Store
	ingestor *aida.Ingestor
	gen      *synth.Generator
	limiter  *IngestLimiter
	now      func() time.Time

	maxFileSize   int64
	ingestTimeout time.Duration

	// mu serialises snapshot read-modify-write cycles.
	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator replaces the random synthetic data source.
func WithGenerator(g *synth.Generator) Option {
	return func(s *Service) {
		s.gen = g
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service persisting into st.
func NewService(st store.Store, cfg *config.Config, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("core: store is required")
	}
	if cfg == nil {
		return nil, errors.New("core: config is required")
	}

	s := &Service{
		store:         st,
		limiter:       NewIngestLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		now:           time.Now,
		maxFileSize:   cfg.Upload.MaxFileSize,
		ingestTimeout: cfg.Upload.Timeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = synth.NewRandom()
	}
	if s.ingestTimeout <= 0 {
		s.ingestTimeout = DefaultIngestTimeout
	}
	s.ingestor = aida.New(aida.WithUsage(s.gen.Usage))

	return s, nil
}

// IngestOutcome is the state after an ingest attempt.
type IngestOutcome struct {
	Snapshot  store.Snapshot     `json:"snapshot"`
	Result    *aida.IngestResult `json:"result,omitempty"`
	Record    store.IngestRecord `json:"record"`
	Sanitized bool               `json:"sanitized,omitempty"`
}

// IngestUpload decodes and ingests an uploaded log. size is the declared
// body size, or 0 if unknown.
//
// When the log cannot be ingested the dashboard falls back to synthetic data:
// the returned outcome holds that fallback snapshot and the error describes
// why the log was rejected. A nil outcome means nothing was changed, either
// because no ingest slot was free or because ctx ended.
func (s *Service) IngestUpload(ctx context.Context, fileName string, r io.Reader, size int64) (*IngestOutcome, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.ingestTimeout)
	defer cancel()

	if s.maxFileSize > 0 && size > s.maxFileSize {
		err := fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, size, s.maxFileSize)
		return s.fallback(ctx, fileName, "", err)
	}

	decoded, err := DecodeLog(r, s.maxFileSize)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return s.fallback(ctx, fileName, "", err)
	}
	if decoded.Sanitized {
		ingestLogger(ctx, fileName).Debug("replaced invalid UTF-8 in log")
	}

	out, err := s.ingestText(ctx, fileName, decoded.Text)
	if out != nil {
		out.Sanitized = decoded.Sanitized
	}
	return out, err
}

// IngestSample ingests the bundled AIDA64 sample log.
func (s *Service) IngestSample(ctx context.Context) (*IngestOutcome, error) {
	return s.IngestUpload(ctx, SampleFileName, strings.NewReader(aida.SampleLog), int64(len(aida.SampleLog)))
}

func (s *Service) ingestText(ctx context.Context, fileName, text string) (*IngestOutcome, error) {
	result, err := s.ingestor.Ingest(text)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return s.fallback(ctx, fileName, text, err)
	}

	now := s.now()
	snap := store.Snapshot{
		CPUData:     result.Sensors,
		Metrics:     metricsFor(result.Overall, store.SourceCSV),
		UploadedCSV: text,
		IsConnected: true,
		AutoRefresh: true,
		LastUpdate:  &now,
	}

	s.mu.Lock()
	err = s.store.Save(ctx, snap)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	rec := s.record(ctx, fileName, store.SourceCSV, result.Sensors, result.Overall, nil)

	ingestLogger(ctx, fileName).Info("log ingested",
		"sensors", len(result.Sensors),
		"samples", result.Stats.Samples,
		"skipped_rows", result.Stats.SkippedRows,
		"avg_temp", result.Overall.AvgTemp,
		"max_temp", result.Overall.MaxTemp,
	)

	return &IngestOutcome{Snapshot: snap, Result: result, Record: rec}, nil
}

// fallback replaces the dashboard data with synthetic cards after a failed
// ingest. The log text is kept so the live refresh can still use its header.
func (s *Service) fallback(ctx context.Context, fileName, text string, cause error) (*IngestOutcome, error) {
	cards := s.gen.FallbackCPU()
	overall := synth.Overall(cards)

	s.mu.Lock()
	var snap store.Snapshot
	prev, err := s.load(ctx)
	if err == nil {
		snap = store.Snapshot{
			CPUData:     cards,
			Metrics:     metricsFor(overall, store.SourceMock),
			UploadedCSV: text,
			IsConnected: prev.IsConnected,
			AutoRefresh: true,
			LastUpdate:  prev.LastUpdate,
		}
		err = s.store.Save(ctx, snap)
	}
	s.mu.Unlock()

	ingestErr := fmt.Errorf("ingest %s: %w", fileName, cause)
	if err != nil {
		return nil, errors.Join(ingestErr, fmt.Errorf("save fallback snapshot: %w", err))
	}

	rec := s.record(ctx, fileName, store.SourceMock, nil, aida.Overall{}, cause)

	ingestLogger(ctx, fileName).Warn("log rejected, showing mock data",
		"kind", string(aida.KindOf(cause)),
		"code", rec.ErrorCode,
		"error", cause,
	)

	return &IngestOutcome{Snapshot: snap, Record: rec}, ingestErr
}

// record appends an ingest attempt to history. History failures are logged
// and do not fail the ingest.
func (s *Service) record(ctx context.Context, fileName, source string, sensors []aida.SensorSummary, overall aida.Overall, cause error) store.IngestRecord {
	rec := store.IngestRecord{
		ID:        uuid.NewString(),
		FileName:  fileName,
		Source:    source,
		Sensors:   sensors,
		Overall:   overall,
		ClientIP:  ClientIPFromContext(ctx),
		UserAgent: UserAgentFromContext(ctx),
		CreatedAt: s.now().UTC(),
	}
	if cause != nil {
		rec.Error = cause.Error()
		rec.ErrorCode = MapError(cause).Code
	}

	if err := s.store.AppendIngest(ctx, rec); err != nil {
		ingestLogger(ctx, fileName).Error("failed to record ingest", "id", rec.ID, "error", err)
	}
	return rec
}

// ingestLogger scopes the request logger to one ingest and its client.
func ingestLogger(ctx context.Context, fileName string) *slog.Logger {
	args := []any{"file", fileName}
	if ip := ClientIPFromContext(ctx); ip != "" {
		args = append(args, "client_ip", ip)
	}
	if ua := UserAgentFromContext(ctx); ua != "" {
		args = append(args, "user_agent", ua)
	}
	return logging.WithFields(ctx, args...)
}

// Initialise seeds the store with synthetic data if it is empty and returns
// the current snapshot.
func (s *Service) Initialise(ctx context.Context) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Snapshot returns the current dashboard state.
func (s *Service) Snapshot(ctx context.Context) (store.Snapshot, error) {
	return s.Initialise(ctx)
}

// SetAutoRefresh switches the live variation of an uploaded log on or off.
func (s *Service) SetAutoRefresh(ctx context.Context, enabled bool) (store.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return store.Snapshot{}, err
	}
	snap.AutoRefresh = enabled
	if err := s.store.Save(ctx, snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, nil
}

// Refresh produces a live variation of the uploaded log. It reports false
// without changing anything when auto-refresh is off, no log is kept, or the
// kept log has no sensor header.
func (s *Service) Refresh(ctx context.Context) (store.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return store.Snapshot{}, false, err
	}
	if !snap.AutoRefresh || snap.UploadedCSV == "" {
		return snap, false, nil
	}

	names, err := aida.SensorNames(snap.UploadedCSV)
	if err != nil {
		return snap, false, nil
	}

	cards := s.gen.Vary(names)
	now := s.now()
	snap.CPUData = cards
	snap.Metrics = metricsFor(synth.Overall(cards), store.SourceLive)
	snap.LastUpdate = &now

	if err := s.store.Save(ctx, snap); err != nil {
		return store.Snapshot{}, false, fmt.Errorf("save snapshot: %w", err)
	}
	return snap, true, nil
}

// History returns up to limit recent ingest attempts, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]store.IngestRecord, error) {
	recs, err := s.store.RecentIngests(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load ingest history: %w", err)
	}
	return recs, nil
}

// Lab returns a fresh set of lab environment readings.
func (s *Service) Lab() synth.LabReadings {
	return s.gen.Lab(s.now())
}

// LimiterStatus reports ingest slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForIngests blocks until in-flight ingests finish or ctx is done.
func (s *Service) WaitForIngests(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// load returns the stored snapshot, seeding mock data into an empty store.
// Callers hold s.mu.
func (s *Service) load(ctx context.Context) (store.Snapshot, error) {
	snap, err := s.store.Load(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, store.ErrEmpty) {
		return store.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	cards := s.gen.FallbackCPU()
	snap = store.Snapshot{
		CPUData: cards,
		Metrics: metricsFor(synth.Overall(cards), store.SourceMock),
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("seed snapshot: %w", err)
	}
	slog.Debug("seeded dashboard with mock data")
	return snap, nil
}

func metricsFor(o aida.Overall, source string) store.Metrics {
	return store.Metrics{
		TotalCPUs:  store.FixedCPUCount,
		AvgTemp:    o.AvgTemp,
		MaxTemp:    o.MaxTemp,
		DataSource: source,
	}
}
