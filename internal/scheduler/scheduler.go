package scheduler

import (
	"context"
	"errors"
	"fmt"
	"real-estate-investor/internal/catalog"
	"real-estate-investor/internal/config"
	"real-estate-investor/internal/models"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrAlreadyRunning is returned when a refresh is requested while one is in progress
var ErrAlreadyRunning = errors.New("refresh already running")

// Loader produces the incoming catalog for a refresh
type Loader func() ([]models.Property, error)

// Indexer rebuilds the search index from the active catalog
type Indexer interface {
	Reindex(properties []models.Property) error
}

// Recorder keeps per-property history
type Recorder interface {
	CreateSnapshotWithChangeDetection(property *models.Property) error
	RecordRemovals(ids []string) error
}

// Sweeper expires idle comparison sessions
type Sweeper interface {
	Sweep(now time.Time) int
}

// Options wires the optional collaborators. Nil fields are skipped.
type Options struct {
	Indexer  Indexer
	Recorder Recorder
	Sweeper  Sweeper
	Logger   *zap.Logger
}

// RunResult summarizes one catalog refresh
type RunResult struct {
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
	Sync        *catalog.SyncResult `json:"sync,omitempty"`
	Indexed     int                 `json:"indexed"`
	Snapshots   int                 `json:"snapshots"`
	Error       string              `json:"error,omitempty"`
	TriggeredBy string              `json:"triggered_by"`
}

// Status is the scheduler state reported to admins
type Status struct {
	Enabled  bool       `json:"enabled"`
	Running  bool       `json:"running"`
	CronSpec string     `json:"cron_spec,omitempty"`
	LastRun  *RunResult `json:"last_run,omitempty"`
}

// Scheduler handles the catalog refresh and session sweep jobs
type Scheduler struct {
	cron   *cron.Cron
	store  catalog.Syncer
	load   Loader
	opts   Options
	config *config.Config
	logger *zap.Logger

	mu        sync.Mutex
	isStarted bool
	running   bool
	cronSpec  string
	lastRun   *RunResult
}

// NewScheduler creates a new scheduler
func NewScheduler(store catalog.Syncer, load Loader, cfg *config.Config, opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var cronOpts []cron.Option
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			cronOpts = append(cronOpts, cron.WithLocation(loc))
		} else {
			logger.Warn("unknown timezone, using local time", zap.String("timezone", cfg.Timezone), zap.Error(err))
		}
	}
	return &Scheduler{
		cron:   cron.New(cronOpts...),
		store:  store,
		load:   load,
		opts:   opts,
		config: cfg,
		logger: logger.Named("scheduler"),
	}
}

// Start registers the enabled jobs and starts the cron runner
func (s *Scheduler) Start() error {
	if s.opts.Sweeper != nil {
		if interval := s.config.Compare.GetSweepInterval(); interval > 0 {
			spec := fmt.Sprintf("@every %s", interval)
			_, err := s.cron.AddFunc(spec, func() {
				s.opts.Sweeper.Sweep(time.Now())
			})
			if err != nil {
				return err
			}
		}
	}

	if s.config.Scheduler.RefreshEnabled {
		cronSpec := s.parseDailyRunTime(s.config.Scheduler.RefreshTime)
		_, err := s.cron.AddFunc(cronSpec, func() {
			if _, err := s.run(context.Background(), "cron"); err != nil {
				s.logger.Error("daily refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.cronSpec = cronSpec
		s.mu.Unlock()
		s.logger.Info("daily refresh scheduled", zap.String("time", s.config.Scheduler.RefreshTime), zap.String("cron", cronSpec))
	} else {
		s.logger.Info("daily refresh is disabled in configuration")
	}

	s.cron.Start()
	s.mu.Lock()
	s.isStarted = true
	s.mu.Unlock()
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	started := s.isStarted
	s.isStarted = false
	s.mu.Unlock()

	if started {
		<-s.cron.Stop().Done()
		s.logger.Info("stopped")
	}
}

// RunNow immediately executes the catalog refresh (for manual trigger)
func (s *Scheduler) RunNow(ctx context.Context) (*RunResult, error) {
	return s.run(ctx, "manual")
}

// Status reports whether a refresh is running and how the last one went
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Enabled:  s.config.Scheduler.RefreshEnabled,
		Running:  s.running,
		CronSpec: s.cronSpec,
	}
	if s.lastRun != nil {
		last := *s.lastRun
		st.LastRun = &last
	}
	return st
}

func (s *Scheduler) run(ctx context.Context, trigger string) (*RunResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.running = true
	s.mu.Unlock()

	result := &RunResult{StartedAt: time.Now(), TriggeredBy: trigger}
	err := s.refresh(ctx, result)
	result.FinishedAt = time.Now()
	if err != nil {
		result.Error = err.Error()
	}

	s.mu.Lock()
	s.running = false
	s.lastRun = result
	s.mu.Unlock()

	return result, err
}

// refresh reloads the catalog, syncs the store, rebuilds the index and
// records snapshots for every active property
func (s *Scheduler) refresh(ctx context.Context, result *RunResult) error {
	s.logger.Info("catalog refresh started", zap.String("trigger", result.TriggeredBy))

	incoming, err := s.load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	syncResult, err := s.store.Sync(ctx, incoming)
	if err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}
	result.Sync = syncResult

	active, err := s.store.ListProperties(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}

	if s.opts.Indexer != nil {
		if err := s.opts.Indexer.Reindex(active); err != nil {
			s.logger.Warn("reindex failed", zap.Error(err))
		} else {
			result.Indexed = len(active)
		}
	}

	if s.opts.Recorder != nil {
		for i := range active {
			if err := s.opts.Recorder.CreateSnapshotWithChangeDetection(&active[i]); err != nil {
				s.logger.Warn("snapshot failed", zap.String("property_id", active[i].ID), zap.Error(err))
				continue
			}
			result.Snapshots++
		}
		if err := s.opts.Recorder.RecordRemovals(syncResult.RemovedIDs); err != nil {
			s.logger.Warn("failed to record removals", zap.Error(err))
		}
	}

	s.logger.Info("catalog refresh completed",
		zap.Int("total", syncResult.Total),
		zap.Int("new", len(syncResult.NewIDs)),
		zap.Int("updated", len(syncResult.UpdatedIDs)),
		zap.Int("removed", len(syncResult.RemovedIDs)),
		zap.Int("snapshots", result.Snapshots))
	return nil
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 && hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 3:00 AM if parsing fails
	s.logger.Warn("failed to parse refresh time, using default 03:00", zap.String("time", timeStr))
	return "0 3 * * *"
}
