// Package scheduler refreshes the keyword fallback tables on a cron schedule
// so rule edits made by other replicas reach this process.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
)

// DefaultSchedule reloads keyword rules every five minutes.
const DefaultSchedule = "@every 5m"

// reloadTimeout bounds a single reload run.
const reloadTimeout = 30 * time.Second

// Reloader refreshes cached state from the database.
type Reloader interface {
	Reload(ctx context.Context) error
}

// KeywordScheduler runs a Reloader on a cron schedule.
type KeywordScheduler struct {
	logger   infralogger.Logger
	reloader Reloader
	schedule string
	cron     *cron.Cron
	parser   cron.Parser

	mu      sync.Mutex
	entryID cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler. An empty schedule uses DefaultSchedule.
func New(reloader Reloader, schedule string, log infralogger.Logger) *KeywordScheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	ctx, cancel := context.WithCancel(context.Background())
	return &KeywordScheduler{
		logger:   log,
		reloader: reloader,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger))),
		parser:   parser,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the reload job and starts the cron runner.
func (s *KeywordScheduler) Start() error {
	schedule, err := s.parser.Parse(s.schedule)
	if err != nil {
		return fmt.Errorf("parse keyword reload schedule %q: %w", s.schedule, err)
	}

	s.mu.Lock()
	s.entryID = s.cron.Schedule(schedule, cron.FuncJob(s.run))
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info("Keyword reload scheduled",
		infralogger.String("schedule", s.schedule),
		infralogger.String("next_run", schedule.Next(time.Now()).Format(time.RFC3339)),
	)
	return nil
}

// Stop removes the job and waits for a running reload to finish.
func (s *KeywordScheduler) Stop() {
	s.cancel()

	s.mu.Lock()
	s.cron.Remove(s.entryID)
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Keyword reload scheduler stopped")
}

func (s *KeywordScheduler) run() {
	ctx, cancel := context.WithTimeout(s.ctx, reloadTimeout)
	defer cancel()

	start := time.Now()
	if err := s.reloader.Reload(ctx); err != nil {
		s.logger.Error("Scheduled keyword reload failed", infralogger.Error(err))
		return
	}
	s.logger.Debug("Scheduled keyword reload finished", infralogger.Duration("duration", time.Since(start)))
}
