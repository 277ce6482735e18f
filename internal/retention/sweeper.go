package retention

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"certificate-generator/certificate-api/internal/certificates"
	"certificate-generator/certificate-api/pkg/storage"
)

// Config controls certificate eviction
type Config struct {
	// TTL is the maximum age of a stored certificate; zero disables eviction.
	TTL time.Duration
	// Schedule is a standard cron expression or descriptor such as "@every 1h".
	Schedule string
}

// Result summarizes one sweep
type Result struct {
	Scanned int `json:"scanned"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// Sweeper deletes generated certificates older than the TTL
type Sweeper struct {
	store  storage.Store
	config Config
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	running bool
	entryID cron.EntryID
}

// NewSweeper creates a sweeper over store
func NewSweeper(store storage.Store, config Config, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
}

// Enabled reports whether eviction is configured
func (s *Sweeper) Enabled() bool {
	return s.config.TTL > 0
}

// Sweep deletes every expired certificate once. Per-file delete failures are
// counted and logged; only a failed listing aborts the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var result Result
	if !s.Enabled() {
		return result, nil
	}

	objects, err := s.store.List(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list certificates: %w", err)
	}

	cutoff := s.now().Add(-s.config.TTL)
	for _, obj := range objects {
		if !certificates.IsCertificateName(obj.Name) {
			continue
		}
		result.Scanned++
		if !obj.ModTime.Before(cutoff) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := s.store.Delete(ctx, obj.Name); err != nil {
			result.Failed++
			s.logger.Warn("failed to delete expired certificate",
				zap.String("name", obj.Name),
				zap.Error(err),
			)
			continue
		}
		result.Deleted++
		s.logger.Debug("deleted expired certificate",
			zap.String("name", obj.Name),
			zap.Time("mod_time", obj.ModTime),
		)
	}

	s.logger.Info("retention sweep finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed", result.Failed),
		zap.Duration("ttl", s.config.TTL),
	)
	return result, nil
}

// Start schedules sweeps until Stop is called or ctx is done. It is a no-op
// when eviction is disabled.
func (s *Sweeper) Start(ctx context.Context) error {
	if !s.Enabled() {
		s.logger.Info("retention disabled, certificates are kept indefinitely")
		return nil
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("retention sweeper already running")
	}

	id, err := s.cron.AddFunc(s.config.Schedule, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("retention sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("invalid retention schedule %q: %w", s.config.Schedule, err)
	}
	s.running = true
	s.entryID = id
	s.mu.Unlock()

	s.logger.Info("starting retention sweeper",
		zap.String("schedule", s.config.Schedule),
		zap.Duration("ttl", s.config.TTL),
	)
	s.cron.Start()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.cron.Remove(s.entryID)
	s.mu.Unlock()

	s.logger.Info("stopping retention sweeper")
	<-s.cron.Stop().Done()
}
