package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"saba/internal/log"
	"saba/internal/metrics"
)

// LowStockChecker runs the low-stock alert and returns the flagged items.
type LowStockChecker interface {
	CheckLowStock(ctx context.Context) ([]string, error)
}

// Scheduler runs the periodic low-stock check.
type Scheduler struct {
	cron    *cron.Cron
	checker LowStockChecker
	metrics *metrics.Metrics
	logger  *log.Logger
	timeout time.Duration
}

// New creates a scheduler. m and logger may be nil.
func New(checker LowStockChecker, m *metrics.Metrics, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Nop()
	}
	return &Scheduler{
		cron:    cron.New(),
		checker: checker,
		metrics: m,
		logger:  logger.WithComponent(log.ComponentScheduler),
		timeout: time.Minute,
	}
}

// Start schedules the check with a standard five-field cron spec and
// starts the cron loop.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.checkLowStock); err != nil {
		return fmt.Errorf("schedule low-stock check %q: %w", spec, err)
	}
	s.logger.Info("Starting scheduler", "low_stock_cron", spec)
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running check to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) checkLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunLowStockCheck(ctx)
}

// RunLowStockCheck runs one check immediately.
func (s *Scheduler) RunLowStockCheck(ctx context.Context) {
	items, err := s.checker.CheckLowStock(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Low-stock check failed", log.FieldError, err)
		return
	}
	if s.metrics != nil {
		s.metrics.LowStockItems.Set(float64(len(items)))
	}
	s.logger.InfoContext(ctx, "Low-stock check completed", log.FieldItems, items)
}
