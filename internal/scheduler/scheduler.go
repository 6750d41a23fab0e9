package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/domain/models"
	"github.com/mamadbah2/acai-manager/internal/repository/mongodb"
	"github.com/mamadbah2/acai-manager/pkg/clients/whatsapp"
	"github.com/mamadbah2/acai-manager/pkg/metrics"
)

const (
	dailyClosingJob = "daily_closing"
	jobTimeout      = 2 * time.Minute
)

// Reports builds the closing report of a day.
type Reports interface {
	DailyReport(day time.Time) models.DailyReport
	FormatDailyReport(report models.DailyReport) string
}

// Options holds the optional collaborators of the closing job.
type Options struct {
	Archive    mongodb.ReportRepository
	Sender     whatsapp.Sender
	OwnerPhone string
	Metrics    *metrics.CronJobMetrics
	Location   *time.Location
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	reports  Reports
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance running in opts.Location.
func NewScheduler(schedule string, reports Reports, opts Options, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	// Standard 5-field cron expressions, evaluated in the shop's timezone.
	c := cron.New(cron.WithLocation(opts.Location))

	return &Scheduler{
		cron:     c,
		schedule: schedule,
		reports:  reports,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDailyClosing); err != nil {
		return fmt.Errorf("schedule daily closing %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyClosing() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	started := time.Now()
	err := s.DailyClosing(ctx)
	s.opts.Metrics.ObserveDuration(dailyClosingJob, time.Since(started))
	if err != nil {
		s.opts.Metrics.IncFailure(dailyClosingJob)
		s.logger.Error("daily closing failed", zap.Error(err))
		return
	}
	s.opts.Metrics.IncSuccess(dailyClosingJob)
}

// DailyClosing computes today's report, archives it and sends it to the owner.
// Archive and delivery failures are joined into the returned error.
func (s *Scheduler) DailyClosing(ctx context.Context) error {
	report := s.reports.DailyReport(s.now().In(s.opts.Location))
	s.logger.Info("daily closing computed",
		zap.Time("date", report.Date),
		zap.Int("orders", report.OrderCount),
		zap.Float64("gross_revenue", report.GrossRevenue))

	var errs []error
	if s.opts.Archive != nil {
		if err := s.opts.Archive.SaveDailyReport(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("archive daily report: %w", err))
		}
	}

	if s.opts.Sender != nil && s.opts.OwnerPhone != "" {
		req := models.Notification{
			To:   s.opts.OwnerPhone,
			Body: s.reports.FormatDailyReport(report),
		}
		if _, err := s.opts.Sender.SendText(ctx, req); err != nil {
			errs = append(errs, fmt.Errorf("send daily report: %w", err))
		} else {
			s.logger.Info("daily report sent successfully")
		}
	}

	return errors.Join(errs...)
}
