// Package jobs runs the scheduled background work of the API on a cron scheduler.
package jobs

import (
	"context"
	"fmt"

	"hallseat/config"
	"hallseat/infras/otel"
	invoiceService "hallseat/internal/domains/invoice/service"
	"hallseat/shared/constant"
	"hallseat/shared/timezone"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type Scheduler struct {
	cron    *cron.Cron
	cfg     *config.Config
	invoice invoiceService.Invoice
	otel    otel.Otel
}

func New(cfg *config.Config, invoice invoiceService.Invoice, otel otel.Otel) *Scheduler {
	logger := cronLogger{}

	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(timezone.GetLocation()),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		cfg:     cfg,
		invoice: invoice,
		otel:    otel,
	}
}

// Register adds the enabled jobs without starting the scheduler.
func (s *Scheduler) Register() error {
	overdue := s.cfg.Job.InvoiceOverdue
	if overdue.Enable {
		if _, err := s.cron.AddFunc(overdue.Spec, s.MarkOverdueInvoices); err != nil {
			return fmt.Errorf("scheduling invoice overdue job %q: %w", overdue.Spec, err)
		}
	}

	return nil
}

// Start registers the jobs and runs the scheduler in its own goroutine.
func (s *Scheduler) Start() error {
	if err := s.Register(); err != nil {
		return err
	}

	s.cron.Start()

	log.Info().Int("jobs", len(s.cron.Entries())).Msg("Job scheduler started")

	return nil
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		log.Info().Msg("Job scheduler stopped")
	case <-ctx.Done():
		log.Warn().Msg("Job scheduler stopped before running jobs finished")
	}
}

func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) MarkOverdueInvoices() {
	ctx, scope := s.otel.NewScope(context.Background(), constant.OtelJobScopeName, constant.OtelJobScopeName+".MarkOverdueInvoices")
	defer scope.End()

	count, err := s.invoice.MarkOverdue(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark overdue invoices")

		return
	}

	log.Info().Int("count", count).Msg("overdue invoices marked")
}

// cronLogger routes scheduler logs to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
