package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"hallseat/config"
	otelMocks "hallseat/infras/otel/mocks"
	invoiceService "hallseat/internal/domains/invoice/service"
	"hallseat/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceStub struct {
	invoiceService.Invoice

	calls int
	err   error
}

func (s *invoiceStub) MarkOverdue(_ context.Context) (int, error) {
	s.calls++

	return 3, s.err
}

func overdueConfig(enable bool, spec string) *config.Config {
	cfg := &config.Config{}
	cfg.Job.InvoiceOverdue.Enable = enable
	cfg.Job.InvoiceOverdue.Spec = spec

	return cfg
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.Config
		entries int
		wantErr bool
	}{
		{"enabled", overdueConfig(true, "0 1 * * *"), 1, false},
		{"disabled", overdueConfig(false, "0 1 * * *"), 0, false},
		{"invalid spec", overdueConfig(true, "every day"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := jobs.New(tt.cfg, &invoiceStub{}, otelMocks.NewOtel())

			err := scheduler.Register()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, scheduler.Entries(), tt.entries)
		})
	}
}

func TestMarkOverdueInvoices(t *testing.T) {
	stub := &invoiceStub{}
	scheduler := jobs.New(overdueConfig(true, "0 1 * * *"), stub, otelMocks.NewOtel())

	scheduler.MarkOverdueInvoices()

	assert.Equal(t, 1, stub.calls)
}

func TestMarkOverdueInvoices_ErrorIsSwallowed(t *testing.T) {
	stub := &invoiceStub{err: errors.New("db down")}
	scheduler := jobs.New(overdueConfig(true, "0 1 * * *"), stub, otelMocks.NewOtel())

	assert.NotPanics(t, scheduler.MarkOverdueInvoices)
	assert.Equal(t, 1, stub.calls)
}

func TestStartStop(t *testing.T) {
	scheduler := jobs.New(overdueConfig(true, "@every 1h"), &invoiceStub{}, otelMocks.NewOtel())

	require.NoError(t, scheduler.Start())
	require.Len(t, scheduler.Entries(), 1)
	assert.False(t, scheduler.Entries()[0].Next.IsZero())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	scheduler.Stop(ctx)
}
