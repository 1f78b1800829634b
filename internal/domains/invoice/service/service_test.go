package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hallseat/config"
	"hallseat/infras/otel/mocks"
	invoiceMocks "hallseat/internal/domains/invoice/mocks"
	"hallseat/internal/domains/invoice/model"
	"hallseat/internal/domains/invoice/model/dto"
	"hallseat/internal/domains/invoice/service"
	studentMocks "hallseat/internal/domains/student/mocks"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/internal/events"
	eventMocks "hallseat/internal/events/mocks"
	cacheMocks "hallseat/shared/cache/mocks"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
	"hallseat/shared/timezone"
)

type fixture struct {
	repo        *invoiceMocks.MockInvoice
	studentRepo *studentMocks.MockStudent
	publisher   *eventMocks.MockPublisher
	cache       *cacheMocks.MockRedisCache
	cfg         *config.Config
	svc         service.Invoice
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	f := fixture{
		repo:        invoiceMocks.NewMockInvoice(ctrl),
		studentRepo: studentMocks.NewMockStudent(ctrl),
		publisher:   eventMocks.NewMockPublisher(ctrl),
		cache:       cacheMocks.NewMockRedisCache(ctrl),
		cfg:         &config.Config{},
	}
	f.svc = service.New(f.repo, f.studentRepo, f.publisher, f.cfg, f.cache, mocks.NewOtel())

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

func TestInvoiceService_Create(t *testing.T) {
	t.Run("bad due date", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(context.Background(), dto.CreateInvoiceRequest{Amount: 100, DueDate: "tomorrow"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23503"})

		_, err := f.svc.Create(context.Background(), dto.CreateInvoiceRequest{Amount: 100, DueDate: "2024-06-01"})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("created", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, invoice model.Invoice) error {
				assert.Equal(t, model.StatusPending, invoice.Status)

				return nil
			})
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{ID: "inv-1", RoomNumber: "204", Amount: 100}, nil)

		res, err := f.svc.Create(context.Background(), dto.CreateInvoiceRequest{Amount: 100, DueDate: "2024-06-01"})

		require.NoError(t, err)
		assert.Equal(t, "204", res.RoomNumber)
	})
}

func TestInvoiceService_GetAll(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.InvoiceFilter{})

		require.NoError(t, err)
	})

	t.Run("from repository", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Invoice{{ID: "inv-1"}, {ID: "inv-2"}}, nil)

		res, err := f.svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.InvoiceFilter{Status: "PENDING"})

		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
		assert.Equal(t, 2, res.TotalPage)
	})
}

func TestInvoiceService_GetMine(t *testing.T) {
	f := newFixture(t)
	f.studentRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(studentModel.Student{ID: "st-1"}, nil)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, filter gDto.FilterGroup) (int, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "st-1", args["invoices_student_id"])

			return 1, nil
		})
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Invoice{{ID: "inv-1", StudentID: "st-1"}}, nil)

	res, err := f.svc.GetMine(context.Background(), gDto.QueryParams{}, "u-1", "ada@hall.edu")

	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestInvoiceService_Pay(t *testing.T) {
	t.Run("already paid", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{ID: "inv-1", Status: model.StatusPaid}, nil)

		_, err := f.svc.Pay(context.Background(), "inv-1")

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("cancelled", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{ID: "inv-1", Status: model.StatusCancelled}, nil)

		_, err := f.svc.Pay(context.Background(), "inv-1")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{}, nil)

		_, err := f.svc.Pay(context.Background(), "inv-x")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("overdue invoice is settled", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{ID: "inv-1", Status: model.StatusOverdue, Amount: 300, LateFee: 15}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, model.StatusPaid, fields[model.FieldStatus])
				assert.IsType(t, time.Time{}, fields[model.FieldPaidAt])

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, published ...events.Event) {
				require.Len(t, published, 1)
				assert.Equal(t, events.InvoicePaid, published[0].Name)
				assert.Equal(t, "inv-1", published[0].EntityID)
			})

		res, err := f.svc.Pay(context.Background(), "inv-1")

		require.NoError(t, err)
		assert.Equal(t, "PAID", res.Status)
		assert.NotNil(t, res.PaidAt)
		assert.InDelta(t, 315.0, res.Total, 0.001)
	})
}

func TestInvoiceService_Update(t *testing.T) {
	t.Run("marking paid stamps paid_at", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{ID: "inv-1", Status: model.StatusPending}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, fields[constant.FieldUpdatedAt], fields[model.FieldPaidAt])

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

		require.NoError(t, f.svc.Update(context.Background(), dto.UpdateInvoiceRequest{Status: model.StatusPaid}, "inv-1"))
	})

	t.Run("amount change only", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Invoice{ID: "inv-1", Status: model.StatusPending}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.InDelta(t, 480.0, fields[model.FieldAmount], 0.001)
				assert.NotContains(t, fields, model.FieldPaidAt)

				return nil
			})

		require.NoError(t, f.svc.Update(context.Background(), dto.UpdateInvoiceRequest{Amount: 480}, "inv-1"))
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

	err := f.svc.Delete(context.Background(), "inv-x")

	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestInvoiceService_Summary(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Invoice{
			{Amount: 400, Status: model.StatusPaid},
			{Amount: 600, Status: model.StatusPaid},
			{Amount: 250, Status: model.StatusPending, DueDate: time.Now().AddDate(0, 0, 30)},
			{Amount: 100, Status: model.StatusPending, DueDate: time.Now().AddDate(0, 0, -30)},
			{Amount: 50, Status: model.StatusOverdue},
		}, nil)

	res, err := f.svc.Summary(context.Background())

	require.NoError(t, err)
	assert.InDelta(t, 1000.0, res.TotalRevenue, 0.001)
	assert.InDelta(t, 350.0, res.PendingAmount, 0.001)
	assert.Equal(t, 2, res.OverdueCount)
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	t.Run("nothing due", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Invoice{}, nil)

		count, err := f.svc.MarkOverdue(context.Background())

		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("marks and applies the late fee", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Job.InvoiceOverdue.LateFee = 25
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Invoice{{ID: "inv-1"}, {ID: "inv-2"}}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, filter gDto.FilterGroup) error {
				assert.Equal(t, model.StatusOverdue, fields[model.FieldStatus])
				assert.InDelta(t, 25.0, fields[model.FieldLateFee], 0.001)

				where, args := filter.GetWhereClause()
				assert.Contains(t, where, "invoices.due_date < :invoices_due_date")
				assert.Equal(t, model.StatusPending, args["invoices_status"])
				assert.Equal(t, timezone.Now().Format(constant.DateOnlyFormat), args["invoices_due_date"])

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).
			Do(func(_ context.Context, published ...events.Event) {
				assert.Equal(t, events.InvoiceOverdue, published[0].Name)
				assert.Equal(t, "inv-2", published[1].EntityID)
			})

		count, err := f.svc.MarkOverdue(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("no late fee configured", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Invoice{{ID: "inv-1"}}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.NotContains(t, fields, model.FieldLateFee)

				return nil
			})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any())

		_, err := f.svc.MarkOverdue(context.Background())

		require.NoError(t, err)
	})
}
