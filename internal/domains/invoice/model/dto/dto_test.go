package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallseat/internal/domains/invoice/model"
	"hallseat/internal/domains/invoice/model/dto"
	"hallseat/shared/timezone"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	invoices := []model.Invoice{
		{Amount: 500, Status: model.StatusPaid, DueDate: past},
		{Amount: 250.5, Status: model.StatusPaid, DueDate: future},
		{Amount: 300, Status: model.StatusPending, DueDate: past},
		{Amount: 200, Status: model.StatusPending, DueDate: future},
		{Amount: 100, Status: model.StatusOverdue, DueDate: past, LateFee: 25},
		{Amount: 999, Status: model.StatusCancelled, DueDate: past},
	}

	res := dto.Summarize(invoices, now)

	assert.InDelta(t, 750.5, res.TotalRevenue, 0.001)
	assert.InDelta(t, 500.0, res.PendingAmount, 0.001)
	assert.Equal(t, 2, res.OverdueCount)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, dto.SummaryResponse{}, dto.Summarize(nil, time.Now()))
}

func TestCreateInvoiceRequest_ToModel(t *testing.T) {
	t.Run("defaults to pending", func(t *testing.T) {
		req := dto.CreateInvoiceRequest{StudentID: "s-1", RoomID: "r-1", Amount: 450, DueDate: "2024-06-01"}

		invoice, err := req.ToModel()

		require.NoError(t, err)
		assert.Equal(t, model.StatusPending, invoice.Status)
		assert.Equal(t, 2024, invoice.DueDate.Year())
		assert.Equal(t, time.June, invoice.DueDate.Month())
		assert.Nil(t, invoice.PaidAt)
		assert.NotEmpty(t, invoice.ID)
	})

	t.Run("created as paid", func(t *testing.T) {
		req := dto.CreateInvoiceRequest{Amount: 450, DueDate: "2024-06-01", Status: model.StatusPaid}

		invoice, err := req.ToModel()

		require.NoError(t, err)
		assert.NotNil(t, invoice.PaidAt)
	})

	t.Run("bad date", func(t *testing.T) {
		req := dto.CreateInvoiceRequest{DueDate: "01/06/2024"}

		_, err := req.ToModel()

		assert.Error(t, err)
	})
}

func TestInvoiceFilter_ToFilterGroup(t *testing.T) {
	group := dto.InvoiceFilter{Search: "ada", Status: "PENDING"}.ToFilterGroup()

	where, args := group.GetWhereClause()

	assert.Contains(t, where, "LOWER(students.first_name) LIKE LOWER(:search_students_first_name)")
	assert.Contains(t, where, "LOWER(students.email) LIKE LOWER(:search_students_email)")
	assert.Equal(t, "%ada%", args["search_students_last_name"])
	assert.Equal(t, "PENDING", args["invoices_status"])
	assert.NotContains(t, args, "invoices_student_id")
}

func TestInvoiceResponse_FromModel(t *testing.T) {
	paid := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	res := dto.InvoiceResponse{}

	res.FromModel(model.Invoice{
		ID:               "inv-1",
		StudentFirstName: "Ada",
		StudentLastName:  "Lovelace",
		Amount:           400,
		LateFee:          20,
		Status:           model.StatusPaid,
		PaidAt:           &paid,
	})

	assert.Equal(t, "Ada Lovelace", res.StudentName)
	assert.InDelta(t, 420.0, res.Total, 0.001)
	assert.NotNil(t, res.PaidAt)
}

func TestInvoice_IsOverdue(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, model.Invoice{Status: model.StatusPending, DueDate: now.Add(-time.Hour)}.IsOverdue(now))
	assert.False(t, model.Invoice{Status: model.StatusPending, DueDate: now}.IsOverdue(now))
	assert.False(t, model.Invoice{Status: model.StatusPaid, DueDate: now.Add(-time.Hour)}.IsOverdue(now))
	assert.True(t, model.Invoice{Status: model.StatusOverdue, DueDate: now.Add(time.Hour)}.IsOverdue(now))
}

func TestOverdueFilter_BindsCalendarDate(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 30, 0, 0, timezone.GetLocation())

	group := dto.OverdueFilter(today)
	where, args := group.GetWhereClause()

	assert.Equal(t, "(invoices.status = :invoices_status AND invoices.due_date < :invoices_due_date)", where)
	assert.Equal(t, model.StatusPending, args["invoices_status"])
	assert.Equal(t, "2024-05-10", args["invoices_due_date"])
}
