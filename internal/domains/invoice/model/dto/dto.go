package dto

import (
	"time"

	"hallseat/internal/domains/invoice/model"
	roomModel "hallseat/internal/domains/room/model"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	gModel "hallseat/shared/model"
	"hallseat/shared/timezone"

	"github.com/google/uuid"
)

var SortableFields = map[string]string{
	"due_date":     model.TableName + "." + model.FieldDueDate,
	"amount":       model.TableName + "." + model.FieldAmount,
	"status":       model.TableName + "." + model.FieldStatus,
	"generated_at": model.TableName + "." + model.FieldGeneratedAt,
	"paid_at":      model.TableName + "." + model.FieldPaidAt,
	"room_number":  roomModel.TableName + "." + roomModel.FieldRoomNumber,
}

const DefaultSort = model.TableName + "." + model.FieldGeneratedAt

// SummaryColumns is the narrow projection the summary needs.
var SummaryColumns = []string{model.FieldAmount, model.FieldStatus, model.FieldDueDate, model.FieldLateFee}

type CreateInvoiceRequest struct {
	StudentID string       `json:"student_id" validate:"required,uuid"`
	RoomID    string       `json:"room_id"    validate:"required,uuid"`
	Amount    float64      `json:"amount"     validate:"required,gt=0"`
	DueDate   string       `json:"due_date"   validate:"required,date"`
	Status    model.Status `json:"status"     validate:"omitempty,enum"`
	LateFee   float64      `json:"late_fee"   validate:"omitempty,gte=0"`
}

func (c *CreateInvoiceRequest) ToModel() (model.Invoice, error) {
	dueDate, err := timezone.Parse(constant.DateOnlyFormat, c.DueDate)
	if err != nil {
		return model.Invoice{}, err
	}

	now := timezone.Now()

	status := c.Status
	if status == "" {
		status = model.StatusPending
	}

	invoice := model.Invoice{
		ID:          uuid.NewString(),
		StudentID:   c.StudentID,
		RoomID:      c.RoomID,
		Amount:      c.Amount,
		DueDate:     dueDate,
		Status:      status,
		GeneratedAt: now,
		LateFee:     c.LateFee,
		Metadata:    gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}

	if status == model.StatusPaid {
		invoice.PaidAt = &now
	}

	return invoice, nil
}

type UpdateInvoiceRequest struct {
	Amount  float64      `db:"amount"   json:"amount"   validate:"omitempty,gt=0"`
	DueDate string       `db:"due_date" json:"due_date" validate:"omitempty,date"`
	Status  model.Status `db:"status"   json:"status"   validate:"omitempty,enum"`
	LateFee *float64     `db:"late_fee" json:"late_fee" validate:"omitempty,gte=0"`
}

type InvoiceFilter struct {
	Search    string
	Status    string
	StudentID string
	RoomID    string
}

func (f InvoiceFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	group.Add(shared.FilterBySearch(f.Search, studentModel.TableName, studentModel.FieldFirstName, studentModel.FieldLastName, studentModel.FieldEmail))

	eq := map[string]string{
		model.FieldStatus:    f.Status,
		model.FieldStudentID: f.StudentID,
		model.FieldRoomID:    f.RoomID,
	}

	for _, field := range []string{model.FieldStatus, model.FieldStudentID, model.FieldRoomID} {
		if eq[field] == "" {
			continue
		}

		group.Add(gDto.Filter{Field: field, Value: eq[field], Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}

// OverdueFilter selects PENDING invoices due before today's calendar date in the
// application timezone. The date is bound as text so the DATE column is never
// compared against a timestamp in the session timezone.
func OverdueFilter(today time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusPending, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldDueDate, Value: timezone.Format(today, constant.DateOnlyFormat), Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}
}

type SummaryResponse struct {
	TotalRevenue  float64 `json:"total_revenue"`
	PendingAmount float64 `json:"pending_amount"`
	OverdueCount  int     `json:"overdue_count"`
}

// Summarize totals PAID revenue and PENDING amounts, and counts invoices that are overdue at now.
func Summarize(invoices []model.Invoice, now time.Time) SummaryResponse {
	var res SummaryResponse

	for _, invoice := range invoices {
		switch invoice.Status {
		case model.StatusPaid:
			res.TotalRevenue += invoice.Amount
		case model.StatusPending:
			res.PendingAmount += invoice.Amount
		}

		if invoice.IsOverdue(now) {
			res.OverdueCount++
		}
	}

	return res
}

type InvoiceResponse struct {
	ID           string  `json:"id"`
	StudentID    string  `json:"student_id"`
	StudentName  string  `json:"student_name"`
	StudentEmail string  `json:"student_email"`
	RoomID       string  `json:"room_id"`
	RoomNumber   string  `json:"room_number"`
	Amount       float64 `json:"amount"`
	LateFee      float64 `json:"late_fee"`
	Total        float64 `json:"total"`
	DueDate      string  `json:"due_date"`
	Status       string  `json:"status"`
	GeneratedAt  string  `json:"generated_at"`
	PaidAt       *string `json:"paid_at"`
	gDto.Metadata
}

func (r *InvoiceResponse) FromModel(invoice model.Invoice) {
	r.ID = invoice.ID
	r.StudentID = invoice.StudentID
	r.StudentName = invoice.StudentFirstName + " " + invoice.StudentLastName
	r.StudentEmail = invoice.StudentEmail
	r.RoomID = invoice.RoomID
	r.RoomNumber = invoice.RoomNumber
	r.Amount = invoice.Amount
	r.LateFee = invoice.LateFee
	r.Total = invoice.Total()
	r.DueDate = timezone.Format(invoice.DueDate, constant.DateOnlyFormat)
	r.Status = string(invoice.Status)
	r.GeneratedAt = timezone.Format(invoice.GeneratedAt, constant.DateFormat)
	r.Metadata.FromModel(invoice.Metadata)

	if invoice.PaidAt != nil {
		paidAt := timezone.Format(*invoice.PaidAt, constant.DateFormat)
		r.PaidAt = &paidAt
	}
}

func NewInvoicesResponse(invoices []model.Invoice, totalData, limit int) gDto.ListResponse[InvoiceResponse] {
	res := gDto.ListResponse[InvoiceResponse]{
		Items:     make([]InvoiceResponse, len(invoices)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, invoice := range invoices {
		res.Items[i].FromModel(invoice)
	}

	return res
}
