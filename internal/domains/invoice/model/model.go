package model

import (
	"time"

	roomModel "hallseat/internal/domains/room/model"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/shared/model"
)

const (
	TableName  = "invoices"
	EntityName = "invoice"

	FieldID          = "id"
	FieldStudentID   = "student_id"
	FieldRoomID      = "room_id"
	FieldAmount      = "amount"
	FieldDueDate     = "due_date"
	FieldStatus      = "status"
	FieldGeneratedAt = "generated_at"
	FieldPaidAt      = "paid_at"
	FieldLateFee     = "late_fee"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

var Statuses = []Status{StatusPending, StatusPaid, StatusOverdue, StatusCancelled}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}

	return false
}

type Invoice struct {
	ID               string     `db:"id"`
	StudentID        string     `db:"student_id"`
	RoomID           string     `db:"room_id"`
	Amount           float64    `db:"amount"`
	DueDate          time.Time  `db:"due_date"`
	Status           Status     `db:"status"`
	GeneratedAt      time.Time  `db:"generated_at"`
	PaidAt           *time.Time `db:"paid_at"`
	LateFee          float64    `db:"late_fee"`
	StudentFirstName string     `db:"student_first_name" table:"students" column:"first_name"`
	StudentLastName  string     `db:"student_last_name"  table:"students" column:"last_name"`
	StudentEmail     string     `db:"student_email"      table:"students" column:"email"`
	RoomNumber       string     `db:"room_number"        table:"rooms"    column:"room_number"`
	model.Metadata
}

func (Invoice) GetJoinQuery() string {
	return "JOIN " + studentModel.TableName + " ON " + studentModel.TableName + "." + studentModel.FieldID + " = " + TableName + "." + FieldStudentID +
		" JOIN " + roomModel.TableName + " ON " + roomModel.TableName + "." + roomModel.FieldID + " = " + TableName + "." + FieldRoomID
}

// IsOverdue reports whether the invoice counts as overdue at now, stored or not.
func (i Invoice) IsOverdue(now time.Time) bool {
	return i.Status == StatusOverdue || (i.Status == StatusPending && i.DueDate.Before(now))
}

// Total is what the student owes, late fee included.
func (i Invoice) Total() float64 {
	return i.Amount + i.LateFee
}
