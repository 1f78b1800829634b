package model

import (
	"strings"
	"time"

	buildingModel "hallseat/internal/domains/building/model"
	roomModel "hallseat/internal/domains/room/model"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/shared/model"
)

const (
	TableName  = "maintenance_requests"
	EntityName = "maintenance"

	FieldID          = "id"
	FieldRoomID      = "room_id"
	FieldStudentID   = "student_id"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldStatus      = "status"
	FieldSubmittedAt = "submitted_at"
	FieldAssignedTo  = "assigned_to"
	FieldCompletedAt = "completed_at"
	FieldFeedback    = "feedback"
)

type Category string

const (
	CategoryElectrical Category = "ELECTRICAL"
	CategoryPlumbing   Category = "PLUMBING"
	CategoryFurniture  Category = "FURNITURE"
	CategoryCleaning   Category = "CLEANING"
	CategoryOther      Category = "OTHER"
)

var Categories = []Category{CategoryElectrical, CategoryPlumbing, CategoryFurniture, CategoryCleaning, CategoryOther}

func (c Category) IsValid() bool {
	switch c {
	case CategoryElectrical, CategoryPlumbing, CategoryFurniture, CategoryCleaning, CategoryOther:
		return true
	}

	return false
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}

	return false
}

type Status string

const (
	StatusSubmitted  Status = "SUBMITTED"
	StatusAssigned   Status = "ASSIGNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

var Statuses = []Status{StatusSubmitted, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled}

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}

	return false
}

type Request struct {
	ID               string     `db:"id"`
	RoomID           string     `db:"room_id"`
	StudentID        *string    `db:"student_id"`
	Category         Category   `db:"category"`
	Description      string     `db:"description"`
	Priority         Priority   `db:"priority"`
	Status           Status     `db:"status"`
	SubmittedAt      time.Time  `db:"submitted_at"`
	AssignedTo       *string    `db:"assigned_to"`
	CompletedAt      *time.Time `db:"completed_at"`
	Feedback         string     `db:"feedback"`
	RoomNumber       string     `db:"room_number"        table:"rooms"     column:"room_number"`
	BuildingName     string     `db:"building_name"      table:"buildings" column:"name"`
	StudentFirstName *string    `db:"student_first_name" table:"students"  column:"first_name"`
	StudentLastName  *string    `db:"student_last_name"  table:"students"  column:"last_name"`
	model.Metadata
}

// GetJoinQuery resolves the room and its building; the reporting student is optional.
func (Request) GetJoinQuery() string {
	return "JOIN " + roomModel.TableName + " ON " + roomModel.TableName + "." + roomModel.FieldID + " = " + TableName + "." + FieldRoomID +
		" JOIN " + buildingModel.TableName + " ON " + buildingModel.TableName + "." + buildingModel.FieldID + " = " + roomModel.TableName + "." + roomModel.FieldBuildingID +
		" LEFT JOIN " + studentModel.TableName + " ON " + studentModel.TableName + "." + studentModel.FieldID + " = " + TableName + "." + FieldStudentID
}

func (r Request) StudentName() *string {
	if r.StudentFirstName == nil && r.StudentLastName == nil {
		return nil
	}

	var first, last string
	if r.StudentFirstName != nil {
		first = *r.StudentFirstName
	}

	if r.StudentLastName != nil {
		last = *r.StudentLastName
	}

	name := strings.TrimSpace(first + " " + last)

	return &name
}
