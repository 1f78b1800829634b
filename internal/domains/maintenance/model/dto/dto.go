package dto

import (
	"strings"
	"time"

	"hallseat/internal/domains/maintenance/model"
	roomModel "hallseat/internal/domains/room/model"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	gModel "hallseat/shared/model"
	"hallseat/shared/timezone"

	"github.com/google/uuid"
)

var SortableFields = map[string]string{
	"submitted_at": model.TableName + "." + model.FieldSubmittedAt,
	"priority":     model.TableName + "." + model.FieldPriority,
	"status":       model.TableName + "." + model.FieldStatus,
	"category":     model.TableName + "." + model.FieldCategory,
	"room_number":  roomModel.TableName + "." + roomModel.FieldRoomNumber,
	"completed_at": model.TableName + "." + model.FieldCompletedAt,
}

const DefaultSort = model.TableName + "." + model.FieldSubmittedAt

type CreateMaintenanceRequest struct {
	RoomID      string         `json:"room_id"     validate:"required,uuid"`
	StudentID   *string        `json:"student_id"  validate:"omitempty,uuid"`
	Category    model.Category `json:"category"    validate:"required,enum"`
	Description string         `json:"description" validate:"required,max=2000"`
	Priority    model.Priority `json:"priority"    validate:"omitempty,enum"`
	AssignedTo  *string        `json:"assigned_to" validate:"omitempty,uuid"`
}

func (c *CreateMaintenanceRequest) ToModel() model.Request {
	now := timezone.Now()

	priority := c.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	status := model.StatusSubmitted
	if c.AssignedTo != nil {
		status = model.StatusAssigned
	}

	return model.Request{
		ID:          uuid.NewString(),
		RoomID:      c.RoomID,
		StudentID:   c.StudentID,
		Category:    c.Category,
		Description: strings.TrimSpace(c.Description),
		Priority:    priority,
		Status:      status,
		SubmittedAt: now,
		AssignedTo:  c.AssignedTo,
		Metadata:    gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

// ReportMaintenanceRequest is a ticket raised by a student for their own room.
type ReportMaintenanceRequest struct {
	RoomID      string         `json:"room_id"     validate:"required,uuid"`
	Category    model.Category `json:"category"    validate:"required,enum"`
	Description string         `json:"description" validate:"required,max=2000"`
	Priority    model.Priority `json:"priority"    validate:"omitempty,enum"`
}

func (r *ReportMaintenanceRequest) ToCreateRequest(studentID string) CreateMaintenanceRequest {
	return CreateMaintenanceRequest{
		RoomID:      r.RoomID,
		StudentID:   &studentID,
		Category:    r.Category,
		Description: r.Description,
		Priority:    r.Priority,
	}
}

type UpdateMaintenanceRequest struct {
	Category    model.Category `db:"category"    json:"category"    validate:"omitempty,enum"`
	Description string         `db:"description" json:"description" validate:"omitempty,max=2000"`
	Priority    model.Priority `db:"priority"    json:"priority"    validate:"omitempty,enum"`
	Status      model.Status   `db:"status"      json:"status"      validate:"omitempty,enum"`
	AssignedTo  *string        `db:"assigned_to" json:"assigned_to" validate:"omitempty,uuid"`
}

type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required,max=1000"`
}

type MaintenanceFilter struct {
	Search     string
	Status     string
	Priority   string
	Category   string
	StudentID  string
	AssignedTo string
}

func (f MaintenanceFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	search := shared.FilterBySearch(f.Search, model.TableName, model.FieldDescription)
	search.Add(shared.FilterBySearch(f.Search, roomModel.TableName, roomModel.FieldRoomNumber).Filters...)
	group.Add(search)

	eq := map[string]string{
		model.FieldStatus:     f.Status,
		model.FieldPriority:   f.Priority,
		model.FieldCategory:   f.Category,
		model.FieldStudentID:  f.StudentID,
		model.FieldAssignedTo: f.AssignedTo,
	}

	for _, field := range []string{model.FieldStatus, model.FieldPriority, model.FieldCategory, model.FieldStudentID, model.FieldAssignedTo} {
		if eq[field] == "" {
			continue
		}

		group.Add(gDto.Filter{Field: field, Value: eq[field], Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}

type MaintenanceResponse struct {
	ID           string  `json:"id"`
	RoomID       string  `json:"room_id"`
	RoomNumber   string  `json:"room_number"`
	BuildingName string  `json:"building_name"`
	StudentID    *string `json:"student_id"`
	StudentName  *string `json:"student_name"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Priority     string  `json:"priority"`
	Status       string  `json:"status"`
	SubmittedAt  string  `json:"submitted_at"`
	AssignedTo   *string `json:"assigned_to"`
	CompletedAt  *string `json:"completed_at"`
	Feedback     string  `json:"feedback"`
	gDto.Metadata
}

func (r *MaintenanceResponse) FromModel(request model.Request) {
	r.ID = request.ID
	r.RoomID = request.RoomID
	r.RoomNumber = request.RoomNumber
	r.BuildingName = request.BuildingName
	r.StudentID = request.StudentID
	r.StudentName = request.StudentName()
	r.Category = string(request.Category)
	r.Description = request.Description
	r.Priority = string(request.Priority)
	r.Status = string(request.Status)
	r.SubmittedAt = timezone.Format(request.SubmittedAt, constant.DateFormat)
	r.AssignedTo = request.AssignedTo
	r.CompletedAt = formatOptional(request.CompletedAt)
	r.Feedback = request.Feedback
	r.Metadata.FromModel(request.Metadata)
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateFormat)

	return &formatted
}

func NewMaintenanceResponses(requests []model.Request, totalData, limit int) gDto.ListResponse[MaintenanceResponse] {
	res := gDto.ListResponse[MaintenanceResponse]{
		Items:     make([]MaintenanceResponse, len(requests)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, request := range requests {
		res.Items[i].FromModel(request)
	}

	return res
}
