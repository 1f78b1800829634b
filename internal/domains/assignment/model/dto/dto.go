package dto

import (
	"time"

	"hallseat/internal/domains/assignment/model"
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
	"assigned_at":    model.TableName + "." + model.FieldAssignedAt,
	"check_in_date":  model.TableName + "." + model.FieldCheckInDate,
	"check_out_date": model.TableName + "." + model.FieldCheckOutDate,
	"room_number":    roomModel.TableName + "." + roomModel.FieldRoomNumber,
	"last_name":      studentModel.TableName + "." + studentModel.FieldLastName,
}

const DefaultSort = model.TableName + "." + model.FieldAssignedAt

type CreateAssignmentRequest struct {
	StudentID   string `json:"student_id"    validate:"required,uuid"`
	RoomID      string `json:"room_id"       validate:"required,uuid"`
	CheckInDate string `json:"check_in_date" validate:"omitempty,date"`
}

// ToModel builds an active assignment; check-in defaults to today.
func (c *CreateAssignmentRequest) ToModel() (model.Assignment, error) {
	now := timezone.Now()

	checkIn, err := parseDateOrToday(c.CheckInDate, now)
	if err != nil {
		return model.Assignment{}, err
	}

	return model.Assignment{
		ID:          uuid.NewString(),
		StudentID:   c.StudentID,
		RoomID:      c.RoomID,
		AssignedAt:  now,
		CheckInDate: &checkIn,
		IsActive:    true,
		Metadata:    gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}, nil
}

type CheckOutRequest struct {
	CheckOutDate string `json:"check_out_date" validate:"omitempty,date"`
}

func (c *CheckOutRequest) Date(now time.Time) (time.Time, error) {
	return parseDateOrToday(c.CheckOutDate, now)
}

func parseDateOrToday(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return timezone.StartOfDay(now), nil
	}

	return timezone.Parse(constant.DateOnlyFormat, value)
}

type AssignmentFilter struct {
	Search    string
	StudentID string
	RoomID    string
	IsActive  *bool
}

func (f AssignmentFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	search := shared.FilterBySearch(f.Search, studentModel.TableName, studentModel.FieldFirstName, studentModel.FieldLastName, studentModel.FieldStudentID)
	search.Add(shared.FilterBySearch(f.Search, roomModel.TableName, roomModel.FieldRoomNumber).Filters...)
	group.Add(search)

	if f.StudentID != "" {
		group.Add(gDto.Filter{Field: model.FieldStudentID, Value: f.StudentID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.RoomID != "" {
		group.Add(gDto.Filter{Field: model.FieldRoomID, Value: f.RoomID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.IsActive != nil {
		group.Add(gDto.Filter{Field: model.FieldIsActive, Value: *f.IsActive, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}

// ActiveInRoom selects the assignments currently occupying roomID.
func ActiveInRoom(roomID string) gDto.FilterGroup {
	active := true

	return AssignmentFilter{RoomID: roomID, IsActive: &active}.ToFilterGroup()
}

// ActiveForStudent selects the student's current assignment, if any.
func ActiveForStudent(studentID string) gDto.FilterGroup {
	active := true

	return AssignmentFilter{StudentID: studentID, IsActive: &active}.ToFilterGroup()
}

type AssignmentResponse struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"student_id"`
	StudentName   string  `json:"student_name"`
	StudentNumber string  `json:"student_number"`
	RoomID        string  `json:"room_id"`
	RoomNumber    string  `json:"room_number"`
	BuildingName  string  `json:"building_name"`
	AssignedAt    string  `json:"assigned_at"`
	CheckInDate   *string `json:"check_in_date"`
	CheckOutDate  *string `json:"check_out_date"`
	IsActive      bool    `json:"is_active"`
	gDto.Metadata
}

func (r *AssignmentResponse) FromModel(assignment model.Assignment) {
	r.ID = assignment.ID
	r.StudentID = assignment.StudentID
	r.StudentName = assignment.StudentName()
	r.StudentNumber = assignment.StudentNumber
	r.RoomID = assignment.RoomID
	r.RoomNumber = assignment.RoomNumber
	r.BuildingName = assignment.BuildingName
	r.AssignedAt = timezone.Format(assignment.AssignedAt, constant.DateFormat)
	r.CheckInDate = formatDate(assignment.CheckInDate)
	r.CheckOutDate = formatDate(assignment.CheckOutDate)
	r.IsActive = assignment.IsActive
	r.Metadata.FromModel(assignment.Metadata)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}

	formatted := timezone.Format(*t, constant.DateOnlyFormat)

	return &formatted
}

func NewAssignmentsResponse(assignments []model.Assignment, totalData, limit int) gDto.ListResponse[AssignmentResponse] {
	res := gDto.ListResponse[AssignmentResponse]{
		Items:     make([]AssignmentResponse, len(assignments)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, assignment := range assignments {
		res.Items[i].FromModel(assignment)
	}

	return res
}
