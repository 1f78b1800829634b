package model

import (
	"time"

	buildingModel "hallseat/internal/domains/building/model"
	roomModel "hallseat/internal/domains/room/model"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/shared/model"
)

const (
	TableName  = "room_assignments"
	EntityName = "assignment"

	FieldID           = "id"
	FieldStudentID    = "student_id"
	FieldRoomID       = "room_id"
	FieldAssignedAt   = "assigned_at"
	FieldCheckInDate  = "check_in_date"
	FieldCheckOutDate = "check_out_date"
	FieldIsActive     = "is_active"
)

type Assignment struct {
	ID               string     `db:"id"`
	StudentID        string     `db:"student_id"`
	RoomID           string     `db:"room_id"`
	AssignedAt       time.Time  `db:"assigned_at"`
	CheckInDate      *time.Time `db:"check_in_date"`
	CheckOutDate     *time.Time `db:"check_out_date"`
	IsActive         bool       `db:"is_active"`
	StudentFirstName string     `db:"student_first_name"  table:"students"  column:"first_name"`
	StudentLastName  string     `db:"student_last_name"   table:"students"  column:"last_name"`
	StudentNumber    string     `db:"student_number"      table:"students"  column:"student_id"`
	RoomNumber       string     `db:"room_number"         table:"rooms"     column:"room_number"`
	BuildingName     string     `db:"building_name"       table:"buildings" column:"name"`
	model.Metadata
}

func (Assignment) GetJoinQuery() string {
	return "JOIN " + studentModel.TableName + " ON " + studentModel.TableName + "." + studentModel.FieldID + " = " + TableName + "." + FieldStudentID +
		" JOIN " + roomModel.TableName + " ON " + roomModel.TableName + "." + roomModel.FieldID + " = " + TableName + "." + FieldRoomID +
		" JOIN " + buildingModel.TableName + " ON " + buildingModel.TableName + "." + buildingModel.FieldID + " = " + roomModel.TableName + "." + roomModel.FieldBuildingID
}

func (a Assignment) StudentName() string {
	return a.StudentFirstName + " " + a.StudentLastName
}
