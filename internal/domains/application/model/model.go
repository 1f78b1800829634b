package model

import (
	"time"

	buildingModel "hallseat/internal/domains/building/model"
	roomModel "hallseat/internal/domains/room/model"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "applications"
	EntityName = "application"

	FieldID                  = "id"
	FieldStudentID           = "student_id"
	FieldPreferredRoomType   = "preferred_room_type"
	FieldPreferredBuildingID = "preferred_building_id"
	FieldApplicationDate     = "application_date"
	FieldStatus              = "status"
	FieldPriority            = "priority"
	FieldAdminComments       = "admin_comments"
	FieldDocuments           = "documents"
)

type Status string

const (
	StatusSubmitted   Status = "SUBMITTED"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusWaitlisted  Status = "WAITLISTED"
)

var Statuses = []Status{StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusWaitlisted}

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusWaitlisted:
		return true
	}

	return false
}

type Application struct {
	ID                  string         `db:"id"`
	StudentID           string         `db:"student_id"`
	PreferredRoomType   roomModel.Type `db:"preferred_room_type"`
	PreferredBuildingID *string        `db:"preferred_building_id"`
	ApplicationDate     time.Time      `db:"application_date"`
	Status              Status         `db:"status"`
	Priority            int            `db:"priority"`
	AdminComments       string         `db:"admin_comments"`
	Documents           pq.StringArray `db:"documents"`
	StudentFirstName    string         `db:"student_first_name" table:"students"  column:"first_name"`
	StudentLastName     string         `db:"student_last_name"  table:"students"  column:"last_name"`
	StudentEmail        string         `db:"student_email"      table:"students"  column:"email"`
	StudentNumber       string         `db:"student_number"     table:"students"  column:"student_id"`
	BuildingName        *string        `db:"building_name"      table:"buildings" column:"name"`
	model.Metadata
}

// GetJoinQuery pulls in the applicant and, when one was chosen, the preferred building.
func (Application) GetJoinQuery() string {
	return "JOIN " + studentModel.TableName + " ON " + studentModel.TableName + "." + studentModel.FieldID + " = " + TableName + "." + FieldStudentID +
		" LEFT JOIN " + buildingModel.TableName + " ON " + buildingModel.TableName + "." + buildingModel.FieldID + " = " + TableName + "." + FieldPreferredBuildingID
}

func (a Application) StudentName() string {
	return a.StudentFirstName + " " + a.StudentLastName
}
