package dto

import (
	"strings"

	"hallseat/internal/domains/student/model"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	gModel "hallseat/shared/model"
	"hallseat/shared/timezone"

	"github.com/google/uuid"
)

var SortableFields = map[string]string{
	"first_name":    model.TableName + "." + model.FieldFirstName,
	"last_name":     model.TableName + "." + model.FieldLastName,
	"student_id":    model.TableName + "." + model.FieldStudentID,
	"department":    model.TableName + "." + model.FieldDepartment,
	"year_of_study": model.TableName + "." + model.FieldYearOfStudy,
	"created_at":    model.TableName + "." + constant.FieldCreatedAt,
}

const DefaultSort = model.TableName + "." + constant.FieldCreatedAt

// SearchFields are matched case-insensitively as substrings by the list search.
var SearchFields = []string{model.FieldFirstName, model.FieldLastName, model.FieldEmail, model.FieldStudentID}

type EmergencyContact struct {
	Name         string `json:"name"         validate:"required,max=150"`
	Relationship string `json:"relationship" validate:"required,max=50"`
	PhoneNumber  string `json:"phone_number" validate:"required,max=30"`
	Email        string `json:"email"        validate:"required,email"`
}

type CreateStudentRequest struct {
	UserID           *string          `json:"user_id"          validate:"omitempty,uuid"`
	Email            string           `json:"email"            validate:"required,email,max=255"`
	FirstName        string           `json:"first_name"       validate:"required,max=100"`
	LastName         string           `json:"last_name"        validate:"required,max=100"`
	StudentID        string           `json:"student_id"       validate:"required,max=30"`
	Department       string           `json:"department"       validate:"required,max=100"`
	YearOfStudy      int              `json:"year_of_study"    validate:"required,gte=1,lte=8"`
	PhoneNumber      string           `json:"phone_number"     validate:"required,max=30"`
	EmergencyContact EmergencyContact `json:"emergency_contact" validate:"required"`
}

func (c *CreateStudentRequest) ToModel() model.Student {
	now := timezone.Now()

	return model.Student{
		ID:                           uuid.NewString(),
		UserID:                       c.UserID,
		Email:                        strings.ToLower(strings.TrimSpace(c.Email)),
		FirstName:                    strings.TrimSpace(c.FirstName),
		LastName:                     strings.TrimSpace(c.LastName),
		StudentID:                    strings.TrimSpace(c.StudentID),
		Department:                   strings.TrimSpace(c.Department),
		YearOfStudy:                  c.YearOfStudy,
		PhoneNumber:                  c.PhoneNumber,
		EmergencyContactName:         c.EmergencyContact.Name,
		EmergencyContactRelationship: c.EmergencyContact.Relationship,
		EmergencyContactPhone:        c.EmergencyContact.PhoneNumber,
		EmergencyContactEmail:        c.EmergencyContact.Email,
		ApplicationStatus:            model.DefaultApplicationStatus,
		Metadata:                     gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

type UpdateStudentRequest struct {
	UserID                       *string `db:"user_id"                        json:"user_id"                        validate:"omitempty,uuid"`
	Email                        string  `db:"email"                          json:"email"                          validate:"omitempty,email,max=255"`
	FirstName                    string  `db:"first_name"                     json:"first_name"                     validate:"omitempty,max=100"`
	LastName                     string  `db:"last_name"                      json:"last_name"                      validate:"omitempty,max=100"`
	StudentID                    string  `db:"student_id"                     json:"student_id"                     validate:"omitempty,max=30"`
	Department                   string  `db:"department"                     json:"department"                     validate:"omitempty,max=100"`
	YearOfStudy                  int     `db:"year_of_study"                  json:"year_of_study"                  validate:"omitempty,gte=1,lte=8"`
	PhoneNumber                  string  `db:"phone_number"                   json:"phone_number"                   validate:"omitempty,max=30"`
	EmergencyContactName         string  `db:"emergency_contact_name"         json:"emergency_contact_name"         validate:"omitempty,max=150"`
	EmergencyContactRelationship string  `db:"emergency_contact_relationship" json:"emergency_contact_relationship" validate:"omitempty,max=50"`
	EmergencyContactPhone        string  `db:"emergency_contact_phone"        json:"emergency_contact_phone"        validate:"omitempty,max=30"`
	EmergencyContactEmail        string  `db:"emergency_contact_email"        json:"emergency_contact_email"        validate:"omitempty,email"`
	ApplicationStatus            string  `db:"application_status"             json:"application_status"             validate:"omitempty,oneof=SUBMITTED UNDER_REVIEW APPROVED REJECTED WAITLISTED"`
}

// UpdateMyStudentRequest is the subset a student may change on their own record.
type UpdateMyStudentRequest struct {
	PhoneNumber                  string `db:"phone_number"                   json:"phone_number"                   validate:"omitempty,max=30"`
	EmergencyContactName         string `db:"emergency_contact_name"         json:"emergency_contact_name"         validate:"omitempty,max=150"`
	EmergencyContactRelationship string `db:"emergency_contact_relationship" json:"emergency_contact_relationship" validate:"omitempty,max=50"`
	EmergencyContactPhone        string `db:"emergency_contact_phone"        json:"emergency_contact_phone"        validate:"omitempty,max=30"`
	EmergencyContactEmail        string `db:"emergency_contact_email"        json:"emergency_contact_email"        validate:"omitempty,email"`
}

type StudentFilter struct {
	Search            string
	Department        string
	YearOfStudy       *int
	ApplicationStatus string
}

func (f StudentFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	group.Add(shared.FilterBySearch(f.Search, model.TableName, SearchFields...))

	if f.Department != "" {
		group.Add(gDto.Filter{Field: model.FieldDepartment, Value: f.Department, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.YearOfStudy != nil {
		group.Add(gDto.Filter{Field: model.FieldYearOfStudy, Value: *f.YearOfStudy, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.ApplicationStatus != "" {
		group.Add(gDto.Filter{Field: model.FieldApplicationStatus, Value: f.ApplicationStatus, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}

// OwnerFilter matches the student record already linked to a profile.
func OwnerFilter(userID string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

// ClaimableFilter matches a record with the given email that no profile has claimed yet.
func ClaimableFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldEmail, Value: strings.ToLower(strings.TrimSpace(email)), Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterIsNull, Table: model.TableName},
		},
	}
}

// LinkFilter guards the first-access link so a record is never re-pointed to another profile.
func LinkFilter(id string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldUserID, Operator: gDto.FilterIsNull, Table: model.TableName},
		},
	}
}

type StudentResponse struct {
	ID                string           `json:"id"`
	UserID            *string          `json:"user_id"`
	Email             string           `json:"email"`
	FirstName         string           `json:"first_name"`
	LastName          string           `json:"last_name"`
	StudentID         string           `json:"student_id"`
	Department        string           `json:"department"`
	YearOfStudy       int              `json:"year_of_study"`
	PhoneNumber       string           `json:"phone_number"`
	EmergencyContact  EmergencyContact `json:"emergency_contact"`
	ApplicationStatus string           `json:"application_status"`
	gDto.Metadata
}

func (r *StudentResponse) FromModel(student model.Student) {
	r.ID = student.ID
	r.UserID = student.UserID
	r.Email = student.Email
	r.FirstName = student.FirstName
	r.LastName = student.LastName
	r.StudentID = student.StudentID
	r.Department = student.Department
	r.YearOfStudy = student.YearOfStudy
	r.PhoneNumber = student.PhoneNumber
	r.EmergencyContact = EmergencyContact{
		Name:         student.EmergencyContactName,
		Relationship: student.EmergencyContactRelationship,
		PhoneNumber:  student.EmergencyContactPhone,
		Email:        student.EmergencyContactEmail,
	}
	r.ApplicationStatus = student.ApplicationStatus
	r.Metadata.FromModel(student.Metadata)
}

func NewStudentsResponse(students []model.Student, totalData, limit int) gDto.ListResponse[StudentResponse] {
	res := gDto.ListResponse[StudentResponse]{
		Items:     make([]StudentResponse, len(students)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, student := range students {
		res.Items[i].FromModel(student)
	}

	return res
}
