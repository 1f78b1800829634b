package model

import (
	"hallseat/shared/model"
)

const (
	TableName  = "students"
	EntityName = "student"

	FieldID                           = "id"
	FieldUserID                       = "user_id"
	FieldEmail                        = "email"
	FieldFirstName                    = "first_name"
	FieldLastName                     = "last_name"
	FieldStudentID                    = "student_id"
	FieldDepartment                   = "department"
	FieldYearOfStudy                  = "year_of_study"
	FieldPhoneNumber                  = "phone_number"
	FieldEmergencyContactName         = "emergency_contact_name"
	FieldEmergencyContactRelationship = "emergency_contact_relationship"
	FieldEmergencyContactPhone        = "emergency_contact_phone"
	FieldEmergencyContactEmail        = "emergency_contact_email"
	FieldApplicationStatus            = "application_status"
	DefaultApplicationStatus          = "SUBMITTED"
)

type Student struct {
	ID                           string  `db:"id"`
	UserID                       *string `db:"user_id"`
	Email                        string  `db:"email"`
	FirstName                    string  `db:"first_name"`
	LastName                     string  `db:"last_name"`
	StudentID                    string  `db:"student_id"`
	Department                   string  `db:"department"`
	YearOfStudy                  int     `db:"year_of_study"`
	PhoneNumber                  string  `db:"phone_number"`
	EmergencyContactName         string  `db:"emergency_contact_name"`
	EmergencyContactRelationship string  `db:"emergency_contact_relationship"`
	EmergencyContactPhone        string  `db:"emergency_contact_phone"`
	EmergencyContactEmail        string  `db:"emergency_contact_email"`
	ApplicationStatus            string  `db:"application_status"`
	model.Metadata
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
