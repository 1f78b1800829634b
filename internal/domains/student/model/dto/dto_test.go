package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hallseat/internal/domains/student/model/dto"
)

func TestStudentFilter_SearchSpansNameEmailAndStudentID(t *testing.T) {
	year := 2
	group := dto.StudentFilter{Search: " Smith ", Department: "Physics", YearOfStudy: &year}.ToFilterGroup()

	where, args := group.GetWhereClause()

	for _, column := range []string{"first_name", "last_name", "email", "student_id"} {
		assert.Contains(t, where, "LOWER(students."+column+") LIKE LOWER(:search_students_"+column+")")
		assert.Equal(t, "%Smith%", args["search_students_"+column])
	}

	assert.Contains(t, where, " OR ")
	assert.Contains(t, where, "students.department = :students_department")
	assert.Equal(t, 2, args["students_year_of_study"])
	assert.NotContains(t, args, "students_application_status")
}

func TestOwnerFilter(t *testing.T) {
	group := dto.OwnerFilter("u-1")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(students.user_id = :students_user_id)", where)
	assert.Equal(t, "u-1", args["students_user_id"])
	assert.NotContains(t, where, "email")
}

func TestClaimableFilter_OnlyMatchesUnlinkedRecords(t *testing.T) {
	group := dto.ClaimableFilter(" Ada@Hall.edu ")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(students.email = :students_email AND students.user_id IS NULL)", where)
	assert.Equal(t, "ada@hall.edu", args["students_email"])
}

func TestLinkFilter(t *testing.T) {
	group := dto.LinkFilter("st-1")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(students.id = :students_id AND students.user_id IS NULL)", where)
	assert.Equal(t, "st-1", args["students_id"])
}

func TestCreateStudentRequest_ToModel(t *testing.T) {
	req := dto.CreateStudentRequest{
		Email:       " Ada@Hall.EDU",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		StudentID:   "S-001",
		Department:  "Mathematics",
		YearOfStudy: 1,
		EmergencyContact: dto.EmergencyContact{
			Name:         "Anne",
			Relationship: "Mother",
			PhoneNumber:  "555",
			Email:        "anne@example.com",
		},
	}

	student := req.ToModel()

	assert.NotEmpty(t, student.ID)
	assert.Equal(t, "ada@hall.edu", student.Email)
	assert.Equal(t, "SUBMITTED", student.ApplicationStatus)
	assert.Equal(t, "Mother", student.EmergencyContactRelationship)
	assert.False(t, student.CreatedAt.IsZero())

	var res dto.StudentResponse
	res.FromModel(student)

	assert.Equal(t, "anne@example.com", res.EmergencyContact.Email)
}
