package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallseat/internal/domains/assignment/model"
	"hallseat/internal/domains/assignment/model/dto"
)

func TestCreateAssignmentRequest_ToModel(t *testing.T) {
	t.Run("explicit check-in", func(t *testing.T) {
		req := dto.CreateAssignmentRequest{StudentID: "st-1", RoomID: "r-1", CheckInDate: "2024-09-01"}

		assignment, err := req.ToModel()

		require.NoError(t, err)
		assert.True(t, assignment.IsActive)
		require.NotNil(t, assignment.CheckInDate)
		assert.Equal(t, time.September, assignment.CheckInDate.Month())
		assert.Nil(t, assignment.CheckOutDate)
	})

	t.Run("check-in defaults to today", func(t *testing.T) {
		req := dto.CreateAssignmentRequest{StudentID: "st-1", RoomID: "r-1"}

		assignment, err := req.ToModel()

		require.NoError(t, err)
		require.NotNil(t, assignment.CheckInDate)
		assert.Zero(t, assignment.CheckInDate.Hour())
	})

	t.Run("bad date", func(t *testing.T) {
		req := dto.CreateAssignmentRequest{CheckInDate: "September"}

		_, err := req.ToModel()

		assert.Error(t, err)
	})
}

func TestAssignmentFilter_ToFilterGroup(t *testing.T) {
	active := true
	group := dto.AssignmentFilter{Search: "101", IsActive: &active}.ToFilterGroup()

	where, args := group.GetWhereClause()

	assert.Contains(t, where, "LOWER(rooms.room_number) LIKE LOWER(:search_rooms_room_number)")
	assert.Contains(t, where, "LOWER(students.student_id) LIKE LOWER(:search_students_student_id)")
	assert.Equal(t, true, args["room_assignments_is_active"])
	assert.NotContains(t, args, "room_assignments_room_id")
}

func TestActiveInRoom(t *testing.T) {
	group := dto.ActiveInRoom("r-1")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_assignments.room_id = :room_assignments_room_id AND room_assignments.is_active = :room_assignments_is_active)", where)
	assert.Equal(t, "r-1", args["room_assignments_room_id"])
}

func TestAssignmentResponse_FromModel(t *testing.T) {
	res := dto.AssignmentResponse{}

	res.FromModel(model.Assignment{ID: "as-1", StudentFirstName: "Ada", StudentLastName: "Lovelace", RoomNumber: "101"})

	assert.Equal(t, "Ada Lovelace", res.StudentName)
	assert.Nil(t, res.CheckOutDate)
}
