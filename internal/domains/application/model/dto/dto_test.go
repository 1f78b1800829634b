package dto_test

import (
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hallseat/internal/domains/application/model"
	"hallseat/internal/domains/application/model/dto"
	"hallseat/shared/constant"
)

func TestApplicationFilter_SearchesTheApplicant(t *testing.T) {
	group := dto.ApplicationFilter{Search: "lovelace", Status: "SUBMITTED"}.ToFilterGroup()

	where, args := group.GetWhereClause()

	for _, column := range dto.SearchFields {
		assert.Contains(t, where, "LOWER(students."+column+")")
		assert.Equal(t, "%lovelace%", args["search_students_"+column])
	}

	assert.Contains(t, where, "applications.status = :applications_status")
	assert.NotContains(t, args, "applications_student_id")
}

func TestCreateApplicationRequest_ToModel(t *testing.T) {
	req := dto.CreateApplicationRequest{StudentID: "st-1", PreferredRoomType: "SINGLE", Priority: 5}

	application := req.ToModel()

	assert.NotEmpty(t, application.ID)
	assert.Equal(t, model.StatusSubmitted, application.Status)
	assert.Empty(t, application.Documents)
	assert.NotNil(t, application.Documents)
	assert.False(t, application.ApplicationDate.IsZero())
	assert.Equal(t, application.CreatedAt, application.ApplicationDate)
}

func TestUploadDocumentRequest(t *testing.T) {
	req := dto.UploadDocumentRequest{File: &multipart.FileHeader{
		Filename: "Transcript.PDF",
		Header:   textproto.MIMEHeader{constant.RequestHeaderContentType: {"application/pdf"}},
	}}

	assert.True(t, req.Allowed())
	assert.True(t, strings.HasSuffix(req.FileName(), ".pdf"))
	assert.NotContains(t, req.FileName(), "Transcript")

	req.File.Header.Set(constant.RequestHeaderContentType, "image/gif")
	assert.False(t, req.Allowed())
}

func TestApplicationResponse_FromModel(t *testing.T) {
	building := "North Hall"
	res := dto.ApplicationResponse{}

	res.FromModel(model.Application{ID: "app-1", StudentFirstName: "Ada", StudentLastName: "Lovelace", BuildingName: &building})

	assert.Equal(t, "Ada Lovelace", res.StudentName)
	assert.Equal(t, &building, res.PreferredBuildingName)
	assert.Equal(t, []string{}, res.Documents)
}
