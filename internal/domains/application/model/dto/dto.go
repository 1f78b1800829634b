package dto

import (
	"mime/multipart"
	"path"
	"slices"
	"strings"

	"hallseat/internal/domains/application/model"
	roomModel "hallseat/internal/domains/room/model"
	studentModel "hallseat/internal/domains/student/model"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	gModel "hallseat/shared/model"
	"hallseat/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var DocumentMimeTypes = []string{"application/pdf", "image/png", "image/jpeg"}

var SortableFields = map[string]string{
	"application_date": model.TableName + "." + model.FieldApplicationDate,
	"priority":         model.TableName + "." + model.FieldPriority,
	"status":           model.TableName + "." + model.FieldStatus,
	"student_name":     studentModel.TableName + "." + studentModel.FieldFirstName,
	"created_at":       model.TableName + "." + constant.FieldCreatedAt,
}

const DefaultSort = model.TableName + "." + model.FieldApplicationDate

// SearchFields are the applicant columns matched by the list search.
var SearchFields = []string{studentModel.FieldFirstName, studentModel.FieldLastName, studentModel.FieldStudentID, studentModel.FieldEmail}

type CreateApplicationRequest struct {
	StudentID           string         `json:"student_id"            validate:"required,uuid"`
	PreferredRoomType   roomModel.Type `json:"preferred_room_type"   validate:"required,enum"`
	PreferredBuildingID *string        `json:"preferred_building_id" validate:"omitempty,uuid"`
	Priority            int            `json:"priority"              validate:"gte=0,lte=100"`
	AdminComments       string         `json:"admin_comments"        validate:"omitempty,max=2000"`
	Documents           []string       `json:"documents"             validate:"omitempty,dive,url"`
}

func (c *CreateApplicationRequest) ToModel() model.Application {
	now := timezone.Now()

	documents := pq.StringArray{}
	if c.Documents != nil {
		documents = c.Documents
	}

	return model.Application{
		ID:                  uuid.NewString(),
		StudentID:           c.StudentID,
		PreferredRoomType:   c.PreferredRoomType,
		PreferredBuildingID: c.PreferredBuildingID,
		ApplicationDate:     now,
		Status:              model.StatusSubmitted,
		Priority:            c.Priority,
		AdminComments:       c.AdminComments,
		Documents:           documents,
		Metadata:            gModel.Metadata{CreatedAt: now, UpdatedAt: now},
	}
}

// SubmitApplicationRequest is what a student fills in for their own application.
type SubmitApplicationRequest struct {
	PreferredRoomType   roomModel.Type `json:"preferred_room_type"   validate:"required,enum"`
	PreferredBuildingID *string        `json:"preferred_building_id" validate:"omitempty,uuid"`
	Documents           []string       `json:"documents"             validate:"omitempty,dive,url"`
}

func (s *SubmitApplicationRequest) ToCreateRequest(studentID string) CreateApplicationRequest {
	return CreateApplicationRequest{
		StudentID:           studentID,
		PreferredRoomType:   s.PreferredRoomType,
		PreferredBuildingID: s.PreferredBuildingID,
		Documents:           s.Documents,
	}
}

type UpdateApplicationRequest struct {
	PreferredRoomType   roomModel.Type `db:"preferred_room_type"   json:"preferred_room_type"   validate:"omitempty,enum"`
	PreferredBuildingID *string        `db:"preferred_building_id" json:"preferred_building_id" validate:"omitempty,uuid"`
	Priority            *int           `db:"priority"              json:"priority"              validate:"omitempty,gte=0,lte=100"`
	AdminComments       string         `db:"admin_comments"        json:"admin_comments"        validate:"omitempty,max=2000"`
	Documents           pq.StringArray `db:"documents"             json:"documents"             validate:"omitempty,dive,url"`
}

type UpdateApplicationStatusRequest struct {
	Status        model.Status `db:"status"         json:"status"         validate:"required,enum"`
	AdminComments string       `db:"admin_comments" json:"admin_comments" validate:"omitempty,max=2000"`
}

type UploadDocumentRequest struct {
	File     *multipart.FileHeader `json:"file" swaggerignore:"true" validate:"required"`
	FileData multipart.File        `json:"-"`
}

func (u *UploadDocumentRequest) FileName() string {
	return DocumentFileName(u.File.Filename)
}

// DocumentFileName keeps the original extension behind a random name so uploads never collide.
func DocumentFileName(original string) string {
	return uuid.NewString() + strings.ToLower(path.Ext(original))
}

func (u *UploadDocumentRequest) ContentType() string {
	return u.File.Header.Get(constant.RequestHeaderContentType)
}

func (u *UploadDocumentRequest) Allowed() bool {
	return slices.Contains(DocumentMimeTypes, u.ContentType())
}

// UploadDocumentBase64Request carries a document as a data URI for JSON-only clients.
type UploadDocumentBase64Request struct {
	FileName string `json:"file_name" validate:"required,max=255"`
	File     string `json:"file"      validate:"required,mimetypes=application/pdf image/png image/jpeg,maxfilesize=7"`
}

type RemoveDocumentRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type DocumentResponse struct {
	URL       string   `json:"url"`
	Documents []string `json:"documents"`
}

type ApplicationFilter struct {
	Search    string
	Status    string
	StudentID string
}

func (f ApplicationFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	group.Add(shared.FilterBySearch(f.Search, studentModel.TableName, SearchFields...))

	if f.Status != "" {
		group.Add(gDto.Filter{Field: model.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	if f.StudentID != "" {
		group.Add(gDto.Filter{Field: model.FieldStudentID, Value: f.StudentID, Operator: gDto.FilterOperatorEq, Table: model.TableName})
	}

	return group
}

type ApplicationResponse struct {
	ID                    string   `json:"id"`
	StudentID             string   `json:"student_id"`
	StudentName           string   `json:"student_name"`
	StudentEmail          string   `json:"student_email"`
	StudentNumber         string   `json:"student_number"`
	PreferredRoomType     string   `json:"preferred_room_type"`
	PreferredBuildingID   *string  `json:"preferred_building_id"`
	PreferredBuildingName *string  `json:"preferred_building_name"`
	ApplicationDate       string   `json:"application_date"`
	Status                string   `json:"status"`
	Priority              int      `json:"priority"`
	AdminComments         string   `json:"admin_comments"`
	Documents             []string `json:"documents"`
	gDto.Metadata
}

func (r *ApplicationResponse) FromModel(application model.Application) {
	r.ID = application.ID
	r.StudentID = application.StudentID
	r.StudentName = strings.TrimSpace(application.StudentName())
	r.StudentEmail = application.StudentEmail
	r.StudentNumber = application.StudentNumber
	r.PreferredRoomType = string(application.PreferredRoomType)
	r.PreferredBuildingID = application.PreferredBuildingID
	r.PreferredBuildingName = application.BuildingName
	r.ApplicationDate = timezone.Format(application.ApplicationDate, constant.DateFormat)
	r.Status = string(application.Status)
	r.Priority = application.Priority
	r.AdminComments = application.AdminComments
	r.Documents = []string(application.Documents)
	r.Metadata.FromModel(application.Metadata)

	if r.Documents == nil {
		r.Documents = []string{}
	}
}

func NewApplicationsResponse(applications []model.Application, totalData, limit int) gDto.ListResponse[ApplicationResponse] {
	res := gDto.ListResponse[ApplicationResponse]{
		Items:     make([]ApplicationResponse, len(applications)),
		TotalData: totalData,
		TotalPage: shared.CalculateTotalPage(totalData, limit),
	}

	for i, application := range applications {
		res.Items[i].FromModel(application)
	}

	return res
}
