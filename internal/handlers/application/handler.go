package application

import (
	"net/http"

	"hallseat/infras/otel"
	"hallseat/internal/domains/application/model"
	"hallseat/internal/domains/application/model/dto"
	"hallseat/internal/domains/application/service"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
	"hallseat/shared/validator"
	"hallseat/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Application
	otel    otel.Otel
}

func New(service service.Application, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/applications", func(r chi.Router) {
		r.Get("/", handler.GetApplications)
		r.Post("/", handler.CreateApplication)
		r.Get("/mine", handler.GetMyApplications)
		r.Post("/mine", handler.SubmitApplication)
		r.Get("/{id}", handler.GetApplicationByID)
		r.Patch("/{id}", handler.UpdateApplication)
		r.Delete("/{id}", handler.DeleteApplication)
		r.Patch("/{id}/status", handler.UpdateApplicationStatus)
		r.Post("/{id}/documents", handler.UploadDocument)
		r.Post("/{id}/documents/base64", handler.UploadDocumentBase64)
		r.Delete("/{id}/documents", handler.RemoveDocument)
	})
}

// GetApplications lists room applications
// @Summary List applications
// @Description Search matches the applicant's first name, last name, student id and email.
// @Tags Application
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param student_id query string false "Filter by student"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.ApplicationResponse]]
// @Failure 500 {object} response.Error
// @Router /v1/applications [get]
// @Security BearerAuth
func (handler *Handler) GetApplications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetApplications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.ApplicationFilter{
		Search:    queryParams.Search,
		Status:    query.Get(model.FieldStatus),
		StudentID: query.Get(model.FieldStudentID),
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get applications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateApplication records an application on behalf of a student
// @Summary Create application
// @Tags Application
// @Accept json
// @Produce json
// @Param request body dto.CreateApplicationRequest true "Create Application Request"
// @Success 201 {object} response.Data[dto.ApplicationResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications [post]
// @Security BearerAuth
func (handler *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateApplication")
	defer scope.End()

	req := dto.CreateApplicationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create application")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMyApplications lists the caller's own applications
// @Summary List my applications
// @Tags Application
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.ApplicationResponse]]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyApplications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyApplications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	res, err := handler.service.GetMine(ctx, queryParams, userID, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own applications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// SubmitApplication lets a student apply for a room
// @Summary Submit my application
// @Description Only one application may be in progress per student.
// @Tags Application
// @Accept json
// @Produce json
// @Param request body dto.SubmitApplicationRequest true "Submit Application Request"
// @Success 201 {object} response.Data[dto.ApplicationResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/mine [post]
// @Security BearerAuth
func (handler *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitApplication")
	defer scope.End()

	req := dto.SubmitApplicationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	res, err := handler.service.Submit(ctx, req, userID, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit application")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetApplicationByID returns an application
// @Summary Get application
// @Tags Application
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Data[dto.ApplicationResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetApplicationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetApplicationByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get application")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateApplication edits the preferences, priority or comments of an application
// @Summary Update application
// @Tags Application
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.UpdateApplicationRequest true "Update Application Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateApplication")
	defer scope.End()

	req := dto.UpdateApplicationRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update application")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Application updated successfully")
}

// UpdateApplicationStatus sets the review status of an application
// @Summary Update application status
// @Description The student's application status follows the new value.
// @Tags Application
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "Update Application Status Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateApplicationStatus")
	defer scope.End()

	req := dto.UpdateApplicationStatusRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update application status")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Application status updated successfully")
}

// DeleteApplication removes an application and its stored documents
// @Summary Delete application
// @Tags Application
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteApplication")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete application")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Application deleted successfully")
}

// UploadDocument attaches a supporting document to an application.
// @Summary Upload application document
// @Description Accepts PDF, PNG or JPEG. The stored URL is appended to the application's documents.
// @Tags Application
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Application ID"
// @Param file formData file true "Document to upload"
// @Success 200 {object} response.Data[dto.DocumentResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id}/documents [post]
// @Security BearerAuth
func (handler *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadDocument")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, failure.BadRequest(err))

		return
	}
	defer file.Close()

	req := dto.UploadDocumentRequest{
		File:     fileHeader,
		FileData: file,
	}

	res, err := handler.service.UploadDocument(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload document")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UploadDocumentBase64 attaches a document sent as a data URI.
// @Summary Upload application document (base64)
// @Tags Application
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.UploadDocumentBase64Request true "Document as data URI"
// @Success 200 {object} response.Data[dto.DocumentResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id}/documents/base64 [post]
// @Security BearerAuth
func (handler *Handler) UploadDocumentBase64(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadDocumentBase64")
	defer scope.End()

	req := dto.UploadDocumentBase64Request{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.UploadDocumentBase64(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload document")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// RemoveDocument detaches a document and deletes the stored object.
// @Summary Remove application document
// @Tags Application
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body dto.RemoveDocumentRequest true "Document URL"
// @Success 200 {object} response.Data[dto.DocumentResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/applications/{id}/documents [delete]
// @Security BearerAuth
func (handler *Handler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveDocument")
	defer scope.End()

	req := dto.RemoveDocumentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.RemoveDocument(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove document")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
