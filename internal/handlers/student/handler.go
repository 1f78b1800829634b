package student

import (
	"net/http"

	"hallseat/infras/otel"
	"hallseat/internal/domains/student/model"
	"hallseat/internal/domains/student/model/dto"
	"hallseat/internal/domains/student/service"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/validator"
	"hallseat/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Student
	otel    otel.Otel
}

func New(service service.Student, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/students", func(r chi.Router) {
		r.Get("/", handler.GetStudents)
		r.Post("/", handler.CreateStudent)
		r.Get("/me", handler.GetMyStudent)
		r.Patch("/me", handler.UpdateMyStudent)
		r.Get("/{id}", handler.GetStudentByID)
		r.Patch("/{id}", handler.UpdateStudent)
		r.Delete("/{id}", handler.DeleteStudent)
	})
}

// GetStudents lists students
// @Summary List students
// @Description Search matches first name, last name, email and student id case-insensitively.
// @Tags Student
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param department query string false "Filter by department"
// @Param year_of_study query integer false "Filter by year of study"
// @Param application_status query string false "Filter by application status"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.StudentResponse]]
// @Failure 500 {object} response.Error
// @Router /v1/students [get]
// @Security BearerAuth
func (handler *Handler) GetStudents(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStudents")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.StudentFilter{
		Search:            queryParams.Search,
		Department:        query.Get(model.FieldDepartment),
		YearOfStudy:       shared.ConvertStringToInt(query.Get(model.FieldYearOfStudy)),
		ApplicationStatus: query.Get(model.FieldApplicationStatus),
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get students")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateStudent registers a student record
// @Summary Create student
// @Tags Student
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Create Student Request"
// @Success 201 {object} response.Data[dto.StudentResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/students [post]
// @Security BearerAuth
func (handler *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateStudent")
	defer scope.End()

	req := dto.CreateStudentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create student")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMyStudent returns the caller's student record
// @Summary Get own student record
// @Tags Student
// @Produce json
// @Success 200 {object} response.Data[dto.StudentResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/students/me [get]
// @Security BearerAuth
func (handler *Handler) GetMyStudent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyStudent")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	res, err := handler.service.GetMine(ctx, userID, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own student record")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateMyStudent lets a student update contact details
// @Summary Update own student record
// @Tags Student
// @Accept json
// @Produce json
// @Param request body dto.UpdateMyStudentRequest true "Update Request"
// @Success 200 {object} response.Data[dto.StudentResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/students/me [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMyStudent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMyStudent")
	defer scope.End()

	req := dto.UpdateMyStudentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	res, err := handler.service.UpdateMine(ctx, req, userID, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update own student record")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetStudentByID returns one student
// @Summary Get student
// @Tags Student
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Data[dto.StudentResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/students/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetStudentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStudentByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get student")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateStudent updates a student record
// @Summary Update student
// @Tags Student
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Update Student Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/students/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStudent")
	defer scope.End()

	req := dto.UpdateStudentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update student")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Student updated successfully")
}

// DeleteStudent removes a student record
// @Summary Delete student
// @Tags Student
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/students/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteStudent")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete student")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Student deleted successfully")
}
