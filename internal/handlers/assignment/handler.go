package assignment

import (
	"net/http"

	"hallseat/infras/otel"
	"hallseat/internal/domains/assignment/model"
	"hallseat/internal/domains/assignment/model/dto"
	"hallseat/internal/domains/assignment/service"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/validator"
	"hallseat/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Assignment
	otel    otel.Otel
}

func New(service service.Assignment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/assignments", func(r chi.Router) {
		r.Get("/", handler.GetAssignments)
		r.Post("/", handler.AssignRoom)
		r.Get("/{id}", handler.GetAssignmentByID)
		r.Post("/{id}/check-out", handler.CheckOut)
	})
}

// GetAssignments lists room assignments, active ones unless is_active says otherwise
// @Summary List room assignments
// @Tags Assignments
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param is_active query boolean false "Filter by active flag (default true)"
// @Param room_id query string false "Filter by room"
// @Param student_id query string false "Filter by student"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.AssignmentResponse]]
// @Failure 500 {object} response.Error
// @Router /v1/assignments [get]
// @Security BearerAuth
func (handler *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAssignments")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()

	active := true
	isActive := &active

	if query.Has(model.FieldIsActive) {
		isActive = shared.ConvertStringToBool(query.Get(model.FieldIsActive))
	}

	filter := dto.AssignmentFilter{
		Search:    queryParams.Search,
		RoomID:    query.Get(model.FieldRoomID),
		StudentID: query.Get(model.FieldStudentID),
		IsActive:  isActive,
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get assignments")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// AssignRoom places a student in a room
// @Summary Assign room
// @Description Fails with 409 when the room is full or under maintenance, or the student already holds an active assignment.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param request body dto.CreateAssignmentRequest true "Create Assignment Request"
// @Success 201 {object} response.Data[dto.AssignmentResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/assignments [post]
// @Security BearerAuth
func (handler *Handler) AssignRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AssignRoom")
	defer scope.End()

	req := dto.CreateAssignmentRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Assign(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to assign room")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetAssignmentByID returns a room assignment
// @Summary Get room assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Data[dto.AssignmentResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/assignments/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetAssignmentByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAssignmentByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get assignment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CheckOut ends an assignment
// @Summary Check out
// @Description Deactivates the assignment, stamps check_out_date (today when omitted) and returns the room to AVAILABLE.
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param request body dto.CheckOutRequest false "Check Out Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/assignments/{id}/check-out [post]
// @Security BearerAuth
func (handler *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckOut")
	defer scope.End()

	req := dto.CheckOutRequest{}

	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	if err := handler.service.CheckOut(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check out assignment")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Checked out successfully")
}
