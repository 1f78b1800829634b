package maintenance

import (
	"net/http"

	"hallseat/infras/otel"
	"hallseat/internal/domains/maintenance/model"
	"hallseat/internal/domains/maintenance/model/dto"
	"hallseat/internal/domains/maintenance/service"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/validator"
	"hallseat/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Maintenance
	otel    otel.Otel
}

func New(service service.Maintenance, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/maintenance", func(r chi.Router) {
		r.Get("/", handler.GetRequests)
		r.Post("/", handler.CreateRequest)
		r.Get("/mine", handler.GetMyRequests)
		r.Post("/mine", handler.ReportRequest)
		r.Post("/mine/{id}/feedback", handler.LeaveFeedback)
		r.Get("/{id}", handler.GetRequestByID)
		r.Patch("/{id}", handler.UpdateRequest)
		r.Delete("/{id}", handler.DeleteRequest)
	})
}

// GetRequests lists maintenance tickets
// @Summary List maintenance requests
// @Description Search matches the description and the room number.
// @Tags Maintenance
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param priority query string false "Filter by priority"
// @Param category query string false "Filter by category"
// @Param assigned_to query string false "Filter by assignee"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.MaintenanceResponse]]
// @Failure 500 {object} response.Error
// @Router /v1/maintenance [get]
// @Security BearerAuth
func (handler *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.MaintenanceFilter{
		Search:     queryParams.Search,
		Status:     query.Get(model.FieldStatus),
		Priority:   query.Get(model.FieldPriority),
		Category:   query.Get(model.FieldCategory),
		AssignedTo: query.Get(model.FieldAssignedTo),
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateRequest logs a maintenance ticket
// @Summary Create maintenance request
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.CreateMaintenanceRequest true "Create Maintenance Request"
// @Success 201 {object} response.Data[dto.MaintenanceResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance [post]
// @Security BearerAuth
func (handler *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRequest")
	defer scope.End()

	req := dto.CreateMaintenanceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create maintenance request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMyRequests lists the tickets the caller reported
// @Summary List my maintenance requests
// @Tags Maintenance
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.MaintenanceResponse]]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	res, err := handler.service.GetMine(ctx, queryParams, userID, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own maintenance requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ReportRequest lets a student raise a ticket
// @Summary Report a maintenance issue
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param request body dto.ReportMaintenanceRequest true "Report Maintenance Request"
// @Success 201 {object} response.Data[dto.MaintenanceResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance/mine [post]
// @Security BearerAuth
func (handler *Handler) ReportRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ReportRequest")
	defer scope.End()

	req := dto.ReportMaintenanceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	res, err := handler.service.Report(ctx, req, userID, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to report maintenance request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// LeaveFeedback records the reporter's feedback on a completed ticket
// @Summary Leave feedback
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Param request body dto.FeedbackRequest true "Feedback"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance/mine/{id}/feedback [post]
// @Security BearerAuth
func (handler *Handler) LeaveFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".LeaveFeedback")
	defer scope.End()

	req := dto.FeedbackRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	if err := handler.service.LeaveFeedback(ctx, req, chi.URLParam(r, constant.RequestParamID), userID, email); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to leave feedback")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Feedback saved successfully")
}

// GetRequestByID returns a maintenance ticket
// @Summary Get maintenance request
// @Tags Maintenance
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Success 200 {object} response.Data[dto.MaintenanceResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get maintenance request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateRequest changes a ticket's fields, including its status and assignee
// @Summary Update maintenance request
// @Description Setting status COMPLETED stamps completed_at.
// @Tags Maintenance
// @Accept json
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Param request body dto.UpdateMaintenanceRequest true "Update Maintenance Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRequest")
	defer scope.End()

	req := dto.UpdateMaintenanceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update maintenance request")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Maintenance request updated successfully")
}

// DeleteRequest removes a ticket
// @Summary Delete maintenance request
// @Tags Maintenance
// @Produce json
// @Param id path string true "Maintenance Request ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/maintenance/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRequest")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete maintenance request")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Maintenance request deleted successfully")
}
