package building

import (
	"net/http"

	"hallseat/infras/otel"
	"hallseat/internal/domains/building/model"
	"hallseat/internal/domains/building/model/dto"
	"hallseat/internal/domains/building/service"
	"hallseat/shared"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/validator"
	"hallseat/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Building
	otel    otel.Otel
}

func New(service service.Building, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/buildings", func(r chi.Router) {
		r.Get("/", handler.GetBuildings)
		r.Post("/", handler.CreateBuilding)
		r.Get("/{id}", handler.GetBuildingByID)
		r.Patch("/{id}", handler.UpdateBuilding)
		r.Delete("/{id}", handler.DeleteBuilding)
	})
}

// GetBuildings lists residence halls
// @Summary List buildings
// @Tags Building
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param is_active query boolean false "Filter by active flag"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.BuildingResponse]]
// @Failure 500 {object} response.Error
// @Router /v1/buildings [get]
// @Security BearerAuth
func (handler *Handler) GetBuildings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBuildings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.BuildingFilter{
		Search:   queryParams.Search,
		IsActive: shared.ConvertStringToBool(r.URL.Query().Get(model.FieldIsActive)),
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get buildings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateBuilding adds a residence hall
// @Summary Create building
// @Tags Building
// @Accept json
// @Produce json
// @Param request body dto.CreateBuildingRequest true "Create Building Request"
// @Success 201 {object} response.Data[dto.BuildingResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings [post]
// @Security BearerAuth
func (handler *Handler) CreateBuilding(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBuilding")
	defer scope.End()

	req := dto.CreateBuildingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create building")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetBuildingByID returns a building with its room occupancy
// @Summary Get building
// @Tags Building
// @Produce json
// @Param id path string true "Building ID"
// @Success 200 {object} response.Data[dto.BuildingResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBuildingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBuildingByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get building")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateBuilding updates a building
// @Summary Update building
// @Tags Building
// @Accept json
// @Produce json
// @Param id path string true "Building ID"
// @Param request body dto.UpdateBuildingRequest true "Update Building Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBuilding(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBuilding")
	defer scope.End()

	req := dto.UpdateBuildingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update building")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Building updated successfully")
}

// DeleteBuilding removes an empty building
// @Summary Delete building
// @Tags Building
// @Produce json
// @Param id path string true "Building ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/buildings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBuilding(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBuilding")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete building")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Building deleted successfully")
}
