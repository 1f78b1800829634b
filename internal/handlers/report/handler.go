package report

import (
	"net/http"

	"hallseat/infras/otel"
	"hallseat/internal/domains/report/service"
	"hallseat/shared/constant"
	"hallseat/shared/timezone"
	"hallseat/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Get("/dashboard/stats", handler.GetDashboardStats)

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", handler.GetReport)
		r.Get("/export", handler.ExportReport)
	})
}

// GetDashboardStats returns the dashboard counters
// @Summary Dashboard statistics
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Data[dto.StatsResponse]
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/stats [get]
// @Security BearerAuth
func (handler *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboardStats")
	defer scope.End()

	res, err := handler.service.Stats(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard stats")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetReport returns the full report
// @Summary Reports
// @Description Dashboard stats plus occupancy rate and breakdowns by department, room type, month and maintenance category.
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Data[dto.ReportResponse]
// @Failure 500 {object} response.Error
// @Router /v1/reports [get]
// @Security BearerAuth
func (handler *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReport")
	defer scope.End()

	res, err := handler.service.Report(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ExportReport downloads the report as a spreadsheet
// @Summary Export report
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 500 {object} response.Error
// @Router /v1/reports/export [get]
// @Security BearerAuth
func (handler *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportReport")
	defer scope.End()

	data, err := handler.service.Export(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export report")

		response.WithError(w, err)

		return
	}

	fileName := "report-" + timezone.Format(timezone.Now(), constant.DateOnlyFormat) + ".xlsx"

	response.WithFile(w, fileName, constant.ContentTypeXLSX, data)
}
