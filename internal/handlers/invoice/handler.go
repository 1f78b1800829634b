package invoice

import (
	"net/http"

	"hallseat/infras/otel"
	"hallseat/internal/domains/invoice/model"
	"hallseat/internal/domains/invoice/model/dto"
	"hallseat/internal/domains/invoice/service"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/validator"
	"hallseat/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Invoice
	otel    otel.Otel
}

func New(service service.Invoice, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", handler.GetInvoices)
		r.Post("/", handler.CreateInvoice)
		r.Get("/mine", handler.GetMyInvoices)
		r.Get("/summary", handler.GetSummary)
		r.Get("/{id}", handler.GetInvoiceByID)
		r.Patch("/{id}", handler.UpdateInvoice)
		r.Delete("/{id}", handler.DeleteInvoice)
		r.Post("/{id}/pay", handler.PayInvoice)
	})
}

// GetInvoices lists invoices
// @Summary List invoices
// @Description Search matches the student's first name, last name and email.
// @Tags Invoices
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param student_id query string false "Filter by student"
// @Param room_id query string false "Filter by room"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.InvoiceResponse]]
// @Failure 500 {object} response.Error
// @Router /v1/invoices [get]
// @Security BearerAuth
func (handler *Handler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.InvoiceFilter{
		Search:    queryParams.Search,
		Status:    query.Get(model.FieldStatus),
		StudentID: query.Get(model.FieldStudentID),
		RoomID:    query.Get(model.FieldRoomID),
	}

	res, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoices")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// CreateInvoice bills a student for a room
// @Summary Create invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.CreateInvoiceRequest true "Create Invoice Request"
// @Success 201 {object} response.Data[dto.InvoiceResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices [post]
// @Security BearerAuth
func (handler *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateInvoice")
	defer scope.End()

	req := dto.CreateInvoiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create invoice")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, res)
}

// GetMyInvoices lists the caller's invoices
// @Summary List my invoices
// @Tags Invoices
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[gDto.ListResponse[dto.InvoiceResponse]]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyInvoices(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyInvoices")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	res, err := handler.service.GetMine(ctx, queryParams, userID, email)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own invoices")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetSummary returns the finance totals
// @Summary Invoice summary
// @Description Total revenue over PAID, pending amount over PENDING and the overdue count.
// @Tags Invoices
// @Produce json
// @Success 200 {object} response.Data[dto.SummaryResponse]
// @Failure 500 {object} response.Error
// @Router /v1/invoices/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	res, err := handler.service.Summary(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoice summary")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetInvoiceByID returns an invoice
// @Summary Get invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Data[dto.InvoiceResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetInvoiceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoiceByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get invoice")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateInvoice changes an invoice
// @Summary Update invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.UpdateInvoiceRequest true "Update Invoice Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateInvoice")
	defer scope.End()

	req := dto.UpdateInvoiceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update invoice")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Invoice updated successfully")
}

// DeleteInvoice removes an invoice
// @Summary Delete invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteInvoice")
	defer scope.End()

	if err := handler.service.Delete(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete invoice")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Invoice deleted successfully")
}

// PayInvoice marks an invoice PAID
// @Summary Pay invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} response.Data[dto.InvoiceResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/invoices/{id}/pay [post]
// @Security BearerAuth
func (handler *Handler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".PayInvoice")
	defer scope.End()

	res, err := handler.service.Pay(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to pay invoice")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
