package service

import (
	"context"
	"fmt"

	"hallseat/config"
	"hallseat/infras/otel"
	"hallseat/internal/domains/invoice/model"
	"hallseat/internal/domains/invoice/model/dto"
	"hallseat/internal/domains/invoice/repository"
	studentRepo "hallseat/internal/domains/student/repository"
	studentService "hallseat/internal/domains/student/service"
	"hallseat/internal/events"
	"hallseat/shared"
	"hallseat/shared/cache"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
	"hallseat/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetInvoice     = model.EntityName + ":get"
	cacheGetAllInvoice  = model.EntityName + ":gets"
	cacheInvoiceSummary = model.EntityName + ":summary"
)

type Invoice interface {
	Create(ctx context.Context, req dto.CreateInvoiceRequest) (dto.InvoiceResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.InvoiceFilter) (gDto.ListResponse[dto.InvoiceResponse], error)
	GetMine(ctx context.Context, params gDto.QueryParams, userID, email string) (gDto.ListResponse[dto.InvoiceResponse], error)
	Get(ctx context.Context, id string) (dto.InvoiceResponse, error)
	Update(ctx context.Context, req dto.UpdateInvoiceRequest, id string) error
	Pay(ctx context.Context, id string) (dto.InvoiceResponse, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (dto.SummaryResponse, error)
	MarkOverdue(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo        repository.Invoice
	studentRepo studentRepo.Student
	publisher   events.Publisher
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Invoice, studentRepo studentRepo.Student, publisher events.Publisher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Invoice {
	return &serviceImpl{
		repo:        repo,
		studentRepo: studentRepo,
		publisher:   publisher,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateInvoiceRequest) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	invoice, err := req.ToModel()
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if err = s.repo.Insert(ctx, invoice); err != nil {
		log.Error().Err(err).Msg("failed to create invoice")

		return res, failure.FromPostgres(fmt.Errorf("failed to create invoice: %w", err), model.EntityName)
	}

	s.invalidate(ctx, invoice.ID)

	return s.Get(ctx, invoice.ID)
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.InvoiceFilter) (res gDto.ListResponse[dto.InvoiceResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.Sanitize(dto.SortableFields, dto.DefaultSort)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllInvoice, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invoices")

		return res, nil
	}

	filterGroup := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count invoices")

		return res, fmt.Errorf("failed to count invoices: %w", err)
	}

	invoices, err := s.repo.GetAll(ctx, params, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoices")

		return res, fmt.Errorf("failed to get invoices: %w", err)
	}

	res = dto.NewInvoicesResponse(invoices, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoices to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, userID, email string) (res gDto.ListResponse[dto.InvoiceResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, err := studentService.Owner(ctx, s.studentRepo, userID, email)
	if err != nil {
		return res, err
	}

	return s.GetAll(ctx, params, dto.InvoiceFilter{StudentID: student.ID})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetInvoice, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for invoice")

		return res, nil
	}

	invoice, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(invoice)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateInvoiceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	invoice, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	fields := shared.TransformFields(req)

	switch {
	case req.Status == model.StatusPaid && invoice.PaidAt == nil:
		fields[model.FieldPaidAt] = fields[constant.FieldUpdatedAt]
	case req.Status != "" && req.Status != model.StatusPaid && invoice.PaidAt != nil:
		fields[model.FieldPaidAt] = nil
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update invoice")

		return failure.FromPostgres(fmt.Errorf("failed to update invoice: %w", err), model.EntityName)
	}

	s.invalidate(ctx, id)

	if req.Status == model.StatusPaid && invoice.Status != model.StatusPaid {
		s.publisher.Publish(ctx, events.New(ctx, events.InvoicePaid, id, string(model.StatusPaid)))
	}

	return nil
}

// Pay settles a PENDING or OVERDUE invoice.
func (s *serviceImpl) Pay(ctx context.Context, id string) (res dto.InvoiceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Pay")
	defer scope.End()
	defer scope.TraceIfError(err)

	invoice, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	switch invoice.Status {
	case model.StatusPaid:
		return res, failure.Conflict("invoice is already paid") // nolint:wrapcheck
	case model.StatusCancelled:
		return res, failure.BadRequestFromString("cancelled invoices cannot be paid") // nolint:wrapcheck
	}

	now := timezone.Now()
	fields := map[string]any{
		model.FieldStatus:       model.StatusPaid,
		model.FieldPaidAt:       now,
		constant.FieldUpdatedAt: now,
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to pay invoice")

		return res, fmt.Errorf("failed to pay invoice: %w", err)
	}

	s.publisher.Publish(ctx, events.New(ctx, events.InvoicePaid, id, string(model.StatusPaid)))

	invoice.Status = model.StatusPaid
	invoice.PaidAt = &now
	invoice.UpdatedAt = now
	res.FromModel(invoice)

	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check invoice")

		return fmt.Errorf("failed to check invoice: %w", err)
	}

	if !exist {
		return failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete invoice")

		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Summary(ctx context.Context) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Summary")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheInvoiceSummary, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheInvoiceSummary).Msg("cache hit for invoice summary")

		return res, nil
	}

	invoices, err := s.repo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{}, dto.SummaryColumns...)
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoices for summary")

		return res, fmt.Errorf("failed to get invoices for summary: %w", err)
	}

	res = dto.Summarize(invoices, timezone.StartOfDay(timezone.Now()))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheInvoiceSummary, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save invoice summary to cache")
		}
	}()

	return res, nil
}

// MarkOverdue flips PENDING invoices due before today to OVERDUE and applies the configured late fee.
func (s *serviceImpl) MarkOverdue(ctx context.Context) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarkOverdue")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()
	filter := dto.OverdueFilter(now)

	due, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter, model.FieldID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get overdue invoices")

		return 0, fmt.Errorf("failed to get overdue invoices: %w", err)
	}

	if len(due) == 0 {
		return 0, nil
	}

	fields := map[string]any{
		model.FieldStatus:       model.StatusOverdue,
		constant.FieldUpdatedAt: now,
	}

	if fee := s.cfg.Job.InvoiceOverdue.LateFee; fee > 0 {
		fields[model.FieldLateFee] = fee
	}

	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to mark invoices overdue")

		return 0, fmt.Errorf("failed to mark invoices overdue: %w", err)
	}

	overdue := make([]events.Event, len(due))
	for i, invoice := range due {
		overdue[i] = events.New(ctx, events.InvoiceOverdue, invoice.ID, string(model.StatusOverdue))
	}

	s.publisher.Publish(ctx, overdue...)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllInvoice, cacheGetInvoice, cacheInvoiceSummary, constant.CacheKeyDashboard)
	}()

	log.Info().Int("count", len(due)).Msg("invoices marked overdue")

	return len(due), nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Invoice, error) {
	invoice, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get invoice")

		return invoice, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.ID == constant.Empty {
		return invoice, failure.NotFound("invoice not found") // nolint:wrapcheck
	}

	return invoice, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllInvoice, shared.BuildCacheKey(cacheGetInvoice, id), cacheInvoiceSummary, constant.CacheKeyDashboard)
	}()
}
