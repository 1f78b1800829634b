package service

import (
	"context"
	"fmt"

	"hallseat/config"
	"hallseat/infras/otel"
	"hallseat/internal/domains/maintenance/model"
	"hallseat/internal/domains/maintenance/model/dto"
	"hallseat/internal/domains/maintenance/repository"
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
	cacheGetMaintenance    = model.EntityName + ":get"
	cacheGetAllMaintenance = model.EntityName + ":gets"
)

type Maintenance interface {
	Create(ctx context.Context, req dto.CreateMaintenanceRequest) (dto.MaintenanceResponse, error)
	Report(ctx context.Context, req dto.ReportMaintenanceRequest, userID, email string) (dto.MaintenanceResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.MaintenanceFilter) (gDto.ListResponse[dto.MaintenanceResponse], error)
	GetMine(ctx context.Context, params gDto.QueryParams, userID, email string) (gDto.ListResponse[dto.MaintenanceResponse], error)
	Get(ctx context.Context, id string) (dto.MaintenanceResponse, error)
	Update(ctx context.Context, req dto.UpdateMaintenanceRequest, id string) error
	LeaveFeedback(ctx context.Context, req dto.FeedbackRequest, id, userID, email string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Maintenance
	studentRepo studentRepo.Student
	publisher   events.Publisher
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(repo repository.Maintenance, studentRepo studentRepo.Student, publisher events.Publisher, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Maintenance {
	return &serviceImpl{
		repo:        repo,
		studentRepo: studentRepo,
		publisher:   publisher,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMaintenanceRequest) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	request := req.ToModel()

	if err = s.repo.Insert(ctx, request); err != nil {
		log.Error().Err(err).Msg("failed to create maintenance request")

		return res, failure.FromPostgres(fmt.Errorf("failed to create maintenance request: %w", err), model.EntityName)
	}

	s.invalidate(ctx, request.ID)

	return s.Get(ctx, request.ID)
}

func (s *serviceImpl) Report(ctx context.Context, req dto.ReportMaintenanceRequest, userID, email string) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Report")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, err := studentService.Owner(ctx, s.studentRepo, userID, email)
	if err != nil {
		return res, err
	}

	return s.Create(ctx, req.ToCreateRequest(student.ID))
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.MaintenanceFilter) (res gDto.ListResponse[dto.MaintenanceResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.Sanitize(dto.SortableFields, dto.DefaultSort)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMaintenance, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for maintenance requests")

		return res, nil
	}

	filterGroup := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count maintenance requests")

		return res, fmt.Errorf("failed to count maintenance requests: %w", err)
	}

	requests, err := s.repo.GetAll(ctx, params, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance requests")

		return res, fmt.Errorf("failed to get maintenance requests: %w", err)
	}

	res = dto.NewMaintenanceResponses(requests, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance requests to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, userID, email string) (res gDto.ListResponse[dto.MaintenanceResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, err := studentService.Owner(ctx, s.studentRepo, userID, email)
	if err != nil {
		return res, err
	}

	return s.GetAll(ctx, params, dto.MaintenanceFilter{StudentID: student.ID})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MaintenanceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetMaintenance, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for maintenance request")

		return res, nil
	}

	request, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(request)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save maintenance request to cache")
		}
	}()

	return res, nil
}

// Update applies a partial change. Moving to COMPLETED stamps completed_at; moving away clears it.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMaintenanceRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	request, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	fields := shared.TransformFields(req)

	switch {
	case req.Status == model.StatusCompleted && request.CompletedAt == nil:
		fields[model.FieldCompletedAt] = fields[constant.FieldUpdatedAt]
	case req.Status != "" && req.Status != model.StatusCompleted && request.CompletedAt != nil:
		fields[model.FieldCompletedAt] = nil
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update maintenance request")

		return failure.FromPostgres(fmt.Errorf("failed to update maintenance request: %w", err), model.EntityName)
	}

	s.invalidate(ctx, id)

	if req.Status != "" && req.Status != request.Status {
		s.publisher.Publish(ctx, events.New(ctx, events.MaintenanceStatusChanged, id, string(req.Status)))
	}

	return nil
}

func (s *serviceImpl) LeaveFeedback(ctx context.Context, req dto.FeedbackRequest, id, userID, email string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".LeaveFeedback")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, err := studentService.Owner(ctx, s.studentRepo, userID, email)
	if err != nil {
		return err
	}

	request, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if request.StudentID == nil || *request.StudentID != student.ID {
		return failure.ResourceRestrictedError
	}

	if request.Status != model.StatusCompleted {
		return failure.BadRequestFromString("feedback can only be left on completed requests") // nolint:wrapcheck
	}

	fields := map[string]any{
		model.FieldFeedback:     req.Feedback,
		constant.FieldUpdatedAt: timezone.Now(),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to save maintenance feedback")

		return fmt.Errorf("failed to save maintenance feedback: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check maintenance request")

		return fmt.Errorf("failed to check maintenance request: %w", err)
	}

	if !exist {
		return failure.NotFound("maintenance request not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete maintenance request")

		return fmt.Errorf("failed to delete maintenance request: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Request, error) {
	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get maintenance request")

		return request, fmt.Errorf("failed to get maintenance request: %w", err)
	}

	if request.ID == constant.Empty {
		return request, failure.NotFound("maintenance request not found") // nolint:wrapcheck
	}

	return request, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllMaintenance, shared.BuildCacheKey(cacheGetMaintenance, id), constant.CacheKeyDashboard)
	}()
}
