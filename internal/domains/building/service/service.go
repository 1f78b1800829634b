package service

import (
	"context"
	"fmt"

	"hallseat/config"
	"hallseat/infras/otel"
	"hallseat/internal/domains/building/model"
	"hallseat/internal/domains/building/model/dto"
	"hallseat/internal/domains/building/repository"
	roomModel "hallseat/internal/domains/room/model"
	roomRepo "hallseat/internal/domains/room/repository"
	"hallseat/shared"
	"hallseat/shared/cache"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBuilding    = model.EntityName + ":get"
	cacheGetAllBuilding = model.EntityName + ":gets"
)

type Building interface {
	Create(ctx context.Context, req dto.CreateBuildingRequest) (dto.BuildingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BuildingFilter) (gDto.ListResponse[dto.BuildingResponse], error)
	Get(ctx context.Context, id string) (dto.BuildingResponse, error)
	Update(ctx context.Context, req dto.UpdateBuildingRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo     repository.Building
	roomRepo roomRepo.Room
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(repo repository.Building, roomRepo roomRepo.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Building {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBuildingRequest) (res dto.BuildingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	building := req.ToModel()

	if err = s.repo.Insert(ctx, building); err != nil {
		log.Error().Err(err).Msg("failed to create building")

		return res, failure.FromPostgres(fmt.Errorf("failed to create building: %w", err), model.EntityName)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBuilding)
	}()

	res.FromModel(building)
	res.WithOccupancy(model.Occupancy{})

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.BuildingFilter) (res gDto.ListResponse[dto.BuildingResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.Sanitize(dto.SortableFields, dto.DefaultSort)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBuilding, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for buildings")

		return res, nil
	}

	filterGroup := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count buildings")

		return res, fmt.Errorf("failed to count buildings: %w", err)
	}

	buildings, err := s.repo.GetAll(ctx, params, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get buildings")

		return res, fmt.Errorf("failed to get buildings: %w", err)
	}

	res = dto.NewBuildingsResponse(buildings, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save buildings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BuildingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBuilding, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for building")

		return res, nil
	}

	building, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get building")

		return res, fmt.Errorf("failed to get building: %w", err)
	}

	if building.ID == constant.Empty {
		return res, failure.NotFound("building not found") // nolint:wrapcheck
	}

	occupancy, err := s.occupancy(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(building)
	res.WithOccupancy(occupancy)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save building to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) occupancy(ctx context.Context, buildingID string) (res model.Occupancy, err error) {
	byBuilding := shared.FilterByID(buildingID, roomModel.FieldBuildingID, roomModel.TableName)

	res.TotalRooms, err = s.roomRepo.Count(ctx, byBuilding)
	if err != nil {
		log.Error().Err(err).Msg("failed to count building rooms")

		return res, fmt.Errorf("failed to count building rooms: %w", err)
	}

	for status, target := range map[roomModel.Status]*int{
		roomModel.StatusOccupied:  &res.OccupiedRooms,
		roomModel.StatusAvailable: &res.AvailableRooms,
	} {
		filter := shared.FilterByID(buildingID, roomModel.FieldBuildingID, roomModel.TableName)
		filter.Add(gDto.Filter{Field: roomModel.FieldStatus, Value: status, Operator: gDto.FilterOperatorEq, Table: roomModel.TableName})

		*target, err = s.roomRepo.Count(ctx, filter)
		if err != nil {
			log.Error().Err(err).Str("status", string(status)).Msg("failed to count building rooms by status")

			return res, fmt.Errorf("failed to count building rooms: %w", err)
		}
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBuildingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check building")

		return fmt.Errorf("failed to check building: %w", err)
	}

	if !exist {
		return failure.NotFound("building not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req), filter); err != nil {
		log.Error().Err(err).Msg("failed to update building")

		return failure.FromPostgres(fmt.Errorf("failed to update building: %w", err), model.EntityName)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check building")

		return fmt.Errorf("failed to check building: %w", err)
	}

	if !exist {
		return failure.NotFound("building not found") // nolint:wrapcheck
	}

	rooms, err := s.roomRepo.Count(ctx, shared.FilterByID(id, roomModel.FieldBuildingID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to count building rooms")

		return fmt.Errorf("failed to count building rooms: %w", err)
	}

	if rooms > 0 {
		return failure.Conflict("building still has rooms") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete building")

		return failure.FromPostgres(fmt.Errorf("failed to delete building: %w", err), model.EntityName)
	}

	s.invalidate(ctx)

	return nil
}

// invalidate drops building reads and room reads, which carry the building name.
func (s *serviceImpl) invalidate(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, model.EntityName+":", roomModel.EntityName+":")
	}()
}
