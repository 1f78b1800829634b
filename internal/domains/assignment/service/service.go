package service

import (
	"context"
	"fmt"

	"hallseat/config"
	"hallseat/infras/otel"
	"hallseat/infras/postgres"
	"hallseat/internal/domains/assignment/model"
	"hallseat/internal/domains/assignment/model/dto"
	"hallseat/internal/domains/assignment/repository"
	buildingModel "hallseat/internal/domains/building/model"
	roomModel "hallseat/internal/domains/room/model"
	roomRepo "hallseat/internal/domains/room/repository"
	studentModel "hallseat/internal/domains/student/model"
	studentRepo "hallseat/internal/domains/student/repository"
	"hallseat/shared"
	"hallseat/shared/cache"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
	"hallseat/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetAssignment    = model.EntityName + ":get"
	cacheGetAllAssignment = model.EntityName + ":gets"
)

type Assignment interface {
	Assign(ctx context.Context, req dto.CreateAssignmentRequest) (dto.AssignmentResponse, error)
	CheckOut(ctx context.Context, req dto.CheckOutRequest, id string) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.AssignmentFilter) (gDto.ListResponse[dto.AssignmentResponse], error)
	Get(ctx context.Context, id string) (dto.AssignmentResponse, error)
}

type serviceImpl struct {
	repo        repository.Assignment
	roomRepo    roomRepo.Room
	studentRepo studentRepo.Student
	db          *postgres.Connection
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Assignment,
	roomRepo roomRepo.Room,
	studentRepo studentRepo.Student,
	db *postgres.Connection,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Assignment {
	return &serviceImpl{
		repo:        repo,
		roomRepo:    roomRepo,
		studentRepo: studentRepo,
		db:          db,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Assign places a student in a room. The room row stays locked while occupancy is counted,
// and the room is marked OCCUPIED once the new assignment fills it.
func (s *serviceImpl) Assign(ctx context.Context, req dto.CreateAssignmentRequest) (res dto.AssignmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Assign")
	defer scope.End()
	defer scope.TraceIfError(err)

	assignment, err := req.ToModel()
	if err != nil {
		return res, failure.BadRequest(err)
	}

	exist, err := s.studentRepo.Exist(ctx, shared.FilterByID(req.StudentID, studentModel.FieldID, studentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if student exists")

		return res, fmt.Errorf("failed to check if student exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound("student not found") // nolint:wrapcheck
	}

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		byRoom := shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName)

		room, err := s.roomRepo.GetForUpdateTx(ctx, tx, byRoom, roomModel.FieldID, roomModel.FieldCapacity, roomModel.FieldStatus)
		if err != nil {
			return fmt.Errorf("failed to get room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		if room.Status == roomModel.StatusMaintenance {
			return failure.Conflict("room is under maintenance") // nolint:wrapcheck
		}

		current, err := s.repo.CountTx(ctx, tx, dto.ActiveForStudent(req.StudentID))
		if err != nil {
			return fmt.Errorf("failed to count student assignments: %w", err)
		}

		if current > 0 {
			return failure.Conflict("student already has an active room assignment") // nolint:wrapcheck
		}

		occupants, err := s.repo.CountTx(ctx, tx, dto.ActiveInRoom(req.RoomID))
		if err != nil {
			return fmt.Errorf("failed to count room occupants: %w", err)
		}

		if occupants >= room.Capacity {
			return failure.Conflict("room is at full capacity") // nolint:wrapcheck
		}

		if err := s.repo.InsertTx(ctx, tx, assignment); err != nil {
			return failure.FromPostgres(fmt.Errorf("failed to create assignment: %w", err), model.EntityName)
		}

		if occupants+1 < room.Capacity {
			return nil
		}

		fields := map[string]any{
			roomModel.FieldStatus:   roomModel.StatusOccupied,
			constant.FieldUpdatedAt: assignment.UpdatedAt,
		}

		if err := s.roomRepo.UpdateTx(ctx, tx, fields, byRoom); err != nil {
			return fmt.Errorf("failed to mark room occupied: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("room_id", req.RoomID).Str("student_id", req.StudentID).Msg("failed to assign room")

		return res, err
	}

	s.invalidate(ctx, assignment.ID)

	return s.Get(ctx, assignment.ID)
}

// CheckOut ends an active assignment and hands the room back as AVAILABLE unless it is under maintenance.
func (s *serviceImpl) CheckOut(ctx context.Context, req dto.CheckOutRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckOut")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := timezone.Now()

	checkOut, err := req.Date(now)
	if err != nil {
		return failure.BadRequest(err)
	}

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		byID := shared.FilterByID(id, model.FieldID, model.TableName)

		assignment, err := s.repo.GetForUpdateTx(ctx, tx, byID)
		if err != nil {
			return fmt.Errorf("failed to get assignment: %w", err)
		}

		if assignment.ID == constant.Empty {
			return failure.NotFound("assignment not found") // nolint:wrapcheck
		}

		if !assignment.IsActive {
			return failure.BadRequestFromString("assignment is already checked out") // nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldIsActive:     false,
			model.FieldCheckOutDate: checkOut,
			constant.FieldUpdatedAt: now,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, byID); err != nil {
			return fmt.Errorf("failed to check out assignment: %w", err)
		}

		room := shared.FilterByID(assignment.RoomID, roomModel.FieldID, roomModel.TableName)
		room.Add(gDto.Filter{Field: roomModel.FieldStatus, Value: roomModel.StatusMaintenance, Operator: gDto.FilterOperatorNotEq, Table: roomModel.TableName})

		roomFields := map[string]any{
			roomModel.FieldStatus:   roomModel.StatusAvailable,
			constant.FieldUpdatedAt: now,
		}

		if err := s.roomRepo.UpdateTx(ctx, tx, roomFields, room); err != nil {
			return fmt.Errorf("failed to release room: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to check out assignment")

		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.AssignmentFilter) (res gDto.ListResponse[dto.AssignmentResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.Sanitize(dto.SortableFields, dto.DefaultSort)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllAssignment, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for assignments")

		return res, nil
	}

	filterGroup := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count assignments")

		return res, fmt.Errorf("failed to count assignments: %w", err)
	}

	assignments, err := s.repo.GetAll(ctx, params, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get assignments")

		return res, fmt.Errorf("failed to get assignments: %w", err)
	}

	res = dto.NewAssignmentsResponse(assignments, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save assignments to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.AssignmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAssignment, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for assignment")

		return res, nil
	}

	assignment, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get assignment")

		return res, fmt.Errorf("failed to get assignment: %w", err)
	}

	if assignment.ID == constant.Empty {
		return res, failure.NotFound("assignment not found") // nolint:wrapcheck
	}

	res.FromModel(assignment)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save assignment to cache")
		}
	}()

	return res, nil
}

// invalidate also drops room and building reads, since occupancy moved.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache,
			cacheGetAllAssignment,
			shared.BuildCacheKey(cacheGetAssignment, id),
			roomModel.EntityName+":",
			buildingModel.EntityName+":",
			constant.CacheKeyDashboard,
		)
	}()
}
