package service

import (
	"context"
	"fmt"
	"strings"

	"hallseat/config"
	"hallseat/infras/otel"
	applicationModel "hallseat/internal/domains/application/model"
	assignmentModel "hallseat/internal/domains/assignment/model"
	assignmentDto "hallseat/internal/domains/assignment/model/dto"
	assignmentRepo "hallseat/internal/domains/assignment/repository"
	invoiceModel "hallseat/internal/domains/invoice/model"
	maintenanceModel "hallseat/internal/domains/maintenance/model"
	"hallseat/internal/domains/student/model"
	"hallseat/internal/domains/student/model/dto"
	"hallseat/internal/domains/student/repository"
	"hallseat/shared"
	"hallseat/shared/cache"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetStudent    = "student:get"
	cacheGetAllStudent = "student:gets"
)

type Student interface {
	Create(ctx context.Context, req dto.CreateStudentRequest) (dto.StudentResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.StudentFilter) (gDto.ListResponse[dto.StudentResponse], error)
	Get(ctx context.Context, id string) (dto.StudentResponse, error)
	GetMine(ctx context.Context, userID, email string) (dto.StudentResponse, error)
	Update(ctx context.Context, req dto.UpdateStudentRequest, id string) error
	UpdateMine(ctx context.Context, req dto.UpdateMyStudentRequest, userID, email string) (dto.StudentResponse, error)
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo           repository.Student
	assignmentRepo assignmentRepo.Assignment
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
}

func New(repo repository.Student, assignmentRepo assignmentRepo.Assignment, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Student {
	return &serviceImpl{
		repo:           repo,
		assignmentRepo: assignmentRepo,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateStudentRequest) (res dto.StudentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	student := req.ToModel()

	if err = s.repo.Insert(ctx, student); err != nil {
		log.Error().Err(err).Msg("failed to create student")

		return res, failure.FromPostgres(fmt.Errorf("failed to create student: %w", err), model.EntityName)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllStudent, constant.CacheKeyDashboard)
	}()

	res.FromModel(student)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.StudentFilter) (res gDto.ListResponse[dto.StudentResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.Sanitize(dto.SortableFields, dto.DefaultSort)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllStudent, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for students")

		return res, nil
	}

	filterGroup := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count students")

		return res, fmt.Errorf("failed to count students: %w", err)
	}

	students, err := s.repo.GetAll(ctx, params, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get students")

		return res, fmt.Errorf("failed to get students: %w", err)
	}

	res = dto.NewStudentsResponse(students, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save students to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.StudentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetStudent, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for student")

		return res, nil
	}

	student, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get student")

		return res, fmt.Errorf("failed to get student: %w", err)
	}

	if student.ID == constant.Empty {
		return res, failure.NotFound("student not found") // nolint:wrapcheck
	}

	res.FromModel(student)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save student to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, userID, email string) (res dto.StudentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, err := s.mine(ctx, userID, email)
	if err != nil {
		return res, err
	}

	res.FromModel(student)

	return res, nil
}

// Owner finds the student record belonging to a signed-in profile. A record
// linked to the profile wins; otherwise an unclaimed record with the profile's
// email is returned so the caller can link it.
func Owner(ctx context.Context, repo repository.Student, userID, email string) (model.Student, error) {
	student, err := repo.Get(ctx, dto.OwnerFilter(userID))
	if err != nil {
		log.Error().Err(err).Msg("failed to get student for user")

		return student, fmt.Errorf("failed to get student for user: %w", err)
	}

	if student.ID == constant.Empty && strings.TrimSpace(email) != constant.Empty {
		student, err = repo.Get(ctx, dto.ClaimableFilter(email))
		if err != nil {
			log.Error().Err(err).Msg("failed to get student by email")

			return student, fmt.Errorf("failed to get student by email: %w", err)
		}
	}

	if student.ID == constant.Empty {
		return student, failure.NotFound("no student record is linked to this account") // nolint:wrapcheck
	}

	if student.UserID != nil && *student.UserID != userID {
		return model.Student{}, failure.Forbidden("student record belongs to another account") // nolint:wrapcheck
	}

	return student, nil
}

// mine resolves the caller's student record and links it to the profile on first access.
func (s *serviceImpl) mine(ctx context.Context, userID, email string) (model.Student, error) {
	student, err := Owner(ctx, s.repo, userID, email)
	if err != nil {
		return student, err
	}

	if student.UserID != nil {
		return student, nil
	}

	link := map[string]any{model.FieldUserID: userID}
	if err := s.repo.Update(ctx, link, dto.LinkFilter(student.ID)); err != nil {
		log.Warn().Err(err).Str("student_id", student.ID).Msg("failed to link student to profile")

		return student, nil
	}

	student.UserID = &userID

	return student, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateStudentRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check student")

		return fmt.Errorf("failed to check student: %w", err)
	}

	if !exist {
		return failure.NotFound("student not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req), filter); err != nil {
		log.Error().Err(err).Msg("failed to update student")

		return failure.FromPostgres(fmt.Errorf("failed to update student: %w", err), model.EntityName)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UpdateMine(ctx context.Context, req dto.UpdateMyStudentRequest, userID, email string) (res dto.StudentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, err := s.mine(ctx, userID, email)
	if err != nil {
		return res, err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req), shared.FilterByID(student.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update own student record")

		return res, fmt.Errorf("failed to update student: %w", err)
	}

	s.invalidate(ctx, student.ID)

	student, err = s.repo.Get(ctx, shared.FilterByID(student.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to reload student")

		return res, fmt.Errorf("failed to reload student: %w", err)
	}

	res.FromModel(student)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check student")

		return fmt.Errorf("failed to check student: %w", err)
	}

	if !exist {
		return failure.NotFound("student not found") // nolint:wrapcheck
	}

	active, err := s.assignmentRepo.Count(ctx, assignmentDto.ActiveForStudent(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to count student assignments")

		return fmt.Errorf("failed to count student assignments: %w", err)
	}

	if active > 0 {
		return failure.Conflict("student still holds an active room assignment, check it out first") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete student")

		return failure.FromPostgres(fmt.Errorf("failed to delete student: %w", err), model.EntityName)
	}

	s.invalidate(ctx, id)

	return nil
}

// invalidate drops the student's cached reads together with the dashboard and
// every listing that joins student names or cascades from a student row.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache,
			cacheGetAllStudent,
			shared.BuildCacheKey(cacheGetStudent, id),
			constant.CacheKeyDashboard,
			applicationModel.EntityName+":",
			assignmentModel.EntityName+":",
			invoiceModel.EntityName+":",
			maintenanceModel.EntityName+":",
		)
	}()
}
