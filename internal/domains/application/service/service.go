package service

import (
	"context"
	"fmt"
	"slices"

	"hallseat/config"
	"hallseat/infras/otel"
	"hallseat/infras/postgres"
	"hallseat/infras/s3"
	"hallseat/internal/domains/application/model"
	"hallseat/internal/domains/application/model/dto"
	"hallseat/internal/domains/application/repository"
	studentModel "hallseat/internal/domains/student/model"
	studentRepo "hallseat/internal/domains/student/repository"
	studentService "hallseat/internal/domains/student/service"
	"hallseat/internal/events"
	"hallseat/shared"
	"hallseat/shared/base64"
	"hallseat/shared/cache"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"
	"hallseat/shared/failure"
	"hallseat/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetApplication    = model.EntityName + ":get"
	cacheGetAllApplication = model.EntityName + ":gets"
)

// openStatuses are the states in which a student still has an application in flight.
var openStatuses = []string{string(model.StatusSubmitted), string(model.StatusUnderReview), string(model.StatusWaitlisted)}

type Application interface {
	Create(ctx context.Context, req dto.CreateApplicationRequest) (dto.ApplicationResponse, error)
	Submit(ctx context.Context, req dto.SubmitApplicationRequest, userID, email string) (dto.ApplicationResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ApplicationFilter) (gDto.ListResponse[dto.ApplicationResponse], error)
	GetMine(ctx context.Context, params gDto.QueryParams, userID, email string) (gDto.ListResponse[dto.ApplicationResponse], error)
	Get(ctx context.Context, id string) (dto.ApplicationResponse, error)
	Update(ctx context.Context, req dto.UpdateApplicationRequest, id string) error
	UpdateStatus(ctx context.Context, req dto.UpdateApplicationStatusRequest, id string) error
	Delete(ctx context.Context, id string) error
	UploadDocument(ctx context.Context, id string, req dto.UploadDocumentRequest) (dto.DocumentResponse, error)
	UploadDocumentBase64(ctx context.Context, id string, req dto.UploadDocumentBase64Request) (dto.DocumentResponse, error)
	RemoveDocument(ctx context.Context, id string, req dto.RemoveDocumentRequest) (dto.DocumentResponse, error)
}

type serviceImpl struct {
	repo        repository.Application
	studentRepo studentRepo.Student
	db          *postgres.Connection
	s3          s3.S3
	publisher   events.Publisher
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Application,
	studentRepo studentRepo.Student,
	db *postgres.Connection,
	s3 s3.S3,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Application {
	return &serviceImpl{
		repo:        repo,
		studentRepo: studentRepo,
		db:          db,
		s3:          s3,
		publisher:   publisher,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateApplicationRequest) (res dto.ApplicationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.studentRepo.Exist(ctx, shared.FilterByID(req.StudentID, studentModel.FieldID, studentModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if student exists")

		return res, fmt.Errorf("failed to check if student exists: %w", err)
	}

	if !exist {
		return res, failure.BadRequestFromString("student does not exist") // nolint:wrapcheck
	}

	application := req.ToModel()

	if err = s.repo.Insert(ctx, application); err != nil {
		log.Error().Err(err).Msg("failed to create application")

		return res, failure.FromPostgres(fmt.Errorf("failed to create application: %w", err), model.EntityName)
	}

	s.invalidate(ctx, application.ID)

	return s.Get(ctx, application.ID)
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitApplicationRequest, userID, email string) (res dto.ApplicationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, err := s.student(ctx, userID, email)
	if err != nil {
		return res, err
	}

	open := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	open.Add(
		gDto.Filter{Field: model.FieldStudentID, Value: student.ID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: openStatuses, Operator: gDto.FilterOperatorIn, Table: model.TableName},
	)

	pending, err := s.repo.Exist(ctx, open)
	if err != nil {
		log.Error().Err(err).Msg("failed to check open applications")

		return res, fmt.Errorf("failed to check open applications: %w", err)
	}

	if pending {
		return res, failure.Conflict("an application is already in progress") // nolint:wrapcheck
	}

	return s.Create(ctx, req.ToCreateRequest(student.ID))
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ApplicationFilter) (res gDto.ListResponse[dto.ApplicationResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	params.Sanitize(dto.SortableFields, dto.DefaultSort)
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllApplication, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for applications")

		return res, nil
	}

	filterGroup := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count applications")

		return res, fmt.Errorf("failed to count applications: %w", err)
	}

	applications, err := s.repo.GetAll(ctx, params, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get applications")

		return res, fmt.Errorf("failed to get applications: %w", err)
	}

	res = dto.NewApplicationsResponse(applications, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save applications to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, userID, email string) (res gDto.ListResponse[dto.ApplicationResponse], err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	student, err := s.student(ctx, userID, email)
	if err != nil {
		return res, err
	}

	return s.GetAll(ctx, params, dto.ApplicationFilter{StudentID: student.ID})
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ApplicationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetApplication, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for application")

		return res, nil
	}

	application, err := s.get(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(application)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save application to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateApplicationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check application")

		return fmt.Errorf("failed to check application: %w", err)
	}

	if !exist {
		return failure.NotFound("application not found") // nolint:wrapcheck
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req), filter); err != nil {
		log.Error().Err(err).Msg("failed to update application")

		return failure.FromPostgres(fmt.Errorf("failed to update application: %w", err), model.EntityName)
	}

	s.invalidate(ctx, id)

	return nil
}

// UpdateStatus moves an application to a new status and mirrors it onto the student record.
func (s *serviceImpl) UpdateStatus(ctx context.Context, req dto.UpdateApplicationStatusRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	application, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	fields := shared.TransformFields(req)
	fields[model.FieldStatus] = string(req.Status)

	studentFields := map[string]any{
		studentModel.FieldApplicationStatus: string(req.Status),
		constant.FieldUpdatedAt:             fields[constant.FieldUpdatedAt],
	}

	err = s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			return fmt.Errorf("failed to update application status: %w", err)
		}

		if err := s.studentRepo.UpdateTx(ctx, tx, studentFields, shared.FilterByID(application.StudentID, studentModel.FieldID, studentModel.TableName)); err != nil {
			return fmt.Errorf("failed to update student application status: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update application status")

		return err
	}

	s.invalidate(ctx, id, studentModel.EntityName+":")
	s.publisher.Publish(ctx, events.New(ctx, events.ApplicationStatusChanged, id, string(req.Status)))

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	application, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete application")

		return fmt.Errorf("failed to delete application: %w", err)
	}

	for _, url := range application.Documents {
		s.deleteObject(ctx, url)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) UploadDocument(ctx context.Context, id string, req dto.UploadDocumentRequest) (res dto.DocumentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadDocument")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !req.Allowed() {
		return res, failure.BadRequestFromString("document must be a PDF, PNG or JPEG file") // nolint:wrapcheck
	}

	if err = s.writable(ctx, id); err != nil {
		return res, err
	}

	url, err := s.s3.UploadFile(ctx, s.directory(id), req.FileData, req.File, req.FileName())
	if err != nil {
		log.Error().Err(err).Msg("failed to upload document to S3")

		return res, fmt.Errorf("failed to upload document: %w", err)
	}

	return s.attach(ctx, id, url)
}

func (s *serviceImpl) UploadDocumentBase64(ctx context.Context, id string, req dto.UploadDocumentBase64Request) (res dto.DocumentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadDocumentBase64")
	defer scope.End()
	defer scope.TraceIfError(err)

	contentType, data, err := base64.Decode(req.File)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.writable(ctx, id); err != nil {
		return res, err
	}

	url, err := s.s3.UploadFileBytes(ctx, s.directory(id), dto.DocumentFileName(req.FileName), contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload document to S3")

		return res, fmt.Errorf("failed to upload document: %w", err)
	}

	return s.attach(ctx, id, url)
}

func (s *serviceImpl) RemoveDocument(ctx context.Context, id string, req dto.RemoveDocumentRequest) (res dto.DocumentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RemoveDocument")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.writable(ctx, id); err != nil {
		return res, err
	}

	documents, err := s.editDocuments(ctx, id, func(documents []string) ([]string, error) {
		index := slices.Index(documents, req.URL)
		if index < 0 {
			return nil, failure.NotFound("document not found") // nolint:wrapcheck
		}

		return slices.Delete(documents, index, index+1), nil
	})
	if err != nil {
		return res, err
	}

	s.deleteObject(ctx, req.URL)

	return dto.DocumentResponse{URL: req.URL, Documents: documents}, nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Application, error) {
	application, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get application")

		return application, fmt.Errorf("failed to get application: %w", err)
	}

	if application.ID == constant.Empty {
		return application, failure.NotFound("application not found") // nolint:wrapcheck
	}

	return application, nil
}

// writable checks that the application exists and, for student callers, that it is their own.
func (s *serviceImpl) writable(ctx context.Context, id string) error {
	application, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role != constant.RoleStudent {
		return nil
	}

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	student, err := s.student(ctx, userID, email)
	if err != nil {
		return err
	}

	if student.ID != application.StudentID {
		return failure.ResourceRestrictedError
	}

	return nil
}

func (s *serviceImpl) student(ctx context.Context, userID, email string) (studentModel.Student, error) {
	return studentService.Owner(ctx, s.studentRepo, userID, email)
}

func (s *serviceImpl) attach(ctx context.Context, id, url string) (dto.DocumentResponse, error) {
	documents, err := s.editDocuments(ctx, id, func(documents []string) ([]string, error) {
		return append(documents, url), nil
	})
	if err != nil {
		s.deleteObject(ctx, url)

		return dto.DocumentResponse{}, err
	}

	return dto.DocumentResponse{URL: url, Documents: documents}, nil
}

// editDocuments rewrites the document list while holding the application row
// lock, so concurrent uploads and removals apply one after another.
func (s *serviceImpl) editDocuments(ctx context.Context, id string, edit func([]string) ([]string, error)) ([]string, error) {
	var documents []string

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	err := s.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		application, err := s.repo.GetForUpdateTx(ctx, tx, filter, model.FieldID, model.FieldDocuments)
		if err != nil {
			return fmt.Errorf("failed to lock application: %w", err)
		}

		if application.ID == constant.Empty {
			return failure.NotFound("application not found") // nolint:wrapcheck
		}

		documents, err = edit(slices.Clone([]string(application.Documents)))
		if err != nil {
			return err
		}

		fields := map[string]any{
			model.FieldDocuments:    pq.StringArray(documents),
			constant.FieldUpdatedAt: timezone.Now(),
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, filter); err != nil {
			return fmt.Errorf("failed to save application documents: %w", err)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to edit application documents")

		return nil, err
	}

	s.invalidate(ctx, id)

	return documents, nil
}

func (s *serviceImpl) deleteObject(ctx context.Context, url string) {
	key := s.s3.GetObjectKeyFromURL(url)
	if key == constant.Empty {
		return
	}

	if err := s.s3.DeleteFile(ctx, key); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to delete application document")
	}
}

func (s *serviceImpl) directory(id string) string {
	return model.TableName + "/" + id
}

func (s *serviceImpl) invalidate(ctx context.Context, id string, prefixes ...string) {
	go func() {
		c := context.WithoutCancel(ctx)

		prefixes = append(prefixes, cacheGetAllApplication, shared.BuildCacheKey(cacheGetApplication, id), constant.CacheKeyDashboard)
		shared.InvalidateCaches(c, s.cache, prefixes...)
	}()
}
