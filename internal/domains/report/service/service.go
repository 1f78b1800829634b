package service

import (
	"context"
	"fmt"

	"hallseat/config"
	"hallseat/infras/otel"
	applicationRepo "hallseat/internal/domains/application/repository"
	invoiceRepo "hallseat/internal/domains/invoice/repository"
	maintenanceRepo "hallseat/internal/domains/maintenance/repository"
	"hallseat/internal/domains/report/model/dto"
	roomRepo "hallseat/internal/domains/room/repository"
	studentRepo "hallseat/internal/domains/student/repository"
	"hallseat/shared"
	"hallseat/shared/cache"
	"hallseat/shared/constant"
	gDto "hallseat/shared/dto"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	cacheDashboardStats  = shared.BuildCacheKey(constant.CacheKeyDashboard, "stats")
	cacheDashboardReport = shared.BuildCacheKey(constant.CacheKeyDashboard, "report")
)

type Report interface {
	Stats(ctx context.Context) (dto.StatsResponse, error)
	Report(ctx context.Context) (dto.ReportResponse, error)
	Export(ctx context.Context) ([]byte, error)
}

type serviceImpl struct {
	roomRepo        roomRepo.Room
	applicationRepo applicationRepo.Application
	maintenanceRepo maintenanceRepo.Maintenance
	invoiceRepo     invoiceRepo.Invoice
	studentRepo     studentRepo.Student
	cfg             *config.Config
	cache           cache.RedisCache
	otel            otel.Otel
}

func New(
	roomRepo roomRepo.Room,
	applicationRepo applicationRepo.Application,
	maintenanceRepo maintenanceRepo.Maintenance,
	invoiceRepo invoiceRepo.Invoice,
	studentRepo studentRepo.Student,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Report {
	return &serviceImpl{
		roomRepo:        roomRepo,
		applicationRepo: applicationRepo,
		maintenanceRepo: maintenanceRepo,
		invoiceRepo:     invoiceRepo,
		studentRepo:     studentRepo,
		cfg:             cfg,
		cache:           cache,
		otel:            otel,
	}
}

func (s *serviceImpl) Stats(ctx context.Context) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheDashboardStats, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheDashboardStats).Msg("cache hit for dashboard stats")

		return res, nil
	}

	src, err := s.load(ctx, false)
	if err != nil {
		return res, err
	}

	res = dto.BuildStats(src)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheDashboardStats, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save dashboard stats to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Report(ctx context.Context) (res dto.ReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Report")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = s.cache.Get(ctx, cacheDashboardReport, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheDashboardReport).Msg("cache hit for report")

		return res, nil
	}

	src, err := s.load(ctx, true)
	if err != nil {
		return res, err
	}

	res = dto.BuildReport(src)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheDashboardReport, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save report to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Export(ctx context.Context) (res []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer scope.TraceIfError(err)

	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}

	res, err = buildWorkbook(report)
	if err != nil {
		log.Error().Err(err).Msg("failed to build report workbook")

		return nil, fmt.Errorf("failed to build report workbook: %w", err)
	}

	return res, nil
}

// load reads every aggregation source concurrently. Students are only needed for the report.
func (s *serviceImpl) load(ctx context.Context, withStudents bool) (src dto.Sources, err error) {
	all := gDto.QueryParams{}
	none := gDto.FilterGroup{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		src.Rooms, err = s.roomRepo.GetAll(gctx, all, none, dto.RoomColumns...)

		return wrap(err, "rooms")
	})

	g.Go(func() (err error) {
		src.Applications, err = s.applicationRepo.GetAll(gctx, all, none, dto.ApplicationColumns...)

		return wrap(err, "applications")
	})

	g.Go(func() (err error) {
		src.Maintenance, err = s.maintenanceRepo.GetAll(gctx, all, none, dto.MaintenanceColumns...)

		return wrap(err, "maintenance requests")
	})

	g.Go(func() (err error) {
		src.Invoices, err = s.invoiceRepo.GetAll(gctx, all, none, dto.InvoiceColumns...)

		return wrap(err, "invoices")
	})

	if withStudents {
		g.Go(func() (err error) {
			src.Students, err = s.studentRepo.GetAll(gctx, all, none, dto.StudentColumns...)

			return wrap(err, "students")
		})
	}

	if err = g.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to load report sources")

		return src, err
	}

	return src, nil
}

func wrap(err error, source string) error {
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", source, err)
	}

	return nil
}
