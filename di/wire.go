//go:build wireinject
// +build wireinject

package di

import (
	"hallseat/config"
	"hallseat/infras/jwt"
	"hallseat/infras/kafka"
	"hallseat/infras/otel"
	"hallseat/infras/postgres"
	"hallseat/infras/redis"
	"hallseat/infras/s3"
	"hallseat/internal/events"
	"hallseat/internal/jobs"
	"hallseat/permissions"
	"hallseat/shared/cache"
	"hallseat/transport/http"
	"hallseat/transport/http/middleware"
	"hallseat/transport/http/router"

	"github.com/google/wire"

	applicationRepository "hallseat/internal/domains/application/repository"
	applicationService "hallseat/internal/domains/application/service"
	assignmentRepository "hallseat/internal/domains/assignment/repository"
	assignmentService "hallseat/internal/domains/assignment/service"
	authService "hallseat/internal/domains/auth/service"
	buildingRepository "hallseat/internal/domains/building/repository"
	buildingService "hallseat/internal/domains/building/service"
	invoiceRepository "hallseat/internal/domains/invoice/repository"
	invoiceService "hallseat/internal/domains/invoice/service"
	maintenanceRepository "hallseat/internal/domains/maintenance/repository"
	maintenanceService "hallseat/internal/domains/maintenance/service"
	reportService "hallseat/internal/domains/report/service"
	roomRepository "hallseat/internal/domains/room/repository"
	roomService "hallseat/internal/domains/room/service"
	studentRepository "hallseat/internal/domains/student/repository"
	studentService "hallseat/internal/domains/student/service"
	userRepository "hallseat/internal/domains/user/repository"
	userService "hallseat/internal/domains/user/service"

	applicationHandler "hallseat/internal/handlers/application"
	assignmentHandler "hallseat/internal/handlers/assignment"
	authHandler "hallseat/internal/handlers/auth"
	buildingHandler "hallseat/internal/handlers/building"
	invoiceHandler "hallseat/internal/handlers/invoice"
	maintenanceHandler "hallseat/internal/handlers/maintenance"
	metaHandler "hallseat/internal/handlers/meta"
	reportHandler "hallseat/internal/handlers/report"
	roomHandler "hallseat/internal/handlers/room"
	studentHandler "hallseat/internal/handlers/student"
	userHandler "hallseat/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.NewPublisher,
	events.NewSubscriber,
)

var repositories = wire.NewSet(
	userRepository.New,
	studentRepository.New,
	buildingRepository.New,
	roomRepository.New,
	applicationRepository.New,
	maintenanceRepository.New,
	invoiceRepository.New,
	assignmentRepository.New,
)

var domains = wire.NewSet(
	repositories,
	authService.New,
	userService.New,
	studentService.New,
	buildingService.New,
	roomService.New,
	applicationService.New,
	maintenanceService.New,
	invoiceService.New,
	assignmentService.New,
	reportService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	studentHandler.New,
	buildingHandler.New,
	roomHandler.New,
	applicationHandler.New,
	maintenanceHandler.New,
	invoiceHandler.New,
	assignmentHandler.New,
	reportHandler.New,
	metaHandler.New,
	router.New,
)

var workers = wire.NewSet(
	jobs.New,
)

func InitializeService() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		workers,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
