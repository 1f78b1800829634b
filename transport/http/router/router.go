package router

import (
	"hallseat/internal/handlers/application"
	"hallseat/internal/handlers/assignment"
	"hallseat/internal/handlers/auth"
	"hallseat/internal/handlers/building"
	"hallseat/internal/handlers/invoice"
	"hallseat/internal/handlers/maintenance"
	"hallseat/internal/handlers/meta"
	"hallseat/internal/handlers/report"
	"hallseat/internal/handlers/room"
	"hallseat/internal/handlers/student"
	"hallseat/internal/handlers/user"
	"hallseat/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth        auth.Handler
	User        user.Handler
	Student     student.Handler
	Building    building.Handler
	Room        room.Handler
	Application application.Handler
	Maintenance maintenance.Handler
	Invoice     invoice.Handler
	Assignment  assignment.Handler
	Report      report.Handler
	Meta        meta.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.AuthRole
}

// SetupRoutes mounts every domain under /v1. Routes marked skip in the permission table stay public.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		if r.Middleware != nil {
			routerGroup.Use(r.Middleware.APIKey, r.Middleware.Auth, r.Middleware.RBAC)
		}

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Student.Router(routerGroup)
		r.DomainHandlers.Building.Router(routerGroup)
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Application.Router(routerGroup)
		r.DomainHandlers.Maintenance.Router(routerGroup)
		r.DomainHandlers.Invoice.Router(routerGroup)
		r.DomainHandlers.Assignment.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
		r.DomainHandlers.Meta.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middleware middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     middleware,
	}
}
