package handler

import (
	"net/http"

	"github.com/vfg2006/ad-performance-sync/infrastructure/repository"
	"github.com/vfg2006/ad-performance-sync/internal/api/handler/router"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/authenticating"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/categorizing"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/reporting"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/syncing"
	"github.com/vfg2006/ad-performance-sync/internal/usecases/tracking"
	"github.com/vfg2006/ad-performance-sync/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Sync(
	syncer syncing.Syncer,
	resultRepo repository.SyncResultRepository,
	services SchedulerServices,
) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync/:platform/run",
			Method:      http.MethodPost,
			Handler:     RunSync(syncer),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/sync/run-all",
			Method:      http.MethodPost,
			Handler:     TriggerScheduledSync(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/sync/status",
			Method:      http.MethodGet,
			Handler:     GetSyncStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/sync/results",
			Method:      http.MethodGet,
			Handler:     ListSyncResults(resultRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
	}
}

func Rollups(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/rollups",
			Method:      http.MethodGet,
			Handler:     GetRollups(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/records",
			Method:      http.MethodGet,
			Handler:     GetRecords(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Categories(
	ruleRepo repository.CategoryRuleRepository,
	overrideRepo repository.CategoryOverrideRepository,
	categorizer categorizing.Categorizer,
) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/category-rules",
			Method:      http.MethodGet,
			Handler:     ListCategoryRules(ruleRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/category-rules",
			Method:      http.MethodPost,
			Handler:     CreateCategoryRule(ruleRepo, categorizer),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/category-rules/:id",
			Method:      http.MethodPut,
			Handler:     UpdateCategoryRule(ruleRepo, categorizer),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/category-rules/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteCategoryRule(ruleRepo, categorizer),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/category-overrides",
			Method:      http.MethodGet,
			Handler:     ListCategoryOverrides(overrideRepo),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/category-overrides/:platform/:entityID",
			Method:      http.MethodPut,
			Handler:     UpsertCategoryOverride(overrideRepo, categorizer),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/category-overrides/:platform/:entityID",
			Method:      http.MethodDelete,
			Handler:     DeleteCategoryOverride(overrideRepo, categorizer),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
	}
}

func EntityStatus(tracker tracking.Tracker) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/entities/:platform/:entityID/status/cycle",
			Method:      http.MethodPost,
			Handler:     CycleEntityStatus(tracker),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
		{
			Path:        "/v1/entities/:platform/:entityID/status/confirm",
			Method:      http.MethodPost,
			Handler:     ConfirmEntityStatus(tracker),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrAnalyst()},
		},
	}
}
