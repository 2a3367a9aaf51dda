package handler

import (
	"net/http"

	"github.com/vfg2006/sales-manager-api/internal/api/handler/router"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/scheduler"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/internal/usecases/catalog"
	"github.com/vfg2006/sales-manager-api/internal/usecases/recording"
	"github.com/vfg2006/sales-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/sales-manager-api/pkg/middleware"
)

func HealthcheckRoute() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func AuthenticationRoutes(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:    "/v1/me",
			Method:  http.MethodGet,
			Handler: GetMe(service),
		},
		{
			Path:    "/v1/me/role",
			Method:  http.MethodGet,
			Handler: GetMyRole(),
		},
		{
			Path:    "/v1/me/password",
			Method:  http.MethodPut,
			Handler: ChangePassword(service),
		},
	}
}

func UserRoutes(service authenticating.Authenticator, uploadConfig config.Upload) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/avatar",
			Method:      http.MethodPost,
			Handler:     UploadAvatar(service, uploadConfig),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func ProductRoutes(service catalog.ProductService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/products",
			Method:      http.MethodGet,
			Handler:     ListProducts(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/products/:id",
			Method:      http.MethodGet,
			Handler:     GetProduct(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/products",
			Method:      http.MethodPost,
			Handler:     CreateProduct(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/products/:id",
			Method:      http.MethodPut,
			Handler:     UpdateProduct(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/products/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteProduct(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func SaleRoutes(service recording.RecordService) []router.Route {
	return recordRoutes("/v1/sales", service)
}

func PurchaseRoutes(service recording.RecordService) []router.Route {
	return recordRoutes("/v1/purchases", service)
}

// recordRoutes monta o CRUD de vendas ou compras sob o prefixo dado.
// Clientes podem listar e consultar (o recorte limita ao que é deles);
// criação, edição e remoção ficam com admins e vendedores.
func recordRoutes(prefix string, service recording.RecordService) []router.Route {
	return []router.Route{
		{
			Path:        prefix,
			Method:      http.MethodGet,
			Handler:     ListRecords(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        prefix + "/:id",
			Method:      http.MethodGet,
			Handler:     GetRecord(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        prefix,
			Method:      http.MethodPost,
			Handler:     CreateRecord(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSeller()},
		},
		{
			Path:        prefix + "/:id",
			Method:      http.MethodPut,
			Handler:     UpdateRecord(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSeller()},
		},
		{
			Path:        prefix + "/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteRecord(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSeller()},
		},
	}
}

// ReportRoutes ficam fora de /v1/sales e /v1/purchases para não colidir
// com as rotas de :id no roteador
func ReportRoutes(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/sales",
			Method:      http.MethodGet,
			Handler:     Report(service, domain.RecordKindSale),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/sales/facets",
			Method:      http.MethodGet,
			Handler:     ReportFacets(service, domain.RecordKindSale),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/purchases",
			Method:      http.MethodGet,
			Handler:     Report(service, domain.RecordKindPurchase),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/reports/purchases/facets",
			Method:      http.MethodGet,
			Handler:     ReportFacets(service, domain.RecordKindPurchase),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobsRoutes(service *scheduler.ReportSnapshotSyncService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/report-snapshot/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
