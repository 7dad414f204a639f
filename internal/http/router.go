package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	"standards-backend/internal/config"
	"standards-backend/internal/domain"
	h "standards-backend/internal/http/handlers"
	"standards-backend/internal/http/middleware"
	"standards-backend/internal/notify"
	"standards-backend/internal/repositories"
	"standards-backend/internal/sequence"
	"standards-backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Deps carries the shared infrastructure the router wires into handlers.
type Deps struct {
	DB       *sql.DB
	Notifier *notify.Dispatcher
	Store    storage.Uploader
}

func NewRouter(env config.Env, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	secret := []byte(env.JWTSecret)
	refs := h.RefResolver{DB: deps.DB}
	numbers := sequence.Generator{Counters: sequence.SQLCounters{DB: deps.DB}}

	adminRepo := repositories.AdminRepo{DB: deps.DB}
	dealershipRepo := repositories.DealershipRepo{DB: deps.DB}
	installationRepo := repositories.InstallationRepo{DB: deps.DB}
	personnelRepo := repositories.PersonnelRepo{DB: deps.DB}
	auditRepo := repositories.AuditRepo{DB: deps.DB}
	providerRepo := repositories.ProviderRepo{DB: deps.DB}
	productRepo := repositories.ProductRepo{DB: deps.DB}
	orderRepo := repositories.OrderRepo{DB: deps.DB, Products: productRepo}
	incidenceRepo := repositories.IncidenceRepo{DB: deps.DB}

	auth := h.AuthHandler{Admins: adminRepo, Secret: secret}
	admins := h.AdminHandler{Repo: adminRepo, Refs: refs, Secret: secret}
	dealerships := h.DealershipHandler{Repo: dealershipRepo}
	installations := h.InstallationHandler{Repo: installationRepo, Refs: refs}
	personnel := h.PersonnelHandler{Repo: personnelRepo, Refs: refs}
	audits := h.AuditHandler{Repo: auditRepo, Refs: refs}
	providers := h.ProviderHandler{Repo: providerRepo}
	products := h.ProductHandler{Repo: productRepo, Refs: refs}
	orders := h.OrderHandler{
		Repo:        orderRepo,
		Dealerships: dealershipRepo,
		Providers:   providerRepo,
		Refs:        refs,
		Numbers:     numbers,
		Notifier:    deps.Notifier,
	}
	incidences := h.IncidenceHandler{
		Repo:        incidenceRepo,
		Dealerships: dealershipRepo,
		Refs:        refs,
		Numbers:     numbers,
		Notifier:    deps.Notifier,
	}
	roles := h.LookupHandler{Repo: repositories.LookupRepo{DB: deps.DB, Table: repositories.TableRoles}}
	incidenceTypes := h.LookupHandler{Repo: repositories.LookupRepo{DB: deps.DB, Table: repositories.TableIncidenceTypes}}
	productFamilies := h.LookupHandler{Repo: repositories.LookupRepo{DB: deps.DB, Table: repositories.TableProductFamilies}}
	uploads := h.UploadHandler{Store: deps.Store}
	system := h.SystemHandler{DB: deps.DB}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", system.DBCheck)
		api.GET("/routes", h.Routes)

		api.POST("/auth/login", auth.Login)

		gate := middleware.Auth(secret)

		adminGroup := api.Group("/admins", gate, middleware.RequireRoles(domain.RoleAdmin))
		mountCRUD(adminGroup, admins.Create, admins.List, admins.Get, admins.Update, admins.Delete)

		mountResource(api, "/dealerships", gate, dealerships.Create, dealerships.List, dealerships.Get, dealerships.Update, dealerships.Delete)
		mountResource(api, "/installations", gate, installations.Create, installations.List, installations.Get, installations.Update, installations.Delete)
		mountResource(api, "/personnel", gate, personnel.Create, personnel.List, personnel.Get, personnel.Update, personnel.Delete)
		mountResource(api, "/audits", gate, audits.Create, audits.List, audits.Get, audits.Update, audits.Delete)
		mountResource(api, "/providers", gate, providers.Create, providers.List, providers.Get, providers.Update, providers.Delete)
		mountResource(api, "/products", gate, products.Create, products.List, products.Get, products.Update, products.Delete)
		mountResource(api, "/roles", gate, roles.Create, roles.List, roles.Get, roles.Update, roles.Delete)
		mountResource(api, "/incidence-types", gate, incidenceTypes.Create, incidenceTypes.List, incidenceTypes.Get, incidenceTypes.Update, incidenceTypes.Delete)
		mountResource(api, "/product-families", gate, productFamilies.Create, productFamilies.List, productFamilies.Get, productFamilies.Update, productFamilies.Delete)

		orderGroup := api.Group("/orders", gate)
		mountCRUD(orderGroup, orders.Create, orders.List, orders.Get, orders.Update, orders.Delete)
		orderGroup.GET("/:id/sheet", orders.Sheet)

		mountResource(api, "/incidences", gate, incidences.Create, incidences.List, incidences.Get, incidences.Update, incidences.Delete)

		api.POST("/uploads", gate, uploads.Create)
	}

	h.SetRouter(r)
	return r
}

func mountResource(api *gin.RouterGroup, path string, gate gin.HandlerFunc, create, list, get, update, del gin.HandlerFunc) {
	g := api.Group(path, gate)
	mountCRUD(g, create, list, get, update, del)
}

func mountCRUD(g *gin.RouterGroup, create, list, get, update, del gin.HandlerFunc) {
	g.POST("", create)
	g.POST("/all", list)
	g.GET("/:id", get)
	g.PUT("/:id", update)
	g.DELETE("/:id", del)
}
