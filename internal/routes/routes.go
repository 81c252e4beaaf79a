package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/handlers"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
	"github.com/BruksfildServices01/salon-scheduler/internal/observability"
	ucAppointment "github.com/BruksfildServices01/salon-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/catalog"
	"github.com/BruksfildServices01/salon-scheduler/internal/usecase/schedule"
)

// RegisterRoutes builds every use case over deps and mounts the API.
// deps.Location must be set.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps ucAppointment.Dependencies) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(observability.RequestLogger())
	r.Use(middleware.CORS())

	loc := deps.Location

	// ======================================================
	// USE CASES
	// ======================================================
	listSlotsUC := ucAppointment.NewListCandidateSlots(deps)
	reserveUC := ucAppointment.NewReserveSlot(deps)

	appointmentUCs := handlers.AppointmentUseCases{
		Get:        ucAppointment.NewGetAppointment(deps),
		ListByDate: ucAppointment.NewListProviderAppointments(deps),
		Reschedule: ucAppointment.NewReschedule(deps),
		Status:     ucAppointment.NewChangeStatus(deps),
		Settle:     ucAppointment.NewRecordSettlement(deps),
		AddItem:    ucAppointment.NewAddLineItem(deps),
		RemoveItem: ucAppointment.NewRemoveLineItem(deps),
	}

	historyUC := ucAppointment.NewGetHistory(deps)
	purgeUC := ucAppointment.NewPurgeAppointment(deps)

	blocksUC := schedule.NewBlocks(deps.Repo, deps.Cache)
	rulesUC := schedule.NewRules(deps.Repo, deps.Cache)

	providersUC := catalog.NewProviders(deps.Repo)
	servicesUC := catalog.NewServices(deps.Repo)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(listSlotsUC, reserveUC, loc)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUCs, loc)
	historyHandler := handlers.NewHistoryHandler(historyUC, purgeUC)
	scheduleHandler := handlers.NewScheduleHandler(blocksUC, rulesUC)
	catalogHandler := handlers.NewCatalogHandler(providersUC, servicesUC)
	meHandler := handlers.NewMeHandler(providersUC)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/providers/:providerId/slots", publicHandler.ListSlots)
			publicAPI.GET("/services", catalogHandler.ListServices)
			publicAPI.POST("/appointments", middleware.OptionalAuth(cfg.JWTSecret), publicHandler.Reserve)
		}

		secured := api.Group("/")
		secured.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.GET("/appointments/:id/history", historyHandler.List)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			secured.PATCH("/appointments/:id/status", appointmentHandler.ChangeStatus)
			secured.POST("/appointments/:id/settlement", appointmentHandler.Settle)
			secured.POST("/appointments/:id/items", appointmentHandler.AddItem)
			secured.DELETE("/appointments/:id/items/:itemId", appointmentHandler.RemoveItem)

			secured.GET("/providers/:providerId/appointments", appointmentHandler.ListByDate)

			// ------------------------------
			// SCHEDULE
			// ------------------------------
			secured.POST("/providers/:providerId/blocks", scheduleHandler.CreateBlock)
			secured.PATCH("/blocks/:id", scheduleHandler.UpdateBlock)
			secured.DELETE("/blocks/:id", scheduleHandler.DeleteBlock)

			secured.GET("/providers/:providerId/rules", scheduleHandler.ListRules)
			secured.PUT("/providers/:providerId/rules", scheduleHandler.UpsertRule)
			secured.DELETE("/rules/:id", scheduleHandler.DeleteRule)

			// ------------------------------
			// CATALOG
			// ------------------------------
			secured.GET("/providers", catalogHandler.ListProviders)
			secured.POST("/providers", catalogHandler.CreateProvider)
			secured.PATCH("/providers/:id", catalogHandler.UpdateProvider)
			secured.GET("/services", catalogHandler.ListServices)
			secured.POST("/services", catalogHandler.CreateService)
			secured.PATCH("/services/:id", catalogHandler.UpdateService)

			// ------------------------------
			// ADMIN
			// ------------------------------
			secured.DELETE("/admin/appointments/:id", middleware.AdminKey(cfg.AdminPurgeKeyHash), historyHandler.Purge)
		}
	}
}
