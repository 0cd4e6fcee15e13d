package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"medsched/config"
	"medsched/internal/service"
	"medsched/pkg/auth"
	"medsched/pkg/metrics"
)

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
	tokens   *auth.TokenManager
	metrics  *metrics.Collector
	db       Pinger
}

// NewHandler builds the HTTP layer. collector and db may be nil.
func NewHandler(
	services *service.Services,
	logger *zap.Logger,
	cfg *config.Config,
	tokens *auth.TokenManager,
	collector *metrics.Collector,
	db Pinger,
) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   cfg,
		tokens:   tokens,
		metrics:  collector,
		db:       db,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.requestIDMiddleware())
	router.Use(h.loggerMiddleware())
	router.Use(h.errorMiddleware())
	router.Use(h.corsMiddleware())

	if h.metrics != nil {
		router.Use(h.metricsMiddleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/health", h.health)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	api := router.Group("/api/v1")
	{
		physicians := api.Group("/physicians")
		{
			physicians.GET("", h.getPhysicians)
			physicians.GET("/:id", h.getPhysicianByID)
			physicians.GET("/:id/availability", h.authMiddleware(), h.getAvailability)

			admin := physicians.Group("", h.authMiddleware(), h.requireRoles(auth.RoleAdmin))
			{
				admin.POST("", h.createPhysician)
				admin.PUT("/:id", h.updatePhysician)
				admin.DELETE("/:id", h.deletePhysician)

				admin.POST("/:id/photo", h.uploadPhysicianPhoto)
				admin.DELETE("/:id/photo", h.deletePhysicianPhoto)

				admin.POST("/:id/locations/:locationId", h.assignPhysicianLocation)
				admin.DELETE("/:id/locations/:locationId", h.unassignPhysicianLocation)
			}
		}

		specialties := api.Group("/specialties")
		{
			specialties.GET("", h.getSpecialties)
			specialties.GET("/:id", h.getSpecialtyByID)

			admin := specialties.Group("", h.authMiddleware(), h.requireRoles(auth.RoleAdmin))
			{
				admin.POST("", h.createSpecialty)
				admin.PUT("/:id", h.updateSpecialty)
				admin.DELETE("/:id", h.deleteSpecialty)
			}
		}

		locations := api.Group("/locations")
		{
			locations.GET("", h.getLocations)
			locations.GET("/:id", h.getLocationByID)

			admin := locations.Group("", h.authMiddleware(), h.requireRoles(auth.RoleAdmin))
			{
				admin.POST("", h.createLocation)
				admin.PUT("/:id", h.updateLocation)
				admin.DELETE("/:id", h.deleteLocation)
			}
		}

		schedulers := []auth.Role{auth.RoleAdmin, auth.RoleStaff, auth.RolePhysician}

		periods := api.Group("/working-periods", h.authMiddleware(), h.requireRoles(schedulers...))
		{
			periods.GET("", h.getWorkingPeriods)
			periods.GET("/:id", h.getWorkingPeriodByID)
			periods.POST("", h.createWorkingPeriod)
			periods.PUT("/:id", h.updateWorkingPeriod)
			periods.DELETE("/:id", h.deleteWorkingPeriod)
		}

		exceptions := api.Group("/exceptions", h.authMiddleware(), h.requireRoles(schedulers...))
		{
			exceptions.GET("", h.getExceptions)
			exceptions.GET("/:id", h.getExceptionByID)
			exceptions.POST("", h.createException)
			exceptions.PUT("/:id", h.updateException)
			exceptions.DELETE("/:id", h.deleteException)
		}

		appointments := api.Group("/appointments", h.authMiddleware())
		{
			appointments.GET("", h.getAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.GET("/:id/alternatives", h.getAlternatives)

			booking := appointments.Group("", h.requireRoles(auth.RoleAdmin, auth.RoleStaff, auth.RolePatient))
			{
				booking.POST("", h.reserveSlot)
				booking.PUT("/:id/reschedule", h.rescheduleAppointment)
				booking.DELETE("/:id", h.cancelAppointment)
			}

			appointments.PATCH("/:id/status", h.requireRoles(schedulers...), h.updateAppointmentStatus)
		}

		api.GET("/copay", h.authMiddleware(), h.getCopayEstimate)
	}
}
