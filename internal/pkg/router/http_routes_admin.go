package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/app/controllers"
	"github.com/betercalls/BeterCalls/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", controllers.HandleAdminDashboard)

	// User management with entitlement override
	adminGroup.Get("/users", controllers.HandleAdminUsers)
	adminGroup.Get("/users/edit/:id", controllers.HandleAdminUserEdit)
	adminGroup.Post("/users/update/:id", controllers.HandleAdminUserUpdate)
	adminGroup.Post("/users/delete/:id", controllers.HandleAdminUserDelete)

	// Plan management
	adminGroup.Get("/plans", controllers.HandleAdminPlans)
	adminGroup.Get("/plans/new", controllers.HandleAdminPlanNew)
	adminGroup.Post("/plans/store", controllers.HandleAdminPlanCreate)
	adminGroup.Get("/plans/edit/:id", controllers.HandleAdminPlanEdit)
	adminGroup.Post("/plans/update/:id", controllers.HandleAdminPlanUpdate)
	adminGroup.Post("/plans/delete/:id", controllers.HandleAdminPlanDelete)

	// Call management
	adminGroup.Get("/calls", controllers.HandleAdminCalls)
	adminGroup.Get("/calls/new", controllers.HandleAdminCallNew)
	adminGroup.Post("/calls/store", controllers.HandleAdminCallCreate)
	adminGroup.Get("/calls/edit/:id", controllers.HandleAdminCallEdit)
	adminGroup.Post("/calls/update/:id", controllers.HandleAdminCallUpdate)
	adminGroup.Post("/calls/status/:id", controllers.HandleAdminCallStatus)
	adminGroup.Post("/calls/delete/:id", controllers.HandleAdminCallDelete)

	// Expert management
	adminGroup.Get("/experts", controllers.HandleAdminExperts)
	adminGroup.Get("/experts/new", controllers.HandleAdminExpertNew)
	adminGroup.Post("/experts/store", controllers.HandleAdminExpertCreate)
	adminGroup.Get("/experts/edit/:id", controllers.HandleAdminExpertEdit)
	adminGroup.Post("/experts/update/:id", controllers.HandleAdminExpertUpdate)
	adminGroup.Post("/experts/delete/:id", controllers.HandleAdminExpertDelete)
}
