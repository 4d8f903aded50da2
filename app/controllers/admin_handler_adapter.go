package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/app/repository"
)

// Global admin controller instance
var adminController *AdminController

// InitializeAdminController initializes the global admin controller with repositories
func InitializeAdminController() {
	repos := repository.GetGlobalRepositories()
	adminController = NewAdminController(repos)
}

// GetAdminController returns the global admin controller instance
func GetAdminController() *AdminController {
	if adminController == nil {
		InitializeAdminController()
	}
	return adminController
}

// Adapter functions to maintain compatibility with the router

func HandleAdminLogin(c *fiber.Ctx) error {
	return GetAdminController().HandleAdminLogin(c)
}

func HandleAdminDashboard(c *fiber.Ctx) error {
	return GetAdminController().HandleDashboard(c)
}

func HandleAdminUsers(c *fiber.Ctx) error {
	return GetAdminController().HandleUsers(c)
}

func HandleAdminUserEdit(c *fiber.Ctx) error {
	return GetAdminController().HandleUserEdit(c)
}

func HandleAdminUserUpdate(c *fiber.Ctx) error {
	return GetAdminController().HandleUserUpdate(c)
}

func HandleAdminUserDelete(c *fiber.Ctx) error {
	return GetAdminController().HandleUserDelete(c)
}

func HandleAdminPlans(c *fiber.Ctx) error {
	return GetAdminController().HandlePlans(c)
}

func HandleAdminPlanNew(c *fiber.Ctx) error {
	return GetAdminController().HandlePlanNew(c)
}

func HandleAdminPlanCreate(c *fiber.Ctx) error {
	return GetAdminController().HandlePlanCreate(c)
}

func HandleAdminPlanEdit(c *fiber.Ctx) error {
	return GetAdminController().HandlePlanEdit(c)
}

func HandleAdminPlanUpdate(c *fiber.Ctx) error {
	return GetAdminController().HandlePlanUpdate(c)
}

func HandleAdminPlanDelete(c *fiber.Ctx) error {
	return GetAdminController().HandlePlanDelete(c)
}

func HandleAdminCalls(c *fiber.Ctx) error {
	return GetAdminController().HandleCalls(c)
}

func HandleAdminCallNew(c *fiber.Ctx) error {
	return GetAdminController().HandleCallNew(c)
}

func HandleAdminCallCreate(c *fiber.Ctx) error {
	return GetAdminController().HandleCallCreate(c)
}

func HandleAdminCallEdit(c *fiber.Ctx) error {
	return GetAdminController().HandleCallEdit(c)
}

func HandleAdminCallUpdate(c *fiber.Ctx) error {
	return GetAdminController().HandleCallUpdate(c)
}

func HandleAdminCallStatus(c *fiber.Ctx) error {
	return GetAdminController().HandleCallStatus(c)
}

func HandleAdminCallDelete(c *fiber.Ctx) error {
	return GetAdminController().HandleCallDelete(c)
}

func HandleAdminExperts(c *fiber.Ctx) error {
	return GetAdminController().HandleExperts(c)
}

func HandleAdminExpertNew(c *fiber.Ctx) error {
	return GetAdminController().HandleExpertNew(c)
}

func HandleAdminExpertCreate(c *fiber.Ctx) error {
	return GetAdminController().HandleExpertCreate(c)
}

func HandleAdminExpertEdit(c *fiber.Ctx) error {
	return GetAdminController().HandleExpertEdit(c)
}

func HandleAdminExpertUpdate(c *fiber.Ctx) error {
	return GetAdminController().HandleExpertUpdate(c)
}

func HandleAdminExpertDelete(c *fiber.Ctx) error {
	return GetAdminController().HandleExpertDelete(c)
}
