package controllers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/app/repository"
	"github.com/betercalls/BeterCalls/internal/pkg/session"
	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
)

// AdminController handles admin-related HTTP requests using repository pattern
type AdminController struct {
	repos *repository.Repositories
}

// NewAdminController creates a new admin controller with repository dependencies
func NewAdminController(repos *repository.Repositories) *AdminController {
	return &AdminController{
		repos: repos,
	}
}

// HandleAdminLogin renders the dedicated admin login form and processes it.
// Non-admin credentials are rejected here even when they are valid.
func (ac *AdminController) HandleAdminLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		user, err := ac.repos.User.GetByEmail(c.FormValue("email"))
		if err != nil || !user.CheckPassword(c.FormValue("password")) || !user.IsAdmin() {
			fm["message"] = "Invalid admin credentials"

			return flash.WithError(c, fm).Redirect("/admin/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/admin/login")
		}

		sess.Set(usercontext.AuthKey, true)
		sess.Set(usercontext.KeyUserID, user.ID)
		sess.Set(usercontext.KeyUsername, user.Name)
		sess.Set(usercontext.KeyIsAdmin, true)

		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/admin/login")
		}

		return c.Redirect("/admin", fiber.StatusSeeOther)
	}

	return c.Render("admin/login", renderContext(c, fiber.Map{
		"Title": "Admin Login | BeterCalls",
	}), "layouts/main")
}

// HandleDashboard renders the admin dashboard
func (ac *AdminController) HandleDashboard(c *fiber.Ctx) error {
	totalUsers, err := ac.repos.User.Count()
	if err != nil {
		return ac.handleError(c, "Failed to get user count", err)
	}

	activeSubscribers, err := ac.repos.User.CountBySubscriptionStatus(models.SubscriptionActive)
	if err != nil {
		return ac.handleError(c, "Failed to get subscriber count", err)
	}

	cancelled, err := ac.repos.User.CountBySubscriptionStatus(models.SubscriptionCancelled)
	if err != nil {
		return ac.handleError(c, "Failed to get cancelled count", err)
	}

	totalCalls, err := ac.repos.Call.Count()
	if err != nil {
		return ac.handleError(c, "Failed to get call count", err)
	}

	recentUsers, err := ac.repos.User.List(0, 5)
	if err != nil {
		return ac.handleError(c, "Failed to get recent users", err)
	}

	return c.Render("admin/dashboard", renderContext(c, fiber.Map{
		"Title":             "Admin Dashboard | BeterCalls",
		"TotalUsers":        totalUsers,
		"ActiveSubscribers": activeSubscribers,
		"CancelledUsers":    cancelled,
		"TotalCalls":        totalCalls,
		"RecentUsers":       recentUsers,
	}), "layouts/admin")
}

// HandleUsers renders the user management page
func (ac *AdminController) HandleUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	totalUsers, err := ac.repos.User.Count()
	if err != nil {
		return ac.handleError(c, "Failed to get user count", err)
	}

	var users []models.User
	if search := c.Query("search"); search != "" {
		users, err = ac.repos.User.Search(search)
	} else {
		users, err = ac.repos.User.List(offset, perPage)
	}
	if err != nil {
		return ac.handleError(c, "Failed to get users", err)
	}

	totalPages := int(totalUsers) / perPage
	if int(totalUsers)%perPage > 0 {
		totalPages++
	}

	return c.Render("admin/users", renderContext(c, fiber.Map{
		"Title":      "User Management | BeterCalls",
		"Users":      users,
		"Page":       page,
		"TotalPages": totalPages,
		"Search":     c.Query("search"),
	}), "layouts/admin")
}

// HandleUserEdit renders the user edit page
func (ac *AdminController) HandleUserEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	user, err := ac.repos.User.GetByID(uint(id))
	if err != nil {
		return c.Redirect("/admin/users")
	}

	return c.Render("admin/user_edit", renderContext(c, fiber.Map{
		"Title":   "Edit User | BeterCalls",
		"Account": user,
	}), "layouts/admin")
}

// HandleUserUpdate saves profile fields and, when changed, the entitlement
// override. Overrides go through the same single-update path the webhook
// handler uses, so admin changes and provider events cannot interleave into
// a mixed state.
func (ac *AdminController) HandleUserUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	user, err := ac.repos.User.GetByID(uint(id))
	if err != nil {
		return c.Redirect("/admin/users")
	}

	fm := fiber.Map{
		"type": "error",
	}

	user.Name = c.FormValue("username", user.Name)
	user.Email = c.FormValue("email", user.Email)
	role := c.FormValue("role", user.Role)
	if role == models.ROLE_USER || role == models.ROLE_ADMIN {
		user.Role = role
	}
	status := c.FormValue("status", user.Status)
	if status == models.STATUS_ACTIVE || status == models.STATUS_INACTIVE || status == models.STATUS_DISABLED {
		user.Status = status
	}

	if err := ac.repos.User.Update(user); err != nil {
		fm["message"] = "Failed to update user"

		return flash.WithError(c, fm).Redirect(fmt.Sprintf("/admin/users/edit/%d", id))
	}

	// Entitlement override
	newStatus := c.FormValue("subscription_status")
	if newStatus != "" && newStatus != user.SubscriptionStatus {
		switch newStatus {
		case models.SubscriptionInactive, models.SubscriptionActive, models.SubscriptionCancelled:
			var tier *string
			if newStatus == models.SubscriptionActive {
				if t := c.FormValue("subscription_tier"); t != "" {
					tier = &t
				}
			} else {
				empty := ""
				tier = &empty
			}
			if err := ac.repos.User.UpdateEntitlement(user.ID, newStatus, tier, nil); err != nil {
				fm["message"] = "Failed to update entitlement"

				return flash.WithError(c, fm).Redirect(fmt.Sprintf("/admin/users/edit/%d", id))
			}
			log.Infof("[Admin] entitlement override for user %d: %s", user.ID, newStatus)
		default:
			fm["message"] = "Unknown subscription status"

			return flash.WithError(c, fm).Redirect(fmt.Sprintf("/admin/users/edit/%d", id))
		}
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "User updated",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// HandleUserDelete removes a user account
func (ac *AdminController) HandleUserDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	uc := usercontext.GetUserContext(c)
	if uc.UserID == uint(id) {
		fm := fiber.Map{
			"type":    "error",
			"message": "You cannot delete your own account",
		}

		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	if err := ac.repos.User.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete user",
		}

		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "User deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// handleError logs the error and renders a flash message on the dashboard
func (ac *AdminController) handleError(c *fiber.Ctx, message string, err error) error {
	log.Errorf("[Admin] %s: %v", message, err)

	fm := fiber.Map{
		"type":    "error",
		"message": message,
	}

	return flash.WithError(c, fm).Redirect("/admin")
}
