package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/betercalls/BeterCalls/app/models"
)

// HandleExperts renders the expert management page
func (ac *AdminController) HandleExperts(c *fiber.Ctx) error {
	experts, err := ac.repos.Expert.GetAll()
	if err != nil {
		return ac.handleError(c, "Failed to get experts", err)
	}

	return c.Render("admin/experts", renderContext(c, fiber.Map{
		"Title":   "Expert Management | BeterCalls",
		"Experts": experts,
	}), "layouts/admin")
}

// HandleExpertNew renders the expert creation form
func (ac *AdminController) HandleExpertNew(c *fiber.Ctx) error {
	return c.Render("admin/expert_edit", renderContext(c, fiber.Map{
		"Title":  "New Expert | BeterCalls",
		"Expert": &models.Expert{},
		"IsNew":  true,
	}), "layouts/admin")
}

// HandleExpertCreate stores a new expert
func (ac *AdminController) HandleExpertCreate(c *fiber.Ctx) error {
	expert := &models.Expert{
		Name:      strings.TrimSpace(c.FormValue("name")),
		Bio:       strings.TrimSpace(c.FormValue("bio")),
		AvatarURL: strings.TrimSpace(c.FormValue("avatar_url")),
	}

	if expert.Name == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Expert name is required",
		}

		return flash.WithError(c, fm).Redirect("/admin/experts/new")
	}

	if err := ac.repos.Expert.Create(expert); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create expert",
		}

		return flash.WithError(c, fm).Redirect("/admin/experts/new")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Expert created",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/experts")
}

// HandleExpertEdit renders the expert edit form
func (ac *AdminController) HandleExpertEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/experts")
	}

	expert, err := ac.repos.Expert.GetByID(uint(id))
	if err != nil {
		return c.Redirect("/admin/experts")
	}

	return c.Render("admin/expert_edit", renderContext(c, fiber.Map{
		"Title":  "Edit Expert | BeterCalls",
		"Expert": expert,
		"IsNew":  false,
	}), "layouts/admin")
}

// HandleExpertUpdate saves expert changes
func (ac *AdminController) HandleExpertUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/experts")
	}

	expert, err := ac.repos.Expert.GetByID(uint(id))
	if err != nil {
		return c.Redirect("/admin/experts")
	}

	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		expert.Name = name
	}
	expert.Bio = strings.TrimSpace(c.FormValue("bio"))
	expert.AvatarURL = strings.TrimSpace(c.FormValue("avatar_url"))

	if err := ac.repos.Expert.Update(expert); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update expert",
		}

		return flash.WithError(c, fm).Redirect("/admin/experts/edit/" + c.Params("id"))
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Expert updated",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/experts")
}

// HandleExpertDelete removes an expert. Their calls stay in the feed with the
// expert reference cleared by the foreign key.
func (ac *AdminController) HandleExpertDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/experts")
	}

	if err := ac.repos.Expert.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete expert",
		}

		return flash.WithError(c, fm).Redirect("/admin/experts")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Expert deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/experts")
}
