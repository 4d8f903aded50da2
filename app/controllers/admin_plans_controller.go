package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/betercalls/BeterCalls/app/models"
)

// HandlePlans renders the plan management page
func (ac *AdminController) HandlePlans(c *fiber.Ctx) error {
	plans, err := ac.repos.Plan.GetAll()
	if err != nil {
		return ac.handleError(c, "Failed to get plans", err)
	}

	return c.Render("admin/plans", renderContext(c, fiber.Map{
		"Title": "Plan Management | BeterCalls",
		"Plans": plans,
	}), "layouts/admin")
}

// HandlePlanNew renders the plan creation form
func (ac *AdminController) HandlePlanNew(c *fiber.Ctx) error {
	return c.Render("admin/plan_edit", renderContext(c, fiber.Map{
		"Title": "New Plan | BeterCalls",
		"Plan":  &models.Plan{Currency: "USDC", IsActive: true},
		"IsNew": true,
	}), "layouts/admin")
}

// HandlePlanCreate stores a new plan
func (ac *AdminController) HandlePlanCreate(c *fiber.Ctx) error {
	plan := &models.Plan{}
	if err := ac.fillPlanFromForm(c, plan); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}

		return flash.WithError(c, fm).Redirect("/admin/plans/new")
	}

	if err := ac.repos.Plan.Create(plan); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create plan",
		}

		return flash.WithError(c, fm).Redirect("/admin/plans/new")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Plan created",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/plans")
}

// HandlePlanEdit renders the plan edit form
func (ac *AdminController) HandlePlanEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/plans")
	}

	plan, err := ac.repos.Plan.GetByID(uint(id))
	if err != nil {
		return c.Redirect("/admin/plans")
	}

	return c.Render("admin/plan_edit", renderContext(c, fiber.Map{
		"Title": "Edit Plan | BeterCalls",
		"Plan":  plan,
		"IsNew": false,
	}), "layouts/admin")
}

// HandlePlanUpdate saves plan changes. Price edits affect future checkouts
// only; already-running subscriptions keep the terms they were sold at.
func (ac *AdminController) HandlePlanUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/plans")
	}

	plan, err := ac.repos.Plan.GetByID(uint(id))
	if err != nil {
		return c.Redirect("/admin/plans")
	}

	if err := ac.fillPlanFromForm(c, plan); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}

		return flash.WithError(c, fm).Redirect("/admin/plans/edit/" + c.Params("id"))
	}

	if err := ac.repos.Plan.Update(plan); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update plan",
		}

		return flash.WithError(c, fm).Redirect("/admin/plans/edit/" + c.Params("id"))
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Plan updated",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/plans")
}

// HandlePlanDelete retires a plan. Soft delete keeps historical references
// from checkout and webhook records intact.
func (ac *AdminController) HandlePlanDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/plans")
	}

	if err := ac.repos.Plan.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete plan",
		}

		return flash.WithError(c, fm).Redirect("/admin/plans")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Plan deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/plans")
}

func (ac *AdminController) fillPlanFromForm(c *fiber.Ctx, plan *models.Plan) error {
	plan.Name = strings.TrimSpace(c.FormValue("name"))
	plan.Description = strings.TrimSpace(c.FormValue("description"))
	plan.Interval = c.FormValue("interval")
	plan.IsActive = c.FormValue("is_active") == "on" || c.FormValue("is_active") == "true"
	plan.HelioProductID = strings.TrimSpace(c.FormValue("helio_product_id"))

	if currency := strings.TrimSpace(c.FormValue("currency")); currency != "" {
		plan.Currency = currency
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Price must be a non-negative number")
	}
	plan.Price = price

	var features []string
	for _, line := range strings.Split(c.FormValue("features"), "\n") {
		if f := strings.TrimSpace(line); f != "" {
			features = append(features, f)
		}
	}
	if err := plan.SetFeatures(features); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Could not store features")
	}

	return plan.Validate()
}
