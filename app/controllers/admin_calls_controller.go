package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/betercalls/BeterCalls/app/models"
)

// HandleCalls renders the call management page
func (ac *AdminController) HandleCalls(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	calls, err := ac.repos.Call.List(offset, perPage)
	if err != nil {
		return ac.handleError(c, "Failed to get calls", err)
	}

	total, err := ac.repos.Call.Count()
	if err != nil {
		return ac.handleError(c, "Failed to get call count", err)
	}

	totalPages := int(total) / perPage
	if int(total)%perPage > 0 {
		totalPages++
	}

	return c.Render("admin/calls", renderContext(c, fiber.Map{
		"Title":      "Call Management | BeterCalls",
		"Calls":      calls,
		"Page":       page,
		"TotalPages": totalPages,
	}), "layouts/admin")
}

// HandleCallNew renders the call creation form
func (ac *AdminController) HandleCallNew(c *fiber.Ctx) error {
	experts, err := ac.repos.Expert.GetAll()
	if err != nil {
		return ac.handleError(c, "Failed to get experts", err)
	}

	return c.Render("admin/call_edit", renderContext(c, fiber.Map{
		"Title":   "New Call | BeterCalls",
		"Call":    &models.Call{Status: models.CallStatusUpcoming, Units: 1},
		"Experts": experts,
		"IsNew":   true,
	}), "layouts/admin")
}

// HandleCallCreate publishes a new call to the feed
func (ac *AdminController) HandleCallCreate(c *fiber.Ctx) error {
	call := &models.Call{Status: models.CallStatusUpcoming}
	if err := ac.fillCallFromForm(c, call); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}

		return flash.WithError(c, fm).Redirect("/admin/calls/new")
	}

	if err := ac.repos.Call.Create(call); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create call",
		}

		return flash.WithError(c, fm).Redirect("/admin/calls/new")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Call published",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/calls")
}

// HandleCallEdit renders the call edit form
func (ac *AdminController) HandleCallEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/calls")
	}

	call, err := ac.repos.Call.GetByID(uint(id))
	if err != nil {
		return c.Redirect("/admin/calls")
	}

	experts, err := ac.repos.Expert.GetAll()
	if err != nil {
		return ac.handleError(c, "Failed to get experts", err)
	}

	return c.Render("admin/call_edit", renderContext(c, fiber.Map{
		"Title":   "Edit Call | BeterCalls",
		"Call":    call,
		"Experts": experts,
		"IsNew":   false,
	}), "layouts/admin")
}

// HandleCallUpdate saves call changes
func (ac *AdminController) HandleCallUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/calls")
	}

	call, err := ac.repos.Call.GetByID(uint(id))
	if err != nil {
		return c.Redirect("/admin/calls")
	}

	if err := ac.fillCallFromForm(c, call); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": err.Error(),
		}

		return flash.WithError(c, fm).Redirect("/admin/calls/edit/" + c.Params("id"))
	}

	if err := ac.repos.Call.Update(call); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update call",
		}

		return flash.WithError(c, fm).Redirect("/admin/calls/edit/" + c.Params("id"))
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Call updated",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/calls")
}

// HandleCallStatus settles a call (Won/Lost/Push) or reopens it
func (ac *AdminController) HandleCallStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/calls")
	}

	status := c.FormValue("status")
	if !models.ValidCallStatus(status) {
		fm := fiber.Map{
			"type":    "error",
			"message": "Unknown call status",
		}

		return flash.WithError(c, fm).Redirect("/admin/calls")
	}

	if err := ac.repos.Call.UpdateStatus(uint(id), status); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update call status",
		}

		return flash.WithError(c, fm).Redirect("/admin/calls")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Call marked as " + status,
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/calls")
}

// HandleCallDelete removes a call from the feed
func (ac *AdminController) HandleCallDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/calls")
	}

	if err := ac.repos.Call.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete call",
		}

		return flash.WithError(c, fm).Redirect("/admin/calls")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Call deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/calls")
}

func (ac *AdminController) fillCallFromForm(c *fiber.Ctx, call *models.Call) error {
	call.BetType = strings.TrimSpace(c.FormValue("bet_type"))
	call.MatchHomeTeam = strings.TrimSpace(c.FormValue("match_home_team"))
	call.MatchAwayTeam = strings.TrimSpace(c.FormValue("match_away_team"))
	call.Odds = strings.TrimSpace(c.FormValue("odds"))
	call.Pick = strings.TrimSpace(c.FormValue("pick"))
	call.Analysis = strings.TrimSpace(c.FormValue("analysis"))

	if status := c.FormValue("status"); status != "" {
		if !models.ValidCallStatus(status) {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown call status")
		}
		call.Status = status
	}

	units, err := strconv.ParseFloat(c.FormValue("units", "1"), 64)
	if err != nil || units <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Units must be a positive number")
	}
	call.Units = units

	call.ExpertID = nil
	if expertID, err := strconv.ParseUint(c.FormValue("expert_id"), 10, 32); err == nil && expertID > 0 {
		id := uint(expertID)
		if _, err := ac.repos.Expert.GetByID(id); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown expert")
		}
		call.ExpertID = &id
	}

	return call.Validate()
}
