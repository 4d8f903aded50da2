package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/app/repository"
	"github.com/betercalls/BeterCalls/internal/pkg/database"
)

// HandleStart renders the landing page with the pricing section. Plans are
// loaded fresh so price changes in the admin panel show up immediately.
func HandleStart(c *fiber.Ctx) error {
	repos := repository.NewRepositories(database.GetDB())

	plans, err := repos.Plan.GetActive()
	if err != nil {
		plans = nil
	}

	experts, err := repos.Expert.GetAll()
	if err != nil {
		experts = nil
	}

	return c.Render("home", renderContext(c, fiber.Map{
		"Title":   "BeterCalls - Winning Calls From Proven Experts",
		"Plans":   plans,
		"Experts": experts,
		"Error":   c.Query("error"),
	}), "layouts/main")
}

// HandleAbout renders the static about page
func HandleAbout(c *fiber.Ctx) error {
	return c.Render("about", renderContext(c, fiber.Map{
		"Title": "About | BeterCalls",
	}), "layouts/main")
}

// HandlePing is a simple health check endpoint
func HandlePing(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
