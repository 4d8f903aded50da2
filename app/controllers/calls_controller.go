package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/app/repository"
	"github.com/betercalls/BeterCalls/internal/pkg/database"
	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
)

const callsPerPage = 20

// HandleCallsFeed renders the subscriber-only feed of calls, newest first.
// Access is enforced by the subscriber middleware on the route.
func HandleCallsFeed(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * callsPerPage

	repos := repository.NewRepositories(database.GetDB())
	calls, err := repos.Call.List(offset, callsPerPage)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).Render("error", renderContext(c, fiber.Map{
			"Title":   "Error | BeterCalls",
			"Message": "Could not load the calls feed",
		}), "layouts/main")
	}

	total, _ := repos.Call.Count()
	hasMore := int64(offset+len(calls)) < total

	return c.Render("calls/feed", renderContext(c, fiber.Map{
		"Title":    "Calls | BeterCalls",
		"Calls":    calls,
		"Page":     page,
		"PrevPage": page - 1,
		"NextPage": page + 1,
		"HasMore":  hasMore,
	}), "layouts/main")
}

// HandleCallDetail shows a single call with its discussion thread
func HandleCallDetail(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	repos := repository.NewRepositories(database.GetDB())
	call, err := repos.Call.GetByUUID(uuid)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("error", renderContext(c, fiber.Map{
			"Title":   "Not found | BeterCalls",
			"Message": "This call does not exist",
		}), "layouts/main")
	}

	comments, err := repos.Discussion.ListByCall(call.ID)
	if err != nil {
		comments = nil
	}

	return c.Render("calls/detail", renderContext(c, fiber.Map{
		"Title":    call.Matchup() + " | BeterCalls",
		"Call":     call,
		"Comments": comments,
	}), "layouts/main")
}

// HandleDiscussionCreate adds a comment to a call's discussion thread
func HandleDiscussionCreate(c *fiber.Ctx) error {
	uuid := c.Params("uuid")
	uc := usercontext.GetUserContext(c)

	fm := fiber.Map{
		"type": "error",
	}

	repos := repository.NewRepositories(database.GetDB())
	call, err := repos.Call.GetByUUID(uuid)
	if err != nil {
		fm["message"] = "This call does not exist"

		return flash.WithError(c, fm).Redirect("/calls")
	}

	content := strings.TrimSpace(c.FormValue("content"))
	if content == "" || len(content) > 2000 {
		fm["message"] = "Comments must be between 1 and 2000 characters"

		return flash.WithError(c, fm).Redirect("/calls/" + uuid)
	}

	comment := &models.Discussion{
		CallID:  call.ID,
		UserID:  uc.UserID,
		Content: content,
	}
	if err := repos.Discussion.Create(comment); err != nil {
		fm["message"] = "Could not post your comment, please try again"

		return flash.WithError(c, fm).Redirect("/calls/" + uuid)
	}

	return c.Redirect("/calls/"+uuid, fiber.StatusSeeOther)
}
