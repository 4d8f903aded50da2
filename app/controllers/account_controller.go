package controllers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/betercalls/BeterCalls/app/repository"
	"github.com/betercalls/BeterCalls/internal/pkg/database"
	"github.com/betercalls/BeterCalls/internal/pkg/storage"
	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
	"github.com/betercalls/BeterCalls/internal/pkg/utils"
)

// HandleAccount renders the profile page with subscription details
func HandleAccount(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	repos := repository.NewRepositories(database.GetDB())
	user, err := repos.User.GetByID(uc.UserID)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	avatarURL := user.AvatarURL
	if avatarURL == "" {
		avatarURL = utils.GetGravatarURL(user.Email, 200)
	}

	return c.Render("account/profile", renderContext(c, fiber.Map{
		"Title":     "My Account | BeterCalls",
		"Account":   user,
		"AvatarURL": avatarURL,
	}), "layouts/main")
}

// HandleAccountUpdate updates the profile name and bio
func HandleAccountUpdate(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	fm := fiber.Map{
		"type": "error",
	}

	repos := repository.NewRepositories(database.GetDB())
	user, err := repos.User.GetByID(uc.UserID)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	name := strings.TrimSpace(c.FormValue("username"))
	if name != "" {
		user.Name = name
	}
	user.Bio = strings.TrimSpace(c.FormValue("bio"))

	if err := user.Validate(); err != nil {
		fm["message"] = "Please check your inputs: " + err.Error()

		return flash.WithError(c, fm).Redirect("/account")
	}

	if err := repos.User.Update(user); err != nil {
		fm["message"] = "Could not save your profile, please try again"

		return flash.WithError(c, fm).Redirect("/account")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Profile updated!",
	}

	return flash.WithSuccess(c, fm).Redirect("/account")
}

// HandleAvatarUpload stores a new profile picture on S3
func HandleAvatarUpload(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	fm := fiber.Map{
		"type": "error",
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		fm["message"] = "Please choose an image to upload"

		return flash.WithError(c, fm).Redirect("/account")
	}

	store, err := storage.NewAvatarStoreFromEnv()
	if err != nil {
		fm["message"] = "Avatar uploads are currently unavailable"

		return flash.WithError(c, fm).Redirect("/account")
	}

	repos := repository.NewRepositories(database.GetDB())
	user, err := repos.User.GetByID(uc.UserID)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	avatarURL, err := store.Upload(ctx, user.ID, fileHeader)
	if err != nil {
		log.Errorf("[Account] avatar upload failed for user %d: %v", user.ID, err)
		fm["message"] = "Could not upload your avatar, please try a different image"

		return flash.WithError(c, fm).Redirect("/account")
	}

	oldAvatar := user.AvatarURL
	user.AvatarURL = avatarURL
	if err := repos.User.Update(user); err != nil {
		fm["message"] = "Could not save your avatar, please try again"

		return flash.WithError(c, fm).Redirect("/account")
	}

	if oldAvatar != "" {
		_ = store.Delete(ctx, oldAvatar)
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Avatar updated!",
	}

	return flash.WithSuccess(c, fm).Redirect("/account")
}

// HandleSubscriptionPage shows the current entitlement and available plans
func HandleSubscriptionPage(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)

	repos := repository.NewRepositories(database.GetDB())
	user, err := repos.User.GetByID(uc.UserID)
	if err != nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	plans, err := repos.Plan.GetActive()
	if err != nil {
		plans = nil
	}

	return c.Render("account/subscription", renderContext(c, fiber.Map{
		"Title":   "My Subscription | BeterCalls",
		"Account": user,
		"Plans":   plans,
	}), "layouts/main")
}
