package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/app/repository"
	"github.com/betercalls/BeterCalls/internal/pkg/database"
	"github.com/betercalls/BeterCalls/internal/pkg/env"
	"github.com/betercalls/BeterCalls/internal/pkg/mail"
	"github.com/betercalls/BeterCalls/internal/pkg/security"
	"github.com/betercalls/BeterCalls/internal/pkg/session"
	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
)

const resetTokenTTL = 30 * time.Minute

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		fm := fiber.Map{
			"type": "error",
		}

		repos := repository.NewRepositories(database.GetDB())

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		user, err := repos.User.GetByEmail(c.FormValue("email"))
		if err != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.CheckPassword(c.FormValue("password")) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !user.IsActive() {
			fm["message"] = "Please activate your account first. Check your inbox."

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(usercontext.AuthKey, true)
		sess.Set(usercontext.KeyUserID, user.ID)
		sess.Set(usercontext.KeyUsername, user.Name)
		sess.Set(usercontext.KeyIsAdmin, user.IsAdmin())

		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		database.GetDB().Model(user).Update("last_login_at", time.Now())

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back!",
		}

		// Subscribers land on the feed, everyone else on the pricing section
		target := "/#pricing"
		if user.HasActiveSubscription() || user.IsAdmin() {
			target = "/calls"
		}

		return flash.WithSuccess(c, fm).Redirect(target)
	}

	return c.Render("auth/login", renderContext(c, fiber.Map{
		"Title":   "Log in | BeterCalls",
		"Message": c.Query("message"),
	}), "layouts/main")
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "You are logged out. See you soon!",
	}

	c.Locals(usercontext.KeyFromProtected, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		user, err := models.CreateUser(c.FormValue("username"), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := user.GenerateActivationToken(); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": "Could not create activation token",
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		repos := repository.NewRepositories(database.GetDB())
		if err := repos.User.Create(user); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		go sendActivationMail(user)

		fm := fiber.Map{
			"type":    "success",
			"message": "Account created! Check your inbox for the activation link.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return c.Render("auth/register", renderContext(c, fiber.Map{
		"Title": "Sign up | BeterCalls",
	}), "layouts/main")
}

// HandleActivate activates an account via the emailed token
func HandleActivate(c *fiber.Ctx) error {
	token := c.Query("token")
	fm := fiber.Map{
		"type": "error",
	}

	if token == "" {
		fm["message"] = "Activation token is missing"

		return flash.WithError(c, fm).Redirect("/login")
	}

	repos := repository.NewRepositories(database.GetDB())
	user, err := repos.User.GetByActivationToken(token)
	if err != nil {
		fm["message"] = "Invalid or expired activation link"

		return flash.WithError(c, fm).Redirect("/login")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repos.User.Update(user); err != nil {
		fm["message"] = "Could not activate your account, please try again"

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "Your account is active. You can log in now!",
	}

	return flash.WithSuccess(c, fm).Redirect("/login")
}

// HandleForgotPassword sends a password reset link to the given email.
// The response is the same whether or not the account exists.
func HandleForgotPassword(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		email := c.FormValue("email")

		repos := repository.NewRepositories(database.GetDB())
		user, err := repos.User.GetByEmail(email)
		if err == nil {
			token, tokenErr := security.GenerateResetToken(user.ID, resetTokenTTL, env.GetEnv("APP_SECRET", ""))
			if tokenErr == nil {
				go sendResetMail(user, token)
			}
		}

		fm := fiber.Map{
			"type":    "success",
			"message": "If that address exists, a reset link is on its way.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return c.Render("auth/forgot_password", renderContext(c, fiber.Map{
		"Title": "Reset password | BeterCalls",
	}), "layouts/main")
}

// HandleResetPassword verifies the reset token and sets the new password
func HandleResetPassword(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	if c.Method() == fiber.MethodPost {
		token := c.FormValue("token")
		claims, err := security.ValidateResetToken(token, env.GetEnv("APP_SECRET", ""))
		if err != nil {
			fm["message"] = "Invalid or expired reset link"

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		password := c.FormValue("password")
		if len(password) < 6 {
			fm["message"] = "Password must be at least 6 characters"

			return flash.WithError(c, fm).Redirect("/reset-password?token="+token)
		}

		repos := repository.NewRepositories(database.GetDB())
		user, err := repos.User.GetByID(claims.UserID)
		if err != nil {
			fm["message"] = "Invalid or expired reset link"

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		if err := user.SetPassword(password); err != nil {
			fm["message"] = "Could not update your password, please try again"

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}
		if err := repos.User.Update(user); err != nil {
			fm["message"] = "Could not update your password, please try again"

			return flash.WithError(c, fm).Redirect("/forgot-password")
		}

		fm = fiber.Map{
			"type":    "success",
			"message": "Password updated. You can log in now!",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	token := c.Query("token")
	if _, err := security.ValidateResetToken(token, env.GetEnv("APP_SECRET", "")); err != nil {
		fm["message"] = "Invalid or expired reset link"

		return flash.WithError(c, fm).Redirect("/forgot-password")
	}

	return c.Render("auth/reset_password", renderContext(c, fiber.Map{
		"Title": "Choose a new password | BeterCalls",
		"Token": token,
	}), "layouts/main")
}

func sendActivationMail(user *models.User) {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:"+env.GetEnv("APP_PORT", "4000"))
	link := fmt.Sprintf("%s/activate?token=%s", base, user.ActivationToken)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>welcome to BeterCalls! Click the link below to activate your account:</p><p><a href=\"%s\">%s</a></p>",
		user.Name, link, link,
	)
	_ = mail.SendMail(user.Email, "Activate your BeterCalls account", body)
}

func sendResetMail(user *models.User, token string) {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:"+env.GetEnv("APP_PORT", "4000"))
	link := fmt.Sprintf("%s/reset-password?token=%s", base, token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>click the link below to choose a new password. The link is valid for 30 minutes:</p><p><a href=\"%s\">%s</a></p>",
		user.Name, link, link,
	)
	_ = mail.SendMail(user.Email, "Reset your BeterCalls password", body)
}
