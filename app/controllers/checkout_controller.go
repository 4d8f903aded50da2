package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/betercalls/BeterCalls/app/repository"
	"github.com/betercalls/BeterCalls/internal/pkg/database"
	"github.com/betercalls/BeterCalls/internal/pkg/payments"
	"github.com/betercalls/BeterCalls/internal/pkg/usercontext"
)

// HandleBeginCheckout creates a hosted pay link for the selected plan and
// sends the user there. The price always comes from the stored Plan row; the
// request only carries the plan id, so a tampered form cannot change what is
// charged. No entitlement is granted here - that happens when the provider
// webhook confirms the payment.
func HandleBeginCheckout(c *fiber.Ctx) error {
	uc := usercontext.GetUserContext(c)
	if !uc.IsLoggedIn {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	planID, err := c.ParamsInt("planID")
	if err != nil || planID <= 0 {
		return c.Redirect("/?error=plan-not-found", fiber.StatusSeeOther)
	}

	repos := repository.NewRepositories(database.GetDB())
	plan, err := repos.Plan.GetActiveByID(uint(planID))
	if err != nil {
		return c.Redirect("/?error=plan-not-found", fiber.StatusSeeOther)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client := payments.NewHelioClientFromEnv()
	payLinkURL, err := client.CreateSubscriptionPayLink(ctx, plan)
	if err != nil {
		log.Errorf("[Checkout] pay link creation failed for plan %d: %v", plan.ID, err)
		return c.Redirect("/?error=payment-failed", fiber.StatusSeeOther)
	}

	return c.Redirect(payLinkURL, fiber.StatusSeeOther)
}
