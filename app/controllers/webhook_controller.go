package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/betercalls/BeterCalls/app/models"
	"github.com/betercalls/BeterCalls/internal/pkg/database"
	"github.com/betercalls/BeterCalls/internal/pkg/entitlement"
	"github.com/betercalls/BeterCalls/internal/pkg/env"
)

// WebhookController feeds payment provider deliveries into the entitlement
// state machine.
type WebhookController struct {
	svc    *entitlement.Service
	secret string
}

// NewWebhookController creates a webhook controller with an injected
// entitlement service and webhook secret.
func NewWebhookController(svc *entitlement.Service, secret string) *WebhookController {
	return &WebhookController{svc: svc, secret: secret}
}

// Global webhook controller instance
var webhookController *WebhookController

// InitializeWebhookController initializes the global webhook controller
func InitializeWebhookController() {
	webhookController = NewWebhookController(
		entitlement.NewServiceFromDB(database.GetDB()),
		env.GetEnv("HELIO_WEBHOOK_SECRET", ""),
	)
}

// GetWebhookController returns the global webhook controller instance
func GetWebhookController() *WebhookController {
	if webhookController == nil {
		InitializeWebhookController()
	}
	return webhookController
}

// HandleHelioWebhook is the router adapter for the global controller.
func HandleHelioWebhook(c *fiber.Ctx) error {
	return GetWebhookController().HandleHelioWebhook(c)
}

// HandleHelioWebhook receives payment provider events and feeds them into the
// entitlement state machine. Every delivery is persisted before any business
// logic runs; redeliveries are answered 200 without re-applying the event.
func (wc *WebhookController) HandleHelioWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	eventID := firstHeaderValue(c, "helio-event-id", "X-Helio-Delivery-ID")
	signature := strings.TrimSpace(c.Get("helio-signature"))

	// Best-effort peek at the event kind for the stored record; the validated
	// parse happens after dedup.
	var probe struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(rawBody, &probe)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	signatureValid := entitlement.VerifyWebhookSignature(rawBody, signature, wc.secret)
	created, stored, err := wc.svc.RecordEvent(ctx, models.PaymentProviderHelio, eventID, probe.Type, rawBody, signatureValid)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}
	if !signatureValid {
		_ = wc.svc.MarkProcessed(ctx, stored.ID, errors.New("invalid webhook signature"))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	event, err := entitlement.ParseEvent(rawBody)
	if err != nil {
		_ = wc.svc.MarkProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	outcome, err := wc.svc.Apply(ctx, event)
	if err != nil {
		_ = wc.svc.MarkProcessed(ctx, stored.ID, err)
		if errors.Is(err, entitlement.ErrSubjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "subject_not_found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "entitlement_update_failed"})
	}

	_ = wc.svc.MarkProcessed(ctx, stored.ID, nil)
	if outcome == entitlement.OutcomeIgnored {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

func firstHeaderValue(c *fiber.Ctx, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(c.Get(k))
		if v != "" {
			return v
		}
	}
	return ""
}
