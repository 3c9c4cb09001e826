package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/shopforge/shopforge/app/repository"
	"github.com/shopforge/shopforge/internal/pkg/database"
	"github.com/shopforge/shopforge/internal/pkg/notify"
	"github.com/shopforge/shopforge/internal/pkg/payments"
)

// HandleStripeWebhook receives Stripe event deliveries. Signature and payload
// are checked before anything touches storage: a forged or malformed request
// leaves no trace.
func HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("Stripe-Signature"))

	verifier := payments.NewStripeVerifierFromEnv()
	if err := verifier.Verify(rawBody, signature); err != nil {
		log.Warnf("[Webhook] Rejected stripe delivery: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	envlp, err := payments.NormalizeStripe(rawBody)
	if err != nil {
		log.Warnf("[Webhook] Malformed stripe payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	return processWebhook(c, envlp)
}

// HandleSquareWebhook receives Square event deliveries.
func HandleSquareWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := strings.TrimSpace(c.Get("x-square-hmacsha256-signature"))

	verifier := payments.NewSquareVerifierFromEnv()
	if err := verifier.Verify(rawBody, signature); err != nil {
		log.Warnf("[Webhook] Rejected square delivery: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
	}

	envlp, err := payments.NormalizeSquare(rawBody)
	if err != nil {
		log.Warnf("[Webhook] Malformed square payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	return processWebhook(c, envlp)
}

// processWebhook runs a verified, normalized delivery through the payments
// service and shapes the provider response. Providers only need to know
// whether to redeliver, so errors collapse to a 5xx.
func processWebhook(c *fiber.Ctx, envlp *payments.Envelope) error {
	repos := repository.GetGlobalRepositories()
	svc := payments.NewServiceFromDB(database.GetDB(), repos.Product)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	outcome, err := svc.ProcessEvent(ctx, envlp)
	if err != nil {
		if errors.Is(err, payments.ErrInvariantViolation) {
			log.Errorf("[Webhook] Event %s violates invariants: %v", envlp.EventID, err)
		} else {
			log.Errorf("[Webhook] Processing event %s failed: %v", envlp.EventID, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "processing_failed"})
	}

	if outcome.Duplicate {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
	}

	// Post-commit side effects. The transaction is already committed, so a
	// failed enqueue must not change the response.
	if outcome.OrderCreated {
		notify.OrderCompleted(outcome.Order)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}
