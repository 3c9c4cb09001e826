package controllers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWebhookTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/webhooks/stripe", HandleStripeWebhook)
	app.Post("/api/webhooks/square", HandleSquareWebhook)
	return app
}

func signStripe(secret string, ts int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func signSquare(key, notificationURL string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(notificationURL))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestHandleStripeWebhookRejectsMissingSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	app := newWebhookTestApp()

	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/stripe",
		bytes.NewReader([]byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleStripeWebhookRejectsForgedSignature(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	app := newWebhookTestApp()

	body := []byte(`{"id":"evt_1","type":"payment_intent.succeeded"}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", signStripe("whsec_wrong", time.Now().Unix(), body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleStripeWebhookRejectsMalformedPayload(t *testing.T) {
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	app := newWebhookTestApp()

	// Correctly signed but structurally broken: rejected before anything is
	// persisted.
	body := []byte(`{"type":"payment_intent.succeeded"}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/stripe", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", signStripe("whsec_test", time.Now().Unix(), body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleSquareWebhookRejectsForgedSignature(t *testing.T) {
	t.Setenv("SQUARE_WEBHOOK_SIGNATURE_KEY", "sq_key")
	t.Setenv("SQUARE_WEBHOOK_URL", "https://shop.example.com/api/webhooks/square")
	app := newWebhookTestApp()

	body := []byte(`{"event_id":"sq_evt_1","type":"payment.updated"}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/square", bytes.NewReader(body))
	req.Header.Set("x-square-hmacsha256-signature", signSquare("sq_wrong", "https://shop.example.com/api/webhooks/square", body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleSquareWebhookRejectsMalformedPayload(t *testing.T) {
	t.Setenv("SQUARE_WEBHOOK_SIGNATURE_KEY", "sq_key")
	t.Setenv("SQUARE_WEBHOOK_URL", "https://shop.example.com/api/webhooks/square")
	app := newWebhookTestApp()

	body := []byte(`{"type":"payment.updated"}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/webhooks/square", bytes.NewReader(body))
	req.Header.Set("x-square-hmacsha256-signature", signSquare("sq_key", "https://shop.example.com/api/webhooks/square", body))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
