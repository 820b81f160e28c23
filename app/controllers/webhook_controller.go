package controllers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/YayaHook/app/models"
	"github.com/ManuelReschke/YayaHook/internal/pkg/metrics"
	"github.com/ManuelReschke/YayaHook/internal/pkg/middleware"
	"github.com/ManuelReschke/YayaHook/internal/pkg/webhook"
)

const (
	routePlain = "webhook"
	routeJSON  = "webhook_drf"
)

// WebhookController receives YaYa payment notifications.
type WebhookController struct {
	pipeline *webhook.Pipeline
	timeout  time.Duration
}

// NewWebhookController creates a webhook controller around an ingest pipeline
func NewWebhookController(pipeline *webhook.Pipeline, timeout time.Duration) *WebhookController {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookController{pipeline: pipeline, timeout: timeout}
}

// HandleWebhook answers client errors in plain text, except stale and
// duplicate events which get a {"message": ...} JSON body.
func (wc *WebhookController) HandleWebhook(c *fiber.Ctx) error {
	tx, err := wc.ingest(c, routePlain)
	if err == nil {
		return respondCreated(c, tx)
	}

	var werr *webhook.Error
	if !errors.As(err, &werr) {
		return c.Status(fiber.StatusInternalServerError).SendString("Internal error")
	}
	switch werr.Kind {
	case webhook.KindStaleEvent, webhook.KindDuplicateEvent:
		return c.Status(werr.Kind.Status()).JSON(fiber.Map{"message": werr.Message()})
	default:
		return c.Status(werr.Kind.Status()).SendString(werr.Message())
	}
}

// HandleWebhookJSON answers every error as {"error": ..., "code": ...}.
func (wc *WebhookController) HandleWebhookJSON(c *fiber.Ctx) error {
	tx, err := wc.ingest(c, routeJSON)
	if err == nil {
		return respondCreated(c, tx)
	}

	var werr *webhook.Error
	if !errors.As(err, &werr) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error", "code": "internal_error"})
	}
	return c.Status(werr.Kind.Status()).JSON(fiber.Map{
		"error": werr.Message(),
		"code":  werr.Kind.Code(),
	})
}

func (wc *WebhookController) ingest(c *fiber.Ctx, route string) (*models.Transaction, error) {
	start := time.Now()
	rawBody := append([]byte(nil), c.Body()...)
	signature := c.Get(webhook.SignatureHeader)

	ctx, cancel := context.WithTimeout(c.UserContext(), wc.timeout)
	defer cancel()

	tx, err := wc.pipeline.Ingest(ctx, signature, rawBody)

	kind := webhook.KindOf(err)
	outcome := "created"
	if err != nil {
		outcome = kind.Code()
	}
	sigState := signatureState(err, kind)

	metrics.WebhooksReceived.WithLabelValues(route, outcome).Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())
	if sigState != "unchecked" {
		metrics.SignatureChecks.WithLabelValues(strconv.FormatBool(sigState == "valid")).Inc()
	}
	if err == nil {
		metrics.TransactionsStored.Inc()
	}

	if kind.IsClientError() || err == nil {
		log.Printf("webhook %s: request_id=%s signature=%s outcome=%s",
			route, middleware.GetRequestID(c), sigState, outcome)
	} else {
		log.Printf("webhook %s: request_id=%s signature=%s outcome=%s error=%v",
			route, middleware.GetRequestID(c), sigState, outcome, err)
	}
	return tx, err
}

func signatureState(err error, kind webhook.Kind) string {
	if err == nil {
		return "valid"
	}
	switch kind {
	case webhook.KindInvalidSignature:
		return "invalid"
	case webhook.KindStaleEvent, webhook.KindDuplicateEvent,
		webhook.KindDuplicateTransaction, webhook.KindStorage:
		return "valid"
	default:
		return "unchecked"
	}
}

func respondCreated(c *fiber.Ctx, tx *models.Transaction) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":         "success",
		"transaction_id": tx.TransactionID,
	})
}
