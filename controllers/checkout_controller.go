package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/sohan0019/PlantNet/middleware"
	"github.com/sohan0019/PlantNet/models"
	"github.com/sohan0019/PlantNet/services"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
)

// CheckoutController exposes the checkout and settlement flow over
// HTTP. Settlement is reachable both from the buyer's success page and
// from the Stripe webhook; its idempotence makes double delivery safe.
type CheckoutController struct {
	Service *services.CheckoutService
	Gateway *services.StripeGateway
	Cache   *CacheManager
	Logger  *zap.Logger
}

// CreateCheckoutSession starts a hosted checkout for one plant and
// returns the redirect URL.
func (cc *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, cc.Logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	customer := models.Customer{
		Email: middleware.GetEmail(c),
		Name:  req.Name,
	}

	ref, svcErr := cc.Service.StartCheckout(c.Request.Context(), req.PlantID, req.Quantity, customer)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": ref.URL, "session_id": ref.SessionID})
}

// PaymentSuccess settles the session the buyer was redirected back
// with. Safe to call repeatedly; a refreshed success page returns the
// same order.
func (cc *CheckoutController) PaymentSuccess(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, cc.Logger, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, svcErr := cc.Service.SettlePayment(c.Request.Context(), req.SessionID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	cc.invalidateAfterSettlement(c, result)
	c.JSON(http.StatusOK, result)
}

// StripeWebhook handles provider push notifications. Only
// checkout.session.completed drives settlement; everything else is
// acknowledged and ignored.
func (cc *CheckoutController) StripeWebhook(c *gin.Context) {
	event, err := cc.Gateway.ParseWebhook(c.Request)
	if err != nil {
		respondError(c, cc.Logger, http.StatusBadRequest, "invalid webhook", err)
		return
	}

	cc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			cc.Logger.Error("Failed to unmarshal checkout session event", zap.Error(err))
			break
		}
		result, svcErr := cc.Service.SettlePayment(c.Request.Context(), sess.ID)
		if svcErr != nil {
			// Settlement failures here are retried by Stripe's webhook
			// redelivery; log and acknowledge.
			cc.Logger.Warn("Webhook settlement failed",
				zap.String("session_id", sess.ID),
				zap.Int("status", svcErr.StatusCode),
				zap.String("message", svcErr.Message),
			)
			break
		}
		cc.invalidateAfterSettlement(c, result)
	default:
		cc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}

func (cc *CheckoutController) invalidateAfterSettlement(c *gin.Context, result *models.SettlementResult) {
	if cc.Cache == nil || result.AlreadySettled {
		return
	}
	// Quantity changed; cached catalog entries are stale.
	cc.Cache.InvalidatePlant(c.Request.Context(), result.PlantID)
}
