// internal/handlers/payment.go
package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/gearguard-backend/internal/i18n"
	"github.com/javajoker/gearguard-backend/internal/services"
	"github.com/javajoker/gearguard-backend/internal/utils"
)

// maxWebhookBody bounds the webhook payload read into memory.
const maxWebhookBody = 64 * 1024

type PaymentHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewPaymentHandler(subscriptionService *services.SubscriptionService) *PaymentHandler {
	return &PaymentHandler{
		subscriptionService: subscriptionService,
	}
}

// GET /packages
func (h *PaymentHandler) ListPackages(c *gin.Context) {
	packages, err := h.subscriptionService.ListPackages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, packages)
}

// POST /create-checkout-session
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	var req services.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.subscriptionService.StartCheckout(c.Request.Context(), email, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, session)
}

// GET /verify-session?session_id=
func (h *PaymentHandler) VerifySession(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}

	result, err := h.subscriptionService.VerifySession(c.Request.Context(), email, c.Query("session_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	key := i18n.KeyPaymentSuccess
	if !result.Success {
		key = i18n.KeyPaymentNotPaid
	}
	c.JSON(http.StatusOK, utils.APIResponse{
		Success: result.Success,
		Data:    result,
		Message: i18n.T(utils.GetLangFromContext(c), key),
	})
}

// GET /payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	email, ok := currentEmail(c)
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	payments, total, err := h.subscriptionService.ListPayments(c.Request.Context(), email, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(payments, total, params))
}

// POST /webhooks/stripe
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		logrus.WithError(err).Warn("Failed to read webhook body")
		utils.BadRequestResponse(c, "", nil)
		return
	}

	result, err := h.subscriptionService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}
