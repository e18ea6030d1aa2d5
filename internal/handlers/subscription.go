// internal/handlers/subscription.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zksub/zksub-backend/internal/apperrors"
	"github.com/zksub/zksub-backend/internal/models"
	"github.com/zksub/zksub-backend/internal/services"
	"github.com/zksub/zksub-backend/internal/utils"
)

type SubscriptionHandler struct {
	paymentService      *services.PaymentService
	subscriptionService *services.SubscriptionService
}

type ValidatePaymentRequest struct {
	SubscriberAddress string  `json:"subscriberAddress" validate:"required,wallet_address"`
	CreatorAddress    string  `json:"creatorAddress" validate:"required,wallet_address"`
	Amount            float64 `json:"amount" validate:"required,gt=0"`
	TxHash            string  `json:"txHash" validate:"required"`
	ContentID         string  `json:"contentId" validate:"required"`
}

func NewSubscriptionHandler(paymentService *services.PaymentService, subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		paymentService:      paymentService,
		subscriptionService: subscriptionService,
	}
}

// POST /validate-payment
func (h *SubscriptionHandler) ValidatePayment(c *gin.Context) {
	var req ValidatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": "Invalid request body"})
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": validationErrors[0].Message})
		return
	}

	claim := models.TransactionClaim{
		SubscriberAddress: req.SubscriberAddress,
		CreatorAddress:    req.CreatorAddress,
		Amount:            req.Amount,
		TxReference:       req.TxHash,
		ContentID:         req.ContentID,
	}

	_, err := h.paymentService.ValidatePayment(c.Request.Context(), claim)
	if err != nil {
		var notVerified *apperrors.PaymentNotVerifiedError
		if errors.As(err, &notVerified) {
			// The history was checked and the payment simply isn't there.
			c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": notVerified.Reason})
			return
		}
		// Could not check: network, auth or storage failure.
		c.JSON(http.StatusInternalServerError, gin.H{"valid": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// GET /subscriptions/:address
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	grants, err := h.subscriptionService.ListFor(c.Request.Context(), c.Param("address"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, grants)
}
