package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/server/http/dto"
)

// PaymentHandler manages gateway intent and refund endpoints.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// CreateIntent handles POST /api/payment/intent.
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	actor := CurrentActor(c)

	var req dto.IntentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, attempt, err := h.facade.InitiatePayment(c.Request.Context(), actor, req.OrderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.IntentResponse{
		OrderID:  order.ID,
		IntentID: attempt.ID,
		Amount:   attempt.Amount,
		Status:   string(order.Status),
	})
}

// Refund handles POST /api/payment/refund.
func (h *PaymentHandler) Refund(c *gin.Context) {
	actor := CurrentActor(c)

	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.RefundPayment(c.Request.Context(), actor, req.OrderID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// Attempts handles GET /api/orders/:id/payments.
func (h *PaymentHandler) Attempts(c *gin.Context) {
	actor := CurrentActor(c)

	attempts, err := h.facade.PaymentAttempts(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]dto.AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		resp = append(resp, toAttemptResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func toAttemptResponse(a model.PaymentAttempt) dto.AttemptResponse {
	return dto.AttemptResponse{
		ID:        a.ID,
		OrderID:   a.OrderID,
		Amount:    a.Amount,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
	}
}
