package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/application/service"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/dto/response"
)

// PaymentHandler handles payment finalization HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Finalize handles a payment confirmation from the gateway. The Idempotency-Key
// header doubles as the ledger-level idempotency key so a retried confirmation
// replays the original booking even if the HTTP cache expired.
func (h *PaymentHandler) Finalize(c *gin.Context) {
	var req struct {
		OrderID  uuid.UUID `json:"order_id" binding:"required"`
		Method   string    `json:"method" binding:"required"`
		Tendered float64   `json:"tendered" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.FinalizePaymentInput{
		OrderID:  req.OrderID,
		Method:   enum.PaymentMethod(req.Method),
		Tendered: req.Tendered,
	}
	if key := c.GetHeader("Idempotency-Key"); key != "" {
		input.IdempotencyKey = &key
	}

	result, err := h.paymentService.Finalize(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Replayed {
		c.Header("X-Idempotency-Replayed", "true")
		response.OK(c, "Payment already finalized", result)
		return
	}

	response.OK(c, "Payment finalized successfully", result)
}
