package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/application/service"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/dto/response"
)

// KitchenHandler handles kitchen ticket HTTP requests
type KitchenHandler struct {
	kitchenService *service.KitchenService
}

// NewKitchenHandler creates a new kitchen handler
func NewKitchenHandler(kitchenService *service.KitchenService) *KitchenHandler {
	return &KitchenHandler{kitchenService: kitchenService}
}

// ListOpen handles listing open tickets for the kitchen display
func (h *KitchenHandler) ListOpen(c *gin.Context) {
	tickets, err := h.kitchenService.ListOpenTickets(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Tickets retrieved successfully", tickets)
}

// Get handles getting a single ticket
func (h *KitchenHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.kitchenService.GetTicket(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket retrieved successfully", ticket)
}

// Start handles moving a ticket into preparation
func (h *KitchenHandler) Start(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.kitchenService.StartPreparation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket preparation started", ticket)
}

// Ready handles marking a ticket as ready
func (h *KitchenHandler) Ready(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid ticket ID")
		return
	}

	ticket, err := h.kitchenService.MarkReady(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ticket marked ready", ticket)
}
