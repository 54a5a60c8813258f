package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/application/service"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/repository"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/dto/response"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders with state and channel filters
func (h *OrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if stateStr := c.Query("state"); stateStr != "" {
		if stateInt, err := strconv.Atoi(stateStr); err == nil {
			state := enum.OrderState(stateInt)
			params.State = &state
		}
	}

	if channelStr := c.Query("channel"); channelStr != "" {
		channel := enum.Channel(channelStr)
		if channel.Valid() {
			params.Channel = &channel
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// Create handles opening a new order
func (h *OrderHandler) Create(c *gin.Context) {
	var req struct {
		Channel         string `json:"channel" binding:"required"`
		Location        string `json:"location"`
		CustomerName    string `json:"customer_name"`
		CustomerContact string `json:"customer_contact"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		Channel:         enum.Channel(req.Channel),
		Location:        enum.Location(req.Location),
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles getting a single order
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// AttachItems handles adding line items to an order
func (h *OrderHandler) AttachItems(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		Items []struct {
			ProductID   uuid.UUID `json:"product_id" binding:"required"`
			ProductName string    `json:"product_name" binding:"required"`
			Quantity    int       `json:"quantity" binding:"required"`
			UnitPrice   float64   `json:"unit_price" binding:"required"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	order, err := h.orderService.AttachItems(c.Request.Context(), id, items)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Items attached successfully", order)
}

// RemoveItem handles removing a line item from an order
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	order, err := h.orderService.RemoveItem(c.Request.Context(), id, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item removed successfully", order)
}

// UpdateCustomer handles editing the customer info on an order
func (h *OrderHandler) UpdateCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req struct {
		CustomerName    string `json:"customer_name"`
		CustomerContact string `json:"customer_contact"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateCustomer(c.Request.Context(), id, &service.UpdateCustomerInput{
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", order)
}

// Release handles clearing a paid order back to free
func (h *OrderHandler) Release(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.Release(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order released successfully", order)
}
