package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/francoluca35/comandas-multiples-sub008/internal/application/service"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/dto/response"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/pagination"
)

// LedgerHandler handles money ledger HTTP requests
type LedgerHandler struct {
	ledgerService  *service.LedgerService
	counterService *service.CounterService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(ledgerService *service.LedgerService, counterService *service.CounterService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, counterService: counterService}
}

// Balance handles reading the derived balance of one ledger
func (h *LedgerHandler) Balance(c *gin.Context) {
	ledger := enum.Ledger(c.Param("ledger"))

	result, err := h.ledgerService.CurrentBalance(c.Request.Context(), ledger)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved successfully", result)
}

// ListEntries handles listing entries for the current period
func (h *LedgerHandler) ListEntries(c *gin.Context) {
	ledger := enum.Ledger(c.Param("ledger"))

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.ledgerService.ListEntries(c.Request.Context(), ledger, &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Entries retrieved successfully", result)
}

// Append handles recording a manual income or expense entry
func (h *LedgerHandler) Append(c *gin.Context) {
	ledger := enum.Ledger(c.Param("ledger"))

	var req struct {
		Kind           string  `json:"kind" binding:"required"`
		Amount         float64 `json:"amount" binding:"required"`
		Reason         string  `json:"reason" binding:"required"`
		IdempotencyKey *string `json:"idempotency_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.ledgerService.Append(c.Request.Context(), &service.AppendInput{
		Ledger:         ledger,
		Kind:           enum.EntryKind(req.Kind),
		Amount:         req.Amount,
		Reason:         req.Reason,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Entry recorded successfully", entry)
}

// Deposit handles adding funds to a ledger
func (h *LedgerHandler) Deposit(c *gin.Context) {
	ledger := enum.Ledger(c.Param("ledger"))

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
		Reason string  `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.ledgerService.Deposit(c.Request.Context(), ledger, req.Amount, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Deposit recorded successfully", entry)
}

// Withdraw handles taking funds out of a ledger
func (h *LedgerHandler) Withdraw(c *gin.Context) {
	ledger := enum.Ledger(c.Param("ledger"))

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
		Reason string  `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	entry, err := h.ledgerService.Withdraw(c.Request.Context(), ledger, req.Amount, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Withdrawal recorded successfully", entry)
}

// Reset handles rebasing a ledger to a declared amount, e.g. after a till count
func (h *LedgerHandler) Reset(c *gin.Context) {
	ledger := enum.Ledger(c.Param("ledger"))

	employeeID := GetEmployeeID(c)
	if employeeID == nil {
		response.Unauthorized(c, "Terminal not authenticated")
		return
	}

	var req struct {
		Declared float64 `json:"declared"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	checkpoint, err := h.ledgerService.Reset(c.Request.Context(), ledger, req.Declared, employeeID.String())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger reset successfully", checkpoint)
}

// Counters handles listing sales counters by period and channel
func (h *LedgerHandler) Counters(c *gin.Context) {
	period := c.Query("period")

	counters, err := h.counterService.List(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Counters retrieved successfully", counters)
}
