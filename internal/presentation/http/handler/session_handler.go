package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/application/service"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/dto/response"
)

// SessionHandler handles employee session HTTP requests
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Open handles starting a shift
func (h *SessionHandler) Open(c *gin.Context) {
	terminalID := GetTerminalID(c)
	if terminalID == nil {
		response.Unauthorized(c, "Terminal not authenticated")
		return
	}

	var req struct {
		EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
		Pin        string    `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), req.EmployeeID, *terminalID, req.Pin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session opened successfully", session)
}

// Close handles ending a shift; closing twice is a no-op
func (h *SessionHandler) Close(c *gin.Context) {
	var req struct {
		SessionID uuid.UUID `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	session, err := h.sessionService.Close(c.Request.Context(), req.SessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session closed successfully", session)
}
