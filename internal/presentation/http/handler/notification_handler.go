package handler

import (
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/francoluca35/comandas-multiples-sub008/internal/application/service"
	"github.com/francoluca35/comandas-multiples-sub008/internal/domain/enum"
	"github.com/francoluca35/comandas-multiples-sub008/internal/presentation/http/dto/response"
	"github.com/francoluca35/comandas-multiples-sub008/pkg/apperror"
)

// NotificationHandler handles the live event stream and its polling fallback
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// parseTypes reads the comma-separated types query parameter
func parseTypes(c *gin.Context) []enum.NotificationType {
	raw := c.Query("types")
	if raw == "" {
		return nil
	}
	var types []enum.NotificationType
	for _, s := range strings.Split(raw, ",") {
		t := enum.NotificationType(strings.TrimSpace(s))
		if t.Valid() {
			types = append(types, t)
		}
	}
	return types
}

// Stream handles the push delivery path over server-sent events. Delivery is
// at-least-once: if the terminal falls behind and the buffer overflows, the
// stream ends with a gap event and the terminal reconciles via Unread.
func (h *NotificationHandler) Stream(c *gin.Context) {
	filter := service.SubscriptionFilter{Types: parseTypes(c)}
	if channelStr := c.Query("channel"); channelStr != "" {
		channel := enum.Channel(channelStr)
		if !channel.Valid() {
			response.BadRequest(c, "Invalid channel")
			return
		}
		filter.Channel = &channel
	}

	sub := h.notificationService.Subscribe(filter)
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent(string(event.Type), event)
			return true
		case <-sub.Gap():
			// Events were dropped; tell the terminal to poll for what it missed
			gapErr := apperror.NewDeliveryGapError("event stream overflowed, poll /notifications/unread")
			c.SSEvent("gap", gin.H{"code": gapErr.Code, "kind": gapErr.Kind, "message": gapErr.Message})
			return false
		case <-heartbeat.C:
			c.SSEvent("heartbeat", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// Unread handles the polling recovery path
func (h *NotificationHandler) Unread(c *gin.Context) {
	terminalID := GetTerminalID(c)
	if terminalID == nil {
		response.Unauthorized(c, "Terminal not authenticated")
		return
	}

	since := time.Now().Add(-24 * time.Hour)
	if sinceStr := c.Query("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			response.BadRequest(c, "Invalid since timestamp, expected RFC3339")
			return
		}
		since = parsed
	}

	events, err := h.notificationService.PollUnread(c.Request.Context(), *terminalID, since, parseTypes(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Unread events retrieved successfully", events)
}

// Acknowledge handles marking an event as read for this terminal
func (h *NotificationHandler) Acknowledge(c *gin.Context) {
	terminalID := GetTerminalID(c)
	if terminalID == nil {
		response.Unauthorized(c, "Terminal not authenticated")
		return
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid event ID")
		return
	}

	if err := h.notificationService.Acknowledge(c.Request.Context(), eventID, *terminalID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Event acknowledged", nil)
}
