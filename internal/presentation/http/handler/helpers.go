package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetTerminalID extracts the terminal ID from the Gin context
func GetTerminalID(c *gin.Context) *uuid.UUID {
	terminalIDVal, exists := c.Get("terminal_id")
	if !exists {
		return nil
	}
	terminalID, ok := terminalIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &terminalID
}

// GetEmployeeID extracts the employee ID from the Gin context
func GetEmployeeID(c *gin.Context) *uuid.UUID {
	employeeIDVal, exists := c.Get("employee_id")
	if !exists {
		return nil
	}
	employeeID, ok := employeeIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &employeeID
}

// GetRole extracts the terminal role from the Gin context
func GetRole(c *gin.Context) string {
	role, exists := c.Get("role")
	if !exists {
		return ""
	}
	return role.(string)
}
