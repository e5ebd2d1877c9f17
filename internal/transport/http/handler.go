// Package http provides the HTTP surface for the chatbot.
package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/esgis/chatbot/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		service: svc,
	}
}

// RegisterRoutes registers chat routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat/send", h.SendMessage)
	e.GET("/chat/health", h.Health)
}

// SendMessageRequest is the body for POST /chat/send.
type SendMessageRequest struct {
	ChatID   int64  `json:"chat_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// SendMessageResponse is the reply for POST /chat/send.
type SendMessageResponse struct {
	Response string `json:"response"`
}

// ErrorResponse carries an error detail string.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// SendMessage relays a message to the conversation service and returns the
// generated reply.
// POST /chat/send
func (h *Handler) SendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid request body"})
	}

	ctx := c.Request().Context()

	reply, err := h.service.ProcessMessage(ctx, req.ChatID, req.Username, req.Message)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Detail: fmt.Sprintf("failed to process message: %v", err),
		})
	}

	return c.JSON(http.StatusOK, SendMessageResponse{Response: reply})
}

// Health returns health status. It touches neither the store nor the
// gateway, so it serves even when those are misconfigured.
// GET /chat/health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "chat service is up and running",
	})
}
