package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medicare/portal/internal/api/metrics"
	"github.com/medicare/portal/internal/api/middleware"
	"github.com/medicare/portal/internal/core/ports"
)

// ChatHandler relays the chat widget. It is mounted outside the guards, so
// anonymous visitors can use it too.
type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Send handles POST /chat/message.
//
// @Summary      Send a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      ports.ChatInput  true  "Message"
// @Success      200   {object}  domain.ChatReply
// @Failure      400   {object}  map[string]interface{}
// @Failure      502   {object}  map[string]interface{}
// @Failure      503   {object}  map[string]interface{}
// @Router       /chat/message [post]
func (h *ChatHandler) Send(c echo.Context) error {
	var req ports.ChatInput
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reply, err := h.chat.Send(c.Request().Context(), middleware.SessionFrom(c), req)
	if err != nil {
		metrics.ChatMessagesTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.ChatMessagesTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, reply)
}
