package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/patchwork-body/the-booking-system/internal/middleware"
	"github.com/patchwork-body/the-booking-system/internal/repository"
)

// ChatStore covers the chat message endpoints.
type ChatStore interface {
	GetWithMessages(ctx context.Context, id string) (*repository.ChatDetail, error)
	AddMessage(ctx context.Context, chatID, userID, text string) (*repository.ChatMessage, error)
}

// ChatHandler serves the chat message endpoints.
type ChatHandler struct {
	Chats ChatStore
}

type postMessageReq struct {
	Text string `json:"text" validate:"required"`
}

// Messages handles GET /v1/chats/:id/messages.  Only participants of the
// chat may read it; the cursor points at the last message of the page.
func (h *ChatHandler) Messages(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	}

	chat, err := h.Chats.GetWithMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.chatError(c, err)
	}
	participant := false
	for _, uid := range chat.ParticipantUserIDs {
		if uid == claims.UserID {
			participant = true
			break
		}
	}
	if !participant {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	}

	resp := page[repository.ChatMessage]{Items: chat.Messages}
	if resp.Items == nil {
		resp.Items = []repository.ChatMessage{}
	}
	if len(resp.Items) > 0 {
		resp.Cursor = resp.Items[len(resp.Items)-1].ID
	}
	return c.JSON(http.StatusOK, resp)
}

// PostMessage handles POST /v1/chats/:id/messages.
func (h *ChatHandler) PostMessage(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	}
	var req postMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.Chats.AddMessage(c.Request().Context(), c.Param("id"), claims.UserID, req.Text)
	if err != nil {
		return h.chatError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) chatError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrChatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Chat not found"})
	case errors.Is(err, repository.ErrNotParticipant):
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	default:
		log.Printf("chat: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}
}
