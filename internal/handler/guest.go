package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/patchwork-body/the-booking-system/internal/model"
)

// GuestReservationLister lists the reservations a guest takes part in.
type GuestReservationLister interface {
	ListByGuest(ctx context.Context, guestID string) ([]*model.Reservation, error)
}

// GuestChatLister lists the chats of properties a guest has reserved.
type GuestChatLister interface {
	ListByGuest(ctx context.Context, guestID string) ([]*model.Chat, error)
}

// GuestHandler serves the guest-scoped listing endpoints.  The guest gate
// has already pinned :id to the caller's own guest profile.
type GuestHandler struct {
	Reservations GuestReservationLister
	Chats        GuestChatLister
}

// page is the listing envelope: the items plus a cursor pointing at the
// first item, or the empty string for an empty page.
type page[T any] struct {
	Items  []T    `json:"items"`
	Cursor string `json:"cursor"`
}

// ListReservations handles GET /v1/guests/:id/reservations.
func (h *GuestHandler) ListReservations(c echo.Context) error {
	items, err := h.Reservations.ListByGuest(c.Request().Context(), c.Param("id"))
	if err != nil {
		log.Printf("guest: list reservations failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}
	resp := page[*model.Reservation]{Items: items}
	if resp.Items == nil {
		resp.Items = []*model.Reservation{}
	}
	if len(resp.Items) > 0 {
		resp.Cursor = resp.Items[0].ID
	}
	return c.JSON(http.StatusOK, resp)
}

// ListChats handles GET /v1/guests/:id/chats.
func (h *GuestHandler) ListChats(c echo.Context) error {
	items, err := h.Chats.ListByGuest(c.Request().Context(), c.Param("id"))
	if err != nil {
		log.Printf("guest: list chats failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}
	resp := page[*model.Chat]{Items: items}
	if resp.Items == nil {
		resp.Items = []*model.Chat{}
	}
	if len(resp.Items) > 0 {
		resp.Cursor = resp.Items[0].ID
	}
	return c.JSON(http.StatusOK, resp)
}
