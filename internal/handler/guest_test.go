package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/patchwork-body/the-booking-system/internal/model"
	"github.com/patchwork-body/the-booking-system/internal/utils"
)

type fakeGuestReservations struct {
	items []*model.Reservation
}

func (f *fakeGuestReservations) ListByGuest(context.Context, string) ([]*model.Reservation, error) {
	return f.items, nil
}

type fakeGuestChats struct {
	items []*model.Chat
}

func (f *fakeGuestChats) ListByGuest(context.Context, string) ([]*model.Chat, error) {
	return f.items, nil
}

func TestGuestListReservations(t *testing.T) {
	t.Parallel()

	claims := &utils.AccessClaims{UserID: "u1", GuestID: "g1", Role: model.RoleGuest}

	t.Run("cursor points at first item", func(t *testing.T) {
		h := &GuestHandler{
			Reservations: &fakeGuestReservations{items: []*model.Reservation{{ID: "r1"}, {ID: "r2"}}},
			Chats:        &fakeGuestChats{},
		}
		c, rec := request(http.MethodGet, "", claims, "g1")

		require.NoError(t, h.ListReservations(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"cursor":"r1"`)
	})

	t.Run("empty page has empty items and cursor", func(t *testing.T) {
		h := &GuestHandler{Reservations: &fakeGuestReservations{}, Chats: &fakeGuestChats{}}
		c, rec := request(http.MethodGet, "", claims, "g1")

		require.NoError(t, h.ListReservations(c))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"items":[]`)
		require.Contains(t, rec.Body.String(), `"cursor":""`)
	})
}

func TestGuestListChats(t *testing.T) {
	t.Parallel()

	claims := &utils.AccessClaims{UserID: "u1", GuestID: "g1", Role: model.RoleGuest}

	h := &GuestHandler{
		Reservations: &fakeGuestReservations{},
		Chats:        &fakeGuestChats{items: []*model.Chat{{ID: "c1", PropertyID: "p1"}}},
	}
	c, rec := request(http.MethodGet, "", claims, "g1")

	require.NoError(t, h.ListChats(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"cursor":"c1"`)
}
