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

// ReservationReader loads single reservations with their guest lists.
type ReservationReader interface {
	GetByID(ctx context.Context, id string) (*repository.ReservationDetail, error)
}

// ReservationHandler serves the direct reservation endpoints.
type ReservationHandler struct {
	Reservations ReservationReader
}

// ByID handles GET /v1/reservations/:id.  Only the owner of the reserved
// property or one of the reservation's guests may read it.
func (h *ReservationHandler) ByID(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	}

	res, err := h.Reservations.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Reservation not found"})
		}
		log.Printf("reservation: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}

	if !canReadReservation(claims.OwnerID, claims.GuestID, res) {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	}
	return c.JSON(http.StatusOK, res)
}

// canReadReservation reports whether a caller with the given profile ids is
// either the property owner or among the reservation's guests.
func canReadReservation(ownerID, guestID string, res *repository.ReservationDetail) bool {
	if ownerID != "" && ownerID == res.PropertyOwnerID {
		return true
	}
	if guestID != "" {
		for _, g := range res.Guests {
			if g.ID == guestID {
				return true
			}
		}
	}
	return false
}
