package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/patchwork-body/the-booking-system/internal/middleware"
	"github.com/patchwork-body/the-booking-system/internal/model"
	"github.com/patchwork-body/the-booking-system/internal/queue"
	"github.com/patchwork-body/the-booking-system/internal/repository"
)

// propertyPageSize is the fixed page size of the public listing.
const propertyPageSize = 10

// PropertyStore is the persistence surface the property endpoints need.
type PropertyStore interface {
	Create(ctx context.Context, p *model.Property) error
	GetByID(ctx context.Context, id string) (*model.Property, error)
	GetWithOwner(ctx context.Context, id string) (*repository.PropertyWithOwner, error)
	List(ctx context.Context, cursor string, limit int) ([]*model.Property, error)
	Update(ctx context.Context, p *model.Property) error
	Delete(ctx context.Context, id string) error
}

// ReservationWriter covers the reservation operations reachable through
// property routes.
type ReservationWriter interface {
	Create(ctx context.Context, res *model.Reservation, guestIDs []string) error
	ListByProperty(ctx context.Context, propertyID string) ([]*repository.ReservationDetail, error)
}

// ChatCreator covers the chat operations reachable through property routes.
type ChatCreator interface {
	Create(ctx context.Context, propertyID string, participantUserIDs ...string) (*model.Chat, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*model.Chat, error)
}

// EventPublisher pushes domain events to the message broker.  Publishing is
// best effort; a nil publisher disables it.
type EventPublisher interface {
	PublishReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// PropertyHandler bundles dependencies for the property endpoints.
type PropertyHandler struct {
	Properties   PropertyStore
	Reservations ReservationWriter
	Chats        ChatCreator
	Events       EventPublisher
}

// ----- DTOs -----

type createPropertyReq struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description,omitempty"`
	Address     *string         `json:"address,omitempty"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	Bedrooms    int             `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int             `json:"bathrooms" validate:"gte=0"`
}

type updatePropertyReq struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Address     *string          `json:"address,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Currency    *string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Bedrooms    *int             `json:"bedrooms,omitempty" validate:"omitempty,gte=0"`
	Bathrooms   *int             `json:"bathrooms,omitempty" validate:"omitempty,gte=0"`
}

type reserveReq struct {
	CheckIn  time.Time `json:"checkIn" validate:"required"`
	CheckOut time.Time `json:"checkOut" validate:"required"`
	GuestIDs []string  `json:"guestIds" validate:"required,min=1,dive,required"`
}

// propertyDetail is the GET /properties/:id shape: the property itself plus
// the optionally included owner contact and reservations.
type propertyDetail struct {
	*model.Property
	Owner        *repository.OwnerContact        `json:"owner,omitempty"`
	Reservations []*repository.ReservationDetail `json:"reservations,omitempty"`
}

// List handles GET /v1/properties: one public page of 10 properties, resumed
// with the ?cursor= query parameter carrying the last seen id.
func (h *PropertyHandler) List(c echo.Context) error {
	items, err := h.Properties.List(c.Request().Context(), c.QueryParam("cursor"), propertyPageSize)
	if err != nil {
		log.Printf("property: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}
	if items == nil {
		items = []*model.Property{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /v1/properties.  The owner gate has already verified
// the caller holds an owner profile; the listing is bound to it and a chat
// with the owner as first participant is opened alongside.
func (h *PropertyHandler) Create(c echo.Context) error {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.OwnerID == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
	}
	var req createPropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p := &model.Property{
		OwnerID:     claims.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Price:       req.Price,
		Currency:    req.Currency,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
	}
	ctx := c.Request().Context()
	if err := h.Properties.Create(ctx, p); err != nil {
		log.Printf("property: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}
	if _, err := h.Chats.Create(ctx, p.ID, claims.UserID); err != nil {
		// The listing exists; a missing chat is recoverable and not worth a 500.
		log.Printf("property: chat create failed for %s: %v", p.ID, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// ByID handles GET /v1/properties/:id with the optional ?owner=true and
// ?guests=true includes.
func (h *PropertyHandler) ByID(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	detail := propertyDetail{}
	if c.QueryParam("owner") == "true" {
		withOwner, err := h.Properties.GetWithOwner(ctx, id)
		if err != nil {
			return h.propertyError(c, err)
		}
		detail.Property = &withOwner.Property
		detail.Owner = &withOwner.Owner
	} else {
		p, err := h.Properties.GetByID(ctx, id)
		if err != nil {
			return h.propertyError(c, err)
		}
		detail.Property = p
	}
	if c.QueryParam("guests") == "true" {
		reservations, err := h.Reservations.ListByProperty(ctx, id)
		if err != nil {
			log.Printf("property: load reservations failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
		}
		detail.Reservations = reservations
	}
	return c.JSON(http.StatusOK, detail)
}

// Update handles PATCH /v1/properties/:id.  The owner gate already proved
// existence and ownership; only the provided fields are overwritten.
func (h *PropertyHandler) Update(c echo.Context) error {
	var req updatePropertyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	p, err := h.Properties.GetByID(ctx, c.Param("id"))
	if err != nil {
		return h.propertyError(c, err)
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Currency != nil {
		p.Currency = *req.Currency
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if err := h.Properties.Update(ctx, p); err != nil {
		return h.propertyError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/properties/:id, removing the listing and every
// dependent reservation and chat record.
func (h *PropertyHandler) Delete(c echo.Context) error {
	if err := h.Properties.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.propertyError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Owner handles GET /v1/properties/:id/owner: the property together with
// the owning user's contact details.
func (h *PropertyHandler) Owner(c echo.Context) error {
	withOwner, err := h.Properties.GetWithOwner(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.propertyError(c, err)
	}
	return c.JSON(http.StatusOK, withOwner)
}

// ListReservations handles GET /v1/properties/:id/reservations for the
// property's owner.
func (h *PropertyHandler) ListReservations(c echo.Context) error {
	items, err := h.Reservations.ListByProperty(c.Request().Context(), c.Param("id"))
	if err != nil {
		log.Printf("property: list reservations failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}
	if items == nil {
		items = []*repository.ReservationDetail{}
	}
	return c.JSON(http.StatusOK, items)
}

// Reserve handles POST /v1/properties/:id/reservations.  The total is the
// nightly price times the number of whole nights times the number of
// guests, in the property's currency.
func (h *PropertyHandler) Reserve(c echo.Context) error {
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	nights := int(req.CheckOut.Sub(req.CheckIn).Hours() / 24)
	if nights < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "check-out must be at least one night after check-in"})
	}

	ctx := c.Request().Context()
	p, err := h.Properties.GetByID(ctx, c.Param("id"))
	if err != nil {
		return h.propertyError(c, err)
	}

	res := &model.Reservation{
		PropertyID: p.ID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Total:      p.Price.Mul(decimal.NewFromInt(int64(nights * len(req.GuestIDs)))),
		Currency:   p.Currency,
	}
	if err := h.Reservations.Create(ctx, res, req.GuestIDs); err != nil {
		log.Printf("property: reserve failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}

	if h.Events != nil {
		ev := queue.ReservationConfirmedEvent{
			ReservationID: res.ID,
			PropertyID:    p.ID,
			PropertyName:  p.Name,
			GuestIDs:      req.GuestIDs,
			CheckIn:       res.CheckIn.UTC().Format(time.RFC3339),
			CheckOut:      res.CheckOut.UTC().Format(time.RFC3339),
			Total:         res.Total.String(),
			Currency:      res.Currency,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		// Best effort only; the reservation is already committed.
		_ = h.Events.PublishReservationConfirmed(ctx, ev)
	}
	return c.JSON(http.StatusCreated, res)
}

// ListChats handles GET /v1/properties/:id/chats for the property's owner.
func (h *PropertyHandler) ListChats(c echo.Context) error {
	items, err := h.Chats.ListByProperty(c.Request().Context(), c.Param("id"))
	if err != nil {
		log.Printf("property: list chats failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
	}
	if items == nil {
		items = []*model.Chat{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *PropertyHandler) propertyError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrPropertyNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Property not found"})
	}
	log.Printf("property: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
}
