package middleware

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/patchwork-body/the-booking-system/internal/model"
    "github.com/patchwork-body/the-booking-system/internal/repository"
)

// PropertyStore is the lookup needed by the resource-scoped owner check.
type PropertyStore interface {
    GetByID(ctx context.Context, id string) (*model.Property, error)
}

// OwnerOptions configures IsOwner.  With Certain set, the stage also
// requires the `:id` path parameter to name a property owned by the caller.
type OwnerOptions struct {
    Certain bool
}

// IsOwner returns a middleware asserting that the caller is a property
// owner.  It assumes Authorized ran earlier in the chain.  Without claims
// or an owner profile the request ends with 403.  In certain mode a missing
// path id yields 400, an unknown property 404 and a foreign property 403.
func IsOwner(store PropertyStore, opts OwnerOptions) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims, ok := ClaimsFrom(c)
            if !ok || claims.OwnerID == "" {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
            }
            if !opts.Certain {
                return next(c)
            }

            id := c.Param("id")
            if id == "" {
                return c.JSON(http.StatusBadRequest, echo.Map{"message": "Bad request"})
            }
            property, err := store.GetByID(c.Request().Context(), id)
            if err != nil {
                if errors.Is(err, repository.ErrPropertyNotFound) {
                    return c.JSON(http.StatusNotFound, echo.Map{"message": "Property not found"})
                }
                return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Something went wrong"})
            }
            if property.OwnerID != claims.OwnerID {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
            }
            return next(c)
        }
    }
}
