package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// GuestOptions configures IsGuest.  With Certain set, the `:id` path
// parameter must equal the caller's own guest id.
type GuestOptions struct {
    Certain bool
}

// IsGuest returns a middleware asserting that the caller is a guest.  It
// assumes Authorized ran earlier in the chain.  Without claims or a guest
// profile the request ends with 403.  In certain mode a missing path id
// yields 400 and a mismatching one 403; the comparison is plain string
// equality against the claims' guest id.
func IsGuest(opts GuestOptions) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            claims, ok := ClaimsFrom(c)
            if !ok || claims.GuestID == "" {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
            }
            if !opts.Certain {
                return next(c)
            }

            id := c.Param("id")
            if id == "" {
                return c.JSON(http.StatusBadRequest, echo.Map{"message": "Bad request"})
            }
            if id != claims.GuestID {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Forbidden"})
            }
            return next(c)
        }
    }
}
