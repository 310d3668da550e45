package middleware // middleware contains the request authorization gate stages

import (
    "net/http" // HTTP status codes for responses
    "strings"  // prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for middleware and handlers

    "github.com/patchwork-body/the-booking-system/internal/utils"
)

// claimsKey is the context key under which Authorized stores the decoded
// access claims for downstream stages and handlers.
const claimsKey = "claims"

// Authorized returns an Echo middleware that validates a Bearer access
// token and attaches its decoded claims to the request context.  A missing
// header, a non-Bearer scheme and any decode failure are all rejected with
// 403 — this service deliberately uses 403 rather than 401 for every
// authentication failure, which is part of its observable contract.
func Authorized(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            header := c.Request().Header.Get("Authorization")
            if header == "" {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Unauthorized"})
            }
            scheme, token, ok := strings.Cut(header, " ")
            if !ok || scheme != "Bearer" {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Unauthorized"})
            }
            // Expired, malformed and wrongly signed tokens all land here.
            claims, err := utils.ParseAccessToken(secret, token)
            if err != nil {
                return c.JSON(http.StatusForbidden, echo.Map{"message": "Unauthorized"})
            }
            c.Set(claimsKey, claims)
            return next(c)
        }
    }
}

// ClaimsFrom returns the access claims attached by Authorized earlier in
// the same request, if any.  Stages and handlers only ever read the value;
// it is never mutated after being set.
func ClaimsFrom(c echo.Context) (*utils.AccessClaims, bool) {
    claims, ok := c.Get(claimsKey).(*utils.AccessClaims)
    return claims, ok
}
