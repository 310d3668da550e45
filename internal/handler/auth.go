package handler

import (
    "context"  // context with cancellation for service calls
    "errors"   // sentinel and typed error matching
    "log"      // unexpected faults are logged before the generic 500
    "net/http" // HTTP status codes
    "time"     // timeouts for service calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/patchwork-body/the-booking-system/internal/auth"
    "github.com/patchwork-body/the-booking-system/internal/repository"
)

// AuthService is the slice of the credential and token service the HTTP
// layer depends on.
type AuthService interface {
    Register(ctx context.Context, name, email string, phone *string, role string) (string, error)
    Login(ctx context.Context, email, secret string) (*auth.TokenPair, error)
    Refresh(ctx context.Context, refreshToken string) (string, error)
    Revoke(ctx context.Context, refreshToken string) error
}

// AuthHandler exposes the register/login/refresh/revoke endpoints.  It is
// the single place translating service errors into responses: *auth.Error
// means 400, a duplicate email 409, anything else a logged 500.
type AuthHandler struct {
    Auth AuthService
}

func NewAuthHandler(s AuthService) *AuthHandler { return &AuthHandler{Auth: s} }

// ----- DTOs -----

type registerReq struct {
    Name  string  `json:"name" validate:"required"`
    Email string  `json:"email" validate:"required,email"`
    Phone *string `json:"phone,omitempty"`
    Role  string  `json:"role" validate:"required"`
}
type loginReq struct {
    Email  string `json:"email" validate:"required,email"`
    Secret string `json:"secret" validate:"required"`
}
type refreshReq struct {
    RefreshToken string `json:"refreshToken" validate:"required"`
}

// Register: create a user plus its role profile and hand back the one-time
// secret.  The secret is shown exactly once; it cannot be retrieved again.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    secret, err := h.Auth.Register(ctx, req.Name, req.Email, req.Phone, req.Role)
    if err != nil {
        var authErr *auth.Error
        if errors.As(err, &authErr) {
            log.Printf("auth: register rejected: %s", authErr.Reason)
            return c.JSON(http.StatusBadRequest, echo.Map{"message": authErr.Reason})
        }
        if errors.Is(err, repository.ErrEmailExists) {
            log.Printf("auth: register conflict for %s", req.Email)
            return c.JSON(http.StatusConflict, echo.Map{"message": "user already exists"})
        }
        log.Printf("auth: register failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"secret": secret})
}

// Login: verify email/secret and return a fresh access+refresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    pair, err := h.Auth.Login(ctx, req.Email, req.Secret)
    if err != nil {
        var authErr *auth.Error
        if errors.As(err, &authErr) {
            log.Printf("auth: login rejected: %s", authErr.Reason)
            return c.JSON(http.StatusBadRequest, echo.Map{"message": authErr.Reason})
        }
        log.Printf("auth: login failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
    }
    return c.JSON(http.StatusOK, pair)
}

// Refresh: exchange a live refresh token for a new access token.  The
// refresh token itself is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    access, err := h.Auth.Refresh(ctx, req.RefreshToken)
    if err != nil {
        var authErr *auth.Error
        if errors.As(err, &authErr) {
            log.Printf("auth: refresh rejected: %s", authErr.Reason)
            return c.JSON(http.StatusBadRequest, echo.Map{"message": authErr.Reason})
        }
        log.Printf("auth: refresh failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
    }
    return c.JSON(http.StatusOK, echo.Map{"accessToken": access})
}

// Revoke: delete the refresh session named by the token.  Succeeds with no
// content; revoking twice is fine.
func (h *AuthHandler) Revoke(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Auth.Revoke(ctx, req.RefreshToken); err != nil {
        var authErr *auth.Error
        if errors.As(err, &authErr) {
            log.Printf("auth: revoke rejected: %s", authErr.Reason)
            return c.JSON(http.StatusBadRequest, echo.Map{"message": authErr.Reason})
        }
        log.Printf("auth: revoke failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "something went wrong"})
    }
    return c.NoContent(http.StatusNoContent)
}
