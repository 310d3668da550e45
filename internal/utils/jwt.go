package utils // package utils provides helpers for token creation and verification

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrInvalidToken is returned by the parse helpers whenever a token cannot
// be trusted: bad signature, wrong algorithm, expired, or malformed claims.
// Callers do not need to distinguish these cases.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims is the payload embedded in short-lived access tokens.
// OwnerID is set iff the user is an OWNER, GuestID iff the user is a
// GUEST.  The claims are decoded once per request by the bearer middleware
// and attached to the request context as an immutable value.
type AccessClaims struct {
    UserID  string `json:"userId"`
    OwnerID string `json:"ownerId,omitempty"`
    GuestID string `json:"guestId,omitempty"`
    Role    string `json:"role"`
    jwt.RegisteredClaims
}

// RefreshClaims is the payload embedded in long-lived refresh tokens.  The
// TokenID binds the token to a persisted session row; once that row is
// deleted the refresh token is dead regardless of its expiry.
type RefreshClaims struct {
    UserID  string `json:"userId"`
    TokenID string `json:"tokenId"`
    jwt.RegisteredClaims
}

// NewAccessToken builds and signs an HS256 access token for a user.  The
// owner/guest ids may be empty depending on the user's role; empty values
// are omitted from the payload.
func NewAccessToken(secret, userID, ownerID, guestID, role string, ttlMin int) (string, error) {
    now := time.Now().UTC()
    claims := AccessClaims{
        UserID:  userID,
        OwnerID: ownerID,
        GuestID: guestID,
        Role:    role,
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlMin) * time.Minute)),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// NewRefreshToken builds and signs an HS256 refresh token carrying the user
// id and the persisted session id.  It is signed with a secret distinct
// from the access token secret.
func NewRefreshToken(secret, userID, tokenID string, ttlDays int) (string, error) {
    now := time.Now().UTC()
    claims := RefreshClaims{
        UserID:  userID,
        TokenID: tokenID,
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlDays) * 24 * time.Hour)),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken verifies an access token against the access signing
// secret and returns its typed claims.
func ParseAccessToken(secret, raw string) (*AccessClaims, error) {
    var claims AccessClaims
    if err := parseInto(secret, raw, &claims); err != nil {
        return nil, err
    }
    return &claims, nil
}

// ParseRefreshToken verifies a refresh token against the refresh signing
// secret and returns its typed claims.
func ParseRefreshToken(secret, raw string) (*RefreshClaims, error) {
    var claims RefreshClaims
    if err := parseInto(secret, raw, &claims); err != nil {
        return nil, err
    }
    return &claims, nil
}

// parseInto runs the shared verification path: HMAC-only key selection so
// tokens signed with a different algorithm are rejected, then validity and
// expiry checks done by the jwt library itself.
func parseInto(secret, raw string, claims jwt.Claims) error {
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return ErrInvalidToken
    }
    return nil
}
