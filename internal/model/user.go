package model

import "time"

// Role values stored in users.role.  A user's role is fixed at registration
// and decides which profile record (property owner or guest) exists for it.
const (
    RoleOwner = "OWNER"
    RoleGuest = "GUEST"
)

// User represents an application user record as stored in the `users`
// table.  The password hash is a bcrypt digest of the server-issued
// one-time secret, not of a human-chosen password, and is never serialized.
//
// Fields:
//  ID           – primary key (uuid string).
//  Name         – display name.
//  Email        – unique email address.
//  Phone        – optional phone number.
//  PasswordHash – bcrypt hash of the one-time secret.
//  Role         – OWNER or GUEST.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           string    `json:"id"`
    Name         string    `json:"name"`
    Email        string    `json:"email"`
    Phone        *string   `json:"phone,omitempty"`
    PasswordHash string    `json:"-"`
    Role         string    `json:"role"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}

// PropertyOwner is the owner-side profile, a 1:1 companion row created
// together with an OWNER user.  Properties reference this id, not the user.
type PropertyOwner struct {
    ID        string    `json:"id"`
    UserID    string    `json:"userId"`
    CreatedAt time.Time `json:"createdAt"`
}

// Guest is the guest-side profile, a 1:1 companion row created together
// with a GUEST user.  Reservations reference this id, not the user.
type Guest struct {
    ID        string    `json:"id"`
    UserID    string    `json:"userId"`
    CreatedAt time.Time `json:"createdAt"`
}
