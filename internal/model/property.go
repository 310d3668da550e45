package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Property represents a rental listing persisted in the `properties` table.
// Each property belongs to a single owner profile and carries its nightly
// price together with the ISO currency code used for reservation totals.
//
// Fields:
//  ID          – primary key (uuid string).
//  OwnerID     – references property_owners.id.
//  Name        – listing title.
//  Description – optional free-form description.
//  Address     – optional street address.
//  Price       – nightly price.
//  Currency    – ISO 4217 code (e.g. USD).
//  Bedrooms    – number of bedrooms.
//  Bathrooms   – number of bathrooms.
//  CreatedAt   – timestamp of creation.
//  UpdatedAt   – timestamp of last update.
type Property struct {
    ID          string          `json:"id"`
    OwnerID     string          `json:"ownerId"`
    Name        string          `json:"name"`
    Description *string         `json:"description,omitempty"`
    Address     *string         `json:"address,omitempty"`
    Price       decimal.Decimal `json:"price"`
    Currency    string          `json:"currency"`
    Bedrooms    int             `json:"bedrooms"`
    Bathrooms   int             `json:"bathrooms"`
    CreatedAt   time.Time       `json:"createdAt"`
    UpdatedAt   time.Time       `json:"updatedAt"`
}
