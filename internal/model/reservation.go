package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Reservation records a stay booked on a property.  The total is computed
// at creation (nightly price x nights x guest count) and stored together
// with the property's currency at that moment.
//
// Fields:
//  ID         – primary key (uuid string).
//  PropertyID – property being reserved.
//  CheckIn    – start of the stay.
//  CheckOut   – end of the stay.
//  Total      – total amount for the stay.
//  Currency   – ISO 4217 code copied from the property.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Reservation struct {
    ID         string          `json:"id"`
    PropertyID string          `json:"propertyId"`
    CheckIn    time.Time       `json:"checkIn"`
    CheckOut   time.Time       `json:"checkOut"`
    Total      decimal.Decimal `json:"total"`
    Currency   string          `json:"currency"`
    CreatedAt  time.Time       `json:"createdAt"`
    UpdatedAt  time.Time       `json:"updatedAt"`
}

// GuestReservation links a guest profile to a reservation.  A reservation
// holds one row per staying guest.
type GuestReservation struct {
    ID            string    `json:"id"`
    GuestID       string    `json:"guestId"`
    ReservationID string    `json:"reservationId"`
    CreatedAt     time.Time `json:"createdAt"`
}
