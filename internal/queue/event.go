// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation is successfully
// created. It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID string   `json:"reservation_id"`
	PropertyID    string   `json:"property_id"`
	PropertyName  string   `json:"property_name"`
	GuestIDs      []string `json:"guest_ids"`
	CheckIn       string   `json:"check_in"`
	CheckOut      string   `json:"check_out"`
	Total         string   `json:"total"`
	Currency      string   `json:"currency"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
