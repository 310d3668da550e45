package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/patchwork-body/the-booking-system/internal/model"
)

// ReservationGuest is the flattened guest block returned with reservation
// details: the guest profile plus its user's contact fields.
type ReservationGuest struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone,omitempty"`
}

// ReservationDetail couples a reservation with the owning property's owner
// id (for authorization decisions) and the staying guests.
type ReservationDetail struct {
	model.Reservation
	PropertyOwnerID string             `json:"-"`
	Guests          []ReservationGuest `json:"guests"`
}

// ReservationRepo encapsulates reservation queries, including the link
// table rows tying guests to a stay.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// Create inserts a reservation together with one guest_reservations row per
// guest, in a single transaction.  The generated id is written back into res.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation, guestIDs []string) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	res.ID = uuid.NewString()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO reservations (id, property_id, check_in, check_out, total, currency)
		 VALUES (?,?,?,?,?,?)`,
		res.ID, res.PropertyID, res.CheckIn, res.CheckOut, res.Total, res.Currency); err != nil {
		return err
	}
	for _, guestID := range guestIDs {
		if _, err = tx.ExecContext(ctx,
			"INSERT INTO guest_reservations (id, guest_id, reservation_id) VALUES (?,?,?)",
			uuid.NewString(), guestID, res.ID); err != nil {
			return err
		}
	}
	err = tx.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM reservations WHERE id=?", res.ID).
		Scan(&res.CreatedAt, &res.UpdatedAt)
	return err
}

const reservationDetailQuery = `SELECT r.id, r.property_id, r.check_in, r.check_out, r.total, r.currency,
       r.created_at, r.updated_at, p.owner_id
FROM reservations r
JOIN properties p ON p.id = r.property_id`

// GetByID fetches a reservation with its property's owner id and its guests.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*ReservationDetail, error) {
	var d ReservationDetail
	err := r.DB.QueryRowContext(ctx, reservationDetailQuery+" WHERE r.id=? LIMIT 1", id).
		Scan(&d.ID, &d.PropertyID, &d.CheckIn, &d.CheckOut, &d.Total, &d.Currency,
			&d.CreatedAt, &d.UpdatedAt, &d.PropertyOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if err := r.loadGuests(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByProperty returns all reservations for a property, each with its
// guests.
func (r *ReservationRepo) ListByProperty(ctx context.Context, propertyID string) ([]*ReservationDetail, error) {
	rows, err := r.DB.QueryContext(ctx,
		reservationDetailQuery+" WHERE r.property_id=? ORDER BY r.created_at", propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ReservationDetail
	for rows.Next() {
		d := new(ReservationDetail)
		if err := rows.Scan(&d.ID, &d.PropertyID, &d.CheckIn, &d.CheckOut, &d.Total, &d.Currency,
			&d.CreatedAt, &d.UpdatedAt, &d.PropertyOwnerID); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, d := range out {
		if err := r.loadGuests(ctx, d); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListByGuest returns the reservations a guest is part of.
func (r *ReservationRepo) ListByGuest(ctx context.Context, guestID string) ([]*model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT r.id, r.property_id, r.check_in, r.check_out, r.total, r.currency, r.created_at, r.updated_at
		 FROM reservations r
		 JOIN guest_reservations gr ON gr.reservation_id = r.id
		 WHERE gr.guest_id=? ORDER BY r.created_at`, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Reservation
	for rows.Next() {
		res := new(model.Reservation)
		if err := rows.Scan(&res.ID, &res.PropertyID, &res.CheckIn, &res.CheckOut,
			&res.Total, &res.Currency, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *ReservationRepo) loadGuests(ctx context.Context, d *ReservationDetail) error {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT g.id, g.user_id, u.name, u.email, u.phone
		 FROM guest_reservations gr
		 JOIN guests g ON g.id = gr.guest_id
		 JOIN users u ON u.id = g.user_id
		 WHERE gr.reservation_id=?`, d.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	d.Guests = []ReservationGuest{}
	for rows.Next() {
		var g ReservationGuest
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Email, &g.Phone); err != nil {
			return err
		}
		d.Guests = append(d.Guests, g)
	}
	return rows.Err()
}
