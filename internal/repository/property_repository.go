package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/patchwork-body/the-booking-system/internal/model"
)

// OwnerContact is the re-shaped owner block returned alongside a property:
// the profile ids plus the contact fields of the owning user.
type OwnerContact struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone,omitempty"`
}

// PropertyWithOwner couples a property with its owner's contact details.
type PropertyWithOwner struct {
	model.Property
	Owner OwnerContact `json:"owner"`
}

// PropertyRepo encapsulates all database queries related to properties.
type PropertyRepo struct{ DB *sql.DB }

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{DB: db} }

const propertyColumns = "id, owner_id, name, description, address, price, currency, bedrooms, bathrooms, created_at, updated_at"

// Create inserts a new property.  On success the generated id and the
// database-assigned timestamps are written back into p.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	p.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO properties (id, owner_id, name, description, address, price, currency, bedrooms, bathrooms)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		p.ID, p.OwnerID, p.Name, p.Description, p.Address, p.Price, p.Currency, p.Bedrooms, p.Bathrooms)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM properties WHERE id=?", p.ID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID fetches a property by id.  Returns ErrPropertyNotFound when no
// row matches.
func (r *PropertyRepo) GetByID(ctx context.Context, id string) (*model.Property, error) {
	var p model.Property
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE id=? LIMIT 1", id).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Address, &p.Price,
			&p.Currency, &p.Bedrooms, &p.Bathrooms, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetWithOwner fetches a property together with the owning user's contact
// details (name, email, phone).
func (r *PropertyRepo) GetWithOwner(ctx context.Context, id string) (*PropertyWithOwner, error) {
	var p PropertyWithOwner
	err := r.DB.QueryRowContext(ctx,
		`SELECT p.id, p.owner_id, p.name, p.description, p.address, p.price, p.currency,
		        p.bedrooms, p.bathrooms, p.created_at, p.updated_at,
		        po.id, po.user_id, u.name, u.email, u.phone
		 FROM properties p
		 JOIN property_owners po ON po.id = p.owner_id
		 JOIN users u ON u.id = po.user_id
		 WHERE p.id=? LIMIT 1`, id).
		Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Address, &p.Price,
			&p.Currency, &p.Bedrooms, &p.Bathrooms, &p.CreatedAt, &p.UpdatedAt,
			&p.Owner.ID, &p.Owner.UserID, &p.Owner.Name, &p.Owner.Email, &p.Owner.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns one page of properties ordered by id.  An empty cursor
// starts from the beginning; otherwise the page begins after the given id.
func (r *PropertyRepo) List(ctx context.Context, cursor string, limit int) ([]*model.Property, error) {
	q := "SELECT " + propertyColumns + " FROM properties WHERE id > ? ORDER BY id LIMIT ?"
	rows, err := r.DB.QueryContext(ctx, q, cursor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Property
	for rows.Next() {
		p := new(model.Property)
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Address, &p.Price,
			&p.Currency, &p.Bedrooms, &p.Bathrooms, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes all mutable columns of a property.  Returns
// ErrPropertyNotFound when no row was touched.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE properties
		 SET name=?, description=?, address=?, price=?, currency=?, bedrooms=?, bathrooms=?,
		     updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		p.Name, p.Description, p.Address, p.Price, p.Currency, p.Bedrooms, p.Bathrooms, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPropertyNotFound
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT updated_at FROM properties WHERE id=?", p.ID).Scan(&p.UpdatedAt)
}

// Delete removes a property and all dependent records (reservations, guest
// links, chats, participants and messages) inside one transaction.
func (r *PropertyRepo) Delete(ctx context.Context, id string) (err error) {
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

	var exists int
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM properties WHERE id=?", id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrPropertyNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE gr FROM guest_reservations gr
		 JOIN reservations r ON r.id = gr.reservation_id
		 WHERE r.property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM reservations WHERE property_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE m FROM messages m
		 JOIN chats c ON c.id = m.chat_id
		 WHERE c.property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE cp FROM chat_participants cp
		 JOIN chats c ON c.id = cp.chat_id
		 WHERE c.property_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM chats WHERE property_id=?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM properties WHERE id=?", id)
	return err
}
