package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/patchwork-body/the-booking-system/internal/model"
)

// TokenRepo persists refresh-session rows.  One row exists per login; the
// row id travels inside the signed refresh token and deleting the row is
// what revocation means.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Create inserts a new refresh session for a user and returns it.
func (r *TokenRepo) Create(ctx context.Context, userID string) (*model.Token, error) {
	t := &model.Token{ID: uuid.NewString(), UserID: userID}
	if _, err := r.DB.ExecContext(ctx,
		"INSERT INTO tokens (id, user_id) VALUES (?,?)", t.ID, t.UserID); err != nil {
		return nil, err
	}
	err := r.DB.QueryRowContext(ctx,
		"SELECT created_at FROM tokens WHERE id=?", t.ID).Scan(&t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Exists reports whether a session row with the given id still exists for
// the given user.  A refresh token is only valid while this is true.
func (r *TokenRepo) Exists(ctx context.Context, id, userID string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM tokens WHERE id=? AND user_id=? LIMIT 1", id, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes a session row.  Deleting a nonexistent id is not an error:
// revocation is idempotent at this layer.
func (r *TokenRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM tokens WHERE id=?", id)
	return err
}
