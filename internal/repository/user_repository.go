package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/patchwork-body/the-booking-system/internal/model"
)

// UserWithProfiles couples a user row with its optional profile ids.  At
// most one of OwnerID/GuestID is non-empty, matching the user's role.
type UserWithProfiles struct {
	model.User
	OwnerID string // property_owners.id, empty unless role=OWNER
	GuestID string // guests.id, empty unless role=GUEST
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user row.  The caller provides the already-hashed
// secret; the generated id is written back into u.  A duplicate email maps
// to ErrEmailExists (MySQL error 1062).
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, name, email, phone, password_hash, role) VALUES (?,?,?,?,?,?)",
		u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM users WHERE id=?", u.ID).
		Scan(&u.CreatedAt, &u.UpdatedAt)
}

// CreateOwnerProfile inserts the owner-side profile row for a user and
// returns its id.
func (r *UserRepo) CreateOwnerProfile(ctx context.Context, userID string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO property_owners (id, user_id) VALUES (?,?)", id, userID)
	if err != nil {
		return "", err
	}
	return id, nil
}

// CreateGuestProfile inserts the guest-side profile row for a user and
// returns its id.
func (r *UserRepo) CreateGuestProfile(ctx context.Context, userID string) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO guests (id, user_id) VALUES (?,?)", id, userID)
	if err != nil {
		return "", err
	}
	return id, nil
}

const userWithProfilesQuery = `SELECT u.id, u.name, u.email, u.phone, u.password_hash, u.role,
       u.created_at, u.updated_at, COALESCE(po.id,''), COALESCE(g.id,'')
FROM users u
LEFT JOIN property_owners po ON po.user_id = u.id
LEFT JOIN guests g ON g.user_id = u.id`

// GetByEmail fetches a user by normalized email together with its profile ids.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*UserWithProfiles, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx, userWithProfilesQuery+" WHERE u.email=? LIMIT 1", email))
}

// GetByID fetches a user by id together with its profile ids.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*UserWithProfiles, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, userWithProfilesQuery+" WHERE u.id=? LIMIT 1", id))
}

func (r *UserRepo) scanOne(row *sql.Row) (*UserWithProfiles, error) {
	var u UserWithProfiles
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role,
		&u.CreatedAt, &u.UpdatedAt, &u.OwnerID, &u.GuestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
