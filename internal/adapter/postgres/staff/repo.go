// Package staff implements the StaffMember repository using PostgreSQL.
// Email and phone columns are encrypted at rest; the email_hash column is a
// deterministic search digest so login lookups never touch plaintext.
package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/medovate/clinic-backend/internal/adapter/postgres"
	"github.com/medovate/clinic-backend/internal/crypto"
	"github.com/medovate/clinic-backend/internal/domain"
)

// Repo provides staff persistence backed by PostgreSQL.
type Repo struct {
	pool   *pgxpool.Pool
	cipher *crypto.FieldCipher
}

// New creates a new staff repository.
func New(pool *pgxpool.Pool, cipher *crypto.FieldCipher) *Repo {
	return &Repo{pool: pool, cipher: cipher}
}

const staffColumns = `id, email, email_hash, name, role, password_hash, phone, active, created_at, updated_at`

const createSQL = `
INSERT INTO staff_members (` + staffColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + staffColumns

const getByIDSQL = `
SELECT ` + staffColumns + `
FROM staff_members
WHERE id = $1`

const getByEmailSQL = `
SELECT ` + staffColumns + `
FROM staff_members
WHERE email_hash = $1`

const setActiveSQL = `
UPDATE staff_members
SET active = $2, updated_at = $3
WHERE id = $1`

const setPasswordSQL = `
UPDATE staff_members
SET password_hash = $2, updated_at = $3
WHERE id = $1`

// Create inserts a new staff member. A duplicate email results in
// domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, member *domain.StaffMember) (*domain.StaffMember, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		member.ID,
		r.cipher.EncryptString(member.Email),
		r.cipher.HashForSearch(member.Email),
		member.Name,
		string(member.Role),
		member.PasswordHash,
		r.cipher.EncryptString(member.Phone),
		member.Active,
		member.CreatedAt.UTC().Truncate(time.Microsecond),
		member.UpdatedAt.UTC().Truncate(time.Microsecond),
	)

	created, err := r.scanStaff(row)
	if err != nil {
		return nil, mapError(err, "staff_member", member.ID)
	}

	return created, nil
}

// GetByID returns a staff member by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	member, err := r.scanStaff(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, mapError(err, "staff_member", id)
	}

	return member, nil
}

// GetByEmail returns a staff member by email address, resolved through the
// deterministic search hash.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	member, err := r.scanStaff(querier.QueryRow(ctx, getByEmailSQL, r.cipher.HashForSearch(email)))
	if err != nil {
		return nil, mapError(err, "staff_member", uuid.Nil)
	}

	return member, nil
}

// SetActive toggles whether the member may sign in.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, setActiveSQL, id, active, at.UTC())
	if err != nil {
		return mapError(err, "staff_member", id)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("staff_member %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetPasswordHash replaces the stored credential hash.
func (r *Repo) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, setPasswordSQL, id, hash, at.UTC())
	if err != nil {
		return mapError(err, "staff_member", id)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("staff_member %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// scanStaff scans a single staff row and decrypts PII columns.
func (r *Repo) scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var (
		m         domain.StaffMember
		role      string
		emailHash string
	)

	if err := row.Scan(
		&m.ID, &m.Email, &emailHash, &m.Name, &role, &m.PasswordHash,
		&m.Phone, &m.Active, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.Role = domain.Role(role)

	email, err := r.cipher.DecryptString(m.Email)
	if err != nil {
		return nil, fmt.Errorf("decrypt staff email: %w", err)
	}
	m.Email = email

	phone, err := r.cipher.DecryptString(m.Phone)
	if err != nil {
		return nil, fmt.Errorf("decrypt staff phone: %w", err)
	}
	m.Phone = phone

	return &m, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
