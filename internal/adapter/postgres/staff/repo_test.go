package staff_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medovate/clinic-backend/internal/adapter/postgres/staff"
	"github.com/medovate/clinic-backend/internal/adapter/postgres/testhelper"
	"github.com/medovate/clinic-backend/internal/crypto"
	"github.com/medovate/clinic-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*staff.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	cipher, err := crypto.NewFieldCipher("test-master-secret-0123456789abcdef")
	if err != nil {
		t.Fatalf("NewFieldCipher: %v", err)
	}
	return staff.New(pool, cipher), pool
}

func buildStaff(email string, role domain.Role) *domain.StaffMember {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.StaffMember{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Dr. Test",
		Role:         role,
		PasswordHash: "$2a$10$fakehashfortestingonlyfakehashfortesting",
		Phone:        "+33 6 12 34 56 78",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRepo_Create_RoundTrip(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildStaff("alice@clinic.test", domain.RoleDoctor)

	got, err := repo.Create(ctx, input)
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	// PII columns come back decrypted.
	if got.Email != input.Email {
		t.Errorf("Email mismatch: got %q, want %q", got.Email, input.Email)
	}
	if got.Phone != input.Phone {
		t.Errorf("Phone mismatch: got %q, want %q", got.Phone, input.Phone)
	}
	if got.Role != domain.RoleDoctor {
		t.Errorf("Role mismatch: got %s", got.Role)
	}
	if !got.Active {
		t.Error("expected member to be active")
	}
}

func TestRepo_Create_EncryptsAtRest(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	input := buildStaff("bob@clinic.test", domain.RoleNurse)
	if _, err := repo.Create(ctx, input); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	var rawEmail, rawPhone string
	err := pool.QueryRow(ctx,
		`SELECT email, phone FROM staff_members WHERE id = $1`, input.ID,
	).Scan(&rawEmail, &rawPhone)
	if err != nil {
		t.Fatalf("raw select: %v", err)
	}

	if rawEmail == input.Email {
		t.Error("email stored in plaintext")
	}
	if rawPhone == input.Phone {
		t.Error("phone stored in plaintext")
	}
}

func TestRepo_Create_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	if _, err := repo.Create(ctx, buildStaff("dup@clinic.test", domain.RoleDoctor)); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := repo.Create(ctx, buildStaff("dup@clinic.test", domain.RoleNurse))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRepo_GetByEmail(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildStaff("carol@clinic.test", domain.RoleReceptionist)
	if _, err := repo.Create(ctx, input); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByEmail(ctx, "carol@clinic.test")
	if err != nil {
		t.Fatalf("GetByEmail: unexpected error: %v", err)
	}
	if got.ID != input.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, input.ID)
	}

	if _, err := repo.GetByEmail(ctx, "nobody@clinic.test"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown email, got %v", err)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepo_SetActive(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildStaff("dave@clinic.test", domain.RoleAdmin)
	if _, err := repo.Create(ctx, input); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SetActive(ctx, input.ID, false, time.Now()); err != nil {
		t.Fatalf("SetActive: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, input.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Active {
		t.Error("expected member to be inactive")
	}

	if err := repo.SetActive(ctx, uuid.New(), false, time.Now()); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestRepo_SetPasswordHash(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	input := buildStaff("erin@clinic.test", domain.RoleDoctor)
	if _, err := repo.Create(ctx, input); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SetPasswordHash(ctx, input.ID, "$2a$10$newhash", time.Now()); err != nil {
		t.Fatalf("SetPasswordHash: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, input.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PasswordHash != "$2a$10$newhash" {
		t.Errorf("PasswordHash not updated: got %q", got.PasswordHash)
	}
}
