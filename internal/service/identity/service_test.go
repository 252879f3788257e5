package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medovate/clinic-backend/internal/config"
	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

//go:generate moq -out staff_store_mock_test.go -pkg identity . staffStore auditRecorder

var testNow = time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC)

type fixture struct {
	store *staffStoreMock
	audit *auditRecorderMock
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		store: &staffStoreMock{},
		audit: &auditRecorderMock{
			RecordFunc: func(ctx context.Context, input auditsvc.RecordInput) (*domain.AuditRecord, error) {
				return &domain.AuditRecord{ID: uuid.New()}, nil
			},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewService(logger, f.store, f.audit, config.AuthConfig{
		PasswordHashCost: bcrypt.MinCost,
	})
	f.svc.now = func() time.Time { return testNow }

	return f
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func activeMember(t *testing.T, password string) *domain.StaffMember {
	t.Helper()
	return &domain.StaffMember{
		ID:           uuid.New(),
		Email:        "alice@clinic.test",
		Name:         "Alice",
		Role:         domain.RoleDoctor,
		PasswordHash: hashOf(t, password),
		Active:       true,
	}
}

// ─── Verify ───

func TestVerify_HappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	member := activeMember(t, "correct horse battery")
	f.store.GetByEmailFunc = func(ctx context.Context, email string) (*domain.StaffMember, error) {
		if email != "alice@clinic.test" {
			return nil, domain.ErrNotFound
		}
		return member, nil
	}

	got, err := f.svc.Verify(context.Background(), "  Alice@Clinic.Test ", "correct horse battery")
	if err != nil {
		t.Fatalf("Verify: unexpected error: %v", err)
	}
	if got.ID != member.ID {
		t.Errorf("wrong member returned: %s", got.ID)
	}
}

func TestVerify_Failures(t *testing.T) {
	t.Parallel()

	member := activeMember(t, "correct horse battery")
	inactive := activeMember(t, "correct horse battery")
	inactive.Active = false
	inactive.Email = "bob@clinic.test"

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@clinic.test", "whatever"},
		{"wrong password", "alice@clinic.test", "wrong password!"},
		{"deactivated account", "bob@clinic.test", "correct horse battery"},
		{"empty email", "", "whatever"},
		{"empty password", "alice@clinic.test", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			f.store.GetByEmailFunc = func(ctx context.Context, email string) (*domain.StaffMember, error) {
				switch email {
				case "alice@clinic.test":
					return member, nil
				case "bob@clinic.test":
					return inactive, nil
				}
				return nil, domain.ErrNotFound
			}

			_, err := f.svc.Verify(context.Background(), tt.email, tt.password)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestVerify_StoreFailureIsNotUnauthorized(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.store.GetByEmailFunc = func(ctx context.Context, email string) (*domain.StaffMember, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.svc.Verify(context.Background(), "alice@clinic.test", "pw")
	if err == nil || errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("store failure must not masquerade as bad credentials, got %v", err)
	}
}

// ─── Register ───

func TestRegister_HappyPath(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.store.CreateFunc = func(ctx context.Context, member *domain.StaffMember) (*domain.StaffMember, error) {
		return member, nil
	}

	actor := domain.Actor{UserID: uuid.New(), UserName: "Admin", Role: domain.RoleAdmin}
	got, err := f.svc.Register(context.Background(), actor, RegisterInput{
		Email:    " Nurse.Joy@Clinic.Test ",
		Name:     "Nurse Joy",
		Role:     domain.RoleNurse,
		Password: "a long enough password",
	})
	if err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}

	if got.Email != "nurse.joy@clinic.test" {
		t.Errorf("email not normalized: %q", got.Email)
	}
	if got.PasswordHash == "a long enough password" || got.PasswordHash == "" {
		t.Error("password must be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("a long enough password")); err != nil {
		t.Error("stored hash does not match the password")
	}
	if !got.Active {
		t.Error("new member must be active")
	}
	if got.CreatedAt != testNow {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, testNow)
	}

	records := f.audit.RecordCalls()
	if len(records) != 1 || records[0].Input.Action != "staff.register" {
		t.Errorf("expected one staff.register audit record, got %+v", records)
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	valid := RegisterInput{
		Email:    "x@clinic.test",
		Name:     "X",
		Role:     domain.RoleDoctor,
		Password: "a long enough password",
	}

	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing email", func(i *RegisterInput) { i.Email = "" }},
		{"not an email", func(i *RegisterInput) { i.Email = "not-an-email" }},
		{"missing name", func(i *RegisterInput) { i.Name = "" }},
		{"guest role", func(i *RegisterInput) { i.Role = domain.RoleGuest }},
		{"unknown role", func(i *RegisterInput) { i.Role = "superuser" }},
		{"short password", func(i *RegisterInput) { i.Password = "short" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			input := valid
			tt.mutate(&input)

			_, err := f.svc.Register(context.Background(), domain.Actor{}, input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
			if len(f.store.CreateCalls()) != 0 {
				t.Error("store must not be touched on invalid input")
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.store.CreateFunc = func(ctx context.Context, member *domain.StaffMember) (*domain.StaffMember, error) {
		return nil, domain.ErrAlreadyExists
	}

	_, err := f.svc.Register(context.Background(), domain.Actor{}, RegisterInput{
		Email:    "dup@clinic.test",
		Name:     "Dup",
		Role:     domain.RoleDoctor,
		Password: "a long enough password",
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

// ─── Deactivate / ChangePassword ───

func TestDeactivate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.store.SetActiveFunc = func(ctx context.Context, id uuid.UUID, active bool, at time.Time) error {
		if active {
			t.Error("expected active=false")
		}
		return nil
	}

	id := uuid.New()
	if err := f.svc.Deactivate(context.Background(), domain.Actor{}, id, "left the clinic"); err != nil {
		t.Fatalf("Deactivate: unexpected error: %v", err)
	}

	records := f.audit.RecordCalls()
	if len(records) != 1 || records[0].Input.Action != "staff.deactivate" {
		t.Errorf("expected one staff.deactivate audit record, got %+v", records)
	}
	if records[0].Input.Description != "left the clinic" {
		t.Errorf("reason not carried: %q", records[0].Input.Description)
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	member := activeMember(t, "old password value")
	f.store.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error) {
		return member, nil
	}

	var storedHash string
	f.store.SetPasswordHashFunc = func(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
		storedHash = hash
		return nil
	}

	err := f.svc.ChangePassword(context.Background(), member.ID, "old password value", "brand new password!")
	if err != nil {
		t.Fatalf("ChangePassword: unexpected error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("brand new password!")); err != nil {
		t.Error("stored hash does not match the new password")
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	member := activeMember(t, "old password value")
	f.store.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error) {
		return member, nil
	}

	err := f.svc.ChangePassword(context.Background(), member.ID, "not the old one", "brand new password!")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if len(f.store.SetPasswordHashCalls()) != 0 {
		t.Error("hash must not change on wrong old password")
	}
}
