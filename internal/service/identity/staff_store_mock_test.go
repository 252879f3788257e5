package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

var _ staffStore = &staffStoreMock{}

type staffStoreMock struct {
	CreateFunc          func(ctx context.Context, member *domain.StaffMember) (*domain.StaffMember, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error)
	GetByEmailFunc      func(ctx context.Context, email string) (*domain.StaffMember, error)
	SetActiveFunc       func(ctx context.Context, id uuid.UUID, active bool, at time.Time) error
	SetPasswordHashFunc func(ctx context.Context, id uuid.UUID, hash string, at time.Time) error

	calls struct {
		Create []struct {
			Ctx    context.Context
			Member *domain.StaffMember
		}
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		GetByEmail []struct {
			Ctx   context.Context
			Email string
		}
		SetActive []struct {
			Ctx    context.Context
			ID     uuid.UUID
			Active bool
			At     time.Time
		}
		SetPasswordHash []struct {
			Ctx  context.Context
			ID   uuid.UUID
			Hash string
			At   time.Time
		}
	}
	lockCreate          sync.RWMutex
	lockGetByID         sync.RWMutex
	lockGetByEmail      sync.RWMutex
	lockSetActive       sync.RWMutex
	lockSetPasswordHash sync.RWMutex
}

func (mock *staffStoreMock) Create(ctx context.Context, member *domain.StaffMember) (*domain.StaffMember, error) {
	if mock.CreateFunc == nil {
		panic("staffStoreMock.CreateFunc: method is nil but staffStore.Create was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Member *domain.StaffMember
	}{Ctx: ctx, Member: member}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, member)
}

func (mock *staffStoreMock) CreateCalls() []struct {
	Ctx    context.Context
	Member *domain.StaffMember
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *staffStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error) {
	if mock.GetByIDFunc == nil {
		panic("staffStoreMock.GetByIDFunc: method is nil but staffStore.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *staffStoreMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *staffStoreMock) GetByEmail(ctx context.Context, email string) (*domain.StaffMember, error) {
	if mock.GetByEmailFunc == nil {
		panic("staffStoreMock.GetByEmailFunc: method is nil but staffStore.GetByEmail was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{Ctx: ctx, Email: email}
	mock.lockGetByEmail.Lock()
	mock.calls.GetByEmail = append(mock.calls.GetByEmail, callInfo)
	mock.lockGetByEmail.Unlock()
	return mock.GetByEmailFunc(ctx, email)
}

func (mock *staffStoreMock) GetByEmailCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockGetByEmail.RLock()
	calls := mock.calls.GetByEmail
	mock.lockGetByEmail.RUnlock()
	return calls
}

func (mock *staffStoreMock) SetActive(ctx context.Context, id uuid.UUID, active bool, at time.Time) error {
	if mock.SetActiveFunc == nil {
		panic("staffStoreMock.SetActiveFunc: method is nil but staffStore.SetActive was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		Active bool
		At     time.Time
	}{Ctx: ctx, ID: id, Active: active, At: at}
	mock.lockSetActive.Lock()
	mock.calls.SetActive = append(mock.calls.SetActive, callInfo)
	mock.lockSetActive.Unlock()
	return mock.SetActiveFunc(ctx, id, active, at)
}

func (mock *staffStoreMock) SetActiveCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	Active bool
	At     time.Time
} {
	mock.lockSetActive.RLock()
	calls := mock.calls.SetActive
	mock.lockSetActive.RUnlock()
	return calls
}

func (mock *staffStoreMock) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	if mock.SetPasswordHashFunc == nil {
		panic("staffStoreMock.SetPasswordHashFunc: method is nil but staffStore.SetPasswordHash was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		ID   uuid.UUID
		Hash string
		At   time.Time
	}{Ctx: ctx, ID: id, Hash: hash, At: at}
	mock.lockSetPasswordHash.Lock()
	mock.calls.SetPasswordHash = append(mock.calls.SetPasswordHash, callInfo)
	mock.lockSetPasswordHash.Unlock()
	return mock.SetPasswordHashFunc(ctx, id, hash, at)
}

func (mock *staffStoreMock) SetPasswordHashCalls() []struct {
	Ctx  context.Context
	ID   uuid.UUID
	Hash string
	At   time.Time
} {
	mock.lockSetPasswordHash.RLock()
	calls := mock.calls.SetPasswordHash
	mock.lockSetPasswordHash.RUnlock()
	return calls
}

var _ auditRecorder = &auditRecorderMock{}

type auditRecorderMock struct {
	RecordFunc func(ctx context.Context, input auditsvc.RecordInput) (*domain.AuditRecord, error)

	calls struct {
		Record []struct {
			Ctx   context.Context
			Input auditsvc.RecordInput
		}
	}
	lockRecord sync.RWMutex
}

func (mock *auditRecorderMock) Record(ctx context.Context, input auditsvc.RecordInput) (*domain.AuditRecord, error) {
	if mock.RecordFunc == nil {
		panic("auditRecorderMock.RecordFunc: method is nil but auditRecorder.Record was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input auditsvc.RecordInput
	}{Ctx: ctx, Input: input}
	mock.lockRecord.Lock()
	mock.calls.Record = append(mock.calls.Record, callInfo)
	mock.lockRecord.Unlock()
	return mock.RecordFunc(ctx, input)
}

func (mock *auditRecorderMock) RecordCalls() []struct {
	Ctx   context.Context
	Input auditsvc.RecordInput
} {
	mock.lockRecord.RLock()
	calls := mock.calls.Record
	mock.lockRecord.RUnlock()
	return calls
}
