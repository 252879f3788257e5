package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

var _ auditStore = &auditStoreMock{}

type auditStoreMock struct {
	CreateFunc        func(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error)
	SearchFunc        func(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]*domain.AuditRecord, int, error)
	ActorActivityFunc func(ctx context.Context, actorID uuid.UUID, since time.Time) (*domain.ActorActivitySummary, error)
	DeleteExpiredFunc func(ctx context.Context, now time.Time) (int, error)

	calls struct {
		Create []struct {
			Ctx    context.Context
			Record *domain.AuditRecord
		}
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		Search []struct {
			Ctx    context.Context
			Filter domain.AuditFilter
			Limit  int
			Offset int
		}
		ActorActivity []struct {
			Ctx     context.Context
			ActorID uuid.UUID
			Since   time.Time
		}
		DeleteExpired []struct {
			Ctx context.Context
			Now time.Time
		}
	}
	lockCreate        sync.RWMutex
	lockGetByID       sync.RWMutex
	lockSearch        sync.RWMutex
	lockActorActivity sync.RWMutex
	lockDeleteExpired sync.RWMutex
}

func (mock *auditStoreMock) Create(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error) {
	if mock.CreateFunc == nil {
		panic("auditStoreMock.CreateFunc: method is nil but auditStore.Create was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Record *domain.AuditRecord
	}{Ctx: ctx, Record: record}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, record)
}

func (mock *auditStoreMock) CreateCalls() []struct {
	Ctx    context.Context
	Record *domain.AuditRecord
} {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *auditStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error) {
	if mock.GetByIDFunc == nil {
		panic("auditStoreMock.GetByIDFunc: method is nil but auditStore.GetByID was just called")
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

func (mock *auditStoreMock) Search(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]*domain.AuditRecord, int, error) {
	if mock.SearchFunc == nil {
		panic("auditStoreMock.SearchFunc: method is nil but auditStore.Search was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Filter domain.AuditFilter
		Limit  int
		Offset int
	}{Ctx: ctx, Filter: filter, Limit: limit, Offset: offset}
	mock.lockSearch.Lock()
	mock.calls.Search = append(mock.calls.Search, callInfo)
	mock.lockSearch.Unlock()
	return mock.SearchFunc(ctx, filter, limit, offset)
}

func (mock *auditStoreMock) SearchCalls() []struct {
	Ctx    context.Context
	Filter domain.AuditFilter
	Limit  int
	Offset int
} {
	mock.lockSearch.RLock()
	defer mock.lockSearch.RUnlock()
	return mock.calls.Search
}

func (mock *auditStoreMock) ActorActivity(ctx context.Context, actorID uuid.UUID, since time.Time) (*domain.ActorActivitySummary, error) {
	if mock.ActorActivityFunc == nil {
		panic("auditStoreMock.ActorActivityFunc: method is nil but auditStore.ActorActivity was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ActorID uuid.UUID
		Since   time.Time
	}{Ctx: ctx, ActorID: actorID, Since: since}
	mock.lockActorActivity.Lock()
	mock.calls.ActorActivity = append(mock.calls.ActorActivity, callInfo)
	mock.lockActorActivity.Unlock()
	return mock.ActorActivityFunc(ctx, actorID, since)
}

func (mock *auditStoreMock) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	if mock.DeleteExpiredFunc == nil {
		panic("auditStoreMock.DeleteExpiredFunc: method is nil but auditStore.DeleteExpired was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now time.Time
	}{Ctx: ctx, Now: now}
	mock.lockDeleteExpired.Lock()
	mock.calls.DeleteExpired = append(mock.calls.DeleteExpired, callInfo)
	mock.lockDeleteExpired.Unlock()
	return mock.DeleteExpiredFunc(ctx, now)
}
