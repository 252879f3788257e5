package session

import (
	"context"
	"sync"

	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

var _ sessionCache = &sessionCacheMock{}

type sessionCacheMock struct {
	GetFunc    func(ctx context.Context, token string) (*domain.Session, error)
	SetFunc    func(ctx context.Context, session *domain.Session) error
	DeleteFunc func(ctx context.Context, token string) error

	calls struct {
		Get []struct {
			Ctx   context.Context
			Token string
		}
		Set []struct {
			Ctx     context.Context
			Session *domain.Session
		}
		Delete []struct {
			Ctx   context.Context
			Token string
		}
	}
	lockGet    sync.RWMutex
	lockSet    sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *sessionCacheMock) Get(ctx context.Context, token string) (*domain.Session, error) {
	if mock.GetFunc == nil {
		panic("sessionCacheMock.GetFunc: method is nil but sessionCache.Get was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{Ctx: ctx, Token: token}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, token)
}

func (mock *sessionCacheMock) GetCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockGet.RLock()
	defer mock.lockGet.RUnlock()
	return mock.calls.Get
}

func (mock *sessionCacheMock) Set(ctx context.Context, session *domain.Session) error {
	if mock.SetFunc == nil {
		panic("sessionCacheMock.SetFunc: method is nil but sessionCache.Set was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Session *domain.Session
	}{Ctx: ctx, Session: session}
	mock.lockSet.Lock()
	mock.calls.Set = append(mock.calls.Set, callInfo)
	mock.lockSet.Unlock()
	return mock.SetFunc(ctx, session)
}

func (mock *sessionCacheMock) SetCalls() []struct {
	Ctx     context.Context
	Session *domain.Session
} {
	mock.lockSet.RLock()
	defer mock.lockSet.RUnlock()
	return mock.calls.Set
}

func (mock *sessionCacheMock) Delete(ctx context.Context, token string) error {
	if mock.DeleteFunc == nil {
		panic("sessionCacheMock.DeleteFunc: method is nil but sessionCache.Delete was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{Ctx: ctx, Token: token}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, token)
}

func (mock *sessionCacheMock) DeleteCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockDelete.RLock()
	defer mock.lockDelete.RUnlock()
	return mock.calls.Delete
}

var _ geoResolver = &geoResolverMock{}

type geoResolverMock struct {
	LookupFunc func(ctx context.Context, ip string) (*domain.GeoInfo, error)

	calls struct {
		Lookup []struct {
			Ctx context.Context
			IP  string
		}
	}
	lockLookup sync.RWMutex
}

func (mock *geoResolverMock) Lookup(ctx context.Context, ip string) (*domain.GeoInfo, error) {
	if mock.LookupFunc == nil {
		panic("geoResolverMock.LookupFunc: method is nil but geoResolver.Lookup was just called")
	}
	callInfo := struct {
		Ctx context.Context
		IP  string
	}{Ctx: ctx, IP: ip}
	mock.lockLookup.Lock()
	mock.calls.Lookup = append(mock.calls.Lookup, callInfo)
	mock.lockLookup.Unlock()
	return mock.LookupFunc(ctx, ip)
}

func (mock *geoResolverMock) LookupCalls() []struct {
	Ctx context.Context
	IP  string
} {
	mock.lockLookup.RLock()
	defer mock.lockLookup.RUnlock()
	return mock.calls.Lookup
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
	defer mock.lockRecord.RUnlock()
	return mock.calls.Record
}
