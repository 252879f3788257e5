package threat

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
	auditsvc "github.com/medovate/clinic-backend/internal/service/audit"
)

var _ sessionController = &sessionControllerMock{}

type sessionControllerMock struct {
	ListActiveFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	TerminateFunc  func(ctx context.Context, token, reason string) (*domain.Session, error)
	BlockFunc      func(ctx context.Context, token, reason string) (*domain.Session, error)
	QuarantineFunc func(ctx context.Context, token, reason string) (*domain.Session, error)

	calls struct {
		ListActive []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		Terminate []struct {
			Ctx    context.Context
			Token  string
			Reason string
		}
		Block []struct {
			Ctx    context.Context
			Token  string
			Reason string
		}
		Quarantine []struct {
			Ctx    context.Context
			Token  string
			Reason string
		}
	}
	lockListActive sync.RWMutex
	lockTerminate  sync.RWMutex
	lockBlock      sync.RWMutex
	lockQuarantine sync.RWMutex
}

func (mock *sessionControllerMock) ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	if mock.ListActiveFunc == nil {
		panic("sessionControllerMock.ListActiveFunc: method is nil but sessionController.ListActive was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{Ctx: ctx, UserID: userID}
	mock.lockListActive.Lock()
	mock.calls.ListActive = append(mock.calls.ListActive, callInfo)
	mock.lockListActive.Unlock()
	return mock.ListActiveFunc(ctx, userID)
}

func (mock *sessionControllerMock) ListActiveCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockListActive.RLock()
	defer mock.lockListActive.RUnlock()
	return mock.calls.ListActive
}

func (mock *sessionControllerMock) Terminate(ctx context.Context, token, reason string) (*domain.Session, error) {
	if mock.TerminateFunc == nil {
		panic("sessionControllerMock.TerminateFunc: method is nil but sessionController.Terminate was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Token  string
		Reason string
	}{Ctx: ctx, Token: token, Reason: reason}
	mock.lockTerminate.Lock()
	mock.calls.Terminate = append(mock.calls.Terminate, callInfo)
	mock.lockTerminate.Unlock()
	return mock.TerminateFunc(ctx, token, reason)
}

func (mock *sessionControllerMock) TerminateCalls() []struct {
	Ctx    context.Context
	Token  string
	Reason string
} {
	mock.lockTerminate.RLock()
	defer mock.lockTerminate.RUnlock()
	return mock.calls.Terminate
}

func (mock *sessionControllerMock) Block(ctx context.Context, token, reason string) (*domain.Session, error) {
	if mock.BlockFunc == nil {
		panic("sessionControllerMock.BlockFunc: method is nil but sessionController.Block was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Token  string
		Reason string
	}{Ctx: ctx, Token: token, Reason: reason}
	mock.lockBlock.Lock()
	mock.calls.Block = append(mock.calls.Block, callInfo)
	mock.lockBlock.Unlock()
	return mock.BlockFunc(ctx, token, reason)
}

func (mock *sessionControllerMock) BlockCalls() []struct {
	Ctx    context.Context
	Token  string
	Reason string
} {
	mock.lockBlock.RLock()
	defer mock.lockBlock.RUnlock()
	return mock.calls.Block
}

func (mock *sessionControllerMock) Quarantine(ctx context.Context, token, reason string) (*domain.Session, error) {
	if mock.QuarantineFunc == nil {
		panic("sessionControllerMock.QuarantineFunc: method is nil but sessionController.Quarantine was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Token  string
		Reason string
	}{Ctx: ctx, Token: token, Reason: reason}
	mock.lockQuarantine.Lock()
	mock.calls.Quarantine = append(mock.calls.Quarantine, callInfo)
	mock.lockQuarantine.Unlock()
	return mock.QuarantineFunc(ctx, token, reason)
}

func (mock *sessionControllerMock) QuarantineCalls() []struct {
	Ctx    context.Context
	Token  string
	Reason string
} {
	mock.lockQuarantine.RLock()
	defer mock.lockQuarantine.RUnlock()
	return mock.calls.Quarantine
}

var _ notifier = &notifierMock{}

type notifierMock struct {
	NotifyFunc func(ctx context.Context, event *domain.SecurityEvent)

	calls struct {
		Notify []struct {
			Ctx   context.Context
			Event *domain.SecurityEvent
		}
	}
	lockNotify sync.RWMutex
}

func (mock *notifierMock) Notify(ctx context.Context, event *domain.SecurityEvent) {
	if mock.NotifyFunc == nil {
		panic("notifierMock.NotifyFunc: method is nil but notifier.Notify was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Event *domain.SecurityEvent
	}{Ctx: ctx, Event: event}
	mock.lockNotify.Lock()
	mock.calls.Notify = append(mock.calls.Notify, callInfo)
	mock.lockNotify.Unlock()
	mock.NotifyFunc(ctx, event)
}

func (mock *notifierMock) NotifyCalls() []struct {
	Ctx   context.Context
	Event *domain.SecurityEvent
} {
	mock.lockNotify.RLock()
	defer mock.lockNotify.RUnlock()
	return mock.calls.Notify
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
