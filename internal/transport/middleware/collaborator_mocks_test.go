package middleware

import (
	"context"
	"sync"

	"github.com/medovate/clinic-backend/internal/auth"
	"github.com/medovate/clinic-backend/internal/domain"
	"github.com/medovate/clinic-backend/internal/service/threat"
)

var _ accessTokenParser = &accessTokenParserMock{}

type accessTokenParserMock struct {
	ValidateAccessTokenFunc func(token string) (auth.Identity, error)

	calls struct {
		ValidateAccessToken []struct {
			Token string
		}
	}
	lockValidateAccessToken sync.RWMutex
}

func (mock *accessTokenParserMock) ValidateAccessToken(token string) (auth.Identity, error) {
	if mock.ValidateAccessTokenFunc == nil {
		panic("accessTokenParserMock.ValidateAccessTokenFunc: method is nil but accessTokenParser.ValidateAccessToken was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockValidateAccessToken.Lock()
	mock.calls.ValidateAccessToken = append(mock.calls.ValidateAccessToken, callInfo)
	mock.lockValidateAccessToken.Unlock()
	return mock.ValidateAccessTokenFunc(token)
}

func (mock *accessTokenParserMock) ValidateAccessTokenCalls() []struct {
	Token string
} {
	mock.lockValidateAccessToken.RLock()
	calls := mock.calls.ValidateAccessToken
	mock.lockValidateAccessToken.RUnlock()
	return calls
}

var _ sessionValidator = &sessionValidatorMock{}

type sessionValidatorMock struct {
	ValidateFunc func(ctx context.Context, token string, reqCtx *domain.RequestContext) (*domain.Session, error)

	calls struct {
		Validate []struct {
			Ctx    context.Context
			Token  string
			ReqCtx *domain.RequestContext
		}
	}
	lockValidate sync.RWMutex
}

func (mock *sessionValidatorMock) Validate(ctx context.Context, token string, reqCtx *domain.RequestContext) (*domain.Session, error) {
	if mock.ValidateFunc == nil {
		panic("sessionValidatorMock.ValidateFunc: method is nil but sessionValidator.Validate was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Token  string
		ReqCtx *domain.RequestContext
	}{Ctx: ctx, Token: token, ReqCtx: reqCtx}
	mock.lockValidate.Lock()
	mock.calls.Validate = append(mock.calls.Validate, callInfo)
	mock.lockValidate.Unlock()
	return mock.ValidateFunc(ctx, token, reqCtx)
}

func (mock *sessionValidatorMock) ValidateCalls() []struct {
	Ctx    context.Context
	Token  string
	ReqCtx *domain.RequestContext
} {
	mock.lockValidate.RLock()
	calls := mock.calls.Validate
	mock.lockValidate.RUnlock()
	return calls
}

var _ threatMonitor = &threatMonitorMock{}

type threatMonitorMock struct {
	IsBlockedFunc   func(sourceID string) bool
	IsThrottledFunc func(sourceID string) bool
	OnRequestFunc   func(ctx context.Context, input threat.RequestInput) ([]*domain.SecurityEvent, error)

	calls struct {
		IsBlocked []struct {
			SourceID string
		}
		IsThrottled []struct {
			SourceID string
		}
		OnRequest []struct {
			Ctx   context.Context
			Input threat.RequestInput
		}
	}
	lockIsBlocked   sync.RWMutex
	lockIsThrottled sync.RWMutex
	lockOnRequest   sync.RWMutex
}

func (mock *threatMonitorMock) IsBlocked(sourceID string) bool {
	if mock.IsBlockedFunc == nil {
		panic("threatMonitorMock.IsBlockedFunc: method is nil but threatMonitor.IsBlocked was just called")
	}
	callInfo := struct {
		SourceID string
	}{SourceID: sourceID}
	mock.lockIsBlocked.Lock()
	mock.calls.IsBlocked = append(mock.calls.IsBlocked, callInfo)
	mock.lockIsBlocked.Unlock()
	return mock.IsBlockedFunc(sourceID)
}

func (mock *threatMonitorMock) IsBlockedCalls() []struct {
	SourceID string
} {
	mock.lockIsBlocked.RLock()
	calls := mock.calls.IsBlocked
	mock.lockIsBlocked.RUnlock()
	return calls
}

func (mock *threatMonitorMock) IsThrottled(sourceID string) bool {
	if mock.IsThrottledFunc == nil {
		panic("threatMonitorMock.IsThrottledFunc: method is nil but threatMonitor.IsThrottled was just called")
	}
	callInfo := struct {
		SourceID string
	}{SourceID: sourceID}
	mock.lockIsThrottled.Lock()
	mock.calls.IsThrottled = append(mock.calls.IsThrottled, callInfo)
	mock.lockIsThrottled.Unlock()
	return mock.IsThrottledFunc(sourceID)
}

func (mock *threatMonitorMock) IsThrottledCalls() []struct {
	SourceID string
} {
	mock.lockIsThrottled.RLock()
	calls := mock.calls.IsThrottled
	mock.lockIsThrottled.RUnlock()
	return calls
}

func (mock *threatMonitorMock) OnRequest(ctx context.Context, input threat.RequestInput) ([]*domain.SecurityEvent, error) {
	if mock.OnRequestFunc == nil {
		panic("threatMonitorMock.OnRequestFunc: method is nil but threatMonitor.OnRequest was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input threat.RequestInput
	}{Ctx: ctx, Input: input}
	mock.lockOnRequest.Lock()
	mock.calls.OnRequest = append(mock.calls.OnRequest, callInfo)
	mock.lockOnRequest.Unlock()
	return mock.OnRequestFunc(ctx, input)
}

func (mock *threatMonitorMock) OnRequestCalls() []struct {
	Ctx   context.Context
	Input threat.RequestInput
} {
	mock.lockOnRequest.RLock()
	calls := mock.calls.OnRequest
	mock.lockOnRequest.RUnlock()
	return calls
}
