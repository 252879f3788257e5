package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

var _ sessionStore = &sessionStoreMock{}

type sessionStoreMock struct {
	CreateFunc                func(ctx context.Context, session *domain.Session) (*domain.Session, error)
	GetByTokenFunc            func(ctx context.Context, token string) (*domain.Session, error)
	GetByRefreshTokenHashFunc func(ctx context.Context, hash string) (*domain.Session, error)
	GetByUserFunc             func(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Session, int, error)
	GetActiveByUserFunc       func(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
	TouchFunc                 func(ctx context.Context, sessionID uuid.UUID, at time.Time) error
	TerminateFunc             func(ctx context.Context, sessionID uuid.UUID, to domain.SessionStatus, reason string, at time.Time) (*domain.Session, error)
	ExpireBeforeFunc          func(ctx context.Context, now time.Time) (int, error)
	IdleBeforeFunc            func(ctx context.Context, now, cutoff time.Time) (int, error)
	RecentCountriesFunc       func(ctx context.Context, userID uuid.UUID, since time.Time) ([]string, error)
	RecentFingerprintsFunc    func(ctx context.Context, userID uuid.UUID, since time.Time) ([]string, error)
	AddActivityFunc           func(ctx context.Context, activity *domain.SessionActivity) error
	ListActivityFunc          func(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.SessionActivity, error)

	calls struct {
		Create []struct {
			Ctx     context.Context
			Session *domain.Session
		}
		GetByToken []struct {
			Ctx   context.Context
			Token string
		}
		GetByRefreshTokenHash []struct {
			Ctx  context.Context
			Hash string
		}
		GetByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Limit  int
			Offset int
		}
		GetActiveByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		Touch []struct {
			Ctx       context.Context
			SessionID uuid.UUID
			At        time.Time
		}
		Terminate []struct {
			Ctx       context.Context
			SessionID uuid.UUID
			To        domain.SessionStatus
			Reason    string
			At        time.Time
		}
		ExpireBefore []struct {
			Ctx context.Context
			Now time.Time
		}
		IdleBefore []struct {
			Ctx    context.Context
			Now    time.Time
			Cutoff time.Time
		}
		RecentCountries []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Since  time.Time
		}
		RecentFingerprints []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Since  time.Time
		}
		AddActivity []struct {
			Ctx      context.Context
			Activity *domain.SessionActivity
		}
		ListActivity []struct {
			Ctx       context.Context
			SessionID uuid.UUID
			Limit     int
		}
	}
	lockCreate                sync.RWMutex
	lockGetByToken            sync.RWMutex
	lockGetByRefreshTokenHash sync.RWMutex
	lockGetByUser             sync.RWMutex
	lockGetActiveByUser       sync.RWMutex
	lockTouch                 sync.RWMutex
	lockTerminate             sync.RWMutex
	lockExpireBefore          sync.RWMutex
	lockIdleBefore            sync.RWMutex
	lockRecentCountries       sync.RWMutex
	lockRecentFingerprints    sync.RWMutex
	lockAddActivity           sync.RWMutex
	lockListActivity          sync.RWMutex
}

func (mock *sessionStoreMock) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if mock.CreateFunc == nil {
		panic("sessionStoreMock.CreateFunc: method is nil but sessionStore.Create was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Session *domain.Session
	}{Ctx: ctx, Session: session}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, session)
}

func (mock *sessionStoreMock) CreateCalls() []struct {
	Ctx     context.Context
	Session *domain.Session
} {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *sessionStoreMock) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	if mock.GetByTokenFunc == nil {
		panic("sessionStoreMock.GetByTokenFunc: method is nil but sessionStore.GetByToken was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Token string
	}{Ctx: ctx, Token: token}
	mock.lockGetByToken.Lock()
	mock.calls.GetByToken = append(mock.calls.GetByToken, callInfo)
	mock.lockGetByToken.Unlock()
	return mock.GetByTokenFunc(ctx, token)
}

func (mock *sessionStoreMock) GetByTokenCalls() []struct {
	Ctx   context.Context
	Token string
} {
	mock.lockGetByToken.RLock()
	defer mock.lockGetByToken.RUnlock()
	return mock.calls.GetByToken
}

func (mock *sessionStoreMock) GetByRefreshTokenHash(ctx context.Context, hash string) (*domain.Session, error) {
	if mock.GetByRefreshTokenHashFunc == nil {
		panic("sessionStoreMock.GetByRefreshTokenHashFunc: method is nil but sessionStore.GetByRefreshTokenHash was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Hash string
	}{Ctx: ctx, Hash: hash}
	mock.lockGetByRefreshTokenHash.Lock()
	mock.calls.GetByRefreshTokenHash = append(mock.calls.GetByRefreshTokenHash, callInfo)
	mock.lockGetByRefreshTokenHash.Unlock()
	return mock.GetByRefreshTokenHashFunc(ctx, hash)
}

func (mock *sessionStoreMock) GetByRefreshTokenHashCalls() []struct {
	Ctx  context.Context
	Hash string
} {
	mock.lockGetByRefreshTokenHash.RLock()
	defer mock.lockGetByRefreshTokenHash.RUnlock()
	return mock.calls.GetByRefreshTokenHash
}

func (mock *sessionStoreMock) GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Session, int, error) {
	if mock.GetByUserFunc == nil {
		panic("sessionStoreMock.GetByUserFunc: method is nil but sessionStore.GetByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Limit  int
		Offset int
	}{Ctx: ctx, UserID: userID, Limit: limit, Offset: offset}
	mock.lockGetByUser.Lock()
	mock.calls.GetByUser = append(mock.calls.GetByUser, callInfo)
	mock.lockGetByUser.Unlock()
	return mock.GetByUserFunc(ctx, userID, limit, offset)
}

func (mock *sessionStoreMock) GetByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Limit  int
	Offset int
} {
	mock.lockGetByUser.RLock()
	defer mock.lockGetByUser.RUnlock()
	return mock.calls.GetByUser
}

func (mock *sessionStoreMock) GetActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	if mock.GetActiveByUserFunc == nil {
		panic("sessionStoreMock.GetActiveByUserFunc: method is nil but sessionStore.GetActiveByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{Ctx: ctx, UserID: userID}
	mock.lockGetActiveByUser.Lock()
	mock.calls.GetActiveByUser = append(mock.calls.GetActiveByUser, callInfo)
	mock.lockGetActiveByUser.Unlock()
	return mock.GetActiveByUserFunc(ctx, userID)
}

func (mock *sessionStoreMock) GetActiveByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockGetActiveByUser.RLock()
	defer mock.lockGetActiveByUser.RUnlock()
	return mock.calls.GetActiveByUser
}

func (mock *sessionStoreMock) Touch(ctx context.Context, sessionID uuid.UUID, at time.Time) error {
	if mock.TouchFunc == nil {
		panic("sessionStoreMock.TouchFunc: method is nil but sessionStore.Touch was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		SessionID uuid.UUID
		At        time.Time
	}{Ctx: ctx, SessionID: sessionID, At: at}
	mock.lockTouch.Lock()
	mock.calls.Touch = append(mock.calls.Touch, callInfo)
	mock.lockTouch.Unlock()
	return mock.TouchFunc(ctx, sessionID, at)
}

func (mock *sessionStoreMock) TouchCalls() []struct {
	Ctx       context.Context
	SessionID uuid.UUID
	At        time.Time
} {
	mock.lockTouch.RLock()
	defer mock.lockTouch.RUnlock()
	return mock.calls.Touch
}

func (mock *sessionStoreMock) Terminate(ctx context.Context, sessionID uuid.UUID, to domain.SessionStatus, reason string, at time.Time) (*domain.Session, error) {
	if mock.TerminateFunc == nil {
		panic("sessionStoreMock.TerminateFunc: method is nil but sessionStore.Terminate was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		SessionID uuid.UUID
		To        domain.SessionStatus
		Reason    string
		At        time.Time
	}{Ctx: ctx, SessionID: sessionID, To: to, Reason: reason, At: at}
	mock.lockTerminate.Lock()
	mock.calls.Terminate = append(mock.calls.Terminate, callInfo)
	mock.lockTerminate.Unlock()
	return mock.TerminateFunc(ctx, sessionID, to, reason, at)
}

func (mock *sessionStoreMock) TerminateCalls() []struct {
	Ctx       context.Context
	SessionID uuid.UUID
	To        domain.SessionStatus
	Reason    string
	At        time.Time
} {
	mock.lockTerminate.RLock()
	defer mock.lockTerminate.RUnlock()
	return mock.calls.Terminate
}

func (mock *sessionStoreMock) ExpireBefore(ctx context.Context, now time.Time) (int, error) {
	if mock.ExpireBeforeFunc == nil {
		panic("sessionStoreMock.ExpireBeforeFunc: method is nil but sessionStore.ExpireBefore was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Now time.Time
	}{Ctx: ctx, Now: now}
	mock.lockExpireBefore.Lock()
	mock.calls.ExpireBefore = append(mock.calls.ExpireBefore, callInfo)
	mock.lockExpireBefore.Unlock()
	return mock.ExpireBeforeFunc(ctx, now)
}

func (mock *sessionStoreMock) ExpireBeforeCalls() []struct {
	Ctx context.Context
	Now time.Time
} {
	mock.lockExpireBefore.RLock()
	defer mock.lockExpireBefore.RUnlock()
	return mock.calls.ExpireBefore
}

func (mock *sessionStoreMock) IdleBefore(ctx context.Context, now, cutoff time.Time) (int, error) {
	if mock.IdleBeforeFunc == nil {
		panic("sessionStoreMock.IdleBeforeFunc: method is nil but sessionStore.IdleBefore was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Now    time.Time
		Cutoff time.Time
	}{Ctx: ctx, Now: now, Cutoff: cutoff}
	mock.lockIdleBefore.Lock()
	mock.calls.IdleBefore = append(mock.calls.IdleBefore, callInfo)
	mock.lockIdleBefore.Unlock()
	return mock.IdleBeforeFunc(ctx, now, cutoff)
}

func (mock *sessionStoreMock) IdleBeforeCalls() []struct {
	Ctx    context.Context
	Now    time.Time
	Cutoff time.Time
} {
	mock.lockIdleBefore.RLock()
	defer mock.lockIdleBefore.RUnlock()
	return mock.calls.IdleBefore
}

func (mock *sessionStoreMock) RecentCountries(ctx context.Context, userID uuid.UUID, since time.Time) ([]string, error) {
	if mock.RecentCountriesFunc == nil {
		panic("sessionStoreMock.RecentCountriesFunc: method is nil but sessionStore.RecentCountries was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Since  time.Time
	}{Ctx: ctx, UserID: userID, Since: since}
	mock.lockRecentCountries.Lock()
	mock.calls.RecentCountries = append(mock.calls.RecentCountries, callInfo)
	mock.lockRecentCountries.Unlock()
	return mock.RecentCountriesFunc(ctx, userID, since)
}

func (mock *sessionStoreMock) RecentCountriesCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Since  time.Time
} {
	mock.lockRecentCountries.RLock()
	defer mock.lockRecentCountries.RUnlock()
	return mock.calls.RecentCountries
}

func (mock *sessionStoreMock) RecentFingerprints(ctx context.Context, userID uuid.UUID, since time.Time) ([]string, error) {
	if mock.RecentFingerprintsFunc == nil {
		panic("sessionStoreMock.RecentFingerprintsFunc: method is nil but sessionStore.RecentFingerprints was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Since  time.Time
	}{Ctx: ctx, UserID: userID, Since: since}
	mock.lockRecentFingerprints.Lock()
	mock.calls.RecentFingerprints = append(mock.calls.RecentFingerprints, callInfo)
	mock.lockRecentFingerprints.Unlock()
	return mock.RecentFingerprintsFunc(ctx, userID, since)
}

func (mock *sessionStoreMock) RecentFingerprintsCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Since  time.Time
} {
	mock.lockRecentFingerprints.RLock()
	defer mock.lockRecentFingerprints.RUnlock()
	return mock.calls.RecentFingerprints
}

func (mock *sessionStoreMock) AddActivity(ctx context.Context, activity *domain.SessionActivity) error {
	if mock.AddActivityFunc == nil {
		panic("sessionStoreMock.AddActivityFunc: method is nil but sessionStore.AddActivity was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Activity *domain.SessionActivity
	}{Ctx: ctx, Activity: activity}
	mock.lockAddActivity.Lock()
	mock.calls.AddActivity = append(mock.calls.AddActivity, callInfo)
	mock.lockAddActivity.Unlock()
	return mock.AddActivityFunc(ctx, activity)
}

func (mock *sessionStoreMock) AddActivityCalls() []struct {
	Ctx      context.Context
	Activity *domain.SessionActivity
} {
	mock.lockAddActivity.RLock()
	defer mock.lockAddActivity.RUnlock()
	return mock.calls.AddActivity
}

func (mock *sessionStoreMock) ListActivity(ctx context.Context, sessionID uuid.UUID, limit int) ([]*domain.SessionActivity, error) {
	if mock.ListActivityFunc == nil {
		panic("sessionStoreMock.ListActivityFunc: method is nil but sessionStore.ListActivity was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		SessionID uuid.UUID
		Limit     int
	}{Ctx: ctx, SessionID: sessionID, Limit: limit}
	mock.lockListActivity.Lock()
	mock.calls.ListActivity = append(mock.calls.ListActivity, callInfo)
	mock.lockListActivity.Unlock()
	return mock.ListActivityFunc(ctx, sessionID, limit)
}

func (mock *sessionStoreMock) ListActivityCalls() []struct {
	Ctx       context.Context
	SessionID uuid.UUID
	Limit     int
} {
	mock.lockListActivity.RLock()
	defer mock.lockListActivity.RUnlock()
	return mock.calls.ListActivity
}
