package session

import "github.com/medovate/clinic-backend/internal/domain"

// CreateResult is returned from Create. RefreshToken is the only place the
// raw refresh token ever appears; the store keeps a hash.
type CreateResult struct {
	Session      *domain.Session
	Token        string
	RefreshToken string
}

// ListResult is one page of a user's session history.
type ListResult struct {
	Sessions []*domain.Session
	Total    int
	Limit    int
	Offset   int
}

// PurgeResult reports how many sessions a sweep transitioned.
type PurgeResult struct {
	Expired int
	Idle    int
}
