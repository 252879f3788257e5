// Package rediscache provides a Redis-backed read-through cache for
// session lookups. The cache is an optimization only: every cache miss
// or Redis failure falls back to PostgreSQL in the service layer.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/medovate/clinic-backend/internal/config"
	"github.com/medovate/clinic-backend/internal/domain"
)

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// SessionCache caches sessions by opaque token with a fixed TTL.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a session cache with the given entry TTL.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func sessionKey(token string) string {
	return "session:" + token
}

// sessionJSON is the cache wire format for domain.Session.
// Domain types have no json tags, so the cache layer handles serialization.
type sessionJSON struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Token             string     `json:"token"`
	RefreshToken      string     `json:"refresh_token"`
	IP                string     `json:"ip"`
	UserAgent         string     `json:"user_agent"`
	Device            string     `json:"device"`
	Browser           string     `json:"browser"`
	OS                string     `json:"os"`
	Fingerprint       string     `json:"fingerprint"`
	GeoCountry        string     `json:"geo_country,omitempty"`
	GeoCity           string     `json:"geo_city,omitempty"`
	Status            string     `json:"status"`
	LoginMethod       string     `json:"login_method"`
	CreatedAt         time.Time  `json:"created_at"`
	LastActivityAt    time.Time  `json:"last_activity_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	TerminatedAt      *time.Time `json:"terminated_at,omitempty"`
	TerminationReason *string    `json:"termination_reason,omitempty"`
}

// Get returns a cached session by token.
// Returns domain.ErrNotFound on a cache miss.
func (c *SessionCache) Get(ctx context.Context, token string) (*domain.Session, error) {
	raw, err := c.client.Get(ctx, sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("session cache: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("session cache get: %w", err)
	}

	var j sessionJSON
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, fmt.Errorf("session cache unmarshal: %w", err)
	}

	return fromJSON(j)
}

// Set stores a session under its token for the configured TTL.
func (c *SessionCache) Set(ctx context.Context, session *domain.Session) error {
	raw, err := json.Marshal(toJSON(session))
	if err != nil {
		return fmt.Errorf("session cache marshal: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(session.Token), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("session cache set: %w", err)
	}

	return nil
}

// Delete evicts a session from the cache. A missing key is not an error.
func (c *SessionCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("session cache delete: %w", err)
	}
	return nil
}

func toJSON(s *domain.Session) sessionJSON {
	j := sessionJSON{
		ID:                s.ID.String(),
		UserID:            s.UserID.String(),
		Token:             s.Token,
		RefreshToken:      s.RefreshToken,
		IP:                s.IP,
		UserAgent:         s.UserAgent,
		Device:            s.Device,
		Browser:           s.Browser,
		OS:                s.OS,
		Fingerprint:       s.Fingerprint,
		Status:            string(s.Status),
		LoginMethod:       string(s.LoginMethod),
		CreatedAt:         s.CreatedAt,
		LastActivityAt:    s.LastActivityAt,
		ExpiresAt:         s.ExpiresAt,
		TerminatedAt:      s.TerminatedAt,
		TerminationReason: s.TerminationReason,
	}
	if s.Geo != nil {
		j.GeoCountry = s.Geo.Country
		j.GeoCity = s.Geo.City
	}
	return j
}

func fromJSON(j sessionJSON) (*domain.Session, error) {
	id, err := uuid.Parse(j.ID)
	if err != nil {
		return nil, fmt.Errorf("session cache: parse id: %w", err)
	}
	userID, err := uuid.Parse(j.UserID)
	if err != nil {
		return nil, fmt.Errorf("session cache: parse user_id: %w", err)
	}

	s := &domain.Session{
		ID:                id,
		UserID:            userID,
		Token:             j.Token,
		RefreshToken:      j.RefreshToken,
		IP:                j.IP,
		UserAgent:         j.UserAgent,
		Device:            j.Device,
		Browser:           j.Browser,
		OS:                j.OS,
		Fingerprint:       j.Fingerprint,
		Status:            domain.SessionStatus(j.Status),
		LoginMethod:       domain.LoginMethod(j.LoginMethod),
		CreatedAt:         j.CreatedAt,
		LastActivityAt:    j.LastActivityAt,
		ExpiresAt:         j.ExpiresAt,
		TerminatedAt:      j.TerminatedAt,
		TerminationReason: j.TerminationReason,
	}
	if j.GeoCountry != "" {
		s.Geo = &domain.GeoInfo{Country: j.GeoCountry, City: j.GeoCity}
	}
	return s, nil
}
