package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	// Missing or weak master secret is fatal at startup: encrypted patient
	// fields would be unreadable or trivially derivable.
	if len(c.Encryption.MasterSecret) < 32 {
		return fmt.Errorf("encryption.master_secret must be at least 32 characters (got %d)", len(c.Encryption.MasterSecret))
	}

	if err := c.Session.validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Threat.validate(); err != nil {
		return fmt.Errorf("threat: %w", err)
	}
	if err := c.Audit.validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	return nil
}

func (s *SessionConfig) validate() error {
	if s.MaxPerUser <= 0 {
		return fmt.Errorf("max_per_user must be > 0 (got %d)", s.MaxPerUser)
	}
	if s.Lifetime <= 0 {
		return fmt.Errorf("lifetime must be > 0 (got %v)", s.Lifetime)
	}
	if s.IdleTimeout <= 0 || s.IdleTimeout > s.Lifetime {
		return fmt.Errorf("idle_timeout must be in (0, lifetime] (got %v)", s.IdleTimeout)
	}
	return nil
}

func (t *ThreatConfig) validate() error {
	if t.MaxLoginAttempts <= 0 {
		return fmt.Errorf("max_login_attempts must be > 0 (got %d)", t.MaxLoginAttempts)
	}
	if t.LoginWindow <= 0 {
		return fmt.Errorf("login_window must be > 0 (got %v)", t.LoginWindow)
	}
	if t.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate_limit_per_minute must be > 0 (got %d)", t.RateLimitPerMinute)
	}
	if t.BulkAccessLimit <= 0 {
		return fmt.Errorf("bulk_access_limit must be > 0 (got %d)", t.BulkAccessLimit)
	}
	if t.AnomalyDecay <= 0 || t.AnomalyDecay >= 1 {
		return fmt.Errorf("anomaly_decay must be in (0, 1) (got %v)", t.AnomalyDecay)
	}
	if t.AnomalyIncrement <= 0 {
		return fmt.Errorf("anomaly_increment must be > 0 (got %v)", t.AnomalyIncrement)
	}
	if t.AnomalyThreshold <= 0 {
		return fmt.Errorf("anomaly_threshold must be > 0 (got %v)", t.AnomalyThreshold)
	}
	return nil
}

func (a *AuditConfig) validate() error {
	if a.MaxDescriptionLen <= 0 {
		return fmt.Errorf("max_description_len must be > 0 (got %d)", a.MaxDescriptionLen)
	}
	if a.RetentionDays <= 0 {
		return fmt.Errorf("retention_days must be > 0 (got %d)", a.RetentionDays)
	}
	return nil
}
