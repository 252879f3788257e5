package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
	sessionsvc "github.com/medovate/clinic-backend/internal/service/session"
	"github.com/medovate/clinic-backend/pkg/ctxutil"
)

// identityVerifier answers "who is this and may they sign in". The staff
// directory side owns accounts; this handler only consumes the verdict.
type identityVerifier interface {
	Verify(ctx context.Context, email, password string) (*domain.StaffMember, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StaffMember, error)
}

// sessionManager defines the session lifecycle operations the handler needs.
type sessionManager interface {
	Create(ctx context.Context, input sessionsvc.CreateInput) (*sessionsvc.CreateResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.Session, error)
	Terminate(ctx context.Context, token, reason string) (*domain.Session, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error)
}

// tokenIssuer mints session-bound access tokens.
type tokenIssuer interface {
	GenerateAccessToken(userID uuid.UUID, role string, sessionToken string) (string, error)
}

// loginMonitor feeds login attempts to threat detection.
type loginMonitor interface {
	OnLoginAttempt(ctx context.Context, sourceID string, userID uuid.UUID, success bool, userAgent string) (*domain.SecurityEvent, error)
}

// AuthHandler serves auth REST endpoints.
type AuthHandler struct {
	identity identityVerifier
	sessions sessionManager
	tokens   tokenIssuer
	threats  loginMonitor
	log      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(identity identityVerifier, sessions sessionManager, tokens tokenIssuer, threats loginMonitor, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		sessions: sessions,
		tokens:   tokens,
		threats:  threats,
		log:      logger.With("handler", "auth"),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresAt    time.Time     `json:"expiresAt"`
	User         staffResponse `json:"user"`
}

type refreshResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type staffResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type sessionResponse struct {
	Token          string    `json:"token"`
	IP             string    `json:"ip"`
	Device         string    `json:"device"`
	Browser        string    `json:"browser"`
	OS             string    `json:"os"`
	Country        string    `json:"country,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Login handles POST /auth/login. Credential failures, unknown accounts,
// and deactivated accounts all answer the same generic 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source := sourceOf(r)

	member, verifyErr := h.identity.Verify(r.Context(), req.Email, req.Password)

	attemptUser := uuid.Nil
	if member != nil {
		attemptUser = member.ID
	}
	if _, err := h.threats.OnLoginAttempt(r.Context(), source, attemptUser, verifyErr == nil, r.UserAgent()); err != nil {
		if errors.Is(err, domain.ErrSourceBlocked) {
			writeError(w, http.StatusTooManyRequests, "too many failed attempts")
			return
		}
		h.log.ErrorContext(r.Context(), "login attempt tracking", slog.String("error", err.Error()))
	}

	if verifyErr != nil {
		if !errors.Is(verifyErr, domain.ErrUnauthorized) {
			h.log.ErrorContext(r.Context(), "verify credentials", slog.String("error", verifyErr.Error()))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	result, err := h.sessions.Create(r.Context(), sessionsvc.CreateInput{
		UserID:      member.ID,
		IP:          source,
		UserAgent:   r.UserAgent(),
		LoginMethod: domain.LoginPassword,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	accessToken, err := h.tokens.GenerateAccessToken(member.ID, member.Role.String(), result.Token)
	if err != nil {
		h.log.ErrorContext(r.Context(), "generate access token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken:  accessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.Session.ExpiresAt,
		User: staffResponse{
			ID:    member.ID.String(),
			Email: member.Email,
			Name:  member.Name,
			Role:  member.Role.String(),
		},
	})
}

// Refresh handles POST /auth/refresh. A valid refresh token yields a new
// access token bound to the same session.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	session, err := h.sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	member, err := h.identity.GetByID(r.Context(), session.UserID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if !member.Active {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	accessToken, err := h.tokens.GenerateAccessToken(member.ID, member.Role.String(), session.Token)
	if err != nil {
		h.log.ErrorContext(r.Context(), "generate access token", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, refreshResponse{
		AccessToken: accessToken,
		ExpiresAt:   session.ExpiresAt,
	})
}

// Logout handles POST /auth/logout. Requires an authenticated session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ctxutil.SessionTokenFromCtx(r.Context())
	if token == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if _, err := h.sessions.Terminate(r.Context(), token, "logout"); err != nil {
		// Already-terminal sessions make logout a no-op, not a failure.
		if !errors.Is(err, domain.ErrConflict) {
			h.handleError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSessions handles GET /auth/sessions: the caller's live sessions.
func (h *AuthHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sessions, err := h.sessions.ListActive(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

// TerminateSession handles DELETE /auth/sessions/{token}. Callers may only
// terminate their own sessions.
func (h *AuthHandler) TerminateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := ctxutil.UserIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	token := r.PathValue("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}

	sessions, err := h.sessions.ListActive(r.Context(), userID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	owned := false
	for _, s := range sessions {
		if s.Token == token {
			owned = true
			break
		}
	}
	if !owned {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if _, err := h.sessions.Terminate(r.Context(), token, "terminated_by_owner"); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionBlocked):
		writeError(w, http.StatusForbidden, "session blocked")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		Token:          s.Token,
		IP:             s.IP,
		Device:         s.Device,
		Browser:        s.Browser,
		OS:             s.OS,
		Status:         s.Status.String(),
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
		ExpiresAt:      s.ExpiresAt,
	}
	if s.Geo != nil {
		resp.Country = s.Geo.Country
	}
	return resp
}

// sourceOf resolves the request's source: the security middleware already
// stored the client IP; fall back to the peer address when it did not run.
func sourceOf(r *http.Request) string {
	if ip := ctxutil.SourceIPFromCtx(r.Context()); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
