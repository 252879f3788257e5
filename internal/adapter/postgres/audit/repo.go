// Package audit implements the audit trail repository using PostgreSQL.
// The table is append-only: records are inserted, searched, verified, and
// purged by retention policy, never updated.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/medovate/clinic-backend/internal/adapter/postgres"
	"github.com/medovate/clinic-backend/internal/domain"
)

// Repo provides audit trail persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new audit repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// psql builds squirrel queries with $N placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const auditColumns = `id, event_type, severity, actor_id, actor_name, actor_role, session_id,
resource_type, resource_id, action, description, before_values, after_values,
endpoint, method, status_code, latency_ms, sensitive, retention_days, checksum, created_at`

const createSQL = `
INSERT INTO audit_records (` + auditColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
RETURNING ` + auditColumns

const getByIDSQL = `
SELECT ` + auditColumns + `
FROM audit_records
WHERE id = $1`

// deleteExpiredSQL honors the per-record retention period, not a global one.
const deleteExpiredSQL = `
DELETE FROM audit_records
WHERE created_at + make_interval(days => retention_days) <= $1`

const activityByTypeSQL = `
SELECT event_type, count(*)
FROM audit_records
WHERE actor_id = $1 AND created_at >= $2
GROUP BY event_type`

const activityByDaySQL = `
SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, count(*)
FROM audit_records
WHERE actor_id = $1 AND created_at >= $2
GROUP BY day`

const activityBySeveritySQL = `
SELECT severity, count(*)
FROM audit_records
WHERE actor_id = $1 AND created_at >= $2
GROUP BY severity`

const activitySecuritySQL = `
SELECT count(*)
FROM audit_records
WHERE actor_id = $1 AND created_at >= $2 AND event_type IN ('security', 'access_denied')`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new audit record and returns the persisted domain.AuditRecord.
func (r *Repo) Create(ctx context.Context, record *domain.AuditRecord) (*domain.AuditRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	beforeJSON, err := marshalValues(record.Before)
	if err != nil {
		return nil, fmt.Errorf("audit_record %s: marshal before: %w", record.ID, err)
	}
	afterJSON, err := marshalValues(record.After)
	if err != nil {
		return nil, fmt.Errorf("audit_record %s: marshal after: %w", record.ID, err)
	}

	row := querier.QueryRow(ctx, createSQL,
		record.ID,
		string(record.EventType),
		string(record.Severity),
		record.Actor.UserID,
		record.Actor.UserName,
		string(record.Actor.Role),
		record.SessionID,
		record.Resource.Type,
		record.Resource.ID,
		record.Action,
		record.Description,
		beforeJSON,
		afterJSON,
		record.Context.Endpoint,
		record.Context.Method,
		record.Context.StatusCode,
		record.Context.LatencyMs,
		record.Sensitive,
		record.RetentionDays,
		record.Checksum,
		record.CreatedAt.UTC().Truncate(time.Microsecond),
	)

	created, err := scanRecord(row)
	if err != nil {
		return nil, mapError(err, "audit_record", record.ID)
	}

	return created, nil
}

// DeleteExpired removes records whose own retention period has elapsed at
// the given instant. Returns the number of rows removed.
func (r *Repo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, deleteExpiredSQL, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired audit_records: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an audit record by primary key.
// Returns domain.ErrNotFound if the record does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)

	record, err := scanRecord(row)
	if err != nil {
		return nil, mapError(err, "audit_record", id)
	}

	return record, nil
}

// Search returns records matching the filter, ordered by created_at DESC,
// with pagination. Returns records, total match count, and error.
func (r *Repo) Search(ctx context.Context, filter domain.AuditFilter, limit, offset int) ([]*domain.AuditRecord, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	where := filterConditions(filter)

	countSQL, countArgs, err := psql.Select("count(*)").From("audit_records").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build audit count query: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit_records: %w", err)
	}

	searchSQL, searchArgs, err := psql.Select(auditColumns).
		From("audit_records").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build audit search query: %w", err)
	}

	rows, err := querier.Query(ctx, searchSQL, searchArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("search audit_records: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("search audit_records: %w", err)
	}

	return records, total, nil
}

// filterConditions translates an AuditFilter into squirrel conditions.
// Zero-valued filter fields add no condition.
func filterConditions(filter domain.AuditFilter) sq.And {
	conds := sq.And{}

	if filter.ActorID != nil {
		conds = append(conds, sq.Eq{"actor_id": *filter.ActorID})
	}
	if len(filter.EventTypes) > 0 {
		types := make([]string, len(filter.EventTypes))
		for i, t := range filter.EventTypes {
			types[i] = string(t)
		}
		conds = append(conds, sq.Eq{"event_type": types})
	}
	if filter.Severity != nil {
		conds = append(conds, sq.Eq{"severity": string(*filter.Severity)})
	}
	if filter.ResourceType != "" {
		conds = append(conds, sq.Eq{"resource_type": filter.ResourceType})
	}
	if filter.ResourceID != "" {
		conds = append(conds, sq.Eq{"resource_id": filter.ResourceID})
	}
	if filter.SensitiveOnly {
		conds = append(conds, sq.Eq{"sensitive": true})
	}
	if filter.From != nil {
		conds = append(conds, sq.GtOrEq{"created_at": filter.From.UTC()})
	}
	if filter.To != nil {
		conds = append(conds, sq.LtOrEq{"created_at": filter.To.UTC()})
	}

	if len(conds) == 0 {
		conds = append(conds, sq.Expr("TRUE"))
	}

	return conds
}

// ActorActivity aggregates an actor's records since the cutoff into
// per-type, per-day, and per-severity counts.
func (r *Repo) ActorActivity(ctx context.Context, actorID uuid.UUID, since time.Time) (*domain.ActorActivitySummary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)
	cutoff := since.UTC()

	summary := &domain.ActorActivitySummary{
		ActorID:    actorID,
		ByType:     map[domain.AuditEventType]int{},
		ByDay:      map[string]int{},
		BySeverity: map[domain.AuditSeverity]int{},
	}

	byType, err := countGroups(ctx, querier, activityByTypeSQL, actorID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("actor activity by type: %w", err)
	}
	for k, n := range byType {
		summary.ByType[domain.AuditEventType(k)] = n
		summary.Total += n
	}

	byDay, err := countGroups(ctx, querier, activityByDaySQL, actorID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("actor activity by day: %w", err)
	}
	for day, n := range byDay {
		summary.ByDay[day] = n
		if n > summary.ByDay[summary.BusiestDay] || summary.BusiestDay == "" {
			summary.BusiestDay = day
		}
	}

	bySeverity, err := countGroups(ctx, querier, activityBySeveritySQL, actorID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("actor activity by severity: %w", err)
	}
	for k, n := range bySeverity {
		summary.BySeverity[domain.AuditSeverity(k)] = n
	}

	if err := querier.QueryRow(ctx, activitySecuritySQL, actorID, cutoff).Scan(&summary.SecurityEvents); err != nil {
		return nil, fmt.Errorf("actor activity security count: %w", err)
	}

	return summary, nil
}

// countGroups runs a two-column (key, count) GROUP BY query into a map.
func countGroups(ctx context.Context, querier postgres.Querier, sql string, actorID uuid.UUID, since time.Time) (map[string]int, error) {
	rows, err := querier.Query(ctx, sql, actorID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var (
			key string
			n   int
		)
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanRecord scans a single audit record row from pgx.Row.
func scanRecord(row pgx.Row) (*domain.AuditRecord, error) {
	var (
		rec        domain.AuditRecord
		eventType  string
		severity   string
		actorRole  string
		beforeJSON []byte
		afterJSON  []byte
	)

	if err := row.Scan(
		&rec.ID, &eventType, &severity, &rec.Actor.UserID, &rec.Actor.UserName,
		&actorRole, &rec.SessionID, &rec.Resource.Type, &rec.Resource.ID,
		&rec.Action, &rec.Description, &beforeJSON, &afterJSON,
		&rec.Context.Endpoint, &rec.Context.Method, &rec.Context.StatusCode,
		&rec.Context.LatencyMs, &rec.Sensitive, &rec.RetentionDays,
		&rec.Checksum, &rec.CreatedAt,
	); err != nil {
		return nil, err
	}

	rec.EventType = domain.AuditEventType(eventType)
	rec.Severity = domain.AuditSeverity(severity)
	rec.Actor.Role = domain.Role(actorRole)

	before, err := unmarshalValues(beforeJSON)
	if err != nil {
		return nil, fmt.Errorf("audit_record %s: unmarshal before: %w", rec.ID, err)
	}
	rec.Before = before

	after, err := unmarshalValues(afterJSON)
	if err != nil {
		return nil, fmt.Errorf("audit_record %s: unmarshal after: %w", rec.ID, err)
	}
	rec.After = after

	return &rec, nil
}

// scanRecords scans multiple audit record rows from pgx.Rows.
func scanRecords(rows pgx.Rows) ([]*domain.AuditRecord, error) {
	records := []*domain.AuditRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ---------------------------------------------------------------------------
// JSONB serialization helpers
// ---------------------------------------------------------------------------

// marshalValues converts a change-set map to JSON bytes for JSONB storage.
// Returns nil for nil/empty input (stored as NULL).
func marshalValues(values map[string]any) ([]byte, error) {
	if len(values) == 0 {
		return nil, nil
	}
	return json.Marshal(values)
}

// unmarshalValues converts JSONB bytes back to a change-set map.
// Returns nil for NULL input.
func unmarshalValues(data []byte) (map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	values := map[string]any{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}

	return values, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
