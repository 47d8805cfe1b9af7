package entity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

// PostgresStore persists entities in PostgreSQL for durable deployments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the entities table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS entities (
			id               TEXT PRIMARY KEY,
			name             TEXT NOT NULL,
			compliance_score BIGINT NOT NULL,
			last_updated     BIGINT NOT NULL,
			status           TEXT NOT NULL,
			violations       BIGINT NOT NULL,
			risk_category    TEXT NOT NULL,
			next_audit_due   BIGINT NOT NULL,
			escalation_level BIGINT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure entities schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, entityID id.EntityID) (*models.Entity, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, compliance_score, last_updated, status, violations,
		       risk_category, next_audit_due, escalation_level
		FROM entities WHERE id = $1
	`, entityID.String())

	e, err := scanEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entity")
	}
	return e, nil
}

func (s *PostgresStore) Insert(ctx context.Context, e *models.Entity) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO entities (id, name, compliance_score, last_updated, status,
		                      violations, risk_category, next_audit_due, escalation_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, e.ID.String(), e.Name, int64(e.ComplianceScore), int64(e.LastUpdated), e.Status.String(),
		int64(e.Violations), e.RiskCategory.String(), int64(e.NextAuditDue), int64(e.EscalationLevel))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert entity")
	}
	if tag.RowsAffected() == 0 {
		return dErrors.Newf(dErrors.CodeAlreadyExists, "entity %s already registered", e.ID)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, e *models.Entity) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE entities
		SET name = $2, compliance_score = $3, last_updated = $4, status = $5,
		    violations = $6, risk_category = $7, next_audit_due = $8, escalation_level = $9
		WHERE id = $1
	`, e.ID.String(), e.Name, int64(e.ComplianceScore), int64(e.LastUpdated), e.Status.String(),
		int64(e.Violations), e.RiskCategory.String(), int64(e.NextAuditDue), int64(e.EscalationLevel))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update entity")
	}
	if tag.RowsAffected() == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "entity %s not found", e.ID)
	}
	return nil
}

// GetBatch reads the cohort in one query so the snapshot is consistent.
func (s *PostgresStore) GetBatch(ctx context.Context, entityIDs []id.EntityID) ([]*models.Entity, error) {
	ids := make([]string, len(entityIDs))
	for i, entityID := range entityIDs {
		ids[i] = entityID.String()
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, compliance_score, last_updated, status, violations,
		       risk_category, next_audit_due, escalation_level
		FROM entities WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entities")
	}
	defer rows.Close()

	byID := make(map[id.EntityID]*models.Entity, len(entityIDs))
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan entity")
		}
		byID[e.ID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read entities")
	}

	out := make([]*models.Entity, 0, len(entityIDs))
	for _, entityID := range entityIDs {
		e, exists := byID[entityID]
		if !exists {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "entity %s not found", entityID)
		}
		out = append(out, e)
	}
	return out, nil
}

func scanEntity(row pgx.Row) (*models.Entity, error) {
	var (
		e                                                           models.Entity
		entityID, status, riskCategory                              string
		score, lastUpdated, violations, nextAuditDue, escalationLvl int64
	)
	err := row.Scan(&entityID, &e.Name, &score, &lastUpdated, &status,
		&violations, &riskCategory, &nextAuditDue, &escalationLvl)
	if err != nil {
		return nil, err
	}
	e.ID = id.EntityID(entityID)
	e.ComplianceScore = uint64(score)
	e.LastUpdated = uint64(lastUpdated)
	e.Status = models.ComplianceStatus(status)
	e.Violations = uint64(violations)
	e.RiskCategory = models.RiskCategory(riskCategory)
	e.NextAuditDue = uint64(nextAuditDue)
	e.EscalationLevel = uint64(escalationLvl)
	return &e, nil
}
