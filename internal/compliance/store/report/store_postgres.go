package report

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vigil/internal/compliance/models"
	id "vigil/pkg/domain"
	dErrors "vigil/pkg/domain-errors"
)

// PostgresStore persists reports in PostgreSQL for durable deployments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the reports table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS reports (
			entity_id       TEXT NOT NULL,
			id              BIGINT NOT NULL,
			oracle_id       TEXT NOT NULL,
			ts              BIGINT NOT NULL,
			evidence_digest BYTEA NOT NULL,
			metrics         BIGINT[] NOT NULL,
			notes           TEXT NOT NULL,
			severity        TEXT NOT NULL,
			validated       BOOLEAN NOT NULL,
			PRIMARY KEY (entity_id, id)
		)
	`)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "ensure reports schema")
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, r *models.Report) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO reports (entity_id, id, oracle_id, ts, evidence_digest,
		                     metrics, notes, severity, validated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (entity_id, id) DO NOTHING
	`, r.EntityID.String(), int64(r.ID), r.Oracle.String(), int64(r.Timestamp),
		r.EvidenceDigest[:], toInt64s(r.Metrics), r.Notes, r.Severity, r.Validated)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to insert report")
	}
	if tag.RowsAffected() == 0 {
		return dErrors.Newf(dErrors.CodeAlreadyExists, "report %d already recorded for entity %s", r.ID, r.EntityID)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, entityID id.EntityID, reportID uint64) (*models.Report, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT entity_id, id, oracle_id, ts, evidence_digest, metrics, notes, severity, validated
		FROM reports WHERE entity_id = $1 AND id = $2
	`, entityID.String(), int64(reportID))

	r, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load report")
	}
	return r, nil
}

func (s *PostgresStore) Update(ctx context.Context, r *models.Report) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE reports SET validated = $3 WHERE entity_id = $1 AND id = $2
	`, r.EntityID.String(), int64(r.ID), r.Validated)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update report")
	}
	if tag.RowsAffected() == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "report %d not found for entity %s", r.ID, r.EntityID)
	}
	return nil
}

func (s *PostgresStore) ListByEntity(ctx context.Context, entityID id.EntityID) ([]*models.Report, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT entity_id, id, oracle_id, ts, evidence_digest, metrics, notes, severity, validated
		FROM reports WHERE entity_id = $1 ORDER BY id
	`, entityID.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reports")
	}
	defer rows.Close()

	var out []*models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to scan report")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read reports")
	}
	return out, nil
}

func scanReport(row pgx.Row) (*models.Report, error) {
	var (
		r                  models.Report
		entityID, oracleID string
		reportID, ts       int64
		digest             []byte
		metrics            []int64
	)
	err := row.Scan(&entityID, &reportID, &oracleID, &ts, &digest,
		&metrics, &r.Notes, &r.Severity, &r.Validated)
	if err != nil {
		return nil, err
	}
	r.EntityID = id.EntityID(entityID)
	r.ID = uint64(reportID)
	r.Oracle = id.OracleID(oracleID)
	r.Timestamp = uint64(ts)
	copy(r.EvidenceDigest[:], digest)
	r.Metrics = toUint64s(metrics)
	return &r, nil
}

func toInt64s(in []uint64) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func toUint64s(in []int64) []uint64 {
	out := make([]uint64, len(in))
	for i, v := range in {
		out[i] = uint64(v)
	}
	return out
}
