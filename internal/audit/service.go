// Package audit keeps a durable history of parameter update attempts: what
// override text arrived, whether it was applied, and what the active
// configuration rendered to afterwards. The history is for operators; the
// parameter store itself never reads it.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Service provides update-history persistence backed by Postgres.
type Service struct {
	db *sql.DB
}

// NewService creates a new audit Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Attempt describes one update attempt to record. OverrideText is expected
// to be pre-sanitized by the caller: raw untrusted input never reaches the
// database.
type Attempt struct {
	Profile      string
	OverrideText string
	Applied      bool
	RejectReason string // empty when applied
	Rendered     string // active configuration after the attempt
	ExperimentID int
	SnapshotRef  string // archive key of the rendered snapshot, if any
	Source       string // "api", "cli", ...
}

// UpdateRow is a recorded update attempt.
type UpdateRow struct {
	ID           string
	Profile      string
	OverrideText string
	Applied      bool
	RejectReason *string
	Rendered     string
	ExperimentID int
	SnapshotRef  *string
	Source       string
	CreatedAt    time.Time
}

const updateColumns = `id, profile, override_text, applied, reject_reason,
		rendered, experiment_id, snapshot_ref, source, created_at`

// RecordUpdate inserts one attempt and returns the stored row.
func (s *Service) RecordUpdate(ctx context.Context, a Attempt) (*UpdateRow, error) {
	if a.Profile == "" {
		a.Profile = "default"
	}
	row := &UpdateRow{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO param_updates (profile, override_text, applied, reject_reason,
		                            rendered, experiment_id, snapshot_ref, source)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8)
		 RETURNING `+updateColumns,
		a.Profile, a.OverrideText, a.Applied, a.RejectReason,
		a.Rendered, a.ExperimentID, a.SnapshotRef, a.Source,
	).Scan(
		&row.ID, &row.Profile, &row.OverrideText, &row.Applied, &row.RejectReason,
		&row.Rendered, &row.ExperimentID, &row.SnapshotRef, &row.Source, &row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record update: %w", err)
	}
	return row, nil
}

// ListUpdates returns the most recent attempts for a profile, newest first.
func (s *Service) ListUpdates(ctx context.Context, profile string, limit int) ([]UpdateRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+updateColumns+`
		 FROM param_updates WHERE profile = $1
		 ORDER BY created_at DESC LIMIT $2`,
		profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	defer rows.Close()

	var updates []UpdateRow
	for rows.Next() {
		var row UpdateRow
		if err := rows.Scan(
			&row.ID, &row.Profile, &row.OverrideText, &row.Applied, &row.RejectReason,
			&row.Rendered, &row.ExperimentID, &row.SnapshotRef, &row.Source, &row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan update: %w", err)
		}
		updates = append(updates, row)
	}
	return updates, rows.Err()
}

// GetUpdate returns a single recorded attempt by ID.
func (s *Service) GetUpdate(ctx context.Context, id string) (*UpdateRow, error) {
	row := &UpdateRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+updateColumns+` FROM param_updates WHERE id = $1`,
		id,
	).Scan(
		&row.ID, &row.Profile, &row.OverrideText, &row.Applied, &row.RejectReason,
		&row.Rendered, &row.ExperimentID, &row.SnapshotRef, &row.Source, &row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get update %s: %w", id, err)
	}
	return row, nil
}

// LatestApplied returns the most recent successfully applied attempt for a
// profile, or sql.ErrNoRows (wrapped) when the profile has no history.
func (s *Service) LatestApplied(ctx context.Context, profile string) (*UpdateRow, error) {
	row := &UpdateRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+updateColumns+`
		 FROM param_updates WHERE profile = $1 AND applied
		 ORDER BY created_at DESC LIMIT 1`,
		profile,
	).Scan(
		&row.ID, &row.Profile, &row.OverrideText, &row.Applied, &row.RejectReason,
		&row.Rendered, &row.ExperimentID, &row.SnapshotRef, &row.Source, &row.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("latest applied update for %s: %w", profile, err)
	}
	return row, nil
}
