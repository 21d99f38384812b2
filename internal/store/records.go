package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/watchdag/watchdag/internal/model"
)

// RecordRunState upserts the state of one workflow run instance. This is
// the write path the scheduler side uses; sensors never call it.
func (s *Store) RecordRunState(ctx context.Context, workflowID string, target time.Time, state model.State) error {
	query := `
		INSERT INTO workflow_runs (run_id, workflow_id, target_date, state, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (workflow_id, target_date) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		workflowID,
		target.UTC().Format(time.RFC3339),
		state.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record run state for %s: %w", workflowID, err)
	}
	return nil
}

// RecordStepState upserts the state of one step run instance.
func (s *Store) RecordStepState(ctx context.Context, workflowID, stepID string, target time.Time, state model.State) error {
	query := `
		INSERT INTO step_runs (run_id, workflow_id, step_id, target_date, state, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (workflow_id, step_id, target_date) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		workflowID,
		stepID,
		target.UTC().Format(time.RFC3339),
		state.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record step state for %s.%s: %w", workflowID, stepID, err)
	}
	return nil
}
