package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/watchdag/watchdag/internal/model"
)

// Count implements the sensor counting contract. With step ids it counts
// step-run rows matching (workflowID, stepID in stepIDs, state in states,
// targetDate in targets) and divides the raw count by len(stepIDs), so
// the result is directly comparable to len(targets) in both modes.
// An empty target set returns 0 without querying.
//
// The query is read-only and never locks rows; writers advancing run
// states are free to race it.
func (s *Store) Count(ctx context.Context, workflowID string, stepIDs []string, states []model.State, targets []time.Time) (float64, error) {
	if len(targets) == 0 {
		return 0, nil
	}

	stateArgs := model.Strings(states)
	targetArgs := formatTargets(targets)

	if len(stepIDs) > 0 {
		query := fmt.Sprintf(`
			SELECT COUNT(*) FROM step_runs
			WHERE workflow_id = ?
			  AND step_id IN (%s)
			  AND state IN (%s)
			  AND target_date IN (%s)`,
			placeholders(len(stepIDs)),
			placeholders(len(stateArgs)),
			placeholders(len(targetArgs)),
		)

		args := make([]any, 0, 1+len(stepIDs)+len(stateArgs)+len(targetArgs))
		args = append(args, workflowID)
		for _, id := range stepIDs {
			args = append(args, id)
		}
		for _, st := range stateArgs {
			args = append(args, st)
		}
		for _, tg := range targetArgs {
			args = append(args, tg)
		}

		var raw int
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
			return 0, fmt.Errorf("failed to count step runs for %s: %w", workflowID, err)
		}
		return float64(raw) / float64(len(stepIDs)), nil
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM workflow_runs
		WHERE workflow_id = ?
		  AND state IN (%s)
		  AND target_date IN (%s)`,
		placeholders(len(stateArgs)),
		placeholders(len(targetArgs)),
	)

	args := make([]any, 0, 1+len(stateArgs)+len(targetArgs))
	args = append(args, workflowID)
	for _, st := range stateArgs {
		args = append(args, st)
	}
	for _, tg := range targetArgs {
		args = append(args, tg)
	}

	var raw int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return 0, fmt.Errorf("failed to count workflow runs for %s: %w", workflowID, err)
	}
	return float64(raw), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func formatTargets(targets []time.Time) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.UTC().Format(time.RFC3339)
	}
	return out
}
