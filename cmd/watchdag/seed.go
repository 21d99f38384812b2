package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/watchdag/watchdag/internal/model"
	"github.com/watchdag/watchdag/internal/store"
)

// seed writes run and step states into the local database. It exists so
// sensors can be exercised end to end without a live workflow host.
func newSeedCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Record external run and step states for local testing",
	}

	cmd.AddCommand(newSeedRunCmd(root))
	cmd.AddCommand(newSeedStepCmd(root))

	return cmd
}

func newSeedRunCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <workflow-id> <target-date> <state>",
		Short: "Record a workflow run state",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, root, args[0], "", args[1], args[2])
		},
	}

	return cmd
}

func newSeedStepCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step <workflow-id> <step-id> <target-date> <state>",
		Short: "Record a step run state",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, root, args[0], args[1], args[2], args[3])
		},
	}

	return cmd
}

func runSeed(cmd *cobra.Command, root *rootFlags, workflowID, stepID, rawTarget, rawState string) error {
	target, err := time.Parse(time.RFC3339, rawTarget)
	if err != nil {
		return newCommandError("seed", fmt.Sprintf("parsing target date %q", rawTarget), err, "Provide the target date in RFC 3339 form, e.g. 2026-08-31T00:00:00Z.")
	}

	state := model.State(strings.ToLower(rawState))
	if stepID == "" && !model.ValidRunState(state) {
		return newCommandError("seed", fmt.Sprintf("validating run state %q", rawState), fmt.Errorf("unknown state"), fmt.Sprintf("Valid run states: %s.", strings.Join(model.Strings(model.RunStates), ", ")))
	}
	if stepID != "" && !model.ValidStepState(state) {
		return newCommandError("seed", fmt.Sprintf("validating step state %q", rawState), fmt.Errorf("unknown state"), fmt.Sprintf("Valid step states: %s.", strings.Join(model.Strings(model.StepStates), ", ")))
	}

	log, err := newLogger(root.verbose)
	if err != nil {
		return err
	}

	env, err := loadSettings()
	if err != nil {
		return newCommandError("seed", "loading environment settings", err, "Ensure your HOME directory is set correctly.")
	}

	st, err := store.Open(env.DatabasePath, log)
	if err != nil {
		return newCommandError("seed", "opening run state database", err, "Check that WATCHDAG_DB points at a writable path.")
	}
	defer st.Close()

	ctx := context.Background()
	if stepID == "" {
		err = st.RecordRunState(ctx, workflowID, target, state)
	} else {
		err = st.RecordStepState(ctx, workflowID, stepID, target, state)
	}
	if err != nil {
		return newCommandError("seed", "recording state", err, "Check database permissions and try again.")
	}

	if stepID == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s run of %s at %s\n", state, workflowID, target.UTC().Format(time.RFC3339))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s step %s of %s at %s\n", state, stepID, workflowID, target.UTC().Format(time.RFC3339))
	}

	return nil
}
