package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchdag/watchdag/internal/config"
)

type validateOptions struct {
	ConfigPath string
	JSON       bool
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a sensor configuration file without polling",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = args[0]

			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output the validation result in JSON format")

	return cmd
}

type validationReport struct {
	Config  string          `json:"config"`
	Valid   bool            `json:"valid"`
	Error   string          `json:"error,omitempty"`
	Sensors []sensorSummary `json:"sensors,omitempty"`
}

type sensorSummary struct {
	ID         string   `json:"id"`
	WorkflowID string   `json:"workflow_id"`
	StepIDs    []string `json:"step_ids,omitempty"`
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	report := validationReport{Config: opts.ConfigPath, Valid: true}

	cfg, err := config.ParseFile(opts.ConfigPath)
	if err != nil {
		report.Valid = false
		report.Error = err.Error()
	} else {
		for _, sc := range cfg.Sensors {
			report.Sensors = append(report.Sensors, sensorSummary{
				ID:         sc.ID,
				WorkflowID: sc.ExternalWorkflowID,
				StepIDs:    sc.StepIDs(),
			})
		}
	}

	if opts.JSON {
		data, marshalErr := json.MarshalIndent(report, "", "  ")
		if marshalErr != nil {
			return marshalErr
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else if report.Valid {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d sensors)\n", opts.ConfigPath, len(report.Sensors))
		for _, s := range report.Sensors {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s → waits on %s", s.ID, s.WorkflowID)
			if len(s.StepIDs) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " steps %v", s.StepIDs)
			}
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}

	if !report.Valid {
		return fmt.Errorf("%s is invalid: %s", opts.ConfigPath, report.Error)
	}

	return nil
}
