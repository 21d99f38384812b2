package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/watchdag/watchdag/internal/config"
)

func writeSensorConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sensors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommandAcceptsValidConfig(t *testing.T) {
	path := writeSensorConfig(t, `
version: "1.0"
name: nightly
sensors:
  - id: wait_for_etl
    external_workflow_id: etl_daily
    execution_delta: 24h
`)

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"validate", path})

	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "is valid (1 sensors)")
	require.Contains(t, buf.String(), "wait_for_etl")
}

func TestValidateCommandJSONOutput(t *testing.T) {
	path := writeSensorConfig(t, `
version: "1.0"
name: nightly
sensors:
  - id: wait_for_etl
    external_workflow_id: etl_daily
    external_step_ids: [extract, load]
`)

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"validate", path, "--json"})

	require.NoError(t, root.Execute())

	var report validationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.True(t, report.Valid)
	require.Len(t, report.Sensors, 1)
	require.Equal(t, "etl_daily", report.Sensors[0].WorkflowID)
	require.Equal(t, []string{"extract", "load"}, report.Sensors[0].StepIDs)
}

func TestValidateCommandRejectsInvalidConfig(t *testing.T) {
	path := writeSensorConfig(t, `
version: "1.0"
sensors:
  - id: wait_for_etl
    external_workflow_id: etl_daily
`)

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"validate", path})

	err := root.Execute()
	require.ErrorContains(t, err, "is invalid")
	require.ErrorContains(t, err, "Name")
}

func TestValidateCommandJSONOutputInvalidConfig(t *testing.T) {
	path := writeSensorConfig(t, `
version: "1.0"
name: nightly
sensors:
  - id: wait_for_etl
    external_workflow_id: etl_daily
    external_step_id: extract
    external_step_ids: [extract, load]
`)

	root := newRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"validate", path, "--json"})

	err := root.Execute()
	require.ErrorContains(t, err, "is invalid")

	var report validationReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.False(t, report.Valid)
	require.Contains(t, report.Error, "not both")
}

func TestSelectSensorsUnknownID(t *testing.T) {
	path := writeSensorConfig(t, `
version: "1.0"
name: nightly
sensors:
  - id: wait_for_etl
    external_workflow_id: etl_daily
`)

	cfg, err := config.ParseFile(path)
	require.NoError(t, err)

	_, err = selectSensors(cfg, "missing")
	require.ErrorContains(t, err, `no sensor with id "missing"`)

	selected, err := selectSensors(cfg, "wait_for_etl")
	require.NoError(t, err)
	require.Len(t, selected, 1)
}

func TestParseLogicalDate(t *testing.T) {
	now, err := parseLogicalDate("")
	require.NoError(t, err)
	require.False(t, now.IsZero())

	fixed, err := parseLogicalDate("2026-08-30T00:00:00Z")
	require.NoError(t, err)
	require.Equal(t, 2026, fixed.Year())

	_, err = parseLogicalDate("yesterday")
	require.ErrorContains(t, err, "invalid logical date")
}
