package registry

import (
	"fmt"
	"net/url"
	"time"
)

// Workflow is one registry entry: a workflow id mapped to the definition
// source that currently backs it.
type Workflow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	Description  string    `json:"description,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// URL builds a link to the workflow in the host's web UI, scoped to a
// target timestamp. Used only for log output.
func (w Workflow) URL(baseURL string, target time.Time) string {
	query := url.Values{}
	query.Set("workflow_id", w.ID)
	query.Set("target_date", target.UTC().Format(time.RFC3339))
	return fmt.Sprintf("%s/workflows?%s", baseURL, query.Encode())
}

// registryFile is the JSON file format for the workflow registry.
type registryFile struct {
	Version   string     `json:"version"`
	Workflows []Workflow `json:"workflows"`
}
