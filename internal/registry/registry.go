// Package registry manages the mapping from workflow ids to the
// definition sources that back them. Sensors consult it during the
// one-time existence check; the CLI maintains it.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// Registry manages workflow registry persistence.
type Registry struct {
	path      string
	mu        sync.RWMutex
	version   string
	workflows []Workflow
}

// NewRegistry creates a Registry instance and loads it from disk.
func NewRegistry(path string) (*Registry, error) {
	r := &Registry{
		path:    path,
		version: "1.0",
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}

	// Load existing registry or start empty.
	if err := r.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		r.workflows = []Workflow{}
	}

	return r, nil
}

// Load reads the registry from disk.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}

	var file registryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse registry: %w", err)
	}

	r.version = file.Version
	r.workflows = file.Workflows

	return nil
}

// Save writes the registry to disk atomically.
func (r *Registry) Save() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file := registryFile{
		Version:   r.version,
		Workflows: r.workflows,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	tmpPath := r.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// List returns all registered workflows.
func (r *Registry) List() []Workflow {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Workflow, len(r.workflows))
	copy(result, r.workflows)
	return result
}

// Get retrieves a workflow by id. A miss is a NotFoundError so the
// existence check can surface it directly.
func (r *Registry) Get(id string) (Workflow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, w := range r.workflows {
		if w.ID == id {
			return w, nil
		}
	}

	return Workflow{}, wderrors.NewWorkflowNotFoundError(id)
}

// Add adds a new workflow to the registry.
func (r *Registry) Add(w Workflow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.workflows {
		if existing.ID == w.ID {
			return fmt.Errorf("workflow with id %s already registered", w.ID)
		}
	}

	r.workflows = append(r.workflows, w)
	return nil
}

// Remove removes a workflow from the registry.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, w := range r.workflows {
		if w.ID == id {
			r.workflows = append(r.workflows[:i], r.workflows[i+1:]...)
			return nil
		}
	}

	return wderrors.NewWorkflowNotFoundError(id)
}
