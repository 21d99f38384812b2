package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

// Definition is a parsed workflow definition source. The existence check
// re-parses the source so step lookups always reflect the current file,
// not what was registered.
type Definition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Schedule    string `yaml:"schedule,omitempty"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single unit of work declared by a workflow definition.
type Step struct {
	ID        string   `yaml:"id"`
	DependsOn []string `yaml:"depends_on,omitempty"`
}

// LoadDefinition parses a workflow definition source from disk.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wderrors.NewParseError(path, 0, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, wderrors.NewParseError(path, 0, err)
	}

	if def.ID == "" {
		return nil, wderrors.NewConfigurationError(path, "workflow definition is missing an id", nil)
	}
	if len(def.Steps) == 0 {
		return nil, wderrors.NewConfigurationError(path,
			fmt.Sprintf("workflow %q declares no steps", def.ID), nil)
	}

	seen := make(map[string]struct{}, len(def.Steps))
	for _, step := range def.Steps {
		if step.ID == "" {
			return nil, wderrors.NewConfigurationError(path,
				fmt.Sprintf("workflow %q has a step without an id", def.ID), nil)
		}
		if _, dup := seen[step.ID]; dup {
			return nil, wderrors.NewConfigurationError(path,
				fmt.Sprintf("workflow %q declares step %q more than once", def.ID, step.ID), nil)
		}
		seen[step.ID] = struct{}{}
	}

	return &def, nil
}

// HasStep reports whether the definition declares a step with the given id.
func (d *Definition) HasStep(id string) bool {
	for _, step := range d.Steps {
		if step.ID == id {
			return true
		}
	}
	return false
}
