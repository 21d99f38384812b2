package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	wderrors "github.com/watchdag/watchdag/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseFile loads a sensors document from disk, validates it, and returns
// the resulting model.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wderrors.NewParseError(path, 0, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, wderrors.NewParseError(path, extractLine(err), err)
	}

	if err := ValidateFile(&file); err != nil {
		return nil, err
	}

	return &file, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
