package env

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultProfile is used when no --env flag is given.
const DefaultProfile = "development"

// DefaultFileName is looked up next to the .http file being run.
const DefaultFileName = "httpfile.env.json"

// Environment is one selected profile out of the environment config file:
// a flat variable mapping.
type Environment struct {
	Name      string
	Variables map[string]string
}

// LoadProfile reads an environment config file (a mapping of profile name to
// variable map, JSON by default, YAML for .yaml/.yml files) and selects one
// profile. An unknown profile yields an empty variable set, not an error.
func LoadProfile(path, profile string) (*Environment, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]map[string]string)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &profiles); err != nil {
			return nil, fmt.Errorf("parsing environment file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(content, &profiles); err != nil {
			return nil, fmt.Errorf("parsing environment file %s: %w", path, err)
		}
	}

	environment := &Environment{
		Name:      profile,
		Variables: make(map[string]string),
	}
	for k, v := range profiles[profile] {
		environment.Variables[k] = v
	}
	return environment, nil
}

// LoadProfileOrEmpty is LoadProfile for the common case where the config file
// is optional: a missing file is an empty environment, any other failure is
// still reported.
func LoadProfileOrEmpty(path, profile string) (*Environment, error) {
	environment, err := LoadProfile(path, profile)
	if err != nil {
		if os.IsNotExist(err) {
			return &Environment{Name: profile, Variables: make(map[string]string)}, nil
		}
		return nil, err
	}
	return environment, nil
}
