package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadPlan reads a declarative plan from a YAML file. The file mirrors the
// built-in sequence shape:
//
//	name: nightly
//	jobs:
//	  - name: steam_parser
//	    output: temp_steam.txt
//	    forward_extras: true
//	  - name: seek_rawg_id
//	    input: temp_steam.txt
func LoadPlan(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan file: %w", err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return Plan{}, fmt.Errorf("parse plan file %s: %w", path, err)
	}

	if strings.TrimSpace(plan.Name) == "" {
		base := filepath.Base(path)
		plan.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if err := plan.Validate(); err != nil {
		return Plan{}, fmt.Errorf("plan file %s: %w", path, err)
	}
	return plan, nil
}
