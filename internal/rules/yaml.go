package rules

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadDefinitions parses custom rule definitions from YAML. The
// document holds a single top-level "rules" list:
//
//	rules:
//	  - name: employee_id
//	    kind: regex
//	    description: Internal employee identifier
//	    pattern: '^E[0-9]{6}$'
//	    match_examples: ["E123456"]
//	    nomatch_examples: ["X123456"]
//
// Definitions are not compiled here; NewSet validates them.
func LoadDefinitions(r io.Reader) ([]Definition, error) {
	var doc struct {
		Rules []Definition `yaml:"rules"`
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse rule definitions: %w", err)
	}

	return doc.Rules, nil
}

// LoadFile reads custom rule definitions from a YAML file.
func LoadFile(path string) ([]Definition, error) {
	f, err := os.Open(filepath.Clean(path)) // #nosec G304 -- path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open rules file: %w", err)
	}
	defer func() { _ = f.Close() }()

	defs, err := LoadDefinitions(f)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return defs, nil
}
