package contract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// File is the on-disk contract document: the contract plus the data
// sources it binds rules to.
type File struct {
	Contract models.SemanticContract `yaml:"contract"`
	Sources  []models.DataSourceRef  `yaml:"sources"`
}

// LoadFile reads a YAML contract document.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read contract file: %w", err)
	}

	var doc File
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse contract file %s: %w", path, err)
	}
	if err := validateFile(&doc); err != nil {
		return nil, fmt.Errorf("invalid contract file %s: %w", path, err)
	}
	return &doc, nil
}

// validateFile checks referential integrity: every rule must name a known
// term and a known source.
func validateFile(doc *File) error {
	if doc.Contract.ID == "" {
		return fmt.Errorf("contract id is required")
	}

	termIDs := make(map[string]bool, len(doc.Contract.Terms))
	for _, t := range doc.Contract.Terms {
		if t.ID == "" {
			return fmt.Errorf("term %q has no id", t.Name)
		}
		termIDs[t.ID] = true
	}

	sourceIDs := make(map[string]bool, len(doc.Sources))
	for _, s := range doc.Sources {
		if s.ID == "" {
			return fmt.Errorf("source %q has no id", s.Name)
		}
		sourceIDs[s.ID] = true
	}

	for _, rule := range doc.Contract.Rules {
		if !termIDs[rule.TermID] {
			return fmt.Errorf("rule %s references unknown term %q", rule.ID, rule.TermID)
		}
		if !sourceIDs[rule.SourceID] {
			return fmt.Errorf("rule %s references unknown source %q", rule.ID, rule.SourceID)
		}
	}
	return nil
}
