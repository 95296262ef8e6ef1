package loader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/faqdex/internal/domain"
	"github.com/kailas-cloud/faqdex/internal/usecase/redact"
)

// maskListFile is the on-disk shape of the masking reference lists.
type maskListFile struct {
	Staff      []string `yaml:"staff"`
	Properties []string `yaml:"properties"`
}

// LoadMaskLists reads the two masking reference lists (staff names,
// property/building names) and builds the rule set, pre-sorted longest-first.
// Blank list entries fail the load: a blank rule would mask everything.
func LoadMaskLists(path string) (*redact.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mask lists %s: %w", path, err)
	}

	var file maskListFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrMalformedMaskList, path, err)
	}

	for listName, names := range map[string][]string{
		"staff":      file.Staff,
		"properties": file.Properties,
	} {
		for i, name := range names {
			if strings.TrimSpace(name) == "" {
				return nil, fmt.Errorf("%w: %s[%d] is blank", domain.ErrMalformedMaskList, listName, i)
			}
		}
	}

	return redact.NewRuleSet(file.Staff, file.Properties), nil
}
