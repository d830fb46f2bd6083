package gamelog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PatternEntry is one user-supplied pattern variant
type PatternEntry struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// PatternFile is the on-disk pattern list. File order is priority order.
type PatternFile struct {
	Patterns []PatternEntry `yaml:"patterns"`
}

// LoadMatchers loads pattern variants from a YAML file and appends the
// built-in matchers as a fallback, so a pattern file can only extend the
// recognized formats, never lose the known ones.
func LoadMatchers(path string) ([]Matcher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}

	var pf PatternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse pattern file: %w", err)
	}

	matchers := make([]Matcher, 0, len(pf.Patterns)+2)
	for _, p := range pf.Patterns {
		m, err := NewMatcher(p.Name, p.Expr)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	return append(matchers, DefaultMatchers()...), nil
}
