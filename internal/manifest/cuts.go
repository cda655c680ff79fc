package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/keagan/clipforge/pkg/util"
)

// Seconds accepts either a plain number of seconds or a timestamp string
// ("MM:SS" or "HH:MM:SS.mmm") in YAML.
type Seconds float64

func (s *Seconds) UnmarshalYAML(value *yaml.Node) error {
	var f float64
	if err := value.Decode(&f); err == nil {
		*s = Seconds(f)
		return nil
	}
	var str string
	if err := value.Decode(&str); err != nil {
		return fmt.Errorf("invalid time value")
	}
	d, err := util.ParseTimestamp(str)
	if err != nil {
		return err
	}
	*s = Seconds(d.Seconds())
	return nil
}

// Cut is one segment to extract from the source video.
type Cut struct {
	ID    string  `yaml:"id"`
	Start Seconds `yaml:"start"`
	End   Seconds `yaml:"end"`
}

// CutsManifest lists segments to cut out of a single source video.
type CutsManifest struct {
	Source string            `yaml:"source"`
	Paths  map[string]string `yaml:"paths"`
	Cuts   []Cut             `yaml:"cuts"`
}

// LoadCuts reads, resolves and validates a cuts manifest.
func LoadCuts(path string) (*CutsManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cuts manifest: %w", err)
	}
	var m CutsManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing cuts manifest: %w", err)
	}

	if m.Source == "" {
		return nil, fmt.Errorf("cuts manifest: missing 'source'")
	}
	if len(m.Cuts) == 0 {
		return nil, fmt.Errorf("cuts manifest: missing 'cuts'")
	}
	resolved, err := ResolveVars(m.Source, m.Paths)
	if err != nil {
		return nil, fmt.Errorf("cuts manifest source: %w", err)
	}
	m.Source = resolved

	seen := make(map[string]bool)
	for i, c := range m.Cuts {
		if c.ID == "" {
			return nil, fmt.Errorf("cut %d: missing 'id'", i)
		}
		if c.Start < 0 {
			return nil, fmt.Errorf("cut %d (%s): start must be >= 0, got %v", i, c.ID, float64(c.Start))
		}
		if c.Start >= c.End {
			return nil, fmt.Errorf("cut %d (%s): start (%v) must be < end (%v)", i, c.ID, float64(c.Start), float64(c.End))
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate cut id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return &m, nil
}

// ValidateSource checks that the source video exists on disk.
func (m *CutsManifest) ValidateSource() error {
	if _, err := os.Stat(m.Source); err != nil {
		return fmt.Errorf("source video not found: %s", m.Source)
	}
	return nil
}
