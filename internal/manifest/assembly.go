package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transition types accepted in an assembly manifest.
const (
	TransitionCrossfade   = "crossfade"
	TransitionFadeToBlack = "fade_to_black"
)

var validTransitionTypes = map[string]bool{
	TransitionCrossfade:   true,
	TransitionFadeToBlack: true,
}

// AssemblyVideo is the output block of an assembly manifest. Transition and
// TransitionType are global defaults applied to sections that do not
// override them.
type AssemblyVideo struct {
	FPS            int      `yaml:"fps"`
	Transition     *float64 `yaml:"transition"`
	TransitionType string   `yaml:"transition_type"`
}

// AssemblySection names one pre-rendered mp4 and how it hands off to the
// next section. The transition fields describe the outgoing edge; the last
// section's transition is ignored.
type AssemblySection struct {
	Path           string   `yaml:"path"`
	Transition     *float64 `yaml:"transition"`
	TransitionType string   `yaml:"transition_type"`
}

// OutTransition is the effective outgoing transition duration.
func (s AssemblySection) OutTransition() float64 {
	if s.Transition == nil {
		return 0
	}
	return *s.Transition
}

// AssemblyManifest is a parsed assembly manifest with defaults applied.
type AssemblyManifest struct {
	Video    AssemblyVideo     `yaml:"video"`
	Paths    map[string]string `yaml:"paths"`
	Sections []AssemblySection `yaml:"sections"`
}

// LoadAssembly reads, resolves, defaults and validates an assembly
// manifest.
func LoadAssembly(path string) (*AssemblyManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading assembly manifest: %w", err)
	}
	var m AssemblyManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing assembly manifest: %w", err)
	}

	if m.Video.FPS <= 0 {
		return nil, fmt.Errorf("assembly manifest: video.fps is required")
	}
	if m.Video.Transition == nil {
		return nil, fmt.Errorf("assembly manifest: video.transition is required")
	}
	if *m.Video.Transition < 0 {
		return nil, fmt.Errorf("assembly manifest: video.transition must be >= 0, got %v", *m.Video.Transition)
	}
	if m.Video.TransitionType == "" {
		m.Video.TransitionType = TransitionCrossfade
	}
	if !validTransitionTypes[m.Video.TransitionType] {
		return nil, fmt.Errorf("assembly manifest: invalid video.transition_type %q", m.Video.TransitionType)
	}

	for i := range m.Sections {
		sec := &m.Sections[i]
		if sec.Path == "" {
			return nil, fmt.Errorf("assembly section %d: missing 'path'", i)
		}
		resolved, err := ResolveVars(sec.Path, m.Paths)
		if err != nil {
			return nil, fmt.Errorf("assembly section %d: %w", i, err)
		}
		sec.Path = resolved

		if sec.Transition == nil {
			sec.Transition = m.Video.Transition
		} else if *sec.Transition < 0 {
			return nil, fmt.Errorf("assembly section %d: transition must be >= 0, got %v", i, *sec.Transition)
		}
		if sec.TransitionType == "" {
			sec.TransitionType = m.Video.TransitionType
		} else if !validTransitionTypes[sec.TransitionType] {
			return nil, fmt.Errorf("assembly section %d: invalid transition_type %q", i, sec.TransitionType)
		}
	}
	return &m, nil
}

// ValidatePaths checks that every section file exists, reporting all
// missing paths at once.
func (m *AssemblyManifest) ValidatePaths() error {
	var missing []string
	for _, sec := range m.Sections {
		if _, err := os.Stat(sec.Path); err != nil {
			missing = append(missing, sec.Path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %d section file(s):\n  %s", len(missing), strings.Join(missing, "\n  "))
	}
	return nil
}
