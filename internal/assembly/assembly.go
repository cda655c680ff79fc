// Package assembly merges pre-rendered section files into one final video.
// Crossfades overlap neighboring sections in time; fade_to_black plays
// both in full with fade effects at the boundary. A transition of zero is
// a hard cut regardless of type.
package assembly

import (
	"errors"

	"github.com/keagan/clipforge/internal/manifest"
)

// ErrNoSections is returned when an assembly has nothing to place.
var ErrNoSections = errors.New("no sections to assemble")

// Section is one pre-rendered file with its probed duration and outgoing
// transition. The transition describes how this section hands off to the
// next one; the last section's transition is ignored.
type Section struct {
	Path       string
	Duration   float64
	Transition float64
	Type       string
}

// TransitionPolicy is the contract shared by the two transition
// realizations: direct timeline placement and filter-graph construction.
// Both must compute the same total duration for the same section list.
type TransitionPolicy interface {
	TotalDuration(sections []Section) (float64, error)
}

// TimelinePolicy realizes transitions by direct placement.
type TimelinePolicy struct {
	FPS int
}

func (p TimelinePolicy) TotalDuration(sections []Section) (float64, error) {
	tl, err := BuildTimeline(sections, p.FPS)
	if err != nil {
		return 0, err
	}
	return tl.Total, nil
}

// GraphPolicy realizes transitions as an ffmpeg filter graph.
type GraphPolicy struct{}

func (GraphPolicy) TotalDuration(sections []Section) (float64, error) {
	_, total, _, err := BuildGraph(sections)
	return total, err
}

// EffectKind names a fade applied at a section boundary.
type EffectKind int

const (
	CrossFadeIn EffectKind = iota
	CrossFadeOut
	FadeIn
	FadeOut
)

func (k EffectKind) String() string {
	switch k {
	case CrossFadeIn:
		return "crossfade-in"
	case CrossFadeOut:
		return "crossfade-out"
	case FadeIn:
		return "fade-in"
	case FadeOut:
		return "fade-out"
	}
	return "unknown"
}

// Effect is one boundary fade with its duration in seconds.
type Effect struct {
	Kind     EffectKind
	Duration float64
}

// Placement is a section positioned on the output timeline with its
// boundary effects resolved.
type Placement struct {
	Section Section
	Start   float64
	Effects []Effect
}

// Timeline is the fully resolved temporal layout of an assembly.
type Timeline struct {
	Placements []Placement
	Total      float64
	FPS        int
}

// BuildTimeline places sections on a shared timeline. Incoming effects
// come from the previous section's outgoing transition, outgoing effects
// from the section's own transition when a next section exists. The
// cursor overlaps crossfading neighbors by the transition duration and
// never moves backwards.
func BuildTimeline(sections []Section, fps int) (*Timeline, error) {
	if len(sections) == 0 {
		return nil, ErrNoSections
	}

	tl := &Timeline{FPS: fps}
	if len(sections) == 1 {
		tl.Placements = []Placement{{Section: sections[0]}}
		tl.Total = sections[0].Duration
		return tl, nil
	}

	cursor := 0.0
	for i, sec := range sections {
		p := Placement{Section: sec, Start: cursor}

		if i > 0 {
			prev := sections[i-1]
			if prev.Transition > 0 {
				switch prev.Type {
				case manifest.TransitionCrossfade:
					p.Effects = append(p.Effects, Effect{CrossFadeIn, prev.Transition})
				case manifest.TransitionFadeToBlack:
					p.Effects = append(p.Effects, Effect{FadeIn, prev.Transition / 2})
				}
			}
		}

		last := i == len(sections)-1
		if !last && sec.Transition > 0 {
			switch sec.Type {
			case manifest.TransitionCrossfade:
				p.Effects = append(p.Effects, Effect{CrossFadeOut, sec.Transition})
			case manifest.TransitionFadeToBlack:
				p.Effects = append(p.Effects, Effect{FadeOut, sec.Transition / 2})
			}
		}

		tl.Placements = append(tl.Placements, p)

		if !last {
			advance := sec.Duration
			if sec.Transition > 0 && sec.Type == manifest.TransitionCrossfade {
				advance -= sec.Transition
			}
			if advance < 0 {
				advance = 0
			}
			cursor += advance
		}
	}

	for _, p := range tl.Placements {
		if end := p.Start + p.Section.Duration; end > tl.Total {
			tl.Total = end
		}
	}
	return tl, nil
}
