package assembly

import (
	"fmt"
	"strings"

	"github.com/keagan/clipforge/internal/manifest"
)

// BuildGraph builds an ffmpeg filter graph realizing the same timeline
// semantics as BuildTimeline. Crossfade chains overlap via xfade;
// fade_to_black boundaries get per-clip fade filters and the chains are
// joined with concat.
//
// Returns the filter expression, the expected output duration, and the
// stream label to map. A single-input graph with no effects returns an
// empty expression and the raw input label.
func BuildGraph(sections []Section) (string, float64, string, error) {
	n := len(sections)
	if n == 0 {
		return "", 0, "", ErrNoSections
	}

	// Group consecutive sections connected by crossfades. A new group
	// starts whenever the outgoing transition is not a crossfade.
	var groups [][]int
	current := []int{0}
	for i := 0; i < n-1; i++ {
		if sections[i].Transition > 0 && sections[i].Type == manifest.TransitionCrossfade {
			current = append(current, i+1)
		} else {
			groups = append(groups, current)
			current = []int{i + 1}
		}
	}
	groups = append(groups, current)

	var parts []string
	labels := make([]string, 0, len(groups))

	for gi, group := range groups {
		var baseLabel string
		var baseDur float64

		if len(group) == 1 {
			baseLabel = fmt.Sprintf("[%d:v]", group[0])
			baseDur = sections[group[0]].Duration
		} else {
			// Chain the group with xfade. The placement cursor advances
			// by each clip's duration minus the overlap and never moves
			// backwards, so each fade offset is the next clip's start.
			start := 0.0
			maxEnd := sections[group[0]].Duration
			for j := 0; j < len(group)-1; j++ {
				src := group[j]
				dst := group[j+1]
				xd := sections[src].Transition
				advance := sections[src].Duration - xd
				if advance < 0 {
					advance = 0
				}
				start += advance

				in1 := fmt.Sprintf("[xf%d_%d]", gi, j)
				if j == 0 {
					in1 = fmt.Sprintf("[%d:v]", group[0])
				}
				parts = append(parts, fmt.Sprintf(
					"%s[%d:v]xfade=transition=fade:duration=%.3f:offset=%.3f[xf%d_%d]",
					in1, dst, xd, start, gi, j+1,
				))
				if end := start + sections[dst].Duration; end > maxEnd {
					maxEnd = end
				}
			}
			baseLabel = fmt.Sprintf("[xf%d_%d]", gi, len(group)-1)
			baseDur = maxEnd
		}

		// Boundary fades: in when the previous group ended fade_to_black,
		// out when this group does and another follows.
		var fades []string
		if gi > 0 {
			prevLast := sections[groups[gi-1][len(groups[gi-1])-1]]
			if prevLast.Transition > 0 && prevLast.Type == manifest.TransitionFadeToBlack {
				fades = append(fades, fmt.Sprintf("fade=t=in:st=0:d=%.3f", prevLast.Transition/2))
			}
		}
		if last := group[len(group)-1]; last < n-1 {
			sec := sections[last]
			if sec.Transition > 0 && sec.Type == manifest.TransitionFadeToBlack {
				start := baseDur - sec.Transition/2
				fades = append(fades, fmt.Sprintf("fade=t=out:st=%.3f:d=%.3f", start, sec.Transition/2))
			}
		}
		if len(fades) > 0 {
			out := fmt.Sprintf("[grp%d]", gi)
			parts = append(parts, baseLabel+strings.Join(fades, ",")+out)
			baseLabel = out
		}

		labels = append(labels, baseLabel)
	}

	// The expected duration follows the same placement contract as the
	// direct timeline: the cursor never moves backwards, and the total is
	// the furthest section end.
	total := 0.0
	cursor := 0.0
	for i, sec := range sections {
		if end := cursor + sec.Duration; end > total {
			total = end
		}
		if i == n-1 {
			break
		}
		advance := sec.Duration
		if sec.Transition > 0 && sec.Type == manifest.TransitionCrossfade {
			advance -= sec.Transition
		}
		if advance < 0 {
			advance = 0
		}
		cursor += advance
	}

	if len(labels) == 1 {
		return strings.Join(parts, ";"), total, labels[0], nil
	}

	var concatIn strings.Builder
	for _, label := range labels {
		concatIn.WriteString(label)
	}
	parts = append(parts, fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vout]", concatIn.String(), len(labels)))
	return strings.Join(parts, ";"), total, "[vout]", nil
}
