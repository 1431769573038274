package trackdb

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrParentCycle is returned when a track's parent chain revisits a track.
var ErrParentCycle = errors.New("parent cycle in track hierarchy")

// Labels holds the labels of a track and its ancestors, innermost first.
type Labels struct {
	Short []string
	Long  []string
}

// CollectLabels gathers shortLabel and longLabel of track, then of its
// parent, and so on until a track has no parent. Labels are not deduplicated.
// A repeated track in the chain fails with ErrParentCycle.
func CollectLabels(ctx context.Context, r AttributeResolver, track string) (Labels, error) {
	var labels Labels
	visited := make(map[string]bool)
	var chain []string

	for current := track; current != ""; {
		if visited[current] {
			return Labels{}, errors.WithHint(
				errors.Mark(errors.Newf("track %q: %s -> %s", track, strings.Join(chain, " -> "), current), ErrParentCycle),
				"fix the parent setting of one of these tracks",
			)
		}
		visited[current] = true
		chain = append(chain, current)

		short, err := r.Resolve(ctx, current, AttrShortLabel)
		if err != nil {
			return Labels{}, err
		}
		long, err := r.Resolve(ctx, current, AttrLongLabel)
		if err != nil {
			return Labels{}, err
		}
		labels.Short = append(labels.Short, short)
		labels.Long = append(labels.Long, long)

		parent, err := r.Resolve(ctx, current, AttrParent)
		if err != nil {
			return Labels{}, err
		}
		current = parentTrack(parent)
	}

	return labels, nil
}

// parentTrack strips the visibility flag trackDb allows after a parent name
// ("parent knownGeneSuper on").
func parentTrack(value string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(value), " ")
	return name
}
