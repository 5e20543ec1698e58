// Package selection ranks enriched videos and picks the subset that meets
// the user's target.
//
// Every function here is pure: inputs are never mutated and identical
// inputs always produce identical, order-stable outputs.
package selection

import (
	"cmp"
	"slices"

	"github.com/gauthierbraillon/playlistmix/internal/criteria"
	"github.com/gauthierbraillon/playlistmix/internal/duration"
	"github.com/gauthierbraillon/playlistmix/internal/youtube"
)

// FilterAndSort keeps videos that meet the view floor and fall inside the
// duration range, then orders them by view count, highest first. Videos
// with equal view counts keep their fetch order.
func FilterAndSort(videos []youtube.Video, c criteria.SearchCriteria) []youtube.Video {
	minSecs, maxSecs := c.Duration.MinSeconds(), c.Duration.MaxSeconds()

	kept := make([]youtube.Video, 0, len(videos))
	for _, v := range videos {
		if v.ViewCount < c.MinViews {
			continue
		}
		if v.DurationSeconds < minSecs || v.DurationSeconds > maxSecs {
			continue
		}
		kept = append(kept, v)
	}

	slices.SortStableFunc(kept, func(a, b youtube.Video) int {
		return cmp.Compare(b.ViewCount, a.ViewCount)
	})

	return kept
}

// SelectForTarget returns the ranked prefix that satisfies target.
//
// For a video count it takes the first target.Value videos. For a minute
// budget it accumulates videos in order and stops right after the one that
// brings the total to at least target.Value minutes, so the result may
// overshoot. Running out of videos returns everything available.
func SelectForTarget(ranked []youtube.Video, target criteria.Target) []youtube.Video {
	switch target.Type {
	case criteria.TargetVideos:
		n := min(max(target.Value, 0), len(ranked))
		return slices.Clone(ranked[:n])

	case criteria.TargetMinutes:
		goal := int64(target.Value)
		var total int64
		for i, v := range ranked {
			total += v.DurationSeconds
			if duration.Minutes(total) >= goal {
				return slices.Clone(ranked[:i+1])
			}
		}
		return slices.Clone(ranked)

	default:
		return []youtube.Video{}
	}
}

// TotalSeconds sums the length of videos.
func TotalSeconds(videos []youtube.Video) int64 {
	var total int64
	for _, v := range videos {
		total += v.DurationSeconds
	}
	return total
}

// TotalMinutes sums the length of videos in whole minutes, rounding down.
func TotalMinutes(videos []youtube.Video) int64 {
	return duration.Minutes(TotalSeconds(videos))
}

// Exclude drops the videos the user deselected, keeping rank order.
func Exclude(videos []youtube.Video, ids []string) []youtube.Video {
	if len(ids) == 0 {
		return slices.Clone(videos)
	}

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := make([]youtube.Video, 0, len(videos))
	for _, v := range videos {
		if _, ok := drop[v.ID]; ok {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}
