// Package criteria describes what a user is looking for when building a
// playlist: the search terms, the filters applied once metadata is known,
// and the target the final selection has to reach.
package criteria

import "time"

// Unit is the granularity of a recency window.
type Unit string

const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
)

// Days returns the number of days one unit spans. Months are 30 days.
func (u Unit) Days() int {
	switch u {
	case UnitDays:
		return 1
	case UnitWeeks:
		return 7
	case UnitMonths:
		return 30
	default:
		return 0
	}
}

// TargetType selects how the final selection is bounded.
type TargetType string

const (
	TargetVideos  TargetType = "videos"
	TargetMinutes TargetType = "minutes"
)

// Privacy is the visibility of the created playlist.
type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyUnlisted Privacy = "unlisted"
	PrivacyPrivate  Privacy = "private"
)

// Valid reports whether p is one of the supported privacy statuses.
func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyUnlisted, PrivacyPrivate:
		return true
	}
	return false
}

// Recency limits results to videos published within the last Value units.
type Recency struct {
	Value int  `json:"value"`
	Unit  Unit `json:"unit"`
}

// DurationRange bounds video length in whole minutes, inclusive.
type DurationRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MinSeconds returns the lower bound in seconds.
func (d DurationRange) MinSeconds() int64 { return int64(d.Min) * 60 }

// MaxSeconds returns the upper bound in seconds.
func (d DurationRange) MaxSeconds() int64 { return int64(d.Max) * 60 }

// Target is the stopping criterion for selection: a number of videos or
// a cumulative number of minutes.
type Target struct {
	Type  TargetType `json:"type"`
	Value int        `json:"value"`
}

// SearchCriteria is submitted once per search and never modified afterwards.
type SearchCriteria struct {
	Keywords        string        `json:"keywords"`
	Recency         Recency       `json:"recency"`
	MinViews        int64         `json:"min_views"`
	Language        string        `json:"language"`
	Duration        DurationRange `json:"duration"`
	Target          Target        `json:"target"`
	PlaylistTitle   string        `json:"playlist_title"`
	PlaylistPrivacy Privacy       `json:"playlist_privacy"`
}

// PublishedAfter returns the absolute cutoff for the recency window.
func (c SearchCriteria) PublishedAfter(now time.Time) time.Time {
	days := c.Recency.Value * c.Recency.Unit.Days()
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}
