package criteria

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MinKeywordsLength = 3
	MaxKeywordsLength = 100
	MaxRecencyValue   = 365
	MaxMinViews       = 1_000_000_000
	MaxDurationMins   = 600
	MaxTargetValue    = 500
	MaxTitleLength    = 150
)

// ValidationError reports the first constraint a SearchCriteria violates.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Validate checks every field and returns a *ValidationError for the first
// rule that fails, or nil.
func (c SearchCriteria) Validate() error {
	keywords := strings.TrimSpace(c.Keywords)
	switch n := utf8.RuneCountInString(keywords); {
	case n < MinKeywordsLength:
		return invalid("keywords", "Keywords must be at least 3 characters")
	case n > MaxKeywordsLength:
		return invalid("keywords", "Keywords must be less than 100 characters")
	}

	if c.Recency.Value < 1 {
		return invalid("recency.value", "Must be at least 1")
	}
	if c.Recency.Value > MaxRecencyValue {
		return invalid("recency.value", "Must be less than 365")
	}
	if c.Recency.Unit.Days() == 0 {
		return invalid("recency.unit", "Unit must be days, weeks or months")
	}

	if c.MinViews < 0 {
		return invalid("min_views", "Cannot be negative")
	}
	if c.MinViews > MaxMinViews {
		return invalid("min_views", "Value too large")
	}

	if !isLanguageCode(c.Language) {
		return invalid("language", "Must be a valid ISO 639-1 language code")
	}

	if err := c.Duration.validate(); err != nil {
		return err
	}

	if err := c.Target.validate(); err != nil {
		return err
	}

	return ValidatePlaylist(c.PlaylistTitle, c.PlaylistPrivacy)
}

func (d DurationRange) validate() error {
	if d.Min < 0 {
		return invalid("duration.min", "Cannot be negative")
	}
	if d.Min > MaxDurationMins {
		return invalid("duration.min", "Must be less than 600 minutes")
	}
	if d.Max < 1 {
		return invalid("duration.max", "Must be at least 1")
	}
	if d.Max > MaxDurationMins {
		return invalid("duration.max", "Must be less than 600 minutes")
	}
	if d.Max <= d.Min {
		return invalid("duration", "Max duration must be greater than min duration")
	}
	return nil
}

func (t Target) validate() error {
	if t.Type != TargetVideos && t.Type != TargetMinutes {
		return invalid("target.type", "Target must be videos or minutes")
	}
	if t.Value < 1 {
		return invalid("target.value", "Must be at least 1")
	}
	if t.Value > MaxTargetValue {
		return invalid("target.value", "Value too large")
	}
	return nil
}

// ValidatePlaylist checks the playlist creation parameters on their own,
// for callers that materialize a selection without the full criteria.
func ValidatePlaylist(title string, privacy Privacy) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n == 0 {
		return invalid("playlist_title", "Playlist title is required")
	}
	if n > MaxTitleLength {
		return invalid("playlist_title", "Title must be less than 150 characters")
	}
	if !privacy.Valid() {
		return invalid("playlist_privacy", "Privacy must be public, unlisted or private")
	}
	return nil
}

func isLanguageCode(s string) bool {
	if utf8.RuneCountInString(s) != 2 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
