// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables playlistmix to:
// - Search the catalog for candidate video IDs
// - Fetch full video metadata in batches
// - Create playlists and insert videos into them
package youtube

import (
	"time"

	"github.com/gauthierbraillon/playlistmix/internal/duration"
)

// Video represents a YouTube video with the metadata needed for ranking.
type Video struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	ChannelTitle    string    `json:"channel_title"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	PublishedAt     time.Time `json:"published_at"`
	ViewCount       int64     `json:"view_count"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// FormattedDuration renders the video length for display.
func (v Video) FormattedDuration() string {
	return duration.Format(v.DurationSeconds)
}

// URL returns the watch page of the video.
func (v Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// SearchQuery holds the parameters sent to search.list.
type SearchQuery struct {
	Query             string
	PublishedAfter    time.Time
	RelevanceLanguage string
	MaxResults        int64
}

// Playlist is a playlist created on the user's channel.
type Playlist struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PlaylistURL returns the public page of a playlist.
func PlaylistURL(id string) string {
	return "https://www.youtube.com/playlist?list=" + id
}
