// Package playlist turns a curated selection into a playlist on the user's
// channel.
package playlist

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/playlistmix/internal/criteria"
	"github.com/gauthierbraillon/playlistmix/internal/selection"
	"github.com/gauthierbraillon/playlistmix/internal/youtube"
)

// API is the subset of the YouTube client the materializer needs.
type API interface {
	CreatePlaylist(ctx context.Context, title, privacy string) (youtube.Playlist, error)
	InsertItem(ctx context.Context, playlistID, videoID string) error
}

// Request describes the playlist to create and the videos to put in it,
// in the order they should appear.
type Request struct {
	Title   string
	Privacy criteria.Privacy
	Videos  []youtube.Video
}

// Summary reports what was actually created.
type Summary struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	URL                  string   `json:"url"`
	VideoCount           int      `json:"video_count"`
	TotalDurationMinutes int64    `json:"total_duration_minutes"`
	Failed               []string `json:"failed,omitempty"`
}

// Partial reports whether some videos could not be added.
func (s Summary) Partial() bool {
	return len(s.Failed) > 0
}

// Materializer creates playlists and fills them one video at a time.
type Materializer struct {
	api    API
	logger zerolog.Logger
}

// NewMaterializer creates a Materializer backed by api.
func NewMaterializer(api API, logger zerolog.Logger) *Materializer {
	return &Materializer{api: api, logger: logger}
}

// Materialize creates the playlist and inserts every video sequentially so
// the playlist order matches the selection order. A failed insertion is
// logged and recorded by title; the remaining videos are still attempted.
// Only a failure to create the playlist itself is returned as an error.
func (m *Materializer) Materialize(ctx context.Context, req Request) (Summary, error) {
	created, err := m.api.CreatePlaylist(ctx, req.Title, string(req.Privacy))
	if err != nil {
		return Summary{}, fmt.Errorf("create playlist: %w", err)
	}

	log := m.logger.With().Str("playlist_id", created.ID).Logger()
	log.Info().Int("videos", len(req.Videos)).Msg("playlist created, adding videos")

	inserted := make([]youtube.Video, 0, len(req.Videos))
	var failed []string

	for _, v := range req.Videos {
		if err := m.api.InsertItem(ctx, created.ID, v.ID); err != nil {
			log.Warn().Err(err).Str("video_id", v.ID).Str("title", v.Title).Msg("failed to add video")
			failed = append(failed, v.Title)
			continue
		}
		inserted = append(inserted, v)
	}

	summary := Summary{
		ID:                   created.ID,
		Title:                req.Title,
		URL:                  created.URL,
		VideoCount:           len(inserted),
		TotalDurationMinutes: selection.TotalMinutes(inserted),
		Failed:               failed,
	}

	log.Info().
		Int("added", summary.VideoCount).
		Int("failed", len(failed)).
		Int64("minutes", summary.TotalDurationMinutes).
		Msg("playlist populated")

	return summary, nil
}
