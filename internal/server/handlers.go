package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/playlistmix/internal/criteria"
	"github.com/gauthierbraillon/playlistmix/internal/duration"
	"github.com/gauthierbraillon/playlistmix/internal/pipeline"
	"github.com/gauthierbraillon/playlistmix/internal/playlist"
	"github.com/gauthierbraillon/playlistmix/internal/youtube"
	"github.com/gauthierbraillon/playlistmix/pkg/oauth"
)

const kindInternal = pipeline.KindInternal

// Pipeline is what the handlers need from the selection service.
type Pipeline interface {
	Search(ctx context.Context, c criteria.SearchCriteria) pipeline.Result[[]youtube.Video]
	Generate(ctx context.Context, session pipeline.Session, videos []youtube.Video, title string, privacy criteria.Privacy) pipeline.Result[playlist.Summary]
}

// videoJSON is the wire form of a video, in both directions.
type videoJSON struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	ChannelTitle      string    `json:"channel_title"`
	ThumbnailURL      string    `json:"thumbnail_url"`
	PublishedAt       time.Time `json:"published_at"`
	ViewCount         int64     `json:"view_count"`
	DurationSeconds   int64     `json:"duration_seconds"`
	DurationFormatted string    `json:"duration_formatted,omitempty"`
	URL               string    `json:"url,omitempty"`
}

func toVideoJSON(v youtube.Video) videoJSON {
	return videoJSON{
		ID:                v.ID,
		Title:             v.Title,
		ChannelTitle:      v.ChannelTitle,
		ThumbnailURL:      v.ThumbnailURL,
		PublishedAt:       v.PublishedAt,
		ViewCount:         v.ViewCount,
		DurationSeconds:   v.DurationSeconds,
		DurationFormatted: v.FormattedDuration(),
		URL:               v.URL(),
	}
}

func (v videoJSON) video() youtube.Video {
	return youtube.Video{
		ID:              v.ID,
		Title:           v.Title,
		ChannelTitle:    v.ChannelTitle,
		ThumbnailURL:    v.ThumbnailURL,
		PublishedAt:     v.PublishedAt,
		ViewCount:       v.ViewCount,
		DurationSeconds: v.DurationSeconds,
	}
}

type searchResponse struct {
	Success      bool              `json:"success"`
	Videos       []videoJSON       `json:"videos,omitempty"`
	TotalMinutes *int64            `json:"total_minutes,omitempty"`
	Error        *pipeline.Failure `json:"error,omitempty"`
}

type playlistRequest struct {
	Title   string           `json:"title"`
	Privacy criteria.Privacy `json:"privacy"`
	Videos  []videoJSON      `json:"videos"`
}

type playlistJSON struct {
	playlist.Summary
	DurationFormatted string `json:"duration_formatted"`
}

type playlistResponse struct {
	Success  bool              `json:"success"`
	Playlist *playlistJSON     `json:"playlist,omitempty"`
	Error    *pipeline.Failure `json:"error,omitempty"`
}

type failureResponse struct {
	Success bool              `json:"success"`
	Error   *pipeline.Failure `json:"error"`
}

// Handlers serves the JSON API on top of a Pipeline.
type Handlers struct {
	pipeline Pipeline
	metrics  *Metrics
}

// NewHandlers creates the API handlers.
func NewHandlers(p Pipeline, metrics *Metrics) *Handlers {
	return &Handlers{pipeline: p, metrics: metrics}
}

// Search runs the selection pipeline for the criteria in the request body.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var c criteria.SearchCriteria
	if err := decodeStrict(r, &c); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("bad search body")
		writeFailure(w, http.StatusBadRequest, pipeline.KindValidation, "Invalid request body")
		return
	}

	result := h.pipeline.Search(r.Context(), c)
	if h.metrics != nil {
		h.metrics.recordSearch(result.Error)
	}

	if !result.Success {
		writeJSON(w, statusFor(result.Error.Kind), searchResponse{Error: result.Error})
		return
	}

	videos := make([]videoJSON, len(result.Data))
	var total int64
	for i, v := range result.Data {
		videos[i] = toVideoJSON(v)
		total += v.DurationSeconds
	}
	minutes := duration.Minutes(total)
	writeJSON(w, http.StatusOK, searchResponse{
		Success:      true,
		Videos:       videos,
		TotalMinutes: &minutes,
	})
}

// CreatePlaylist materializes the posted selection as the bearer of the
// Authorization header.
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := decodeStrict(r, &req); err != nil {
		zerolog.Ctx(r.Context()).Debug().Err(err).Msg("bad playlist body")
		writeFailure(w, http.StatusBadRequest, pipeline.KindValidation, "Invalid request body")
		return
	}

	videos := make([]youtube.Video, len(req.Videos))
	for i, v := range req.Videos {
		videos[i] = v.video()
	}

	session := oauth.StaticSession(bearerToken(r))
	result := h.pipeline.Generate(r.Context(), session, videos, req.Title, req.Privacy)
	if h.metrics != nil {
		h.metrics.recordPlaylist(result.Error, result.Data)
	}

	if !result.Success {
		writeJSON(w, statusFor(result.Error.Kind), playlistResponse{Error: result.Error})
		return
	}

	writeJSON(w, http.StatusOK, playlistResponse{
		Success: true,
		Playlist: &playlistJSON{
			Summary:           result.Data,
			DurationFormatted: duration.Format(result.Data.TotalDurationMinutes * 60),
		},
	})
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps a failure kind to its HTTP status.
func statusFor(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindValidation:
		return http.StatusBadRequest
	case pipeline.KindAuth:
		return http.StatusUnauthorized
	case pipeline.KindNoCandidates, pipeline.KindNoMatches:
		return http.StatusNotFound
	case pipeline.KindQuotaExceeded:
		return http.StatusTooManyRequests
	case pipeline.KindNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeFailure(w http.ResponseWriter, status int, kind pipeline.Kind, message string) {
	writeJSON(w, status, failureResponse{Error: &pipeline.Failure{Kind: kind, Message: message}})
}

func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}
