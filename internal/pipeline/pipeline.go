// Package pipeline runs the video selection flow end to end and converts
// every outcome into a Result the presentation layer can render.
//
// Search:   validate → search → fetch details → filter & rank → select
// Generate: check session → create playlist → insert videos one by one
//
// Neither entry point returns a Go error or panics across the boundary.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/playlistmix/internal/criteria"
	"github.com/gauthierbraillon/playlistmix/internal/playlist"
	"github.com/gauthierbraillon/playlistmix/internal/selection"
	"github.com/gauthierbraillon/playlistmix/internal/youtube"
)

// Catalog searches videos and enriches them with metadata.
type Catalog interface {
	Search(ctx context.Context, q youtube.SearchQuery) ([]string, error)
	FetchDetails(ctx context.Context, ids []string) ([]youtube.Video, error)
}

// Session supplies the signed-in user's access token.
type Session interface {
	AccessToken(ctx context.Context) (string, error)
}

// PlaylistOpener builds a playlist API client acting as the user.
type PlaylistOpener func(ctx context.Context, accessToken string) (playlist.API, error)

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source used for recency cutoffs.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxResults caps the number of search candidates per query.
func WithMaxResults(n int64) Option {
	return func(s *Service) { s.maxResults = n }
}

// Service is the orchestration boundary of the selection pipeline.
type Service struct {
	catalog    Catalog
	open       PlaylistOpener
	logger     zerolog.Logger
	now        func() time.Time
	maxResults int64
}

// New creates a Service. A nil catalog makes every search fail as not
// configured; a nil opener does the same for playlist creation.
func New(catalog Catalog, open PlaylistOpener, opts ...Option) *Service {
	s := &Service{
		catalog:    catalog,
		open:       open,
		logger:     zerolog.Nop(),
		now:        time.Now,
		maxResults: youtube.MaxSearchResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the selection pipeline for c and returns the ranked videos
// chosen for the target, ready for review.
func (s *Service) Search(ctx context.Context, c criteria.SearchCriteria) (result Result[[]youtube.Video]) {
	defer recoverInto(s.logger, &result, MsgSearchFailed)

	if err := c.Validate(); err != nil {
		return failWith[[]youtube.Video](err, MsgSearchFailed)
	}
	if s.catalog == nil {
		return Fail[[]youtube.Video](KindNotConfigured, MsgNotConfigured)
	}

	log := s.logger.With().Str("keywords", c.Keywords).Logger()

	ids, err := s.catalog.Search(ctx, youtube.SearchQuery{
		Query:             c.Keywords,
		PublishedAfter:    c.PublishedAfter(s.now()),
		RelevanceLanguage: c.Language,
		MaxResults:        s.maxResults,
	})
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		return failWith[[]youtube.Video](err, MsgSearchFailed)
	}
	if len(ids) == 0 {
		log.Info().Msg("search returned no candidates")
		return Fail[[]youtube.Video](KindNoCandidates, MsgNoCandidates)
	}

	videos, err := s.catalog.FetchDetails(ctx, ids)
	if err != nil {
		log.Error().Err(err).Int("candidates", len(ids)).Msg("fetching video details failed")
		return failWith[[]youtube.Video](err, MsgSearchFailed)
	}

	ranked := selection.FilterAndSort(videos, c)
	if len(ranked) == 0 {
		log.Info().Int("fetched", len(videos)).Msg("no videos survived filtering")
		return Fail[[]youtube.Video](KindNoMatches, MsgNoMatches)
	}

	selected := selection.SelectForTarget(ranked, c.Target)

	log.Info().
		Int("candidates", len(ids)).
		Int("fetched", len(videos)).
		Int("ranked", len(ranked)).
		Int("selected", len(selected)).
		Int64("minutes", selection.TotalMinutes(selected)).
		Msg("selection ready")

	return Ok(selected)
}

// Generate creates a playlist titled title from videos, in order, on the
// session user's channel. Insertions that fail are listed in the summary
// and do not make the result a failure.
func (s *Service) Generate(ctx context.Context, session Session, videos []youtube.Video, title string, privacy criteria.Privacy) (result Result[playlist.Summary]) {
	defer recoverInto(s.logger, &result, MsgCreateFailed)

	if session == nil {
		return Fail[playlist.Summary](KindAuth, MsgNotAuthenticated)
	}
	token, err := session.AccessToken(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("no usable session")
		return failWith[playlist.Summary](err, MsgCreateFailed)
	}

	if len(videos) == 0 {
		return Fail[playlist.Summary](KindValidation, MsgNoVideos)
	}
	if err := criteria.ValidatePlaylist(title, privacy); err != nil {
		return failWith[playlist.Summary](err, MsgCreateFailed)
	}
	if s.open == nil {
		return Fail[playlist.Summary](KindNotConfigured, MsgCreateFailed)
	}

	api, err := s.open(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to open playlist client")
		return Fail[playlist.Summary](KindInternal, MsgCreateFailed)
	}

	summary, err := playlist.NewMaterializer(api, s.logger).Materialize(ctx, playlist.Request{
		Title:   title,
		Privacy: privacy,
		Videos:  videos,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("playlist creation failed")
		return failWith[playlist.Summary](err, MsgCreateFailed)
	}

	return Ok(summary)
}

func failWith[T any](err error, fallback string) Result[T] {
	f := classify(err, fallback)
	return Fail[T](f.Kind, f.Message)
}

// recoverInto turns a panic in a pipeline stage into an internal failure.
// It must be deferred directly.
func recoverInto[T any](logger zerolog.Logger, result *Result[T], fallback string) {
	if r := recover(); r != nil {
		logger.Error().Str("panic", fmt.Sprint(r)).Msg("pipeline panicked")
		*result = Fail[T](KindInternal, fallback)
	}
}
