// Package youtube provides a client for the YouTube Data API v3.
package youtube

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/gauthierbraillon/playlistmix/internal/duration"
)

const (
	// MaxSearchResults is the page size of search.list; only one page is read.
	MaxSearchResults int64 = 50
	// BatchSize is the maximum number of ids videos.list accepts per call.
	BatchSize = 50
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithAPIKey authenticates requests with an API key (search and metadata).
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTokenSource authenticates requests on behalf of a user (playlist writes).
func WithTokenSource(ts oauth2.TokenSource) ClientOption {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// WithEndpoint sets a custom base URL (useful for testing).
func WithEndpoint(url string) ClientOption {
	return func(c *Client) {
		c.endpoint = url
	}
}

// WithTransport sets the underlying HTTP transport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		c.transport = rt
	}
}

// Client is a YouTube Data API client.
type Client struct {
	apiKey      string
	tokenSource oauth2.TokenSource
	endpoint    string
	transport   http.RoundTripper
	service     *youtube.Service
}

// NewClient creates a new YouTube API client. At least one of WithAPIKey or
// WithTokenSource should be given; requests go out unauthenticated otherwise.
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{
		transport: http.DefaultTransport,
	}

	for _, opt := range opts {
		opt(c)
	}

	rt := c.transport
	if c.tokenSource != nil {
		rt = &oauth2.Transport{Source: c.tokenSource, Base: rt}
	}
	if c.apiKey != "" {
		rt = &transport.APIKey{Key: c.apiKey, Transport: rt}
	}

	svcOpts := []option.ClientOption{option.WithHTTPClient(&http.Client{Transport: rt})}
	if c.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(c.endpoint))
	}

	service, err := youtube.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	c.service = service

	return c, nil
}

// Search runs a single-page search.list query and returns the video ids in
// the order YouTube ranked them.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]string, error) {
	maxResults := q.MaxResults
	if maxResults <= 0 || maxResults > MaxSearchResults {
		maxResults = MaxSearchResults
	}

	call := c.service.Search.List([]string{"id"}).
		Q(q.Query).
		Type("video").
		Order("relevance").
		MaxResults(maxResults)

	if !q.PublishedAfter.IsZero() {
		call = call.PublishedAfter(q.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if q.RelevanceLanguage != "" {
		call = call.RelevanceLanguage(q.RelevanceLanguage)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, classify("search", err)
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
	}

	return ids, nil
}

// FetchDetails retrieves metadata for ids in sequential batches of at most
// BatchSize. Results keep the order the ids were supplied in; ids YouTube
// does not recognise are dropped.
func (c *Client) FetchDetails(ctx context.Context, ids []string) ([]Video, error) {
	ids = dedupe(ids)
	videos := make([]Video, 0, len(ids))

	for start := 0; start < len(ids); start += BatchSize {
		end := min(start+BatchSize, len(ids))
		batch, err := c.fetchBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		videos = append(videos, batch...)
	}

	return videos, nil
}

func (c *Client) fetchBatch(ctx context.Context, ids []string) ([]Video, error) {
	resp, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("videos", err)
	}

	byID := make(map[string]*youtube.Video, len(resp.Items))
	for _, item := range resp.Items {
		byID[item.Id] = item
	}

	videos := make([]Video, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			continue
		}
		videos = append(videos, toVideo(item))
	}

	return videos, nil
}

func toVideo(item *youtube.Video) Video {
	v := Video{ID: item.Id}

	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.ChannelTitle = s.ChannelTitle
		v.ThumbnailURL = bestThumbnail(s.Thumbnails)
		v.PublishedAt, _ = time.Parse(time.RFC3339, s.PublishedAt)
	}
	if st := item.Statistics; st != nil {
		v.ViewCount = int64(st.ViewCount)
	}
	if cd := item.ContentDetails; cd != nil {
		v.DurationSeconds = duration.Parse(cd.Duration)
	}

	return v
}

// bestThumbnail returns the URL of the best available thumbnail.
func bestThumbnail(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
