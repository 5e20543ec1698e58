package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/playlistmix/internal/criteria"
	"github.com/gauthierbraillon/playlistmix/internal/pipeline"
	"github.com/gauthierbraillon/playlistmix/internal/playlist"
	"github.com/gauthierbraillon/playlistmix/internal/youtube"
)

type fakePipeline struct {
	search   pipeline.Result[[]youtube.Video]
	generate pipeline.Result[playlist.Summary]
	panics   bool

	gotCriteria criteria.SearchCriteria
	gotToken    string
	gotVideos   []youtube.Video
	gotTitle    string
	gotPrivacy  criteria.Privacy
}

func (f *fakePipeline) Search(_ context.Context, c criteria.SearchCriteria) pipeline.Result[[]youtube.Video] {
	if f.panics {
		panic("boom")
	}
	f.gotCriteria = c
	return f.search
}

func (f *fakePipeline) Generate(ctx context.Context, session pipeline.Session, videos []youtube.Video, title string, privacy criteria.Privacy) pipeline.Result[playlist.Summary] {
	token, err := session.AccessToken(ctx)
	if err != nil {
		return pipeline.Fail[playlist.Summary](pipeline.KindAuth, pipeline.MsgNotAuthenticated)
	}
	f.gotToken = token
	f.gotVideos = videos
	f.gotTitle = title
	f.gotPrivacy = privacy
	return f.generate
}

func newTestServer(t *testing.T, p Pipeline) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewRouter(p, Options{
		Logger:   zerolog.Nop(),
		Timeout:  5 * time.Second,
		Registry: prometheus.NewRegistry(),
	}))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, body string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

const searchBody = `{
	"keywords": "golang tutorial",
	"recency": {"value": 2, "unit": "weeks"},
	"min_views": 1000,
	"language": "en",
	"duration": {"min": 5, "max": 30},
	"target": {"type": "videos", "value": 2},
	"playlist_title": "Go",
	"playlist_privacy": "private"
}`

func TestSearch_ReturnsSelection(t *testing.T) {
	fake := &fakePipeline{search: pipeline.Ok([]youtube.Video{
		{ID: "abc", Title: "Intro", ChannelTitle: "Gopher", ViewCount: 5000, DurationSeconds: 754},
		{ID: "def", Title: "Deep dive", ViewCount: 4000, DurationSeconds: 3725},
	})}
	server := newTestServer(t, fake)

	resp := postJSON(t, server.URL+"/api/search", searchBody, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "error")
	assert.Equal(t, float64(74), body["total_minutes"])

	videos := body["videos"].([]any)
	require.Len(t, videos, 2)
	first := videos[0].(map[string]any)
	assert.Equal(t, "abc", first["id"])
	assert.Equal(t, "12:34", first["duration_formatted"])
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", first["url"])
	assert.Equal(t, "1:02:05", videos[1].(map[string]any)["duration_formatted"])

	assert.Equal(t, "golang tutorial", fake.gotCriteria.Keywords)
	assert.Equal(t, criteria.UnitWeeks, fake.gotCriteria.Recency.Unit)
	assert.Equal(t, criteria.PrivacyPrivate, fake.gotCriteria.PlaylistPrivacy)
}

func TestSearch_ShortSelectionReportsZeroMinutes(t *testing.T) {
	fake := &fakePipeline{search: pipeline.Ok([]youtube.Video{
		{ID: "clip", Title: "Clip", ViewCount: 100, DurationSeconds: 45},
	})}
	server := newTestServer(t, fake)

	body := decode(t, postJSON(t, server.URL+"/api/search", searchBody, nil))

	assert.Equal(t, true, body["success"])
	require.Contains(t, body, "total_minutes")
	assert.Equal(t, float64(0), body["total_minutes"])
}

func TestSearch_FailureStatusMapping(t *testing.T) {
	tests := []struct {
		kind pipeline.Kind
		want int
	}{
		{pipeline.KindValidation, http.StatusBadRequest},
		{pipeline.KindAuth, http.StatusUnauthorized},
		{pipeline.KindNoCandidates, http.StatusNotFound},
		{pipeline.KindNoMatches, http.StatusNotFound},
		{pipeline.KindQuotaExceeded, http.StatusTooManyRequests},
		{pipeline.KindNotConfigured, http.StatusServiceUnavailable},
		{pipeline.KindInternal, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			server := newTestServer(t, &fakePipeline{search: pipeline.Fail[[]youtube.Video](tt.kind, "nope")})

			resp := postJSON(t, server.URL+"/api/search", searchBody, nil)

			assert.Equal(t, tt.want, resp.StatusCode)
			body := decode(t, resp)
			assert.Equal(t, false, body["success"])
			assert.NotContains(t, body, "videos")
			errBody := body["error"].(map[string]any)
			assert.Equal(t, string(tt.kind), errBody["kind"])
			assert.Equal(t, "nope", errBody["message"])
		})
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	server := newTestServer(t, &fakePipeline{})

	for _, body := range []string{`{not json`, `{"keywords":"go","unknown":1}`} {
		resp := postJSON(t, server.URL+"/api/search", body, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		errBody := decode(t, resp)["error"].(map[string]any)
		assert.Equal(t, "validation", errBody["kind"])
	}
}

func TestCreatePlaylist_UsesBearerToken(t *testing.T) {
	fake := &fakePipeline{generate: pipeline.Ok(playlist.Summary{
		ID: "PL1", Title: "My mix", URL: youtube.PlaylistURL("PL1"),
		VideoCount: 1, TotalDurationMinutes: 75,
	})}
	server := newTestServer(t, fake)

	body := `{"title":"My mix","privacy":"unlisted","videos":[{"id":"abc","title":"Intro","channel_title":"Gopher","thumbnail_url":"","published_at":"2024-05-01T00:00:00Z","view_count":5000,"duration_seconds":4500,"duration_formatted":"1:15:00","url":"https://www.youtube.com/watch?v=abc"}]}`
	resp := postJSON(t, server.URL+"/api/playlists", body, http.Header{"Authorization": {"Bearer user-token"}})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode(t, resp)
	assert.Equal(t, true, got["success"])
	pl := got["playlist"].(map[string]any)
	assert.Equal(t, "PL1", pl["id"])
	assert.Equal(t, "https://www.youtube.com/playlist?list=PL1", pl["url"])
	assert.Equal(t, float64(75), pl["total_duration_minutes"])
	assert.Equal(t, "1:15:00", pl["duration_formatted"])

	assert.Equal(t, "user-token", fake.gotToken)
	assert.Equal(t, "My mix", fake.gotTitle)
	assert.Equal(t, criteria.PrivacyUnlisted, fake.gotPrivacy)
	require.Len(t, fake.gotVideos, 1)
	assert.Equal(t, int64(4500), fake.gotVideos[0].DurationSeconds)
}

func TestCreatePlaylist_WithoutTokenIsUnauthorized(t *testing.T) {
	server := newTestServer(t, &fakePipeline{})

	resp := postJSON(t, server.URL+"/api/playlists", `{"title":"x","privacy":"private","videos":[]}`, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errBody := decode(t, resp)["error"].(map[string]any)
	assert.Equal(t, pipeline.MsgNotAuthenticated, errBody["message"])
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, &fakePipeline{})

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp)["status"])
}

func TestMetrics_CountOutcomes(t *testing.T) {
	fake := &fakePipeline{
		search:   pipeline.Ok([]youtube.Video{{ID: "a"}}),
		generate: pipeline.Ok(playlist.Summary{ID: "PL1", VideoCount: 3, Failed: []string{"x"}}),
	}
	server := newTestServer(t, fake)

	postJSON(t, server.URL+"/api/search", searchBody, nil)
	postJSON(t, server.URL+"/api/playlists", `{"title":"x","privacy":"private","videos":[{"id":"a"}]}`, http.Header{"Authorization": {"Bearer t"}})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(raw)
	assert.Contains(t, text, `playlistmix_searches_total{outcome="success"} 1`)
	assert.Contains(t, text, `playlistmix_playlists_total{outcome="success"} 1`)
	assert.Contains(t, text, `playlistmix_playlist_items_total{result="added"} 3`)
	assert.Contains(t, text, `playlistmix_playlist_items_total{result="failed"} 1`)
	assert.Contains(t, text, `playlistmix_http_request_duration_seconds_count{method="POST",route="/api/search",status="200"} 1`)
}

func TestRecover_PanicBecomesInternalFailure(t *testing.T) {
	server := newTestServer(t, &fakePipeline{panics: true})

	resp := postJSON(t, server.URL+"/api/search", searchBody, nil)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal", body["error"].(map[string]any)["kind"])
}

func TestRequestID_KeepsCallerID(t *testing.T) {
	server := newTestServer(t, &fakePipeline{})

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "caller-id-1")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "caller-id-1", resp.Header.Get(RequestIDHeader))
}

func TestLogging_WritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	handler := NewRouter(&fakePipeline{}, Options{Logger: zerolog.New(&buf)})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "rid-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http", entry["message"])
	assert.Equal(t, "rid-42", entry["request_id"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, "/healthz", entry["path"])
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hasDeadline bool
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, hasDeadline)
}
