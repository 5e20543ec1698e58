package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gauthierbraillon/playlistmix/internal/pipeline"
	"github.com/gauthierbraillon/playlistmix/internal/playlist"
)

const outcomeSuccess = "success"

// Metrics groups the counters exported on /metrics.
type Metrics struct {
	searches        *prometheus.CounterVec
	playlists       *prometheus.CounterVec
	playlistItems   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the playlistmix collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		searches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "playlistmix",
				Name:      "searches_total",
				Help:      "Search requests by outcome.",
			},
			[]string{"outcome"},
		),
		playlists: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "playlistmix",
				Name:      "playlists_total",
				Help:      "Playlist creation requests by outcome.",
			},
			[]string{"outcome"},
		),
		playlistItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "playlistmix",
				Name:      "playlist_items_total",
				Help:      "Videos inserted into playlists, by result.",
			},
			[]string{"result"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "playlistmix",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

func outcome(f *pipeline.Failure) string {
	if f == nil {
		return outcomeSuccess
	}
	return string(f.Kind)
}

func (m *Metrics) recordSearch(f *pipeline.Failure) {
	m.searches.WithLabelValues(outcome(f)).Inc()
}

func (m *Metrics) recordPlaylist(f *pipeline.Failure, summary playlist.Summary) {
	m.playlists.WithLabelValues(outcome(f)).Inc()
	if f != nil {
		return
	}
	m.playlistItems.WithLabelValues("added").Add(float64(summary.VideoCount))
	m.playlistItems.WithLabelValues("failed").Add(float64(len(summary.Failed)))
}

func (m *Metrics) observeRequest(method, route string, status int, dur time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(dur.Seconds())
}
