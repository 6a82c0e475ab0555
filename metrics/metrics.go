// Package metrics exposes the service's prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DraftsGenerated counts drafts returned per platform by the
	// generation pipeline.
	DraftsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmuse_drafts_generated_total",
		Help: "Number of drafts generated, by platform.",
	}, []string{"platform"})

	// PostsPublished counts publish attempts per platform and outcome.
	PostsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmuse_posts_published_total",
		Help: "Number of publish attempts, by platform and status.",
	}, []string{"platform", "status"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
