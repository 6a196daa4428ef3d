package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fta_feed_pages_fetched_total",
		Help: "The total number of feed pages requested from the remote service",
	}, []string{"endpoint"})

	postsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fta_feed_posts_fetched_total",
		Help: "The total number of posts returned inside the time window",
	})

	itemsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fta_feed_items_dropped_total",
		Help: "Feed items skipped because the record was not a post",
	})

	feedsSynced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fta_feed_sync_feeds_total",
		Help: "Number of feed aliases written by sync",
	})
)
