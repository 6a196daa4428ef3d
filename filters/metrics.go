package filters

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var postsFiltered = promauto.NewCounter(prometheus.CounterOpts{
	Name: "fta_posts_filtered_total",
	Help: "Fetched posts removed by post filters",
})
