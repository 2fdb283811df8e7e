package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	PagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_listing_pages_total",
			Help: "Listing pages requested, by outcome",
		},
		[]string{"outcome"},
	)
	LinksSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_links_skipped_total",
			Help: "Candidate links dropped because they are already stored",
		},
	)
	ProductsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_products_total",
			Help: "Product pages requested, by outcome (extracted, no_data, fetch_error)",
		},
		[]string{"outcome"},
	)
	StoreBrands = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crawler_store_brands",
			Help: "Brand sheets in the last written store",
		},
	)
	StoreProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crawler_store_products",
			Help: "Products in the last written store",
		},
	)
)

// Start registers the collectors and serves them on port. An empty port
// leaves the collectors unregistered; they still count.
func Start(port string) {
	if port == "" {
		return
	}
	prometheus.MustRegister(PagesFetched, LinksSkipped, ProductsFetched, StoreBrands, StoreProducts)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.WithError(err).Warn("metrics server stopped")
		}
	}()
}
