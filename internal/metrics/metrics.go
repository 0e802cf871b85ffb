// Package metrics holds Prometheus instruments that are used across the
// site.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	//
	// Head metadata
	//

	HeadElementsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_head_elements_created_total",
			Help: "Managed head elements appended by the metadata injector.",
		})

	HeadElementsUpdatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_head_elements_updated_total",
			Help: "Existing head elements whose value was overwritten in place.",
		})

	HeadElementsRemovedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_head_elements_removed_total",
			Help: "Managed head elements removed by pruning or unmount.",
		})

	StructuredDataPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seo_structured_data_published_total",
			Help: "JSON-LD script elements published.",
		})

	ControllerAppliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seo_controller_applies_total",
			Help: "Controller Apply calls by outcome (run, skipped, error).",
		}, []string{"outcome"})

	//
	// Pages
	//

	PageRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_renders_total",
			Help: "Pages served by section and crawler flag.",
		}, []string{"section", "bot"})

	PageCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_hits_total",
			Help: "Rendered pages served from the page cache.",
		})

	PageCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_misses_total",
			Help: "Page cache misses that triggered a render.",
		})

	PageCacheEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_evict_total",
			Help: "Cumulative number of pages evicted from the cache.",
		})

	CachedPages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "page_cache_entries",
			Help: "Number of rendered pages currently held in memory.",
		})

	//
	// Calculators
	//

	CalculatorEstimatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calculator_estimates_total",
			Help: "Calculator requests by calculator and result (ok, invalid).",
		}, []string{"calculator", "result"})
)

func init() {
	prometheus.MustRegister(
		HeadElementsCreatedTotal,
		HeadElementsUpdatedTotal,
		HeadElementsRemovedTotal,
		StructuredDataPublishedTotal,
		ControllerAppliesTotal,
		PageRendersTotal,
		PageCacheHitsTotal,
		PageCacheMissesTotal,
		PageCacheEvictTotal,
		CachedPages,
		CalculatorEstimatesTotal,
	)
}
