package prometheus

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cliplink/cliplink/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 10 * time.Second
	defaultPort       = 9090
)

// NewServer builds the standalone metrics server. It exposes process and
// runtime collectors on /metrics, separate from the application port so
// scraping never competes with redirect traffic.
func NewServer(cfg config.PrometheusConfig) *http.Server {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
}
