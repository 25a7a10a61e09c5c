package stats

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklahomer/go-kasumi/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusClient exposes counters and gauges as Prometheus collectors.
// Collectors are created on first use because channel counters are only known at runtime.
// A dotted name such as "guild.status.online" becomes "<namespace>_guild_status_online",
// and counters get the conventional "_total" suffix.
type PrometheusClient struct {
	namespace  string
	registerer prometheus.Registerer

	mu       sync.Mutex
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
}

var _ Client = (*PrometheusClient)(nil)

// NewPrometheusClient creates a PrometheusClient that registers its collectors on registerer.
func NewPrometheusClient(namespace string, registerer prometheus.Registerer) *PrometheusClient {
	return &PrometheusClient{
		namespace:  namespace,
		registerer: registerer,
		counters:   map[string]prometheus.Counter{},
		gauges:     map[string]prometheus.Gauge{},
	}
}

// Incr increments the counter derived from name.
func (c *PrometheusClient) Incr(name string) error {
	counter, err := c.counter(name)
	if err != nil {
		return err
	}

	counter.Inc()
	return nil
}

// Gauge sets the gauge derived from name.
func (c *PrometheusClient) Gauge(name string, value int64) error {
	gauge, err := c.gauge(name)
	if err != nil {
		return err
	}

	gauge.Set(float64(value))
	return nil
}

func (c *PrometheusClient) counter(name string) (prometheus.Counter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[name]; ok {
		return counter, nil
	}

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      promName(name) + "_total",
		Help:      fmt.Sprintf("Count of %s events", name),
	})
	registered, err := c.register(counter)
	if err != nil {
		return nil, err
	}

	counter, ok := registered.(prometheus.Counter)
	if !ok {
		return nil, fmt.Errorf("collector registered for %s is not a counter", name)
	}
	c.counters[name] = counter
	return counter, nil
}

func (c *PrometheusClient) gauge(name string) (prometheus.Gauge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gauge, ok := c.gauges[name]; ok {
		return gauge, nil
	}

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      promName(name),
		Help:      fmt.Sprintf("Current value of %s", name),
	})
	registered, err := c.register(gauge)
	if err != nil {
		return nil, err
	}

	gauge, ok := registered.(prometheus.Gauge)
	if !ok {
		return nil, fmt.Errorf("collector registered for %s is not a gauge", name)
	}
	c.gauges[name] = gauge
	return gauge, nil
}

// register registers collector, reusing an identical collector registered earlier.
func (c *PrometheusClient) register(collector prometheus.Collector) (prometheus.Collector, error) {
	err := c.registerer.Register(collector)
	if err == nil {
		return collector, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector, nil
	}

	return nil, fmt.Errorf("failed to register collector: %w", err)
}

func promName(name string) string {
	return Sanitize(strings.ReplaceAll(name, ".", "_"))
}

// ServePrometheus serves the metrics gathered by gatherer on addr under /metrics until ctx is canceled.
func ServePrometheus(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Failed to shut down metrics server: %+v", err)
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
