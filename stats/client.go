package stats

import (
	"errors"
	"fmt"
	"io"

	"github.com/oklahomer/go-kasumi/logger"
	"github.com/prometheus/client_golang/prometheus"
)

// Client is the narrow view of a stats backend the Listener emits through.
// Names are dotted, e.g. "guild.status.online".
type Client interface {
	// Incr increments the counter with the given name by one.
	Incr(name string) error

	// Gauge sets the gauge with the given name to value.
	Gauge(name string, value int64) error
}

// LogClient writes every emission to the debug log.
// It is used when no backend is configured.
type LogClient struct{}

var _ Client = LogClient{}

// Incr logs a counter increment.
func (LogClient) Incr(name string) error {
	logger.Debugf("stats: incr %s", name)
	return nil
}

// Gauge logs a gauge update.
func (LogClient) Gauge(name string, value int64) error {
	logger.Debugf("stats: gauge %s=%d", name, value)
	return nil
}

// MultiClient fans every emission out to all of its clients.
type MultiClient []Client

var _ Client = MultiClient(nil)

// Incr increments the counter on every client. Errors are joined.
func (m MultiClient) Incr(name string) error {
	var errs []error
	for _, c := range m {
		if err := c.Incr(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Gauge sets the gauge on every client. Errors are joined.
func (m MultiClient) Gauge(name string, value int64) error {
	var errs []error
	for _, c := range m {
		if err := c.Gauge(name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every client that implements io.Closer.
func (m MultiClient) Close() error {
	var errs []error
	for _, c := range m {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// NewClient builds the Client described by config.
// The Prometheus backend registers its collectors on registerer; pass nil to skip it regardless of config.
// LogClient is returned when no backend is enabled.
func NewClient(config *Config, registerer prometheus.Registerer) (Client, error) {
	var clients MultiClient

	if config.Statsd.Address != "" {
		c, err := NewStatsdClient(&config.Statsd)
		if err != nil {
			return nil, fmt.Errorf("failed to set up statsd backend: %w", err)
		}
		clients = append(clients, c)
		logger.Infof("Sending stats to statsd at %s", config.Statsd.Address)
	}

	if config.Prometheus.ListenAddress != "" && registerer != nil {
		clients = append(clients, NewPrometheusClient(config.Prometheus.Namespace, registerer))
		logger.Infof("Exposing stats to Prometheus at %s", config.Prometheus.ListenAddress)
	}

	switch len(clients) {
	case 0:
		logger.Warnf("No stats backend is configured. Stats are only logged.")
		return LogClient{}, nil
	case 1:
		return clients[0], nil
	default:
		return clients, nil
	}
}
