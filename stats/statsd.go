package stats

import (
	"fmt"

	"github.com/cactus/go-statsd-client/v5/statsd"
)

// statter is the subset of statsd.Statter the StatsdClient uses.
type statter interface {
	Inc(stat string, value int64, rate float32, tags ...statsd.Tag) error
	Gauge(stat string, value int64, rate float32, tags ...statsd.Tag) error
	Close() error
}

// StatsdClient sends counters and gauges to a statsd daemon over UDP.
type StatsdClient struct {
	statter statter
}

var _ Client = (*StatsdClient)(nil)

// NewStatsdClient dials the statsd daemon at config.Address.
// Every metric name is prefixed with config.Prefix.
func NewStatsdClient(config *StatsdConfig) (*StatsdClient, error) {
	s, err := statsd.NewClientWithConfig(&statsd.ClientConfig{
		Address:       config.Address,
		Prefix:        config.Prefix,
		UseBuffered:   config.FlushInterval > 0,
		FlushInterval: config.FlushInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create statsd client for %s: %w", config.Address, err)
	}

	return &StatsdClient{
		statter: s,
	}, nil
}

// Incr increments the named counter by one.
func (c *StatsdClient) Incr(name string) error {
	return c.statter.Inc(name, 1, 1.0)
}

// Gauge sets the named gauge.
func (c *StatsdClient) Gauge(name string, value int64) error {
	return c.statter.Gauge(name, value, 1.0)
}

// Close flushes buffered metrics and closes the connection.
func (c *StatsdClient) Close() error {
	return c.statter.Close()
}
