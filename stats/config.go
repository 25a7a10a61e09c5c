package stats

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config contains configuration variables for the stats Listener and its backends.
type Config struct {
	// GuildID is the only guild whose events are reported.
	GuildID string `json:"guild_id" yaml:"guild_id"`

	// ModmailCategoryID is the category holding per-ticket modmail channels.
	// Messages in those channels are not reported.
	ModmailCategoryID string `json:"modmail_category_id" yaml:"modmail_category_id"`

	// IncidentsChannelID is reported even though it lives in the modmail category.
	IncidentsChannelID string `json:"incidents_channel_id" yaml:"incidents_channel_id"`

	// ChannelNameOverrides maps channel IDs to the metric name segment used instead of the channel name.
	// Rotating channels such as off-topic ones are renamed often, so a stable name is given here.
	ChannelNameOverrides map[string]string `json:"channel_name_overrides" yaml:"channel_name_overrides"`

	// PresenceUpdateTimeout is the minimum interval between two presence gauge recomputations.
	PresenceUpdateTimeout time.Duration `json:"presence_update_timeout" yaml:"presence_update_timeout"`

	// BoostSchedule is the cron spec on which boost gauges are refreshed.
	BoostSchedule string `json:"boost_schedule" yaml:"boost_schedule"`

	Statsd     StatsdConfig     `json:"statsd" yaml:"statsd"`
	Prometheus PrometheusConfig `json:"prometheus" yaml:"prometheus"`
}

// StatsdConfig configures the statsd backend.
// The backend is disabled when Address is empty.
type StatsdConfig struct {
	Address string `json:"address" yaml:"address"`
	Prefix  string `json:"prefix" yaml:"prefix"`

	// FlushInterval enables buffered sending when positive.
	FlushInterval time.Duration `json:"flush_interval" yaml:"flush_interval"`
}

// PrometheusConfig configures the Prometheus backend.
// The backend is disabled when ListenAddress is empty.
type PrometheusConfig struct {
	Namespace     string `json:"namespace" yaml:"namespace"`
	ListenAddress string `json:"listen_address" yaml:"listen_address"`
}

// NewConfig creates and returns a new Config instance with default settings.
// GuildID is empty and must be set before use.
func NewConfig() *Config {
	return &Config{
		GuildID:               "",
		ChannelNameOverrides:  map[string]string{},
		PresenceUpdateTimeout: 5 * time.Minute,
		BoostSchedule:         "@every 1h",
		Statsd: StatsdConfig{
			Prefix: "bot",
		},
		Prometheus: PrometheusConfig{
			Namespace: "bot",
		},
	}
}

// Validate reports whether the configuration can drive a Listener.
func (c *Config) Validate() error {
	if c.GuildID == "" {
		return ErrEmptyGuildID
	}

	if c.PresenceUpdateTimeout < 0 {
		return fmt.Errorf("presence_update_timeout must not be negative: %s", c.PresenceUpdateTimeout)
	}

	return nil
}

// LoadConfig reads the YAML file at path on top of NewConfig's defaults and validates the result.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats config %s: %w", path, err)
	}

	config := NewConfig()
	if err := yaml.Unmarshal(buf, config); err != nil {
		return nil, fmt.Errorf("failed to parse stats config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stats config %s: %w", path, err)
	}

	return config, nil
}
