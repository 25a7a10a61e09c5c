package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stats.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewConfig(t *testing.T) {
	config := NewConfig()

	assert.Empty(t, config.GuildID)
	assert.Empty(t, config.ChannelNameOverrides)
	assert.Equal(t, 5*time.Minute, config.PresenceUpdateTimeout)
	assert.Equal(t, "@every 1h", config.BoostSchedule)
	assert.Equal(t, "bot", config.Statsd.Prefix)
	assert.Empty(t, config.Statsd.Address)
	assert.Empty(t, config.Prometheus.ListenAddress)
	assert.ErrorIs(t, config.Validate(), ErrEmptyGuildID)
}

func TestConfig_Validate(t *testing.T) {
	config := NewConfig()
	config.GuildID = "267624335836053506"
	assert.NoError(t, config.Validate())

	config.PresenceUpdateTimeout = -time.Second
	assert.Error(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
guild_id: "267624335836053506"
modmail_category_id: "714494672835444826"
incidents_channel_id: "714214212200562749"
channel_name_overrides:
  "291284109232308226": off_topic_0
  "463035241142026251": staff_lounge
presence_update_timeout: 90s
statsd:
  address: localhost:8125
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "267624335836053506", config.GuildID)
	assert.Equal(t, "714494672835444826", config.ModmailCategoryID)
	assert.Equal(t, "714214212200562749", config.IncidentsChannelID)
	assert.Equal(t, map[string]string{
		"291284109232308226": "off_topic_0",
		"463035241142026251": "staff_lounge",
	}, config.ChannelNameOverrides)
	assert.Equal(t, 90*time.Second, config.PresenceUpdateTimeout)
	assert.Equal(t, "localhost:8125", config.Statsd.Address)

	// Untouched keys keep their defaults.
	assert.Equal(t, "bot", config.Statsd.Prefix)
	assert.Equal(t, "@every 1h", config.BoostSchedule)
	assert.Equal(t, "bot", config.Prometheus.Namespace)
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "guild_id: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("missing guild", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "presence_update_timeout: 1m\n"))
		assert.ErrorIs(t, err, ErrEmptyGuildID)
	})
}
