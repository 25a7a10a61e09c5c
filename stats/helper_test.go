package stats

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	mu       sync.Mutex
	counters map[string]int
	gauges   map[string]int64
	calls    int
	err      error
}

var _ Client = (*recordingClient)(nil)

func newRecordingClient() *recordingClient {
	return &recordingClient{
		counters: map[string]int{},
		gauges:   map[string]int64{},
	}
}

func (c *recordingClient) Incr(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.err != nil {
		return c.err
	}
	c.counters[name]++
	return nil
}

func (c *recordingClient) Gauge(name string, value int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.err != nil {
		return c.err
	}
	c.gauges[name] = value
	return nil
}

var errBackendDown = errors.New("backend down")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func newState(t *testing.T, guilds ...*discordgo.Guild) *discordgo.State {
	t.Helper()

	state := discordgo.NewState()
	for _, g := range guilds {
		require.NoError(t, state.GuildAdd(g))
	}
	return state
}

func member(userID string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: userID}}
}

func presence(userID string, status discordgo.Status) *discordgo.Presence {
	return &discordgo.Presence{User: &discordgo.User{ID: userID}, Status: status}
}
