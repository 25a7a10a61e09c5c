package stats

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
)

const (
	metricMessages     = "messages"
	metricTotalMembers = "guild.total_members"
	metricOnline       = "guild.status.online"
	metricIdle         = "guild.status.idle"
	metricDoNotDisturb = "guild.status.do_not_disturb"
	metricOffline      = "guild.status.offline"
	metricBoostAmount  = "boost.amount"
	metricBoostTier    = "boost.tier"
)

// GuildState provides guild and channel snapshots.
// *discordgo.State satisfies this interface.
// Returned guilds and channels are shared with the event loop,
// so their fields are only read while holding RLock.
// Guild and Channel take the lock themselves and must not be called while it is held.
type GuildState interface {
	Guild(guildID string) (*discordgo.Guild, error)
	Channel(channelID string) (*discordgo.Channel, error)
	RLock()
	RUnlock()
}

var _ GuildState = (*discordgo.State)(nil)

// CommandFunc is the signature of a sarah command function.
type CommandFunc func(context.Context, sarah.Input) (*sarah.CommandResponse, error)

// Listener translates guild events into stats emissions.
type Listener struct {
	config     *Config
	client     Client
	state      GuildState
	normalizer *Normalizer
	presence   *Debounce
}

// NewListener creates a Listener reporting events of config.GuildID to client.
func NewListener(config *Config, client Client, state GuildState) (*Listener, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if client == nil {
		return nil, ErrNilClient
	}

	if state == nil {
		return nil, ErrNilState
	}

	return &Listener{
		config:     config,
		client:     client,
		state:      state,
		normalizer: NewNormalizer(config.ChannelNameOverrides),
		presence:   NewDebounce(config.PresenceUpdateTimeout),
	}, nil
}

// Handlers returns the discordgo handler funcs to register with discord.WithEventHandlers.
func (l *Listener) Handlers() []interface{} {
	return []interface{}{
		l.onMessageCreate,
		l.onGuildCreate,
		l.onGuildMemberAdd,
		l.onGuildMemberRemove,
		l.onGuildMemberUpdate,
		l.onPresenceUpdate,
	}
}

// TrackCommand wraps a sarah command function so every successful run increments "commands.<identifier>".
func (l *Listener) TrackCommand(identifier string, fn CommandFunc) CommandFunc {
	metric := CommandMetric(identifier)
	return func(ctx context.Context, input sarah.Input) (*sarah.CommandResponse, error) {
		res, err := fn(ctx, input)
		if err != nil {
			return res, err
		}

		l.incr(metric)
		return res, nil
	}
}

func (l *Listener) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.GuildID != l.config.GuildID {
		return
	}

	channel, err := l.state.Channel(m.ChannelID)
	if err != nil {
		logger.Debugf("Channel %s is not in state. Only counting the message: %+v", m.ChannelID, err)
		l.incr(metricMessages)
		return
	}

	l.state.RLock()
	id, name, parentID, isThread := channel.ID, channel.Name, channel.ParentID, channel.IsThread()
	l.state.RUnlock()

	if isThread {
		categoryID, err := l.categoryOf(parentID)
		if err != nil {
			logger.Debugf("Parent %s of thread %s is not in state: %+v", parentID, id, err)
		}
		if l.isModmail(parentID, categoryID) {
			return
		}
	} else if l.isModmail(id, parentID) {
		return
	}

	l.incr(l.normalizer.ChannelMetric(id, name))
	l.incr(metricMessages)
}

// categoryOf returns the category the given channel belongs to.
func (l *Listener) categoryOf(channelID string) (string, error) {
	channel, err := l.state.Channel(channelID)
	if err != nil {
		return "", err
	}

	l.state.RLock()
	defer l.state.RUnlock()
	return channel.ParentID, nil
}

// isModmail reports whether the channel in the given category is a per-ticket modmail channel.
// The incidents channel shares the category but is still reported.
func (l *Listener) isModmail(channelID string, categoryID string) bool {
	if l.config.ModmailCategoryID == "" {
		return false
	}
	return categoryID == l.config.ModmailCategoryID && channelID != l.config.IncidentsChannelID
}

func (l *Listener) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.ID != l.config.GuildID {
		return
	}

	logger.Infof("Guild %s is available. Reporting boost stats.", g.ID)
	l.reportBoost(g.Guild)
}

func (l *Listener) onGuildMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.Member == nil {
		return
	}
	l.reportMemberCount(m.GuildID)
}

func (l *Listener) onGuildMemberRemove(_ *discordgo.Session, m *discordgo.GuildMemberRemove) {
	if m.Member == nil {
		return
	}
	l.reportMemberCount(m.GuildID)
}

func (l *Listener) onGuildMemberUpdate(_ *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	if m.Member == nil {
		return
	}
	l.reportPresences(m.GuildID)
}

func (l *Listener) onPresenceUpdate(_ *discordgo.Session, p *discordgo.PresenceUpdate) {
	l.reportPresences(p.GuildID)
}

func (l *Listener) reportMemberCount(guildID string) {
	if guildID != l.config.GuildID {
		return
	}

	guild, err := l.state.Guild(guildID)
	if err != nil {
		logger.Warnf("Failed to look up guild %s for member count: %+v", guildID, err)
		return
	}

	l.state.RLock()
	count := guild.MemberCount
	if count == 0 {
		count = len(guild.Members)
	}
	l.state.RUnlock()

	l.gauge(metricTotalMembers, int64(count))
}

func (l *Listener) reportPresences(guildID string) {
	if guildID != l.config.GuildID {
		return
	}

	guild, err := l.state.Guild(guildID)
	if err != nil {
		logger.Warnf("Failed to look up guild %s for presences: %+v", guildID, err)
		return
	}

	if !l.presence.Allow() {
		return
	}

	l.state.RLock()
	counts := countStatuses(guild)
	l.state.RUnlock()

	l.gauge(metricOnline, counts.online)
	l.gauge(metricIdle, counts.idle)
	l.gauge(metricDoNotDisturb, counts.dnd)
	l.gauge(metricOffline, counts.offline)
}

type statusCounts struct {
	online  int64
	idle    int64
	dnd     int64
	offline int64
}

// countStatuses tallies the presence of every cached member.
// The caller holds the state's read lock.
// Members without a cached presence are offline; invisible members look offline to everyone else.
func countStatuses(guild *discordgo.Guild) statusCounts {
	statuses := make(map[string]discordgo.Status, len(guild.Presences))
	for _, p := range guild.Presences {
		if p == nil || p.User == nil {
			continue
		}
		statuses[p.User.ID] = p.Status
	}

	var counts statusCounts
	for _, m := range guild.Members {
		if m == nil || m.User == nil {
			continue
		}

		switch statuses[m.User.ID] {
		case discordgo.StatusOnline:
			counts.online++
		case discordgo.StatusIdle:
			counts.idle++
		case discordgo.StatusDoNotDisturb:
			counts.dnd++
		default:
			counts.offline++
		}
	}
	return counts
}

// ReportBoost emits the boost gauges of the configured guild.
// Nothing is emitted while the guild is not available in state yet.
func (l *Listener) ReportBoost() {
	guild, err := l.state.Guild(l.config.GuildID)
	if err != nil {
		logger.Debugf("Guild %s is not available yet. Skipping boost stats: %+v", l.config.GuildID, err)
		return
	}
	l.reportBoost(guild)
}

func (l *Listener) reportBoost(guild *discordgo.Guild) {
	l.state.RLock()
	amount, tier := guild.PremiumSubscriptionCount, guild.PremiumTier
	l.state.RUnlock()

	l.gauge(metricBoostAmount, int64(amount))
	l.gauge(metricBoostTier, int64(tier))
}

func (l *Listener) incr(name string) {
	if err := l.client.Incr(name); err != nil {
		logger.Errorf("Failed to increment %s: %+v", name, err)
	}
}

func (l *Listener) gauge(name string, value int64) {
	if err := l.client.Gauge(name, value); err != nil {
		logger.Errorf("Failed to set gauge %s: %+v", name, err)
	}
}
