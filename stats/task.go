package stats

import (
	"context"

	"github.com/oklahomer/go-sarah/v4"

	discord "github.com/oklahomer/go-sarah-discord-stats"
)

// BoostTaskIdentifier identifies the scheduled task that refreshes boost gauges.
const BoostTaskIdentifier = "guild_boost_stats"

// BoostTaskProps builds a sarah scheduled task that calls ReportBoost on config.BoostSchedule.
// The task stops with the context given to sarah.Run.
func BoostTaskProps(l *Listener) (*sarah.ScheduledTaskProps, error) {
	return sarah.NewScheduledTaskPropsBuilder().
		BotType(discord.DISCORD).
		Identifier(BoostTaskIdentifier).
		Schedule(l.config.BoostSchedule).
		Func(l.boostTask).
		Build()
}

// boostTask reports the boost gauges. It has no output to send.
func (l *Listener) boostTask(_ context.Context) ([]*sarah.ScheduledTaskResult, error) {
	l.ReportBoost()
	return nil, nil
}
