// Package stats translates Discord guild events into counters and gauges.
//
// A Listener receives discordgo events through the Adapter's extra handlers,
// looks up channel and guild snapshots in discordgo.State and emits metrics
// through a Client. Channel names become dotted metric names such as
// "channels.off_topic_0"; presence gauges are recomputed at most once per
// configured cooldown; the guild boost gauges are refreshed by a sarah
// scheduled task.
package stats
