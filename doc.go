// Package discord hosts a go-sarah bot on Discord and lets additional
// listeners observe the same gateway session.
//
// The Adapter converts guild messages into sarah.Input so registered commands
// run as usual, and it registers any extra discordgo handlers given through
// WithEventHandlers on the session before the connection is opened.
// The stats sub-package uses this to translate guild events into counters and
// gauges without opening a second gateway connection.
package discord
