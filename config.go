package discord

import "github.com/bwmarrin/discordgo"

// DefaultIntents are the Gateway Intents required to route commands and to feed guild statistics.
// GuildMembers and GuildPresences are privileged intents and must be enabled in the developer portal.
const DefaultIntents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildPresences |
	discordgo.IntentsMessageContent

// Config contains configuration variables for the Discord Adapter.
type Config struct {
	// Token is the Discord bot token used for authentication.
	Token string `json:"token" yaml:"token"`

	// HelpCommand is the command string that triggers help.
	// An empty value disables help detection.
	HelpCommand string `json:"help_command" yaml:"help_command"`

	// AbortCommand is the command string that triggers context cancellation.
	// An empty value disables abort detection.
	AbortCommand string `json:"abort_command" yaml:"abort_command"`

	// Intents declares the Gateway Intents the bot requires.
	Intents discordgo.Intent `json:"intents" yaml:"intents"`

	// IgnoreBots drops messages authored by other bots before they reach sarah.
	IgnoreBots bool `json:"ignore_bots" yaml:"ignore_bots"`
}

// NewConfig creates and returns a new Config instance with default settings.
// Token is empty and must be set before use.
func NewConfig() *Config {
	return &Config{
		Token:        "",
		HelpCommand:  "!help",
		AbortCommand: "!abort",
		Intents:      DefaultIntents,
		IgnoreBots:   true,
	}
}
