package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"
)

const (
	// DISCORD is a designated sarah.BotType for Discord integration.
	DISCORD sarah.BotType = "discord"
)

// session abstracts the subset of *discordgo.Session the Adapter depends on.
type session interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ChannelID represents a Discord channel as sarah.OutputDestination.
type ChannelID string

var _ sarah.OutputDestination = ChannelID("")

// AdapterOption defines a function signature for Adapter's functional options.
type AdapterOption func(adapter *Adapter)

// WithSession creates an AdapterOption with the given *discordgo.Session.
// Pass a session when other components need its State, e.g. the stats listener.
// If this option is not given, NewAdapter creates a new session from Config.Token.
func WithSession(session *discordgo.Session) AdapterOption {
	return func(adapter *Adapter) {
		adapter.session = session
	}
}

// WithEventHandlers creates an AdapterOption that registers the given discordgo handler funcs
// on the session when Run is called.
// Each handler must match one of discordgo's handler signatures,
// e.g. func(*discordgo.Session, *discordgo.GuildMemberAdd).
func WithEventHandlers(handlers ...interface{}) AdapterOption {
	return func(adapter *Adapter) {
		adapter.handlers = append(adapter.handlers, handlers...)
	}
}

// Adapter is a sarah.Adapter implementation for Discord.
type Adapter struct {
	config   *Config
	session  session
	handlers []interface{}
}

var _ sarah.Adapter = (*Adapter)(nil)

// NewAdapter creates a new Adapter with the given Config and options.
func NewAdapter(config *Config, options ...AdapterOption) (*Adapter, error) {
	adapter := &Adapter{
		config: config,
	}

	for _, opt := range options {
		opt(adapter)
	}

	for _, h := range adapter.handlers {
		if h == nil {
			return nil, ErrNilHandler
		}
	}

	if adapter.session == nil {
		if config.Token == "" {
			return nil, ErrEmptyToken
		}

		s, err := discordgo.New("Bot " + config.Token)
		if err != nil {
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
		s.Identify.Intents = config.Intents
		adapter.session = s
	}

	return adapter, nil
}

// BotType returns a designated BotType for Discord integration.
func (a *Adapter) BotType() sarah.BotType {
	return DISCORD
}

// Run registers handlers, establishes a connection with Discord and blocks until the context is canceled.
func (a *Adapter) Run(ctx context.Context, enqueueInput func(sarah.Input) error, notifyErr func(error)) {
	a.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		a.handleMessage(s, m, enqueueInput)
	})

	for _, h := range a.handlers {
		a.session.AddHandler(h)
	}
	logger.Debugf("Registered %d additional event handler(s)", len(a.handlers))

	err := a.session.Open()
	if err != nil {
		notifyErr(sarah.NewBotNonContinuableError(fmt.Sprintf("failed to open Discord session: %s", err.Error())))
		return
	}
	logger.Infof("Discord session is open")

	<-ctx.Done()

	if closeErr := a.session.Close(); closeErr != nil {
		logger.Errorf("Failed to close Discord session: %+v", closeErr)
	}
}

// handleMessage converts a guild or direct message into sarah.Input and hands it to enqueueInput.
func (a *Adapter) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate, enqueueInput func(sarah.Input) error) {
	input, err := MessageToInput(m)
	if err != nil {
		logger.Debugf("Skipping message: %+v", err)
		return
	}

	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	if a.config.IgnoreBots && m.Author.Bot {
		return
	}

	var enqueueErr error
	switch trimmed := strings.TrimSpace(input.Message()); {
	case a.config.HelpCommand != "" && trimmed == a.config.HelpCommand:
		enqueueErr = enqueueInput(sarah.NewHelpInput(input))
	case a.config.AbortCommand != "" && trimmed == a.config.AbortCommand:
		enqueueErr = enqueueInput(sarah.NewAbortInput(input))
	default:
		enqueueErr = enqueueInput(input)
	}
	if enqueueErr != nil {
		logger.Errorf("Failed to enqueue input from channel %s: %+v", m.ChannelID, enqueueErr)
	}
}

// SendMessage sends the given output to the Discord channel it is destined for.
func (a *Adapter) SendMessage(_ context.Context, output sarah.Output) {
	destination, ok := output.Destination().(ChannelID)
	if !ok {
		logger.Errorf("Destination is not instance of ChannelID. %#v.", output.Destination())
		return
	}

	channelID := string(destination)

	var err error
	switch content := output.Content().(type) {
	case string:
		_, err = a.session.ChannelMessageSend(channelID, content)

	case *discordgo.MessageSend:
		_, err = a.session.ChannelMessageSendComplex(channelID, content)

	case *sarah.CommandHelps:
		_, err = a.session.ChannelMessageSend(channelID, formatHelps(content))

	default:
		logger.Warnf("Unexpected output %#v", output)
		return
	}

	if err != nil {
		logger.Errorf("Failed to send message to %s: %+v", channelID, err)
	}
}

func formatHelps(helps *sarah.CommandHelps) string {
	lines := make([]string, 0, len(*helps))
	for _, h := range *helps {
		lines = append(lines, fmt.Sprintf("**%s**: %s", h.Identifier, h.Instruction))
	}
	return strings.Join(lines, "\n")
}
