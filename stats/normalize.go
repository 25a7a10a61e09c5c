package stats

import (
	"strings"
	"unicode"
)

const (
	channelPrefix = "channels."
	commandPrefix = "commands."
)

// Sanitize drops every character that is not an ASCII letter, digit or underscore.
func Sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if isAllowed(r) {
			return r
		}
		return -1
	}, name)
}

func isAllowed(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}

// replaceSeparators turns hyphens and whitespace into underscores.
func replaceSeparators(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}

// Normalizer derives metric names from channel and command names.
type Normalizer struct {
	overrides map[string]string
}

// NewNormalizer creates a Normalizer with the given channel ID to name overrides.
func NewNormalizer(overrides map[string]string) *Normalizer {
	copied := make(map[string]string, len(overrides))
	for id, name := range overrides {
		copied[id] = name
	}

	return &Normalizer{
		overrides: copied,
	}
}

// ChannelSegment returns the metric name segment for the given channel.
// An override registered for channelID wins over the channel name.
// When nothing survives sanitization, the channel ID is used.
func (n *Normalizer) ChannelSegment(channelID string, name string) string {
	segment := replaceSeparators(name)
	if override, ok := n.overrides[channelID]; ok && override != "" {
		segment = override
	}

	segment = Sanitize(segment)
	if segment == "" {
		return Sanitize(channelID)
	}
	return segment
}

// ChannelMetric returns the dotted counter name for messages posted in the given channel.
func (n *Normalizer) ChannelMetric(channelID string, name string) string {
	return channelPrefix + n.ChannelSegment(channelID, name)
}

// CommandMetric returns the dotted counter name for a completed command.
// Spaces in qualified names such as "infraction search" become underscores.
func CommandMetric(qualifiedName string) string {
	segment := Sanitize(replaceSeparators(strings.TrimSpace(qualifiedName)))
	if segment == "" {
		segment = "unknown"
	}
	return commandPrefix + segment
}
