package stats

import "errors"

// ErrEmptyGuildID indicates that no guild was configured to report on.
var ErrEmptyGuildID = errors.New("guild_id must be set")

// ErrNilClient indicates that no stats Client was given to NewListener.
var ErrNilClient = errors.New("stats client must not be nil")

// ErrNilState indicates that no GuildState was given to NewListener.
var ErrNilState = errors.New("guild state must not be nil")
