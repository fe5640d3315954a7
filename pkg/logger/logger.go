package logx

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Debug        bool   `split_words:"true" default:"false"`
	PrettyFormat bool   `split_words:"true" default:"false"`
	Level        string `split_words:"true"`
}

var DefaultConfig = &Config{
	Debug:        false,
	PrettyFormat: false,
}

// Output is where logs go. The chat REPL owns stdout, so logs default to stderr.
var Output io.Writer = os.Stderr

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func Init(opts ...Config) {
	conf := safe(opts...)

	if conf.PrettyFormat {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: Output}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(Output).With().Timestamp().Logger()
	}

	log.Logger = log.Logger.Level(conf.level())

	log.Logger = log.Logger.With().Caller().Stack().Logger()
}

func (c *Config) level() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.Level))); err == nil && c.Level != "" {
		return lvl
	}
	return zerolog.InfoLevel
}
