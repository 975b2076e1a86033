package bootstrap

import (
	"os"
	"syscall"
	"time"

	"github.com/kbukum/engineconnector/logger"
)

const defaultGracefulTimeout = 15 * time.Second

// Option tunes an App. Options are not generic so the same values work for
// any config type.
type Option func(*settings)

type settings struct {
	log     *logger.Logger
	grace   time.Duration
	signals []os.Signal
}

func newSettings(opts []Option) settings {
	s := settings{
		grace:   defaultGracefulTimeout,
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLogger uses l instead of initializing the global logger from the
// config's logging section.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithSignals replaces SIGINT and SIGTERM as the shutdown signals.
func WithSignals(sigs ...os.Signal) Option {
	return func(s *settings) {
		if len(sigs) > 0 {
			s.signals = sigs
		}
	}
}
