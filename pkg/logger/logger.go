package logger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	WithComponent(name string) Logger
}

type Opts struct {
	Env       string
	SentryUrl string
}

type Impl struct {
	slog *slog.Logger
}

var _ Logger = (*Impl)(nil)

func New(opts Opts) *Impl {
	level := slog.LevelDebug
	if opts.Env == "production" {
		level = slog.LevelInfo
	}

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	handlers := []slog.Handler{
		slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler(),
	}

	if opts.SentryUrl != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryUrl,
			Environment: opts.Env,
		})
		if err != nil {
			zl.Warn().Err(err).Msg("Sentry init failed, continuing without it")
		} else {
			handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
		}
	}

	return &Impl{slog: slog.New(slogmulti.Fanout(handlers...))}
}

// FromSlog wraps an existing slog.Logger. Used by tests to route engine
// logs through the testing.T logger.
func FromSlog(l *slog.Logger) *Impl {
	return &Impl{slog: l}
}

func (i *Impl) Debug(msg string, args ...any) { i.slog.Debug(msg, args...) }
func (i *Impl) Info(msg string, args ...any)  { i.slog.Info(msg, args...) }
func (i *Impl) Warn(msg string, args ...any)  { i.slog.Warn(msg, args...) }
func (i *Impl) Error(msg string, args ...any) { i.slog.Error(msg, args...) }

func (i *Impl) WithComponent(name string) Logger {
	return &Impl{slog: i.slog.With("component", name)}
}

// Printf routes fx framework events through the structured logger.
func (i *Impl) Printf(format string, args ...any) {
	i.slog.Info(fmt.Sprintf(format, args...))
}
