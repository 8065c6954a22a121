package log

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	sentrylogrus "github.com/getsentry/sentry-go/logrus"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

const sentryFlushTimeout = 2 * time.Second

// SentrySettings represents the configuration required to bootstrap Sentry.
type SentrySettings struct {
	DSN         string
	Environment string
	Release     string
}

// InitSentry creates a Sentry hub and forwards error-level logrus entries to it.
// Without a DSN it returns a nil hub and a no-op flush.
func InitSentry(logger *logrus.Logger, settings SentrySettings) (*sentry.Hub, func(), error) {
	if settings.DSN == "" {
		return nil, func() {}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              settings.DSN,
		Environment:      settings.Environment,
		Release:          settings.Release,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "error initializing sentry client")
	}

	hub := sentry.NewHub(client, sentry.NewScope())

	hook := sentrylogrus.NewLogHookFromClient([]logrus.Level{
		logrus.ErrorLevel,
		logrus.FatalLevel,
		logrus.PanicLevel,
	}, client)
	logger.AddHook(hook)

	flush := func() {
		hub.Flush(sentryFlushTimeout)
	}

	return hub, flush, nil
}

// Capture reports err to the request-scoped hub when present, otherwise to fallback.
func Capture(ctx context.Context, fallback *sentry.Hub, err error) {
	if err == nil {
		return
	}

	if ctx != nil {
		if hub := sentry.GetHubFromContext(ctx); hub != nil {
			hub.CaptureException(err)
			return
		}
	}

	if fallback != nil {
		fallback.CaptureException(err)
	}
}
