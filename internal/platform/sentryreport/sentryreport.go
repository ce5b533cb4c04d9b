// Package sentryreport wraps getsentry/sentry-go for the background error
// paths that have no HTTP request to surface an error to: the Scheduler's
// SchedulerExecutionError and the Final Assigner's transaction rollbacks.
// The HTTP layer, where one exists, reports via panic
// recovery instead; this package is for the ad-hoc capture calls background
// tasks make directly.
package sentryreport

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/hilomatch/hilo-core/internal/platform/logger"
)

// Reporter captures exceptions to Sentry. A nil DSN at Init time yields a
// Reporter whose CaptureException is a silent no-op, so background tasks
// never need to nil-check it themselves.
type Reporter struct {
	enabled bool
}

// Init configures the global sentry-go client. dsn == "" disables reporting
// entirely; the zero value client still satisfies every call site.
func Init(dsn, environment string, log *logger.Logger) (*Reporter, error) {
	if dsn == "" {
		log.Info("sentry DSN not configured, error reporting disabled")
		return &Reporter{enabled: false}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return nil, err
	}
	return &Reporter{enabled: true}, nil
}

// CaptureException reports err to Sentry. No-op when reporting is disabled.
func (r *Reporter) CaptureException(err error) {
	if r == nil || !r.enabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}

// Flush blocks until pending events are sent or timeout elapses, intended
// for use during graceful shutdown.
func (r *Reporter) Flush(timeout time.Duration) {
	if r == nil || !r.enabled {
		return
	}
	sentry.Flush(timeout)
}
