package report

import (
	"log"
	"os"
	"runtime"
	"time"

	"github.com/getsentry/sentry-go"
)

// Setup initialises Sentry when dsn is set and reports whether it is active.
// Without a DSN every Report call is a no-op.
func Setup(dsn, environment, release string) bool {
	if dsn == "" {
		log.Println("Sentry disabled (no DSN configured)")
		return false
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		TracesSampleRate: 0.1,
	}); err != nil {
		log.Printf("sentry.Init failed, continuing without error reporting: %v", err)
		return false
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("go_version", runtime.Version())
		scope.SetContext("host_info", map[string]interface{}{
			"hostname": hostname(),
		})
	})

	return true
}

func Flush() {
	sentry.Flush(2 * time.Second)
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}

// Options carries optional tags and context for a report.
type Options struct {
	Tags         map[string]string
	ExtraContext map[string]interface{}
	Level        sentry.Level
}

// Report sends err to Sentry. Level defaults to error.
func Report(err error, opts Options) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range opts.Tags {
			scope.SetTag(k, v)
		}
		if opts.ExtraContext != nil {
			scope.SetContext("extra", opts.ExtraContext)
		}
		level := opts.Level
		if level == "" {
			level = sentry.LevelError
		}
		scope.SetLevel(level)
		sentry.CaptureException(err)
	})
}
