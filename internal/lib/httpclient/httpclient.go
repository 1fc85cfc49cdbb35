// Package httpclient builds the resty client shared by the provider
// integrations.
//
// Outbound calls go through the New Relic round tripper, which records
// an external segment whenever the request context carries a
// transaction and is a plain pass-through otherwise. No timeout and
// no retries are configured: each provider call is attempted once and
// is bounded only by the request context.
package httpclient

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const userAgent = "kwcluster/1.0"

// New returns a resty client logging through logger.
//
// A nil transport means http.DefaultTransport.
func New(logger *zerolog.Logger, transport http.RoundTripper) *resty.Client {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return resty.New().
		SetTransport(newrelic.NewRoundTripper(transport)).
		SetLogger(restyLogger{logger: logger}).
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)
}

// restyLogger adapts zerolog to resty.Logger.
type restyLogger struct {
	logger *zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Str("component", "resty").Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Str("component", "resty").Msg(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Str("component", "resty").Msg(fmt.Sprintf(format, v...))
}
