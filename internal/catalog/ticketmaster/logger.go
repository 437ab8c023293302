package ticketmaster

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const redacted = "REDACTED"

// redactor scrubs the API key out of anything that embeds the request URL
type redactor struct {
	replacer *strings.Replacer
}

func newRedactor(apiKey string) redactor {
	if apiKey == "" {
		return redactor{}
	}
	pairs := []string{apiKey, redacted}
	if escaped := url.QueryEscape(apiKey); escaped != apiKey {
		pairs = append(pairs, escaped, redacted)
	}
	return redactor{replacer: strings.NewReplacer(pairs...)}
}

func (r redactor) String(s string) string {
	if r.replacer == nil {
		return s
	}
	return r.replacer.Replace(s)
}

// Error returns err with the key removed from its message
func (r redactor) Error(err error) error {
	if err == nil || r.replacer == nil {
		return err
	}
	msg := err.Error()
	if clean := r.String(msg); clean != msg {
		return &redactedError{msg: clean, err: err}
	}
	return err
}

// redactedError keeps the chain for errors.Is while hiding the message
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

// leveledLogger adapts slog to retryablehttp, which logs full request URLs
type leveledLogger struct {
	logger *slog.Logger
	redact redactor
}

var _ retryablehttp.LeveledLogger = leveledLogger{}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.logger.Error(msg, l.clean(kv)...) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.logger.Info(msg, l.clean(kv)...) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.logger.Debug(msg, l.clean(kv)...) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.logger.Warn(msg, l.clean(kv)...) }

func (l leveledLogger) clean(kv []interface{}) []any {
	out := make([]any, len(kv))
	for i, v := range kv {
		switch v := v.(type) {
		case *url.URL:
			out[i] = l.redact.String(v.String())
		case error:
			out[i] = l.redact.String(v.Error())
		case string:
			out[i] = l.redact.String(v)
		case fmt.Stringer:
			out[i] = l.redact.String(v.String())
		default:
			out[i] = v
		}
	}
	return out
}
