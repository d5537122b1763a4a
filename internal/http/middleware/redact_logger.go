// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the PII scrubber shared by the access log and
// RedactingLogger, a debug-level dump of request headers with sensitive
// values masked. Request and response bodies are never logged; card text
// only travels in bodies.
package middleware

import (
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// UUIDs are redacted before phone numbers so the phone pattern cannot eat
// the digit groups of an ID.
var (
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// redact replaces IDs, emails, and phone numbers in s with placeholders.
func redact(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	s = emailRE.ReplaceAllString(s, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(s, "[REDACTED:phone]")
}

// RedactOptions configures RedactingLogger.
//
// MaskHeaders lists extra header names (case-insensitive) whose values are
// replaced by "[REDACTED]" in addition to Authorization, Cookie, and
// Set-Cookie. S3 credentials never arrive as headers, but proxies in front
// of the service sometimes add their own API keys.
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger logs the scrubbed request headers of every request at debug
// level under the message "http_request_headers". It complements Logger(),
// which owns the access log line.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	masked := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if debugDisabled() {
			c.Next()
			return
		}
		start := time.Now()
		headers := scrubHeaders(c, masked)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		reqID := c.Writer.Header().Get(requestIDHeader)
		if reqID == "" {
			reqID = c.GetHeader(requestIDHeader)
		}
		log.Debug().
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", redact(c.Request.URL.RawQuery)).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request_headers")
	}
}

func debugDisabled() bool {
	return zerolog.GlobalLevel() > zerolog.DebugLevel || log.Logger.GetLevel() > zerolog.DebugLevel
}

func scrubHeaders(c *gin.Context, masked map[string]struct{}) map[string]string {
	out := make(map[string]string, len(c.Request.Header))
	for k, vv := range c.Request.Header {
		if _, ok := masked[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = redact(strings.Join(vv, ", "))
	}
	return out
}
