// Package audit mirrors card mutations and process lifecycle events to object
// storage as one JSON document per event.
//
// The sidecar is best-effort. Logger.Log has no error result: write failures
// are reported to the process log and counted in Prometheus, then dropped.
// Callers therefore never branch on audit outcomes, and an unavailable bucket
// can slow a request (the write is synchronous) but never fail it.
//
// A Logger is constructed once at start-up and injected into the services
// that need it. Nop is used when auditing is disabled or storage is absent;
// Recorder keeps entries in memory for tests.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Action names the kind of event being recorded. It is also the first part of
// the object key, so values must be safe path segments.
type Action string

const (
	ActionCardCreated Action = "card_created"
	ActionCardUpdated Action = "card_updated"
	ActionCardDeleted Action = "card_deleted"
	ActionError       Action = "error"
	ActionAppStarted  Action = "app_started"
	ActionAppStopped  Action = "app_stopped"
)

// keyTimeLayout gives second resolution. Keys also carry a per-write suffix,
// so events of the same action within one second land in separate objects.
const keyTimeLayout = "2006-01-02_15-04-05"

// Logger records an audit event. Implementations must not panic and must not
// report failures to the caller.
type Logger interface {
	Log(ctx context.Context, action Action, details map[string]any)
}

// ObjectWriter is the subset of the object store the sidecar needs.
type ObjectWriter interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
}

// Entry is the document written for every event.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Action    Action         `json:"action"`
	Details   map[string]any `json:"details"`
}

var auditWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "flipcards_audit_writes_total",
		Help: "Audit sidecar writes by action and result (ok|error).",
	},
	[]string{"action", "result"},
)

func init() {
	prometheus.MustRegister(auditWrites)
}

// S3Logger writes entries to <Prefix>/<action>_<timestamp>_<suffix>.json.
type S3Logger struct {
	Writer  ObjectWriter
	Prefix  string
	Timeout time.Duration

	// Diag receives failures. Defaults to the global logger.
	Diag zerolog.Logger
	// Now and Suffix are swappable for tests.
	Now    func() time.Time
	Suffix func() string
}

func shortID() string { return uuid.NewString()[:8] }

// NewS3Logger constructs an S3Logger with the global zerolog logger as its
// diagnostic sink. A non-positive timeout falls back to five seconds.
func NewS3Logger(w ObjectWriter, prefix string, timeout time.Duration) *S3Logger {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "logs"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &S3Logger{
		Writer:  w,
		Prefix:  prefix,
		Timeout: timeout,
		Diag:    log.Logger.With().Str("component", "audit").Logger(),
		Now:     func() time.Time { return time.Now().UTC() },
		Suffix:  shortID,
	}
}

// Key returns a fresh object key for action at t.
func (l *S3Logger) Key(action Action, t time.Time) string {
	suffix := shortID
	if l.Suffix != nil {
		suffix = l.Suffix
	}
	return fmt.Sprintf("%s/%s_%s_%s.json", l.Prefix, action, t.Format(keyTimeLayout), suffix())
}

// Log serializes and uploads one entry. The upload runs on a context that
// survives request cancellation but is bounded by Timeout.
func (l *S3Logger) Log(ctx context.Context, action Action, details map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			auditWrites.WithLabelValues(string(action), "error").Inc()
			l.Diag.Error().Interface("panic", r).Str("action", string(action)).Msg("audit write panicked")
		}
	}()

	now := l.Now()
	if details == nil {
		details = map[string]any{}
	}
	body, err := json.Marshal(Entry{
		Timestamp: now.Format(keyTimeLayout),
		Action:    action,
		Details:   details,
	})
	if err != nil {
		auditWrites.WithLabelValues(string(action), "error").Inc()
		l.Diag.Warn().Err(err).Str("action", string(action)).Msg("audit entry not serializable")
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.Timeout)
	defer cancel()

	key := l.Key(action, now)
	if err := l.Writer.Upload(wctx, key, "application/json", bytes.NewReader(body), int64(len(body))); err != nil {
		auditWrites.WithLabelValues(string(action), "error").Inc()
		l.Diag.Warn().Err(err).Str("action", string(action)).Str("key", key).Msg("audit write failed")
		return
	}
	auditWrites.WithLabelValues(string(action), "ok").Inc()
	l.Diag.Debug().Str("action", string(action)).Str("key", key).Msg("audit entry written")
}

// Nop discards every event.
type Nop struct{}

// Log implements Logger.
func (Nop) Log(context.Context, Action, map[string]any) {}

// Recorder keeps events in memory. The zero value is ready to use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Log implements Logger.
func (r *Recorder) Log(_ context.Context, action Action, details map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{
		Timestamp: time.Now().UTC().Format(keyTimeLayout),
		Action:    action,
		Details:   details,
	})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Filter returns the recorded entries for one action.
func (r *Recorder) Filter(action Action) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}
