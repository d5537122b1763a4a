package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

type upload struct {
	key, contentType string
	body             []byte
	size             int64
	hasDeadline      bool
	ctxErr           error
}

type fakeWriter struct {
	mu      sync.Mutex
	uploads []upload
	err     error
	panics  bool
}

func (w *fakeWriter) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if w.panics {
		panic("writer exploded")
	}
	b, _ := io.ReadAll(body)
	_, has := ctx.Deadline()
	w.mu.Lock()
	w.uploads = append(w.uploads, upload{key: key, contentType: contentType, body: b, size: size, hasDeadline: has, ctxErr: ctx.Err()})
	w.mu.Unlock()
	return w.err
}

func fixedLogger(w ObjectWriter, diag *bytes.Buffer) *S3Logger {
	l := NewS3Logger(w, "logs", time.Second)
	l.Now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }
	l.Suffix = func() string { return "0a1b2c3d" }
	if diag != nil {
		l.Diag = zerolog.New(diag)
	}
	return l
}

func TestNewS3Logger_Defaults(t *testing.T) {
	l := NewS3Logger(&fakeWriter{}, "/", 0)
	if l.Prefix != "logs" || l.Timeout != 5*time.Second || l.Now == nil {
		t.Fatalf("unexpected defaults: %+v", l)
	}
	l = NewS3Logger(&fakeWriter{}, "/audit/", time.Second)
	if l.Prefix != "audit" {
		t.Fatalf("prefix not trimmed: %q", l.Prefix)
	}
}

func TestS3Logger_Key(t *testing.T) {
	l := fixedLogger(&fakeWriter{}, nil)
	got := l.Key(ActionCardCreated, l.Now())
	if got != "logs/card_created_2025-03-04_05-06-07_0a1b2c3d.json" {
		t.Fatalf("Key = %q", got)
	}
}

func TestS3Logger_Key_UniqueWithinSameSecond(t *testing.T) {
	l := NewS3Logger(&fakeWriter{}, "logs", time.Second)
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		k := l.Key(ActionCardUpdated, at)
		if !strings.HasPrefix(k, "logs/card_updated_2025-03-04_05-06-07_") || !strings.HasSuffix(k, ".json") {
			t.Fatalf("unexpected key shape %q", k)
		}
		if seen[k] {
			t.Fatalf("duplicate key %q", k)
		}
		seen[k] = true
	}

	// A zero-value logger still produces suffixed keys.
	z := &S3Logger{Prefix: "logs"}
	if a, b := z.Key(ActionError, at), z.Key(ActionError, at); a == b {
		t.Fatalf("expected distinct keys, got %q twice", a)
	}
}

func TestS3Logger_Log_WritesJSONEntry(t *testing.T) {
	w := &fakeWriter{}
	l := fixedLogger(w, nil)
	base := testutil.ToFloat64(auditWrites.WithLabelValues(string(ActionCardUpdated), "ok"))

	l.Log(context.Background(), ActionCardUpdated, map[string]any{"card_id": 7, "field": "front_text", "old": "a", "new": "b"})

	if len(w.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(w.uploads))
	}
	u := w.uploads[0]
	if u.key != "logs/card_updated_2025-03-04_05-06-07_0a1b2c3d.json" || u.contentType != "application/json" {
		t.Fatalf("unexpected key/content type: %+v", u)
	}
	if int64(len(u.body)) != u.size {
		t.Fatalf("size %d does not match body length %d", u.size, len(u.body))
	}
	if !u.hasDeadline {
		t.Fatalf("upload context should carry a deadline")
	}

	var e Entry
	if err := json.Unmarshal(u.body, &e); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if e.Action != ActionCardUpdated || e.Timestamp != "2025-03-04_05-06-07" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.Details["field"] != "front_text" || e.Details["new"] != "b" || e.Details["card_id"] != float64(7) {
		t.Fatalf("unexpected details: %#v", e.Details)
	}
	if got := testutil.ToFloat64(auditWrites.WithLabelValues(string(ActionCardUpdated), "ok")); got != base+1 {
		t.Fatalf("ok counter = %v; want %v", got, base+1)
	}
}

func TestS3Logger_Log_NilDetailsBecomesEmptyObject(t *testing.T) {
	w := &fakeWriter{}
	fixedLogger(w, nil).Log(context.Background(), ActionAppStarted, nil)
	if !bytes.Contains(w.uploads[0].body, []byte(`"details":{}`)) {
		t.Fatalf("expected empty details object, got %s", w.uploads[0].body)
	}
}

func TestS3Logger_Log_SurvivesCanceledRequestContext(t *testing.T) {
	w := &fakeWriter{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fixedLogger(w, nil).Log(ctx, ActionCardDeleted, map[string]any{"card_id": 1})

	if len(w.uploads) != 1 || w.uploads[0].ctxErr != nil {
		t.Fatalf("write should run on a live context, got %+v", w.uploads)
	}
}

func TestS3Logger_Log_FailureIsSwallowedAndReported(t *testing.T) {
	var diag bytes.Buffer
	w := &fakeWriter{err: errors.New("bucket unreachable")}
	base := testutil.ToFloat64(auditWrites.WithLabelValues(string(ActionError), "error"))

	fixedLogger(w, &diag).Log(context.Background(), ActionError, map[string]any{"error": "x"})

	if got := testutil.ToFloat64(auditWrites.WithLabelValues(string(ActionError), "error")); got != base+1 {
		t.Fatalf("error counter = %v; want %v", got, base+1)
	}
	if !bytes.Contains(diag.Bytes(), []byte("bucket unreachable")) || !bytes.Contains(diag.Bytes(), []byte(`"level":"warn"`)) {
		t.Fatalf("expected warn diagnostic, got %s", diag.String())
	}
}

func TestS3Logger_Log_UnserializableDetails(t *testing.T) {
	var diag bytes.Buffer
	w := &fakeWriter{}
	fixedLogger(w, &diag).Log(context.Background(), ActionError, map[string]any{"bad": make(chan int)})
	if len(w.uploads) != 0 {
		t.Fatalf("nothing should be uploaded")
	}
	if !bytes.Contains(diag.Bytes(), []byte("not serializable")) {
		t.Fatalf("expected diagnostic, got %s", diag.String())
	}
}

func TestS3Logger_Log_RecoversFromWriterPanic(t *testing.T) {
	var diag bytes.Buffer
	fixedLogger(&fakeWriter{panics: true}, &diag).Log(context.Background(), ActionAppStopped, nil)
	if !bytes.Contains(diag.Bytes(), []byte("panicked")) {
		t.Fatalf("expected panic diagnostic, got %s", diag.String())
	}
}

func TestNop(t *testing.T) {
	var l Logger = Nop{}
	l.Log(context.Background(), ActionCardCreated, nil) // must not panic
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var l Logger = &r

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Log(context.Background(), ActionCardUpdated, map[string]any{"i": i})
		}(i)
	}
	wg.Wait()
	l.Log(context.Background(), ActionCardDeleted, nil)

	if n := len(r.Entries()); n != 11 {
		t.Fatalf("entries = %d; want 11", n)
	}
	if n := len(r.Filter(ActionCardUpdated)); n != 10 {
		t.Fatalf("card_updated entries = %d; want 10", n)
	}

	snap := r.Entries()
	snap[0].Action = "mutated"
	if r.Entries()[0].Action == "mutated" {
		t.Fatalf("Entries must return a copy")
	}
}
