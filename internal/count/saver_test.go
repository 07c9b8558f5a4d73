package count

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type saveRecorder struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (r *saveRecorder) save(_ context.Context, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.payloads = append(r.payloads, append([]byte(nil), payload...))
	return nil
}

func (r *saveRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func (r *saveRecorder) last() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.payloads) == 0 {
		return nil
	}
	return r.payloads[len(r.payloads)-1]
}

func TestSaver_CoalescesBursts(t *testing.T) {
	rec := &saveRecorder{}
	s := NewSaver(20*time.Millisecond, rec.save, zerolog.Nop())
	defer s.Close()

	for _, p := range []string{"a", "ab", "abc", "abcd", "final"} {
		s.Schedule([]byte(p))
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	if got := rec.count(); got != 1 {
		t.Fatalf("expected exactly one save for the burst, got %d", got)
	}
	if string(rec.last()) != "final" {
		t.Errorf("expected last scheduled payload to win, got %q", rec.last())
	}
}

func TestSaver_SkipsUnchangedPayload(t *testing.T) {
	rec := &saveRecorder{}
	s := NewSaver(10*time.Millisecond, rec.save, zerolog.Nop())
	defer s.Close()

	s.Schedule([]byte("same"))
	time.Sleep(100 * time.Millisecond)
	s.Schedule([]byte("same"))
	time.Sleep(100 * time.Millisecond)

	if got := rec.count(); got != 1 {
		t.Fatalf("expected identical payload to be skipped, got %d saves", got)
	}
}

func TestSaver_SavesChangedPayloadAgain(t *testing.T) {
	rec := &saveRecorder{}
	s := NewSaver(10*time.Millisecond, rec.save, zerolog.Nop())
	defer s.Close()

	s.Schedule([]byte("v1"))
	time.Sleep(100 * time.Millisecond)
	s.Schedule([]byte("v2"))
	time.Sleep(100 * time.Millisecond)

	if got := rec.count(); got != 2 {
		t.Fatalf("expected two saves for two distinct payloads, got %d", got)
	}
	if string(rec.last()) != "v2" {
		t.Errorf("expected v2 persisted last, got %q", rec.last())
	}
}

func TestSaver_FlushBypassesTimer(t *testing.T) {
	rec := &saveRecorder{}
	s := NewSaver(time.Hour, rec.save, zerolog.Nop())
	defer s.Close()

	s.Schedule([]byte("pending"))
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	if got := rec.count(); got != 1 {
		t.Fatalf("expected flush to persist immediately, got %d saves", got)
	}
}

func TestSaver_FlushWaitsOutInFlightWrite(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	var payloads []string
	var calls int
	save := func(_ context.Context, p []byte) error {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(entered)
			<-release
		}
		mu.Lock()
		payloads = append(payloads, string(p))
		mu.Unlock()
		return nil
	}

	s := NewSaver(10*time.Millisecond, save, zerolog.Nop())
	defer s.Close()

	s.Schedule([]byte("v1"))
	<-entered // timer fired, v1 write is in flight
	s.Schedule([]byte("v2"))

	flushed := make(chan error, 1)
	go func() { flushed <- s.Flush(context.Background()) }()

	time.Sleep(20 * time.Millisecond) // flush must be waiting, not returning early
	select {
	case <-flushed:
		t.Fatal("Flush returned while a write was still in flight")
	default:
	}

	close(release)
	if err := <-flushed; err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(payloads) == 0 || payloads[len(payloads)-1] != "v2" {
		t.Fatalf("expected final snapshot persisted after flush, got %v", payloads)
	}
	if payloads[0] != "v1" {
		t.Fatalf("expected writes serialized oldest first, got %v", payloads)
	}
}

func TestSaver_FailedSaveIsNotRetried(t *testing.T) {
	rec := &saveRecorder{err: errors.New("backend unavailable")}
	s := NewSaver(10*time.Millisecond, rec.save, zerolog.Nop())
	defer s.Close()

	s.Schedule([]byte("doomed"))
	time.Sleep(100 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("expected no successful saves, got %d", got)
	}

	// next change tries again with a working backend
	rec.mu.Lock()
	rec.err = nil
	rec.mu.Unlock()
	s.Schedule([]byte("recovered"))
	time.Sleep(100 * time.Millisecond)
	if got := rec.count(); got != 1 {
		t.Fatalf("expected a fresh attempt after the next change, got %d saves", got)
	}
}

func TestSaver_ScheduleAfterCloseIgnored(t *testing.T) {
	rec := &saveRecorder{}
	s := NewSaver(10*time.Millisecond, rec.save, zerolog.Nop())

	s.Close()
	s.Schedule([]byte("late"))
	time.Sleep(100 * time.Millisecond)
	if got := rec.count(); got != 0 {
		t.Fatalf("expected no saves after close, got %d", got)
	}
}
