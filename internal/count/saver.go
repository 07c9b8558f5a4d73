package count

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/metrics"
)

// DefaultDebounce is how long the saver waits after the last change
// before persisting.
const DefaultDebounce = 600 * time.Millisecond

// SaveFunc persists one serialized scan-log snapshot.
type SaveFunc func(ctx context.Context, payload []byte) error

// Saver coalesces bursts of scan-log changes into single writes. Each
// Schedule call re-arms the quiescence timer; when it fires, the latest
// snapshot is persisted unless it is byte-identical to the last
// acknowledged write. Writes are serialized: a snapshot arriving while
// one is in flight is stashed and flushed afterwards. Failed writes are
// logged, not retried; the next change schedules a fresh attempt.
type Saver struct {
	mu        sync.Mutex
	idle      *sync.Cond
	delay     time.Duration
	save      SaveFunc
	log       zerolog.Logger
	timer     *time.Timer
	pending   []byte
	lastSaved []byte
	inFlight  bool
	dirty     bool
	closed    bool
}

// NewSaver creates a saver with the given quiescence delay. A zero or
// negative delay falls back to DefaultDebounce.
func NewSaver(delay time.Duration, save SaveFunc, log zerolog.Logger) *Saver {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	s := &Saver{delay: delay, save: save, log: log}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Schedule records a new snapshot and re-arms the timer. Calls after
// Close are ignored.
func (s *Saver) Schedule(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append([]byte(nil), payload...)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.flush)
}

// Flush persists the pending snapshot immediately, bypassing the timer.
// A write already in flight is waited out first, so the snapshot that
// exists when Flush is called is guaranteed to be persisted (or its
// error returned) before Flush returns. No-op when nothing changed
// since the last acknowledged write.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	for s.inFlight {
		s.idle.Wait()
	}
	if s.closed || s.pending == nil || bytes.Equal(s.pending, s.lastSaved) {
		s.mu.Unlock()
		return nil
	}
	payload := s.pending
	s.inFlight = true
	s.mu.Unlock()

	err := s.save(ctx, payload)
	s.finish(payload, err)
	return err
}

// Close stops the timer and marks the saver done. An in-flight write is
// allowed to finish but its result is dropped.
func (s *Saver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Saver) flush() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.inFlight {
		s.dirty = true
		s.mu.Unlock()
		return
	}
	if s.pending == nil || bytes.Equal(s.pending, s.lastSaved) {
		if s.pending != nil {
			metrics.ScanLogSavesTotal.WithLabelValues("skipped").Inc()
		}
		s.mu.Unlock()
		return
	}
	payload := s.pending
	s.inFlight = true
	s.mu.Unlock()

	err := s.save(context.Background(), payload)
	s.finish(payload, err)
}

func (s *Saver) finish(payload []byte, err error) {
	s.mu.Lock()
	s.inFlight = false
	s.idle.Broadcast()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if err != nil {
		metrics.ScanLogSavesTotal.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Msg("scan log save failed")
	} else {
		metrics.ScanLogSavesTotal.WithLabelValues("ok").Inc()
		s.lastSaved = payload
	}
	redo := s.dirty
	s.dirty = false
	s.mu.Unlock()
	if redo {
		s.flush()
	}
}
