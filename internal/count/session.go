package count

import (
	"errors"
	"time"

	"github.com/noumanabid-jpg/inventory-scanner-app/internal/metrics"
	"github.com/noumanabid-jpg/inventory-scanner-app/internal/sheet"
)

// State describes what the session is waiting for.
type State string

const (
	// StateIdle means no item is pending confirmation.
	StateIdle State = "idle"
	// StateActive means a scanned item is awaiting an actual count.
	StateActive State = "active"
	// StateNotFound means the last scanned code matched nothing.
	StateNotFound State = "not_found"
)

var (
	// ErrNoMapping is returned when the loaded file lacks the required
	// barcode, name or on-hand columns, so scanning stays disabled.
	ErrNoMapping = errors.New("required columns not found; scanning disabled")
	// ErrNoActive is returned by Confirm when no scanned item is pending.
	ErrNoActive = errors.New("no scanned item to confirm")
)

// Session drives one counting run over a loaded inventory file: scan a
// code, confirm an actual quantity, repeat. Confirmations land in the
// diff log and fire the change callback so persistence can follow.
// Session is not safe for concurrent use.
type Session struct {
	rows     []sheet.Row
	mapping  *sheet.ColumnMapping
	index    *sheet.LookupIndex
	diffs    *DiffLog
	active   *sheet.Item
	state    State
	source   string
	now      func() time.Time
	onChange func()
}

// NewSession creates an empty session with nothing loaded.
func NewSession() *Session {
	return &Session{
		diffs: NewDiffLog(),
		state: StateIdle,
		now:   time.Now,
	}
}

// OnChange registers a callback invoked after every diff-log mutation.
func (s *Session) OnChange(fn func()) {
	s.onChange = fn
}

// Load parses an inventory file and makes it the session's working set.
// Any previously recorded diffs are discarded, even when the new file
// fails to parse. Returns ErrNoMapping when the file parsed but the
// required columns could not be identified.
func (s *Session) Load(sourceName, text string) error {
	s.rows = nil
	s.mapping = nil
	s.index = nil
	s.active = nil
	s.state = StateIdle
	s.source = sourceName
	s.diffs.Reset()
	s.notify()

	table, err := sheet.Parse(text)
	if err != nil {
		return err
	}
	s.rows = table.Rows
	s.mapping = sheet.MapColumns(table.Headers)
	s.index = sheet.BuildIndex(table.Rows, s.mapping)
	if s.mapping == nil {
		return ErrNoMapping
	}
	metrics.FilesLoadedTotal.Inc()
	return nil
}

// Scan looks up a barcode in the loaded file. A hit makes the item
// active and awaiting confirmation; scanning while another item is
// active silently replaces it. With no usable mapping the scan is
// refused and the state is unchanged.
func (s *Session) Scan(code interface{}) (*sheet.Item, State) {
	if s.mapping == nil || s.index == nil {
		return nil, s.state
	}
	item, ok := s.index.Resolve(code)
	if !ok {
		s.active = nil
		s.state = StateNotFound
		return nil, s.state
	}
	s.active = item
	s.state = StateActive
	return item, s.state
}

// Confirm records the actual counted quantity for the active item and
// returns the resulting diff entry. The session goes back to idle.
func (s *Session) Confirm(actual interface{}) (*DiffEntry, error) {
	if s.active == nil {
		return nil, ErrNoActive
	}
	counted := sheet.ToNumber(actual)
	e := DiffEntry{
		Barcode:    s.active.Barcode,
		Name:       s.active.Name,
		PrevOnHand: s.active.OnHand,
		Reserved:   s.active.Reserved,
		Actual:     counted,
		Delta:      counted - s.active.OnHand,
		TS:         s.now(),
	}
	s.diffs.Upsert(e)
	s.active = nil
	s.state = StateIdle
	s.notify()
	return &e, nil
}

// Cancel discards the active item without recording anything.
func (s *Session) Cancel() {
	s.active = nil
	s.state = StateIdle
}

// Restore replaces the diff log wholesale, e.g. when resuming a
// previously persisted counting run for the same file.
func (s *Session) Restore(entries []DiffEntry) {
	s.diffs.Replace(entries)
	s.notify()
}

// Active returns the item awaiting confirmation, or nil.
func (s *Session) Active() *sheet.Item { return s.active }

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Diffs returns the session's diff log.
func (s *Session) Diffs() *DiffLog { return s.diffs }

// Source returns the name of the loaded inventory file.
func (s *Session) Source() string { return s.source }

// Rows reports how many data rows the loaded file carries.
func (s *Session) Rows() int { return len(s.rows) }

func (s *Session) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}
