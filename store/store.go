// Package store owns the application state tree: the task collection,
// settings, derived statistics, and UI criteria. It is the sole mutator;
// every other component receives snapshots and feeds changes back through
// an action. Stores are explicitly constructed and passed by reference,
// there is no package-level instance.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/weekwise/weekwise/storage"
	"github.com/weekwise/weekwise/types"
)

// Key identifies a top-level branch of the state tree for subscriptions
// and change notifications.
type Key string

const (
	KeyTasks      Key = "tasks"
	KeySettings   Key = "settings"
	KeyUI         Key = "ui"
	KeySearch     Key = "search"
	KeyStats      Key = "stats"
	KeyCap        Key = "capSettings"
	KeyError      Key = "error"
	KeyFormErrors Key = "formErrors"
)

// notifyOrder fixes the order in which changed keys are announced within
// a single update.
var notifyOrder = []Key{
	KeyTasks, KeySettings, KeyUI, KeySearch, KeyStats, KeyCap, KeyError, KeyFormErrors,
}

// Subscriber receives the new and old value of one state branch plus a
// snapshot of the full tree after the update.
type Subscriber func(newValue, oldValue interface{}, state types.AppState)

// Patch is a typed partial update. Each non-nil branch replaces the
// current branch wholesale; merge-vs-replace is an explicit choice made
// by the caller when building the patch, never inferred.
type Patch struct {
	Tasks      *[]types.Task
	Settings   *types.Settings
	UI         *types.UIState
	Search     *types.SearchCriteria
	Stats      *types.Stats
	Cap        *types.CapStatus
	Err        *string
	FormErrors *map[string]string
}

// maxReentrantDrain bounds how many queued re-entrant updates one
// originating SetState may drain. A subscriber that updates state
// unconditionally on every notification would otherwise livelock.
const maxReentrantDrain = 100

const defaultHistoryLimit = 50

// Store is the single owner of the application state.
type Store struct {
	mu       sync.Mutex
	state    types.AppState
	adapter  storage.Adapter
	logger   *slog.Logger
	timeFunc func() time.Time

	subscribers map[Key]map[int]Subscriber
	nextSubID   int

	history      []types.AppState // pre-update snapshots, oldest first
	historyLimit int

	notifying bool
	pending   []pendingUpdate
}

type pendingUpdate struct {
	patch  Patch
	record bool
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithLogger sets the logger used for subscriber failures and storage
// errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithTimeFunc overrides the clock, for deterministic tests.
func WithTimeFunc(fn func() time.Time) Option {
	return func(s *Store) { s.timeFunc = fn }
}

// WithHistoryLimit bounds the undo ring buffer.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// New constructs a store backed by the given adapter, loading the
// persisted task collection and settings and deriving initial statistics.
func New(adapter storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:      adapter,
		logger:       slog.Default(),
		timeFunc:     time.Now,
		subscribers:  make(map[Key]map[int]Subscriber),
		historyLimit: defaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = types.AppState{
		Tasks:    adapter.LoadTasks(),
		Settings: adapter.LoadSettings(),
		UI:       types.UIState{ActiveView: "tasks"},
	}
	s.state.Stats = deriveStats(s.state.Tasks, s.timeFunc())
	s.state.Cap = deriveCapStatus(s.state.Settings, s.state.Stats.CompletedDurationThisWeek)
	return s
}

// GetState returns a defensive copy of the whole state tree.
func (s *Store) GetState() types.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Branch getters return copies of individual branches.

func (s *Store) Tasks() []types.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneTasks(s.state.Tasks)
}

func (s *Store) Settings() types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

func (s *Store) Stats() types.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Stats
}

func (s *Store) Cap() types.CapStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Cap
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Err
}

// Subscribe registers a callback for changes to one top-level key and
// returns an unsubscribe function.
func (s *Store) Subscribe(key Key, fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribers[key] == nil {
		s.subscribers[key] = make(map[int]Subscriber)
	}
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[key][id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers[key], id)
	}
}

// SetState applies a patch, records an undo snapshot, and synchronously
// notifies subscribers of every changed key before returning.
//
// Re-entrancy policy: a SetState issued from inside a subscriber callback
// is queued and drained FIFO after the in-flight notification pass
// completes, so notification chains consume queue slots instead of call
// stack. The drain is bounded by maxReentrantDrain.
func (s *Store) SetState(patch Patch) {
	s.setState(patch, true)
}

// SetStateNoHistory applies a patch without recording an undo snapshot.
// Used for derived caches (stats, cap) and transient error surfaces so
// Undo steps over them.
func (s *Store) SetStateNoHistory(patch Patch) {
	s.setState(patch, false)
}

func (s *Store) setState(patch Patch, record bool) {
	s.mu.Lock()
	if s.notifying {
		s.pending = append(s.pending, pendingUpdate{patch: patch, record: record})
		s.mu.Unlock()
		return
	}
	s.notifying = true
	s.mu.Unlock()

	s.applyAndNotify(patch, record)
	s.drainPending()
}

// applyAndNotify applies one patch and runs the notification pass for its
// changed keys. Subscribers run without the state lock held; re-entrant
// updates they issue land on the pending queue.
func (s *Store) applyAndNotify(patch Patch, record bool) {
	s.mu.Lock()
	old := s.state.Clone()
	changed := s.apply(patch)
	if record && len(changed) > 0 {
		s.pushHistory(old)
	}
	snapshot := s.state.Clone()
	subs := s.snapshotSubscribers(changed)
	s.mu.Unlock()

	s.notify(changed, old, snapshot, subs)
}

// apply mutates the state tree in place and reports which keys changed.
// Caller must hold the lock.
func (s *Store) apply(patch Patch) map[Key]bool {
	changed := make(map[Key]bool)
	if patch.Tasks != nil {
		s.state.Tasks = types.CloneTasks(*patch.Tasks)
		changed[KeyTasks] = true
	}
	if patch.Settings != nil {
		s.state.Settings = *patch.Settings
		changed[KeySettings] = true
	}
	if patch.UI != nil {
		s.state.UI = *patch.UI
		changed[KeyUI] = true
	}
	if patch.Search != nil {
		s.state.Search = *patch.Search
		changed[KeySearch] = true
	}
	if patch.Stats != nil {
		s.state.Stats = *patch.Stats
		changed[KeyStats] = true
	}
	if patch.Cap != nil {
		s.state.Cap = *patch.Cap
		changed[KeyCap] = true
	}
	if patch.Err != nil {
		s.state.Err = *patch.Err
		changed[KeyError] = true
	}
	if patch.FormErrors != nil {
		s.state.FormErrors = *patch.FormErrors
		changed[KeyFormErrors] = true
	}
	return changed
}

func (s *Store) pushHistory(snapshot types.AppState) {
	s.history = append(s.history, snapshot)
	if len(s.history) > s.historyLimit {
		// Evict oldest entries.
		over := len(s.history) - s.historyLimit
		s.history = append([]types.AppState(nil), s.history[over:]...)
	}
}

// snapshotSubscribers copies the subscriber lists for the changed keys so
// callbacks run against a stable set. Caller must hold the lock.
func (s *Store) snapshotSubscribers(changed map[Key]bool) map[Key][]Subscriber {
	subs := make(map[Key][]Subscriber, len(changed))
	for key := range changed {
		for _, fn := range s.subscribers[key] {
			subs[key] = append(subs[key], fn)
		}
	}
	return subs
}

// notify runs subscriber callbacks for each changed key in notifyOrder.
// A panicking subscriber is recovered and logged; it never prevents the
// remaining subscribers from running.
func (s *Store) notify(changed map[Key]bool, old, snapshot types.AppState, subs map[Key][]Subscriber) {
	for _, key := range notifyOrder {
		if !changed[key] {
			continue
		}
		newVal := branchValue(snapshot, key)
		oldVal := branchValue(old, key)
		for _, fn := range subs[key] {
			s.callSubscriber(key, fn, newVal, oldVal, snapshot)
		}
	}
}

func (s *Store) callSubscriber(key Key, fn Subscriber, newVal, oldVal interface{}, snapshot types.AppState) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscriber panicked", "key", string(key), "panic", r)
		}
	}()
	fn(newVal, oldVal, snapshot)
}

// drainPending processes updates queued by re-entrant SetState calls.
func (s *Store) drainPending() {
	for i := 0; ; i++ {
		s.mu.Lock()
		if len(s.pending) == 0 || i >= maxReentrantDrain {
			if len(s.pending) > 0 {
				s.logger.Warn("dropping queued re-entrant updates", "count", len(s.pending))
				s.pending = nil
			}
			s.notifying = false
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		s.applyAndNotify(next.patch, next.record)
	}
}

// Undo restores the most recent history snapshot, writes the restored
// collection and settings back through the adapter, and notifies
// subscribers of every key that differs. Returns false when history is
// empty or the adapter rejects the write; on a rejected write the
// in-memory state does not move and history is kept for a retry.
func (s *Store) Undo() bool {
	s.mu.Lock()
	if len(s.history) == 0 {
		s.mu.Unlock()
		return false
	}
	if s.notifying {
		// An undo issued from inside a subscriber would interleave with
		// the in-flight notification pass; refuse rather than corrupt
		// the history stack.
		s.mu.Unlock()
		s.logger.Warn("undo ignored during notification pass")
		return false
	}
	snapshot := s.history[len(s.history)-1].Clone()
	s.mu.Unlock()

	// Write-through: durable state follows the restore, or the restore
	// does not happen.
	if !s.adapter.SaveTasks(types.CloneTasks(snapshot.Tasks)) || !s.adapter.SaveSettings(snapshot.Settings) {
		s.failGeneric("failed to persist undo")
		return false
	}

	s.mu.Lock()
	if len(s.history) == 0 || s.notifying {
		s.mu.Unlock()
		return false
	}
	s.notifying = true
	s.history = s.history[:len(s.history)-1]
	old := s.state.Clone()
	s.state = snapshot

	changed := diffKeys(old, s.state)
	current := s.state.Clone()
	subs := s.snapshotSubscribers(changed)
	s.mu.Unlock()

	s.notify(changed, old, current, subs)
	s.drainPending()
	return true
}

// branchValue extracts one top-level branch from a state snapshot.
func branchValue(st types.AppState, key Key) interface{} {
	switch key {
	case KeyTasks:
		return st.Tasks
	case KeySettings:
		return st.Settings
	case KeyUI:
		return st.UI
	case KeySearch:
		return st.Search
	case KeyStats:
		return st.Stats
	case KeyCap:
		return st.Cap
	case KeyError:
		return st.Err
	case KeyFormErrors:
		return st.FormErrors
	}
	return nil
}

// diffKeys reports the top-level keys whose values differ between two
// snapshots.
func diffKeys(a, b types.AppState) map[Key]bool {
	changed := make(map[Key]bool)
	if !tasksEqual(a.Tasks, b.Tasks) {
		changed[KeyTasks] = true
	}
	if a.Settings != b.Settings {
		changed[KeySettings] = true
	}
	if a.UI != b.UI {
		changed[KeyUI] = true
	}
	if a.Search != b.Search {
		changed[KeySearch] = true
	}
	if a.Stats != b.Stats {
		changed[KeyStats] = true
	}
	if a.Cap != b.Cap {
		changed[KeyCap] = true
	}
	if a.Err != b.Err {
		changed[KeyError] = true
	}
	if !mapsEqual(a.FormErrors, b.FormErrors) {
		changed[KeyFormErrors] = true
	}
	return changed
}

func tasksEqual(a, b []types.Task) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if (x.CompletedAt == nil) != (y.CompletedAt == nil) {
			return false
		}
		if x.CompletedAt != nil && !x.CompletedAt.Equal(*y.CompletedAt) {
			return false
		}
		x.CompletedAt, y.CompletedAt = nil, nil
		if x != y {
			return false
		}
	}
	return true
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
