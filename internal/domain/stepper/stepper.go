package stepper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/felixgeelhaar/stepper/internal/adapters/logging"
	"github.com/felixgeelhaar/stepper/internal/domain/navigation"
	"github.com/felixgeelhaar/stepper/internal/domain/persist"
	"github.com/felixgeelhaar/stepper/internal/domain/schema"
	"github.com/felixgeelhaar/stepper/internal/domain/step"
	"github.com/felixgeelhaar/stepper/internal/ports"
)

// Listener is called with the new state after every change.
type Listener func(*navigation.State)

// Stepper is a live handle over one navigation state. It is safe for
// concurrent use: reductions are serialised, and listeners, hooks, schema
// validation and storage calls run without the lock held.
type Stepper struct {
	def          *Definition
	cfg          navigation.Config
	initialIndex int
	loader       InitialDataLoader
	persist      *persist.Manager
	autoSave     bool
	logger       ports.Logger
	id           string

	mu    sync.Mutex
	state *navigation.State

	revision *atomic.Uint64

	// saveMu orders snapshot writes; savedRevision is the newest one written.
	saveMu        sync.Mutex
	savedRevision uint64

	subsMu    sync.Mutex
	listeners map[int]Listener
	nextSub   int
}

// New creates a Stepper. With WithInitialData or WithPersistence the Stepper
// is not initialized until Initialize is called.
func (d *Definition) New(opts ...Option) *Stepper {
	o := options{mode: navigation.ModeFree, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.mode.Valid() {
		o.mode = navigation.ModeFree
	}

	autoSave := o.persist != nil
	if o.autoSave != nil {
		autoSave = *o.autoSave && o.persist != nil
	}

	cfg := navigation.Config{
		InitialStep:     o.initialStep,
		InitialStatuses: o.initialStatuses,
		InitialMetadata: o.initialMetadata,
		HasInitialData:  o.loader != nil || o.persist != nil,
		Mode:            o.mode,
		MaxHistory:      o.maxHistory,
		Now:             o.now,
	}

	id := uuid.NewString()
	initialIndex := d.Steps.Index(o.initialStep)
	if initialIndex < 0 {
		initialIndex = 0
	}

	s := &Stepper{
		def:          d,
		cfg:          cfg,
		initialIndex: initialIndex,
		loader:       o.loader,
		persist:      o.persist,
		autoSave:     autoSave,
		logger:       logging.OrNop(o.logger).With(ports.F("stepper", id)),
		id:           id,
		state:        navigation.NewInitialState(d.Steps, cfg),
		revision:     atomic.NewUint64(0),
		listeners:    make(map[int]Listener),
	}
	return s
}

// ID returns the unique id of this handle.
func (s *Stepper) ID() string {
	return s.id
}

// Definition returns the definition s was created from.
func (s *Stepper) Definition() *Definition {
	return s.def
}

// Mode returns the navigation mode.
func (s *Stepper) Mode() navigation.Mode {
	return s.cfg.Mode
}

// State returns the current immutable state.
func (s *Stepper) State() *navigation.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Revision counts applied changes. It increases on every change and never otherwise.
func (s *Stepper) Revision() uint64 {
	return s.revision.Load()
}

// All returns every step in order.
func (s *Stepper) All() []step.Step {
	return s.def.Steps.All()
}

// Current returns the current step.
func (s *Stepper) Current() step.Step {
	return s.State().CurrentStep(s.def.Steps)
}

// CurrentIndex returns the index of the current step.
func (s *Stepper) CurrentIndex() int {
	return s.State().CurrentIndex
}

// IsFirst reports whether the current step is the first one.
func (s *Stepper) IsFirst() bool {
	return s.CurrentIndex() == 0
}

// IsLast reports whether the current step is the last one.
func (s *Stepper) IsLast() bool {
	return s.CurrentIndex() == s.def.Steps.Len()-1
}

// Get returns the step with id.
func (s *Stepper) Get(id string) (step.Step, bool) {
	return s.def.Steps.Get(id)
}

// Metadata returns the metadata of step id, nil when unset or unknown.
func (s *Stepper) Metadata(id string) any {
	return s.State().Metadata[id]
}

// AllMetadata returns a copy of the full metadata map.
func (s *Stepper) AllMetadata() step.Metadata {
	return s.State().Metadata.Clone()
}

// Status returns the status of step id. Unknown ids report StatusIdle.
func (s *Stepper) Status(id string) step.Status {
	if status, ok := s.State().Statuses[id]; ok {
		return status
	}
	return step.StatusIdle
}

// Statuses returns a copy of every status.
func (s *Stepper) Statuses() step.Statuses {
	return s.State().Statuses.Clone()
}

// UIStatus derives active, success or inactive for step id.
func (s *Stepper) UIStatus(id string) step.UIStatus {
	index := s.def.Steps.Index(id)
	if index < 0 {
		return step.UIInactive
	}
	return s.State().UIStatusOf(index)
}

// Initialized reports whether initial data has been applied.
func (s *Stepper) Initialized() bool {
	return s.State().Initialized
}

// CanUndo reports whether Undo would move.
func (s *Stepper) CanUndo() bool {
	return navigation.CanUndo(s.State())
}

// CanRedo reports whether Redo would move.
func (s *Stepper) CanRedo() bool {
	return navigation.CanRedo(s.State())
}

// CanNext reports whether Next would move, before hooks.
func (s *Stepper) CanNext() bool {
	_, ok := s.target(s.State(), navigation.Forward)
	return ok
}

// CanPrev reports whether Prev would move, before hooks.
func (s *Stepper) CanPrev() bool {
	_, ok := s.target(s.State(), navigation.Backward)
	return ok
}

// CanGoTo reports whether GoTo(id) would move, before hooks.
func (s *Stepper) CanGoTo(id string) bool {
	state := s.State()
	index := s.def.Steps.Index(id)
	return index >= 0 && index != state.CurrentIndex && navigation.CanNavigate(s.def.Steps, state, index, s.cfg.Mode)
}

// Next moves to the next step that is not skipped. It reports whether the
// current step changed.
func (s *Stepper) Next(ctx context.Context) (bool, error) {
	return s.BeforeNext(ctx, nil)
}

// Prev moves to the previous step that is not skipped.
func (s *Stepper) Prev(ctx context.Context) (bool, error) {
	return s.BeforePrev(ctx, nil)
}

// GoTo moves to step id. An unknown id is an error wrapping step.ErrStepNotFound;
// a target that is not reachable is a no-op.
func (s *Stepper) GoTo(ctx context.Context, id string) (bool, error) {
	return s.BeforeGoTo(ctx, id, nil)
}

// Reset restores the configured initial step, statuses and metadata and clears history.
func (s *Stepper) Reset(ctx context.Context) bool {
	return s.dispatch(ctx, navigation.Reset{
		InitialIndex:    s.initialIndex,
		InitialMetadata: s.cfg.InitialMetadata,
		InitialStatuses: s.cfg.InitialStatuses,
	})
}

// SetMetadata replaces the metadata of step id. Unknown ids are ignored.
func (s *Stepper) SetMetadata(ctx context.Context, id string, value any) bool {
	return s.dispatch(ctx, navigation.SetMetadata{StepID: id, Metadata: value})
}

// ResetMetadata clears all metadata, or restores the metadata recorded at
// creation when keepInitial is set.
func (s *Stepper) ResetMetadata(ctx context.Context, keepInitial bool) bool {
	return s.dispatch(ctx, navigation.ResetMetadata{KeepInitial: keepInitial})
}

// SetStatus overwrites the status of step id. Unknown ids and invalid statuses are ignored.
func (s *Stepper) SetStatus(ctx context.Context, id string, status step.Status) bool {
	return s.dispatch(ctx, navigation.SetStatus{StepID: id, Status: status})
}

// Transition applies a lifecycle event to step id. It reports false when the
// event is not allowed from the step's current status.
func (s *Stepper) Transition(ctx context.Context, id string, event step.LifecycleEvent) (step.Status, bool, error) {
	if !s.def.Steps.Has(id) {
		return "", false, step.NotFoundError(id)
	}
	to, ok := s.def.lifecycle.Next(s.Status(id), event)
	if !ok {
		return s.Status(id), false, nil
	}
	return to, s.dispatch(ctx, navigation.SetStatus{StepID: id, Status: to}), nil
}

// Complete marks step id successful without validation.
func (s *Stepper) Complete(ctx context.Context, id string) (bool, error) {
	_, changed, err := s.Transition(ctx, id, step.EventComplete)
	return changed, err
}

// Undo moves back one history entry.
func (s *Stepper) Undo(ctx context.Context) bool {
	return s.dispatch(ctx, navigation.Undo{})
}

// Redo moves forward one history entry.
func (s *Stepper) Redo(ctx context.Context) bool {
	return s.dispatch(ctx, navigation.Redo{})
}

// Validate runs the schema of step id against value. The step goes pending
// while the schema runs, then success with value stored as its metadata, or
// error with the metadata left untouched.
func (s *Stepper) Validate(ctx context.Context, id string, value any) (schema.ValidationResult, error) {
	st, ok := s.def.Steps.Get(id)
	if !ok {
		return schema.ValidationResult{}, step.NotFoundError(id)
	}

	if _, _, err := s.Transition(ctx, id, step.EventValidate); err != nil {
		return schema.ValidationResult{}, err
	}

	result := step.ValidateMetadata(ctx, st, value)
	if result.Success {
		s.dispatch(ctx, navigation.SetMetadata{StepID: id, Metadata: result.Data})
		_, _, err := s.Transition(ctx, id, step.EventResolve)
		return result, err
	}

	s.logger.Debug(ctx, "step validation failed", ports.F("step", id), ports.F("issues", len(result.Error)))
	_, _, err := s.Transition(ctx, id, step.EventReject)
	return result, err
}

// Initialize seeds the state from the persisted snapshot or, when there is
// none, from the initial data loader. It is a no-op once initialized. A
// loader error is returned after the Stepper is marked initialized with its
// current state so bindings are not left waiting.
func (s *Stepper) Initialize(ctx context.Context) error {
	if s.Initialized() {
		return nil
	}

	if s.persist != nil {
		res := s.persist.Load(ctx)
		if res.Success {
			s.logger.Info(ctx, "restored stepper state", ports.F("step", res.State.StepID), ports.F("saved_at", res.State.SavedAt()))
			s.dispatch(ctx, navigation.Initialize{Payload: persist.ToInitialState(res.State)})
			return nil
		}
		s.logger.Debug(ctx, "no stepper state restored", ports.F("reason", string(res.Reason)))
	}

	var loadErr error
	payload := s.currentPayload()
	if s.loader != nil {
		loaded, err := s.loader(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load initial data: %w", err)
			s.logger.Warn(ctx, "initial data loader failed", ports.Err(err))
		} else {
			payload = loaded
		}
	}

	s.dispatch(ctx, navigation.Initialize{Payload: payload})
	return loadErr
}

// Snapshot projects the current state onto its persisted form.
func (s *Stepper) Snapshot() persist.PersistedState {
	return persist.FromState(s.def.Steps, s.State(), s.cfg.Now())
}

// Save writes a snapshot when persistence is configured.
func (s *Stepper) Save(ctx context.Context) {
	if s.persist == nil {
		return
	}
	s.mu.Lock()
	state, revision := s.state, s.revision.Load()
	s.mu.Unlock()
	s.save(ctx, revision, state)
}

// save writes state unless a newer revision has already been written.
func (s *Stepper) save(ctx context.Context, revision uint64, state *navigation.State) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if revision < s.savedRevision {
		s.logger.Debug(ctx, "stale snapshot skipped", ports.F("revision", revision), ports.F("saved", s.savedRevision))
		return
	}
	s.persist.Save(ctx, persist.FromState(s.def.Steps, state, s.cfg.Now()))
	s.savedRevision = revision
}

// Subscribe registers fn to be called after every change. The returned
// function removes it.
func (s *Stepper) Subscribe(fn Listener) (cancel func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// dispatch reduces a under the lock and, if the state changed, autosaves and
// notifies listeners after releasing it.
func (s *Stepper) dispatch(ctx context.Context, a navigation.Action) bool {
	s.mu.Lock()
	prev := s.state
	next := navigation.Reduce(prev, a, s.def.Steps, s.cfg)
	changed := next != prev
	var revision uint64
	if changed {
		s.state = next
		revision = s.revision.Inc()
	}
	s.mu.Unlock()

	if !changed {
		s.logger.Debug(ctx, "action ignored", ports.F("action", string(a.Kind())))
		return false
	}

	s.logger.Debug(ctx, "action applied",
		ports.F("action", string(a.Kind())),
		ports.F("step", next.CurrentStep(s.def.Steps).ID),
		ports.F("history", next.HistoryIndex),
	)

	// Initialize only mirrors what is already stored or loaded.
	if s.autoSave && a.Kind() != navigation.KindInitialize {
		s.save(ctx, revision, next)
	}
	s.notify(next)
	return true
}

func (s *Stepper) notify(state *navigation.State) {
	s.subsMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range listeners {
		fn(state)
	}
}

// target finds where a move in direction would land, if it is allowed.
func (s *Stepper) target(state *navigation.State, direction int) (int, bool) {
	index := navigation.FindNextValidStepIndex(s.def.Steps, state.CurrentIndex, direction, state.Metadata)
	if index < 0 {
		return -1, false
	}
	return index, navigation.CanNavigate(s.def.Steps, state, index, s.cfg.Mode)
}

func (s *Stepper) currentPayload() navigation.Payload {
	state := s.State()
	return navigation.Payload{
		Step:     state.CurrentStep(s.def.Steps).ID,
		Metadata: state.Metadata.Clone(),
		Statuses: state.Statuses.Clone(),
	}
}

// IsNotFound reports whether err is an unknown step id error.
func IsNotFound(err error) bool {
	return errors.Is(err, step.ErrStepNotFound)
}
