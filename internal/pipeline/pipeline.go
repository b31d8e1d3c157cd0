// ABOUTME: Hierarchical write pipeline: parent upsert, then delete-then-insert of children.
// ABOUTME: Each step is an independent store call; failures surface the step that broke.
package pipeline

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"github.com/harperreed/liftlog/internal/apperr"
	"github.com/harperreed/liftlog/internal/logger"
	"github.com/harperreed/liftlog/internal/ownership"
	"github.com/harperreed/liftlog/internal/store"
)

// Step names reported on store failures.
const (
	StepUpsertWorkout           = "upsert_workout"
	StepInsertWorkout           = "insert_workout"
	StepClearSets               = "clear_sets"
	StepClearExercises          = "clear_exercises"
	StepInsertExercises         = "insert_exercises"
	StepInsertSets              = "insert_sets"
	StepLookupSets              = "lookup_sets"
	StepDeleteWorkout           = "delete_workout"
	StepUpsertTemplate          = "upsert_template"
	StepClearTemplateExercises  = "clear_template_exercises"
	StepInsertTemplateExercises = "insert_template_exercises"
	StepDeleteTemplate          = "delete_template"
)

// Pipeline persists workouts and templates together with their children.
type Pipeline struct {
	store  store.Store
	owners *ownership.Validator
	now    func() time.Time
	newID  func() string
	log    zerolog.Logger
	locks  keyedMutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithIDs overrides the id generator used for new rows.
func WithIDs(newID func() string) Option {
	return func(p *Pipeline) { p.newID = newID }
}

// WithLogger overrides the step logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// New returns a pipeline writing to s.
func New(s store.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:  s,
		owners: ownership.New(s),
		now:    time.Now,
		newID:  uuid.NewString,
		log:    logger.Logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) timestamp() time.Time {
	return p.now().UTC()
}

// run tracks one pipeline invocation so failures after the parent write
// are reported as leaving partial children behind.
type run struct {
	log           zerolog.Logger
	parentWritten bool
}

func (p *Pipeline) begin(op, idField, id string) *run {
	return &run{log: p.log.With().Str("op", op).Str(idField, id).Logger()}
}

func (r *run) done(step string) {
	r.log.Debug().Str("step", step).Msg("step complete")
}

func (r *run) fail(step string, err error) error {
	if r.parentWritten {
		r.log.Warn().Err(err).Str("step", step).
			Msg("parent written but children incomplete; retry the whole request")
	} else {
		r.log.Error().Err(err).Str("step", step).Msg("store call failed")
	}
	return apperr.Store(step, err)
}

func requireCaller(caller string) error {
	if strings.TrimSpace(caller) == "" {
		return apperr.Unauthorized("no caller identity", nil)
	}
	return nil
}

// cleanName trims and NFC-normalizes a display name.
func cleanName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// keyedMutex serializes writes to the same parent within this process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

// Lock blocks until key is free and returns its unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedEntry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
