package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/weekwise/weekwise/types"
)

// Session tuning constants.
const (
	// QuestionsPerLevel is how many questions a level presents, or fewer
	// when the level's pool is smaller.
	QuestionsPerLevel = 5

	// DefaultLevelSpan is the width of the ID sub-range backing each
	// difficulty level: level n covers IDs ((n-1)*span, n*span].
	DefaultLevelSpan = 50

	// ChoiceCount is the number of answer choices rendered per question
	// when the pool carries enough distinct labels.
	ChoiceCount = 4

	// DisplayDelay is how long a correct answer stays highlighted before
	// the caller advances to the next question.
	DisplayDelay = 1200 * time.Millisecond
)

// Level-complete menu options.
const (
	OptionReplay  = "replay"
	OptionAdvance = "advance"
	OptionRestart = "restart"
	OptionExit    = "exit"
)

// AnswerResult is the outcome of one answer attempt. On an incorrect
// attempt the session stays on the same question so the player can retry;
// CorrectLabel lets the caller highlight the right option either way.
type AnswerResult struct {
	Correct      bool
	CorrectLabel string
}

// Session is a single quiz run. All methods are safe for use from one
// goroutine at a time; a mutex guards against stray concurrent callers.
type Session struct {
	mu       sync.Mutex
	pool     []types.Question
	detector Detector
	rng      *rand.Rand
	logger   *slog.Logger
	span     int

	state     State
	level     int
	maxLevel  int
	questions []types.Question // current level, shuffled, resolved labels
	index     int
	choices   []string
	failure   string
}

// Option configures a Session.
type Option func(*Session)

// WithDetector installs the image-labeling collaborator. Without one,
// unlabeled questions fall back to the placeholder pool immediately.
func WithDetector(d Detector) Option {
	return func(s *Session) { s.detector = d }
}

// WithSeed fixes the shuffle source for deterministic tests.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithLevelSpan overrides the ID range width per level.
func WithLevelSpan(span int) Option {
	return func(s *Session) {
		if span > 0 {
			s.span = span
		}
	}
}

// NewSession creates a session over the given question pool. The session
// starts in the loading state; call Start to begin level 1.
func NewSession(pool []types.Question, opts ...Option) *Session {
	s := &Session{
		pool:   pool,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: slog.Default(),
		span:   DefaultLevelSpan,
		state:  StateLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.maxLevel = s.computeMaxLevel()
	return s
}

// computeMaxLevel finds the highest level whose ID sub-range contains at
// least one question.
func (s *Session) computeMaxLevel() int {
	maxID := 0
	for _, q := range s.pool {
		if q.ID > maxID {
			maxID = q.ID
		}
	}
	if maxID <= 0 {
		return 0
	}
	return (maxID + s.span - 1) / s.span
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Level returns the current level, starting at 1.
func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// MaxLevel returns the highest level the pool supports.
func (s *Session) MaxLevel() int {
	return s.maxLevel
}

// FailureReason describes why the session failed; empty unless the state
// is StateFailed.
func (s *Session) FailureReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// Start begins the session at level 1. An empty pool is terminal.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pool) == 0 || s.maxLevel == 0 {
		s.failure = "question dataset is empty"
		if err := s.transition(StateLoading, StateFailed); err != nil {
			return err
		}
		return fmt.Errorf("cannot start quiz: %s", s.failure)
	}
	return s.startLevel(ctx, StateLoading, 1)
}

// startLevel filters the pool to the level's ID sub-range, shuffles,
// takes up to QuestionsPerLevel, and presents the first question. The
// lock must be held.
func (s *Session) startLevel(ctx context.Context, from State, level int) error {
	lo, hi := (level-1)*s.span, level*s.span
	var levelPool []types.Question
	for _, q := range s.pool {
		if q.ID > lo && q.ID <= hi {
			levelPool = append(levelPool, q)
		}
	}
	if len(levelPool) == 0 {
		s.failure = fmt.Sprintf("no questions for level %d", level)
		if err := s.transition(from, StateFailed); err != nil {
			return err
		}
		return fmt.Errorf("cannot start level %d: empty pool", level)
	}

	s.rng.Shuffle(len(levelPool), func(i, j int) {
		levelPool[i], levelPool[j] = levelPool[j], levelPool[i]
	})
	if len(levelPool) > QuestionsPerLevel {
		levelPool = levelPool[:QuestionsPerLevel]
	}

	s.level = level
	s.questions = levelPool
	s.index = 0
	if err := s.transition(from, StatePresenting); err != nil {
		return err
	}
	s.present(ctx)
	return nil
}

// present resolves the current question's label and builds its choice
// set. The lock must be held and the state must be StatePresenting.
func (s *Session) present(ctx context.Context) {
	q := &s.questions[s.index]
	if q.Label == "" {
		q.Label = s.detectLabel(ctx, q.Image)
	}
	s.choices = s.buildChoices(*q)
}

// detectLabel asks the collaborator for a label; any failure degrades to
// a placeholder, never an error.
func (s *Session) detectLabel(ctx context.Context, image string) string {
	if s.detector != nil {
		detection, err := s.detector.Detect(ctx, image)
		if err != nil {
			s.logger.Warn("label detection failed, using placeholder", "image", image, "error", err)
		} else if detection != nil && detection.Label != "" {
			return detection.Label
		}
	}
	return placeholderLabels[s.rng.Intn(len(placeholderLabels))]
}

// buildChoices assembles the answer set: the correct label once plus
// distinct distractors drawn without replacement, shuffled. Preference
// goes to the question's own distractors, topped up from other pool
// labels when needed.
func (s *Session) buildChoices(q types.Question) []string {
	seen := map[string]bool{q.Label: true}
	var distractors []string
	add := func(label string) {
		if label == "" || seen[label] || len(distractors) >= ChoiceCount-1 {
			return
		}
		seen[label] = true
		distractors = append(distractors, label)
	}

	for _, d := range q.Distractors {
		add(d)
	}
	if len(distractors) < ChoiceCount-1 {
		others := make([]string, 0, len(s.pool))
		for _, other := range s.pool {
			others = append(others, other.Label)
		}
		s.rng.Shuffle(len(others), func(i, j int) {
			others[i], others[j] = others[j], others[i]
		})
		for _, label := range others {
			add(label)
		}
	}
	for _, label := range placeholderLabels {
		add(label)
	}

	choices := append([]string{q.Label}, distractors...)
	s.rng.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

// Current returns the question being presented and its choice set.
func (s *Session) Current() (types.Question, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePresenting && s.state != StateAnswered {
		return types.Question{}, nil, fmt.Errorf("no current question in state %s", s.state)
	}
	choices := make([]string, len(s.choices))
	copy(choices, s.choices)
	return s.questions[s.index], choices, nil
}

// Answer evaluates one choice. An incorrect choice keeps the session on
// the same question so the player can retry; a correct choice moves the
// machine to StateAnswered, and the caller advances after DisplayDelay.
func (s *Session) Answer(choice string) (AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePresenting {
		return AnswerResult{}, fmt.Errorf("cannot answer in state %s", s.state)
	}
	correct := s.questions[s.index].Label
	if choice != correct {
		return AnswerResult{Correct: false, CorrectLabel: correct}, nil
	}
	if err := s.transition(StatePresenting, StateAnswered); err != nil {
		return AnswerResult{}, err
	}
	return AnswerResult{Correct: true, CorrectLabel: correct}, nil
}

// Advance moves past a correctly answered question: to the next question
// of the level, or to StateLevelComplete after the last one.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index+1 >= len(s.questions) {
		return s.transition(StateAnswered, StateLevelComplete)
	}
	if err := s.transition(StateAnswered, StatePresenting); err != nil {
		return err
	}
	s.index++
	s.present(ctx)
	return nil
}

// LevelOptions lists the menu shown at level completion: three options
// below the maximum level, two at the maximum.
func (s *Session) LevelOptions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLevelComplete {
		return nil
	}
	if s.level < s.maxLevel {
		return []string{OptionReplay, OptionAdvance, OptionExit}
	}
	return []string{OptionRestart, OptionExit}
}

// Choose applies a level-complete menu option.
func (s *Session) Choose(ctx context.Context, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLevelComplete {
		return fmt.Errorf("cannot choose in state %s", s.state)
	}
	atMax := s.level >= s.maxLevel
	switch {
	case option == OptionExit:
		return s.transition(StateLevelComplete, StateQuizComplete)
	case option == OptionReplay && !atMax:
		return s.startLevel(ctx, StateLevelComplete, s.level)
	case option == OptionAdvance && !atMax:
		return s.startLevel(ctx, StateLevelComplete, s.level+1)
	case option == OptionRestart && atMax:
		return s.startLevel(ctx, StateLevelComplete, 1)
	default:
		return fmt.Errorf("option %q not available at level %d", option, s.level)
	}
}
