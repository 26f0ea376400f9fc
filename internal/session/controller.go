package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
	"github.com/google/uuid"
)

// QuestionProvider fetches trivia questions from a backing source (REST API).
type QuestionProvider interface {
	FetchQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error)
}

// HistoryStore persists completed quiz results keyed per user, per quiz.
type HistoryStore interface {
	Write(ctx context.Context, userID, quizID string, result domain.QuizResult) error
	ReadAll(ctx context.Context, userID string) ([]domain.QuizResult, error)
}

// AuthProvider resolves the signed-in user whose history a finished quiz
// belongs to. The managed auth service behind it is not this package's concern.
type AuthProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// State is an immutable snapshot of one quiz attempt.
type State struct {
	Questions     []domain.Question `json:"questions"`
	AnswerChoices [][]string        `json:"answerChoices"`
	UserAnswers   []string          `json:"userAnswers"`
	CurrentIndex  int               `json:"currentIndex"`
	Loading       bool              `json:"loading"`
	LastError     string            `json:"lastError,omitempty"`
}

// Ready reports whether questions are loaded and the session is navigable.
func (s State) Ready() bool { return len(s.Questions) > 0 }

// Controller owns the in-memory state of one quiz attempt: the fetched
// questions, the per-question shuffled answer choices, the current position,
// and the user's recorded answer per question. All mutations happen under a
// single mutex; only the provider and store calls run outside it.
type Controller struct {
	provider QuestionProvider
	store    HistoryStore
	auth     AuthProvider

	now   func() time.Time
	rnd   *rand.Rand
	newID func() string

	mu          sync.RWMutex
	questions   []domain.Question
	choices     [][]string
	answers     []string
	current     int
	loading     bool
	lastErr     error
	subscribers map[chan State]struct{}
}

func NewController(provider QuestionProvider, store HistoryStore, auth AuthProvider) *Controller {
	return NewControllerWithClock(provider, store, auth, time.Now, rand.NewSource(time.Now().UnixNano()))
}

// NewControllerWithClock allows deterministic timestamps and shuffles in tests.
func NewControllerWithClock(provider QuestionProvider, store HistoryStore, auth AuthProvider, now func() time.Time, src rand.Source) *Controller {
	return &Controller{
		provider:    provider,
		store:       store,
		auth:        auth,
		now:         now,
		rnd:         rand.New(src),
		newID:       uuid.NewString,
		subscribers: make(map[chan State]struct{}),
	}
}

// Start fetches questions and resets the session around them. A second call
// while a fetch is in flight returns domain.ErrLoadInProgress and leaves the
// in-flight load untouched. There is no automatic retry; a failed load keeps
// the session empty until the caller starts again.
func (c *Controller) Start(ctx context.Context, req domain.QuestionRequest) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return domain.ErrLoadInProgress
	}
	c.loading = true
	c.lastErr = nil
	c.broadcastLocked()
	c.mu.Unlock()

	questions, err := c.provider.FetchQuestions(ctx, req)
	if err == nil && len(questions) == 0 {
		err = errors.New("provider returned no questions")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		if !errors.Is(err, domain.ErrFetchFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
		}
		c.lastErr = err
		c.questions = nil
		c.choices = nil
		c.answers = nil
		c.current = 0
		c.broadcastLocked()
		return err
	}

	c.questions = questions
	c.choices = make([][]string, len(questions))
	for i, q := range questions {
		c.choices[i] = c.shuffledChoices(q)
	}
	c.answers = make([]string, len(questions))
	c.current = 0
	c.broadcastLocked()
	return nil
}

// SelectAnswer records the choice for the current question and advances to
// the next one, except at the last question where the position stays put and
// repeated calls simply overwrite the recorded answer.
func (c *Controller) SelectAnswer(choice string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.questions) == 0 {
		return domain.ErrNoQuestions
	}
	c.answers[c.current] = choice
	if c.current < len(c.questions)-1 {
		c.current++
	}
	c.broadcastLocked()
	return nil
}

// Previous moves back one question, stopping at the first.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == 0 {
		return
	}
	c.current--
	c.broadcastLocked()
}

// Next moves forward one question, stopping at the last.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.questions) == 0 || c.current >= len(c.questions)-1 {
		return
	}
	c.current++
	c.broadcastLocked()
}

// NavigateTo jumps directly to a question. Out-of-range indexes fail rather
// than clamp, so caller bugs surface instead of landing on the wrong question.
func (c *Controller) NavigateTo(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.questions) {
		return domain.ErrIndexOutOfRange
	}
	if index != c.current {
		c.current = index
		c.broadcastLocked()
	}
	return nil
}

// Finish assembles the quiz result and writes it to the history store under a
// freshly generated quiz ID. Unanswered questions submit as the empty string
// and score as incorrect. Session state is left untouched on both outcomes,
// so a store failure can simply be retried.
func (c *Controller) Finish(ctx context.Context) (domain.QuizResult, error) {
	c.mu.RLock()
	if len(c.questions) == 0 {
		c.mu.RUnlock()
		return domain.QuizResult{}, domain.ErrNoQuestions
	}
	result := c.assembleResultLocked()
	c.mu.RUnlock()

	userID, err := c.auth.CurrentUserID(ctx)
	if err != nil {
		return domain.QuizResult{}, err
	}
	if err := c.store.Write(ctx, userID, c.newID(), result); err != nil {
		return domain.QuizResult{}, fmt.Errorf("store quiz result: %w", err)
	}
	return result, nil
}

// ClearError dismisses the last recorded failure.
func (c *Controller) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr == nil {
		return
	}
	c.lastErr = nil
	c.broadcastLocked()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel that receives state snapshots, starting with
// the current one. The caller must invoke the returned cancel function to
// avoid leaks.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 8)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	initial := c.snapshotLocked()
	c.mu.Unlock()

	ch <- initial

	cancel := func() {
		c.mu.Lock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Controller) broadcastLocked() {
	snap := c.snapshotLocked()
	for ch := range c.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow subscriber never
			// blocks the session; only the latest state matters.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (c *Controller) snapshotLocked() State {
	snap := State{
		Questions:     append([]domain.Question(nil), c.questions...),
		AnswerChoices: make([][]string, len(c.choices)),
		UserAnswers:   append([]string(nil), c.answers...),
		CurrentIndex:  c.current,
		Loading:       c.loading,
	}
	for i, choices := range c.choices {
		snap.AnswerChoices[i] = append([]string(nil), choices...)
	}
	if c.lastErr != nil {
		snap.LastError = c.lastErr.Error()
	}
	return snap
}

// shuffledChoices permutes incorrect+correct answers once at fetch time; the
// order then stays fixed for the session so a rendered selection is stable.
func (c *Controller) shuffledChoices(q domain.Question) []string {
	choices := make([]string, 0, len(q.IncorrectAnswers)+1)
	choices = append(choices, q.IncorrectAnswers...)
	choices = append(choices, q.CorrectAnswer)
	c.rnd.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

func (c *Controller) assembleResultLocked() domain.QuizResult {
	result := domain.QuizResult{
		Category:       c.questions[0].Category,
		Prompts:        make([]string, len(c.questions)),
		UserAnswers:    append([]string(nil), c.answers...),
		CorrectAnswers: make([]string, len(c.questions)),
		CreatedAt:      c.now(),
	}
	for i, q := range c.questions {
		result.Prompts[i] = q.Prompt
		result.CorrectAnswers[i] = q.CorrectAnswer
		if c.answers[i] == q.CorrectAnswer {
			result.Score++
		}
	}
	return result
}
