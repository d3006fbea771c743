package domain

import (
	"math/rand/v2"
	"time"
)

// MaxQuestionsPerSession bounds the random sample drawn for one attempt.
const MaxQuestionsPerSession = 5

// SessionState is the lifecycle state of a QuizSession.
type SessionState string

const (
	SessionLoading  SessionState = "loading"
	SessionEmpty    SessionState = "empty"
	SessionActive   SessionState = "active"
	SessionFinished SessionState = "finished"
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it, so
// tests can pass a seeded source.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultShuffler uses the unseeded global source.
func DefaultShuffler() Shuffler { return globalShuffler{} }

// Answer is the one-shot selection recorded for a question.
type Answer struct {
	OptionIndex int  `json:"option_index"`
	IsCorrect   bool `json:"is_correct"`
}

// QuizSession is one attempt at a (topic, theme) pair. Fields are exported
// so the session can be stored between requests; mutate it only through
// its methods.
type QuizSession struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id,omitempty"`
	TopicID     string       `json:"topic_id"`
	Theme       string       `json:"theme"`
	Questions   []Question   `json:"questions"`
	Answers     []*Answer    `json:"answers"`
	Position    int          `json:"position"`
	Score       int          `json:"score"`
	HintVisible bool         `json:"hint_visible"`
	State       SessionState `json:"state"`
	CreatedAt   time.Time    `json:"created_at"`
}

// SelectQuestions shuffles a copy of pool and returns at most
// MaxQuestionsPerSession of them. pool is not modified.
func SelectQuestions(pool []Question, shuffler Shuffler) []Question {
	if len(pool) == 0 {
		return nil
	}
	if shuffler == nil {
		shuffler = DefaultShuffler()
	}
	picked := make([]Question, len(pool))
	copy(picked, pool)
	shuffler.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if len(picked) > MaxQuestionsPerSession {
		picked = picked[:MaxQuestionsPerSession]
	}
	return picked
}

// NewQuizSession builds a session from the matching question pool. A
// missing topic or theme, or an empty pool, yields an Empty session.
func NewQuizSession(id, userID, topicID, theme string, pool []Question, shuffler Shuffler, now time.Time) *QuizSession {
	s := &QuizSession{
		ID:        id,
		UserID:    userID,
		TopicID:   topicID,
		Theme:     theme,
		State:     SessionLoading,
		CreatedAt: now,
	}
	if topicID == "" || theme == "" {
		s.State = SessionEmpty
		return s
	}
	s.Questions = SelectQuestions(pool, shuffler)
	if len(s.Questions) == 0 {
		s.State = SessionEmpty
		return s
	}
	s.Answers = make([]*Answer, len(s.Questions))
	s.State = SessionActive
	return s
}

func (s *QuizSession) Total() int { return len(s.Questions) }

func (s *QuizSession) IsEmpty() bool { return s.State == SessionEmpty }

func (s *QuizSession) IsFinished() bool { return s.State == SessionFinished }

// Current returns the question being presented, or false when the session
// is not active.
func (s *QuizSession) Current() (*Question, bool) {
	if s.State != SessionActive || s.Position >= len(s.Questions) {
		return nil, false
	}
	return &s.Questions[s.Position], true
}

// CurrentAnswer returns the selection for the current question, nil while
// it is unanswered.
func (s *QuizSession) CurrentAnswer() *Answer {
	if _, ok := s.Current(); !ok {
		return nil
	}
	return s.Answers[s.Position]
}

// IsLastQuestion reports whether the current question is the final one.
func (s *QuizSession) IsLastQuestion() bool {
	return s.State == SessionActive && s.Position == len(s.Questions)-1
}

// AnsweredCount is the number of questions with a recorded selection.
func (s *QuizSession) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != nil {
			n++
		}
	}
	return n
}

// SelectOption records index against the current question. The first
// selection wins: later calls return the stored answer with recorded=false
// and leave the score alone.
func (s *QuizSession) SelectOption(index int) (answer Answer, recorded bool, err error) {
	q, ok := s.Current()
	if !ok {
		return Answer{}, false, ErrSessionNotActive
	}
	if existing := s.Answers[s.Position]; existing != nil {
		return *existing, false, nil
	}
	if index < 0 || index >= len(q.Options) {
		return Answer{}, false, NewInvalidOptionError(index, len(q.Options))
	}

	a := &Answer{OptionIndex: index, IsCorrect: q.IsCorrect(index)}
	s.Answers[s.Position] = a
	if a.IsCorrect {
		s.Score++
	}
	s.HintVisible = false
	return *a, true, nil
}

// ToggleHint flips hint visibility for an unanswered current question and
// returns the new visibility.
func (s *QuizSession) ToggleHint() bool {
	if _, ok := s.Current(); !ok || s.Answers[s.Position] != nil {
		return s.HintVisible
	}
	s.HintVisible = !s.HintVisible
	return s.HintVisible
}

// Advance moves past an answered question. On the last question it
// returns the progress record to persist; the session stays active until
// Finish is called.
func (s *QuizSession) Advance(now time.Time) (*ProgressRecord, error) {
	if _, ok := s.Current(); !ok {
		return nil, ErrSessionNotActive
	}
	if s.Answers[s.Position] == nil {
		return nil, ErrQuestionNotAnswered
	}
	if s.Position < len(s.Questions)-1 {
		s.Position++
		s.HintVisible = false
		return nil, nil
	}
	return &ProgressRecord{
		Score:       s.Score,
		Total:       len(s.Questions),
		LastAttempt: now,
	}, nil
}

// Finish moves an answered last question to Finished. It reports true
// only on the transition itself.
func (s *QuizSession) Finish() bool {
	if !s.IsLastQuestion() || s.Answers[s.Position] == nil {
		return false
	}
	s.Position = len(s.Questions)
	s.HintVisible = false
	s.State = SessionFinished
	return true
}
