package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"maths-quest/internal/config"
	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/logger"
	"maths-quest/internal/util"

	"go.uber.org/zap"
)

// QuizService runs quiz sessions. userID is empty for visitors.
type QuizService interface {
	StartSession(ctx context.Context, userID, topicID string) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	SelectOption(ctx context.Context, userID, sessionID string, optionIndex int) (*dto.AnswerResponse, error)
	ToggleHint(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
	Advance(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error)
}

// QuizServiceOption customises a quiz service.
type QuizServiceOption func(*quizServiceImpl)

// WithHintGenerator fills in missing hints through g.
func WithHintGenerator(g domain.HintGenerator) QuizServiceOption {
	return func(s *quizServiceImpl) { s.hints = g }
}

// WithShuffler replaces the random source used to pick questions.
func WithShuffler(sh domain.Shuffler) QuizServiceOption {
	return func(s *quizServiceImpl) { s.shuffler = sh }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) QuizServiceOption {
	return func(s *quizServiceImpl) { s.now = now }
}

// WithIDGenerator replaces the session ID generator.
func WithIDGenerator(newID func() string) QuizServiceOption {
	return func(s *quizServiceImpl) { s.newID = newID }
}

type quizServiceImpl struct {
	questions domain.QuestionRepository
	profiles  ProfileService
	sessions  domain.SessionStore
	hints     domain.HintGenerator
	cfg       config.QuizConfig

	shuffler domain.Shuffler
	now      func() time.Time
	newID    func() string
	locks    *keyedMutex

	// saved holds sessions whose progress was written but whose finished
	// state has not been stored yet.
	savedMu sync.Mutex
	saved   map[string]time.Time
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(
	questions domain.QuestionRepository,
	profiles ProfileService,
	sessions domain.SessionStore,
	cfg config.QuizConfig,
	opts ...QuizServiceOption,
) QuizService {
	s := &quizServiceImpl{
		questions: questions,
		profiles:  profiles,
		sessions:  sessions,
		cfg:       cfg,
		shuffler:  domain.DefaultShuffler(),
		now:       time.Now,
		newID:     util.NewULID,
		locks:     newKeyedMutex(),
		saved:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.DefaultTheme == "" {
		s.cfg.DefaultTheme = domain.ThemeSpace
	}
	return s
}

// StartSession picks up to five questions for topicID in the player's
// theme. No matching questions gives an empty session, not an error.
func (s *quizServiceImpl) StartSession(ctx context.Context, userID, topicID string) (*dto.SessionResponse, error) {
	l := logger.Get()

	profile, err := s.profiles.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	theme := s.cfg.DefaultTheme
	ownerID := ""
	if profile != nil {
		ownerID = profile.ID
		if profile.HasTheme() {
			theme = profile.Theme
		}
	}

	var pool []domain.Question
	if topicID != "" {
		pool, err = s.questions.ListQuestionsByTopicAndTheme(ctx, topicID, theme)
		if err != nil {
			return nil, domain.NewInternalError("failed to load questions", err)
		}
	}

	session := domain.NewQuizSession(s.newID(), ownerID, topicID, theme, pool, s.shuffler, s.now())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	l.Info("quiz session started",
		zap.String("sessionID", session.ID),
		zap.String("userID", ownerID),
		zap.String("topicID", topicID),
		zap.String("theme", theme),
		zap.String("state", string(session.State)),
		zap.Int("questions", session.Total()))
	return toSessionResponse(session), nil
}

func (s *quizServiceImpl) GetSession(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

func (s *quizServiceImpl) SelectOption(ctx context.Context, userID, sessionID string, optionIndex int) (*dto.AnswerResponse, error) {
	var recorded bool
	session, err := s.mutate(ctx, userID, sessionID, func(session *domain.QuizSession) (bool, error) {
		var err error
		_, recorded, err = session.SelectOption(optionIndex)
		return recorded, err
	})
	if err != nil {
		return nil, err
	}
	return &dto.AnswerResponse{Recorded: recorded, Session: toSessionResponse(session)}, nil
}

func (s *quizServiceImpl) ToggleHint(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.mutate(ctx, userID, sessionID, func(session *domain.QuizSession) (bool, error) {
		if _, ok := session.Current(); !ok {
			return false, domain.ErrSessionNotActive
		}
		before := session.HintVisible
		if session.ToggleHint() {
			s.fillHint(ctx, session)
		}
		return session.HintVisible != before, nil
	})
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// Advance moves to the next question. On the last question an owned
// session is only finished once its progress has been saved. Progress is
// written at most once even when storing the finished session fails and
// the call is retried.
func (s *quizServiceImpl) Advance(ctx context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
	var finishing bool
	session, err := s.mutate(ctx, userID, sessionID, func(session *domain.QuizSession) (bool, error) {
		rec, err := session.Advance(s.now())
		if err != nil {
			return false, err
		}
		if rec == nil {
			return true, nil
		}
		if session.UserID != "" && !s.progressSaved(session.ID) {
			if err := s.saveProgress(ctx, session, *rec); err != nil {
				if isPermanent(err) {
					return false, err
				}
				return false, domain.NewPersistenceFailureError(err)
			}
			s.markProgressSaved(session.ID)
		}
		session.Finish()
		finishing = true
		logger.Get().Info("quiz session finished",
			zap.String("sessionID", session.ID),
			zap.String("userID", session.UserID),
			zap.Int("score", rec.Score),
			zap.Int("total", rec.Total))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if finishing {
		s.clearProgressSaved(session.ID)
	}
	return toSessionResponse(session), nil
}

func (s *quizServiceImpl) progressSaved(sessionID string) bool {
	s.savedMu.Lock()
	defer s.savedMu.Unlock()
	_, ok := s.saved[sessionID]
	return ok
}

// markProgressSaved also drops entries older than the session TTL, whose
// sessions can no longer be advanced.
func (s *quizServiceImpl) markProgressSaved(sessionID string) {
	s.savedMu.Lock()
	defer s.savedMu.Unlock()
	now := s.now()
	if s.cfg.SessionTTL > 0 {
		for id, at := range s.saved {
			if now.Sub(at) > s.cfg.SessionTTL {
				delete(s.saved, id)
			}
		}
	}
	s.saved[sessionID] = now
}

func (s *quizServiceImpl) clearProgressSaved(sessionID string) {
	s.savedMu.Lock()
	defer s.savedMu.Unlock()
	delete(s.saved, sessionID)
}

// mutate loads the session under its lock, applies fn and saves the
// result when fn reports a change.
func (s *quizServiceImpl) mutate(ctx context.Context, userID, sessionID string, fn func(*domain.QuizSession) (bool, error)) (*domain.QuizSession, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	changed, err := fn(session)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.sessions.Save(ctx, session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// load hides sessions owned by someone else behind not found.
func (s *quizServiceImpl) load(ctx context.Context, userID, sessionID string) (*domain.QuizSession, error) {
	if !util.IsULID(sessionID) {
		return nil, domain.ErrSessionNotFound
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != "" && session.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *quizServiceImpl) saveProgress(ctx context.Context, session *domain.QuizSession, rec domain.ProgressRecord) error {
	l := logger.Get()
	attempts := max(s.cfg.ProgressRetryAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			timer := time.NewTimer(s.cfg.ProgressRetryBackoff * time.Duration(attempt-1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(err, ctx.Err())
			case <-timer.C:
			}
		}

		err = s.profiles.SaveProgress(ctx, session.UserID, session.TopicID, rec)
		if err == nil || isPermanent(err) {
			return err
		}
		l.Warn("failed to save quiz progress",
			zap.String("sessionID", session.ID),
			zap.String("userID", session.UserID),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", attempts),
			zap.Error(err))
	}
	return err
}

// isPermanent reports errors that a retry cannot fix.
func isPermanent(err error) bool {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		return true
	}
	var de *domain.DomainError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Code {
	case domain.CodeInternal, domain.CodePersistenceFailure:
		return false
	}
	return true
}

// fillHint asks the generator for a hint the first time a hintless
// question is revealed. Failures leave the hint empty.
func (s *quizServiceImpl) fillHint(ctx context.Context, session *domain.QuizSession) {
	q, ok := session.Current()
	if !ok || q.Hint != "" || s.hints == nil {
		return
	}
	hint, err := s.hints.GenerateHint(ctx, *q)
	if err != nil {
		logger.Get().Warn("hint generation failed", zap.String("questionID", q.ID), zap.Error(err))
		return
	}
	q.Hint = hint
}
