package handler_test

import (
	"context"
	"net/http"
	"testing"

	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/handler"
	"maths-quest/internal/middleware"
	"maths-quest/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func setupQuizApp(svc *MockQuizService, userID string) *fiber.App {
	app := newTestApp()
	h := handler.NewQuizHandler(svc)
	vm := middleware.NewValidationMiddleware()

	sessions := app.Group("/api/quiz/sessions", asUser(userID))
	sessions.Post("/", h.StartSession)
	sessions.Get("/:id", vm.ValidateSessionID(), h.GetSession)
	sessions.Post("/:id/answer", vm.ValidateSessionID(), h.Answer)
	sessions.Post("/:id/hint", vm.ValidateSessionID(), h.Hint)
	sessions.Post("/:id/advance", vm.ValidateSessionID(), h.Advance)
	return app
}

func TestStartSession(t *testing.T) {
	t.Run("success passes user and topic", func(t *testing.T) {
		svc := &MockQuizService{StartSessionFunc: func(_ context.Context, userID, topicID string) (*dto.SessionResponse, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, "addition", topicID)
			return &dto.SessionResponse{ID: "s1", TopicID: topicID, Theme: domain.ThemeSpace, State: "active", Total: 3}, nil
		}}
		status, body := doRequest(t, setupQuizApp(svc, "user-1"), http.MethodPost, "/api/quiz/sessions", dto.StartSessionRequest{TopicID: "addition"})

		assert.Equal(t, fiber.StatusCreated, status)
		resp := decode[dto.SessionResponse](t, body)
		assert.Equal(t, "active", resp.State)
		assert.Equal(t, 3, resp.Total)
	})

	t.Run("visitor with empty topic gets empty session", func(t *testing.T) {
		svc := &MockQuizService{StartSessionFunc: func(_ context.Context, userID, topicID string) (*dto.SessionResponse, error) {
			assert.Empty(t, userID)
			assert.Empty(t, topicID)
			return &dto.SessionResponse{ID: "s2", State: "empty", Message: "No questions yet"}, nil
		}}
		status, body := doRequest(t, setupQuizApp(svc, ""), http.MethodPost, "/api/quiz/sessions", dto.StartSessionRequest{})

		assert.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, "empty", decode[dto.SessionResponse](t, body).State)
	})

	t.Run("malformed topic is rejected before the service", func(t *testing.T) {
		status, body := doRequest(t, setupQuizApp(&MockQuizService{}, ""), http.MethodPost, "/api/quiz/sessions", dto.StartSessionRequest{TopicID: "Fractions!"})

		assert.Equal(t, fiber.StatusBadRequest, status)
		resp := decode[middleware.ValidationErrorResponse](t, body)
		assert.Equal(t, string(domain.CodeValidation), resp.Code)
		assert.Len(t, resp.Errors, 1)
	})

	t.Run("invalid json", func(t *testing.T) {
		status, _ := doRequest(t, setupQuizApp(&MockQuizService{}, ""), http.MethodPost, "/api/quiz/sessions", "{not json")
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestGetSession(t *testing.T) {
	id := util.NewULID()

	t.Run("found", func(t *testing.T) {
		svc := &MockQuizService{GetSessionFunc: func(_ context.Context, userID, sessionID string) (*dto.SessionResponse, error) {
			assert.Equal(t, id, sessionID)
			return &dto.SessionResponse{ID: sessionID, State: "active"}, nil
		}}
		status, body := doRequest(t, setupQuizApp(svc, "user-1"), http.MethodGet, "/api/quiz/sessions/"+id, nil)

		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, id, decode[dto.SessionResponse](t, body).ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &MockQuizService{GetSessionFunc: func(context.Context, string, string) (*dto.SessionResponse, error) {
			return nil, domain.ErrSessionNotFound
		}}
		status, body := doRequest(t, setupQuizApp(svc, "user-1"), http.MethodGet, "/api/quiz/sessions/"+id, nil)

		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, string(domain.CodeSessionNotFound), decode[middleware.ErrorResponse](t, body).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		status, _ := doRequest(t, setupQuizApp(&MockQuizService{}, ""), http.MethodGet, "/api/quiz/sessions/not-a-ulid", nil)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestAnswer(t *testing.T) {
	id := util.NewULID()

	t.Run("records selection", func(t *testing.T) {
		svc := &MockQuizService{SelectOptionFunc: func(_ context.Context, userID, sessionID string, optionIndex int) (*dto.AnswerResponse, error) {
			assert.Equal(t, "user-1", userID)
			assert.Equal(t, 2, optionIndex)
			return &dto.AnswerResponse{Recorded: true, Session: &dto.SessionResponse{
				ID:     sessionID,
				Score:  1,
				Answer: &dto.AnswerView{OptionIndex: 2, IsCorrect: true, CorrectOptionIndex: 2},
			}}, nil
		}}
		idx := 2
		status, body := doRequest(t, setupQuizApp(svc, "user-1"), http.MethodPost, "/api/quiz/sessions/"+id+"/answer", dto.AnswerRequest{OptionIndex: &idx})

		assert.Equal(t, fiber.StatusOK, status)
		resp := decode[dto.AnswerResponse](t, body)
		assert.True(t, resp.Recorded)
		assert.True(t, resp.Session.Answer.IsCorrect)
	})

	t.Run("option index is required", func(t *testing.T) {
		status, body := doRequest(t, setupQuizApp(&MockQuizService{}, ""), http.MethodPost, "/api/quiz/sessions/"+id+"/answer", map[string]interface{}{})

		assert.Equal(t, fiber.StatusBadRequest, status)
		resp := decode[middleware.ValidationErrorResponse](t, body)
		if assert.Len(t, resp.Errors, 1) {
			assert.Equal(t, "option_index", resp.Errors[0].Field)
		}
	})

	t.Run("option out of range for question", func(t *testing.T) {
		svc := &MockQuizService{SelectOptionFunc: func(context.Context, string, string, int) (*dto.AnswerResponse, error) {
			return nil, domain.NewInvalidOptionError(7, 4)
		}}
		idx := 7
		status, _ := doRequest(t, setupQuizApp(svc, ""), http.MethodPost, "/api/quiz/sessions/"+id+"/answer", dto.AnswerRequest{OptionIndex: &idx})
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("finished session", func(t *testing.T) {
		svc := &MockQuizService{SelectOptionFunc: func(context.Context, string, string, int) (*dto.AnswerResponse, error) {
			return nil, domain.ErrSessionNotActive
		}}
		idx := 0
		status, _ := doRequest(t, setupQuizApp(svc, ""), http.MethodPost, "/api/quiz/sessions/"+id+"/answer", dto.AnswerRequest{OptionIndex: &idx})
		assert.Equal(t, fiber.StatusConflict, status)
	})
}

func TestHint(t *testing.T) {
	id := util.NewULID()
	svc := &MockQuizService{ToggleHintFunc: func(_ context.Context, _, sessionID string) (*dto.SessionResponse, error) {
		return &dto.SessionResponse{ID: sessionID, HintVisible: true, Question: &dto.QuestionView{Hint: "Count the stars"}}, nil
	}}
	status, body := doRequest(t, setupQuizApp(svc, ""), http.MethodPost, "/api/quiz/sessions/"+id+"/hint", nil)

	assert.Equal(t, fiber.StatusOK, status)
	resp := decode[dto.SessionResponse](t, body)
	assert.True(t, resp.HintVisible)
	assert.Equal(t, "Count the stars", resp.Question.Hint)
}

func TestAdvance(t *testing.T) {
	id := util.NewULID()
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "unanswered question", err: domain.ErrQuestionNotAnswered, wantStatus: fiber.StatusConflict, wantCode: string(domain.CodeQuestionNotAnswered)},
		{name: "progress not saved", err: domain.NewPersistenceFailureError(assert.AnError), wantStatus: fiber.StatusServiceUnavailable, wantCode: string(domain.CodePersistenceFailure)},
		{name: "other owner", err: domain.ErrSessionNotFound, wantStatus: fiber.StatusNotFound, wantCode: string(domain.CodeSessionNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockQuizService{AdvanceFunc: func(context.Context, string, string) (*dto.SessionResponse, error) {
				return nil, tt.err
			}}
			status, body := doRequest(t, setupQuizApp(svc, "user-1"), http.MethodPost, "/api/quiz/sessions/"+id+"/advance", nil)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, decode[middleware.ErrorResponse](t, body).Code)
		})
	}

	t.Run("finishes with result", func(t *testing.T) {
		svc := &MockQuizService{AdvanceFunc: func(_ context.Context, _, sessionID string) (*dto.SessionResponse, error) {
			return &dto.SessionResponse{ID: sessionID, State: "finished", Score: 3, Total: 3,
				Result: &dto.ResultView{Score: 3, Total: 3, Message: "Well done, brave adventurer!"}}, nil
		}}
		status, body := doRequest(t, setupQuizApp(svc, "user-1"), http.MethodPost, "/api/quiz/sessions/"+id+"/advance", nil)

		assert.Equal(t, fiber.StatusOK, status)
		resp := decode[dto.SessionResponse](t, body)
		assert.Equal(t, "finished", resp.State)
		assert.Equal(t, 3, resp.Result.Score)
	})
}
