package handler

import (
	"maths-quest/internal/domain"
	"maths-quest/internal/dto"
	"maths-quest/internal/logger"
	"maths-quest/internal/middleware"
	"maths-quest/internal/service"
	"maths-quest/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz session HTTP requests
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// StartSession godoc
// @Summary Start a quiz session
// @Description Draws up to five questions for the topic in the player's theme. A topic without questions yields an empty session.
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest true "Topic to play"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quiz/sessions [post]
func (h *QuizHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateStartSession(req); len(errs) > 0 {
		return errs
	}

	userID := middleware.UserID(c)
	resp, err := h.service.StartSession(c.UserContext(), userID, req.TopicID)
	if err != nil {
		logger.Get().Error("Failed to start quiz session",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("topicID", req.TopicID))
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetSession godoc
// @Summary Get a quiz session
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/sessions/{id} [get]
func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.service.GetSession(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Answer godoc
// @Summary Answer the current question
// @Description Records the first selection for the current question. Repeated selections return the stored answer with recorded=false.
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.AnswerRequest true "Selected option"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/sessions/{id}/answer [post]
func (h *QuizHandler) Answer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateAnswer(req); len(errs) > 0 {
		return errs
	}

	resp, err := h.service.SelectOption(c.UserContext(), middleware.UserID(c), c.Params("id"), *req.OptionIndex)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Hint godoc
// @Summary Toggle the hint
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /quiz/sessions/{id}/hint [post]
func (h *QuizHandler) Hint(c *fiber.Ctx) error {
	resp, err := h.service.ToggleHint(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Advance godoc
// @Summary Move to the next question
// @Description On the last question the result is saved to the player's progress before the session finishes.
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "Progress could not be saved; retry"
// @Router /quiz/sessions/{id}/advance [post]
func (h *QuizHandler) Advance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	sessionID := c.Params("id")
	resp, err := h.service.Advance(c.UserContext(), userID, sessionID)
	if err != nil {
		logger.Get().Warn("Failed to advance quiz session",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("sessionID", sessionID))
		return err
	}
	return c.JSON(resp)
}
