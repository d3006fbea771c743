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

type ProfileHandler struct {
	profileService service.ProfileService
	validator      *validation.Validator
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validator:      validation.NewValidator(),
	}
}

// GetMe retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Router /users/me [get]
func (h *ProfileHandler) GetMe(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	profile, err := h.profileService.GetCurrentUser(c.UserContext(), userID)
	if err != nil {
		logger.Get().Error("Failed to get user profile", zap.Error(err), zap.String("userID", userID))
		return err
	}
	return c.JSON(profile)
}

// UpdateMe applies a partial profile update.
// @Summary Update My Profile
// @Description Only the fields present in the body are changed.
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserProfileResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Router /users/me [patch]
func (h *ProfileHandler) UpdateMe(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	profile, err := h.profileService.UpdateProfile(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// SelectTheme stores the chosen theme. Visitors get a login prompt instead.
// @Summary Select Theme
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.SelectThemeRequest true "Theme ID"
// @Success 200 {object} dto.SelectThemeResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /users/me/theme [put]
func (h *ProfileHandler) SelectTheme(c *fiber.Ctx) error {
	var req dto.SelectThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.ValidateSelectTheme(req); len(errs) > 0 {
		return errs
	}

	userID := middleware.UserID(c)
	resp, err := h.profileService.SelectTheme(c.UserContext(), userID, req.Theme)
	if err != nil {
		logger.Get().Error("Failed to select theme",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("theme", req.Theme))
		return err
	}
	return c.JSON(resp)
}
