package handler

import (
	"maths-quest/internal/logger"
	"maths-quest/internal/middleware"
	"maths-quest/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogHandler serves the landing screen and the topic and theme lists.
type CatalogHandler struct {
	topics service.TopicService
	home   service.HomeService
}

func NewCatalogHandler(topics service.TopicService, home service.HomeService) *CatalogHandler {
	return &CatalogHandler{topics: topics, home: home}
}

// Home godoc
// @Summary Landing screen
// @Description Theme picker for players without a theme, topic list for everyone else.
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.HomeResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /home [get]
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	resp, err := h.home.Home(c.UserContext(), middleware.UserID(c))
	if err != nil {
		logger.Get().Error("Failed to build home screen", zap.Error(err))
		return err
	}
	return c.JSON(resp)
}

// Topics godoc
// @Summary List topics
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.TopicResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /topics [get]
func (h *CatalogHandler) Topics(c *fiber.Ctx) error {
	topics, err := h.topics.ListTopics(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to list topics", zap.Error(err))
		return err
	}
	return c.JSON(topics)
}

// Themes godoc
// @Summary List themes
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.ThemeResponse
// @Router /themes [get]
func (h *CatalogHandler) Themes(c *fiber.Ctx) error {
	return c.JSON(h.topics.Themes())
}
