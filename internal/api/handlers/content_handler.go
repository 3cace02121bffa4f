package handlers

import (
	"errors"
	"log/slog"

	"github.com/getmyagent/marketing-api/internal/queue"
	"github.com/getmyagent/marketing-api/internal/service"
	"github.com/getmyagent/marketing-api/internal/transfer"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
)

type ContentHandler struct {
	s           service.ContentService
	AsynqClient *asynq.Client
	validate    *validator.Validate
}

func NewContentHandler(service service.ContentService, asynqClient *asynq.Client) *ContentHandler {
	return &ContentHandler{
		s:           service,
		AsynqClient: asynqClient,
		validate:    validator.New(),
	}
}

func (h *ContentHandler) GeneratePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.GeneratePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := h.s.GeneratePost(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Template not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate content",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ContentHandler) SavePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.SavePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	postID, err := h.s.SavePost(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": postID})
}

func (h *ContentHandler) ListPosts(c *fiber.Ctx) error {
	userID := GetUserID(c)
	status := c.Query("status")

	posts, err := h.s.ListPosts(c.Context(), userID, status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list posts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

func (h *ContentHandler) SchedulePost(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.SchedulePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	delay, err := h.s.SchedulePost(c.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Post or account not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to schedule post",
		})
	}

	payload := queue.PublishPostPayload{
		PostID:    req.PostID,
		UserID:    userID,
		AccountID: req.AccountID,
	}
	if err := queue.EnqueuePost(h.AsynqClient, payload, delay); err != nil {
		// No task will ever fire, so don't leave the post scheduled.
		if err := h.s.CancelSchedule(c.Context(), userID, req.PostID); err != nil {
			slog.Info("unable to revert post to draft", "post_id", req.PostID, "error", err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling post",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post scheduled successfully",
	})
}

func (h *ContentHandler) SaveTemplate(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.SaveTemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request",
		})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	templateID, err := h.s.SaveTemplate(c.Context(), userID, &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to save template",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": templateID})
}

func (h *ContentHandler) ListTemplates(c *fiber.Ctx) error {
	userID := GetUserID(c)

	templates, err := h.s.ListTemplates(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to list templates",
		})
	}

	return c.Status(fiber.StatusOK).JSON(templates)
}
