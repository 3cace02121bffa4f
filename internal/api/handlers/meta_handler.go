package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	config "github.com/getmyagent/marketing-api/configs"
	"github.com/getmyagent/marketing-api/internal/service"
	"github.com/getmyagent/marketing-api/internal/transfer"
	"github.com/getmyagent/marketing-api/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type MetaHandler struct {
	ms       service.MetaService
	ps       service.PublishService
	cfg      config.Config
	validate *validator.Validate
}

func NewMetaHandler(ms service.MetaService, ps service.PublishService, cfg config.Config) *MetaHandler {
	return &MetaHandler{
		ms:       ms,
		ps:       ps,
		cfg:      cfg,
		validate: validator.New(),
	}
}

func (h *MetaHandler) GetOAuthURL(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "state is required",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"oauth_url": h.ms.GetOAuthURL(state),
	})
}

func (h *MetaHandler) LinkAccount(c *fiber.Ctx) error {
	return c.Redirect(h.ms.GetOAuthURL(c.Query("state")))
}

func (h *MetaHandler) CallbackHandler(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	claims, err := utils.ValidateToken(h.cfg.SecretKey, state)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate user",
		})
	}

	if _, err := h.ms.HandleOAuthCallback(c.Context(), userID, code); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to authenticate with Meta",
		})
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *MetaHandler) ListAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accounts, err := h.ms.ListAccounts(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch Meta accounts",
		})
	}

	return c.Status(fiber.StatusOK).JSON(accounts)
}

func (h *MetaHandler) DisconnectAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.DisconnectRequest
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

	if err := h.ms.DisconnectAccount(c.Context(), userID, req.AccountID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Account not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to disconnect account",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *MetaHandler) PublishToInstagram(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublishInstagramRequest
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

	result, err := h.ps.PublishToInstagram(c.Context(), userID, req.AccountID, req.PostID, req.Caption, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Instagram account not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to publish to Instagram",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MetaHandler) PublishToFacebook(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublishFacebookRequest
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

	result, err := h.ps.PublishToFacebook(c.Context(), userID, req.PageID, req.PostID, req.Message, req.ImageURL)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Facebook page not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to publish to Facebook",
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
