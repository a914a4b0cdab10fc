package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/MarvinHaas/ClipCast/app/models"
	"github.com/MarvinHaas/ClipCast/internal/pkg/connect"
	"github.com/MarvinHaas/ClipCast/internal/pkg/database"
	"github.com/MarvinHaas/ClipCast/internal/pkg/session"
	"github.com/MarvinHaas/ClipCast/internal/pkg/usercontext"
)

type userSettingsResponse struct {
	DefaultPlatform     string `json:"default_platform"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	HasAPIKey           bool   `json:"has_api_key"`
	APIKeyPrefix        string `json:"api_key_prefix,omitempty"`
}

func settingsResponse(us *models.UserSettings) userSettingsResponse {
	resp := userSettingsResponse{
		DefaultPlatform:     us.DefaultPlatform,
		OnboardingCompleted: us.HasCompletedOnboarding(),
		HasAPIKey:           us.HasActiveAPIKey(),
	}
	if resp.HasAPIKey {
		resp.APIKeyPrefix = us.APIKeyPrefix
	}
	return resp
}

// HandleUserSettings returns the caller's dashboard settings.
func HandleUserSettings(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	us, err := models.GetOrCreateUserSettings(database.GetDB(), userCtx.UserID)
	if err != nil {
		log.Printf("[settings] load failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	return c.JSON(settingsResponse(us))
}

type userSettingsUpdateRequest struct {
	DefaultPlatform string `json:"default_platform"`
}

// HandleUserSettingsUpdate changes the default publishing platform. Only
// identifiers from the closed platform set are accepted.
func HandleUserSettingsUpdate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req userSettingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if !connect.IsKnown(req.DefaultPlatform) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown platform"})
	}

	db := database.GetDB()
	us, err := models.GetOrCreateUserSettings(db, userCtx.UserID)
	if err != nil {
		log.Printf("[settings] load failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	us.DefaultPlatform = req.DefaultPlatform
	if err := db.Save(us).Error; err != nil {
		log.Printf("[settings] save failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}
	return c.JSON(settingsResponse(us))
}

// HandleOnboardingComplete marks the first-run wizard as finished. Repeated
// calls keep the original completion time.
func HandleOnboardingComplete(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	db := database.GetDB()
	us, err := models.GetOrCreateUserSettings(db, userCtx.UserID)
	if err != nil {
		log.Printf("[settings] load failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	us.CompleteOnboarding()
	if err := db.Save(us).Error; err != nil {
		log.Printf("[settings] onboarding save failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save settings"})
	}
	_ = session.SetSessionValue(c, "user_onboarded", "true")
	return c.JSON(fiber.Map{"success": true})
}

// HandleUserAPIKeyGenerate issues a fresh API key and returns the raw secret
// exactly once. A previous key is invalidated by the overwrite.
func HandleUserAPIKeyGenerate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	db := database.GetDB()
	us, err := models.GetOrCreateUserSettings(db, userCtx.UserID)
	if err != nil {
		log.Printf("[settings] load failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	rawKey, err := us.IssueAPIKey()
	if err != nil {
		log.Printf("[settings] api key generation failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate API key"})
	}
	if err := db.Save(us).Error; err != nil {
		log.Printf("[settings] api key save failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save API key"})
	}
	return c.JSON(fiber.Map{"api_key": rawKey, "api_key_prefix": us.APIKeyPrefix})
}

// HandleUserAPIKeyRevoke invalidates the caller's API key.
func HandleUserAPIKeyRevoke(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	db := database.GetDB()
	us, err := models.GetOrCreateUserSettings(db, userCtx.UserID)
	if err != nil {
		log.Printf("[settings] load failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load settings"})
	}
	us.RevokeAPIKey()
	if err := db.Save(us).Error; err != nil {
		log.Printf("[settings] api key revoke failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to revoke API key"})
	}
	return c.JSON(fiber.Map{"success": true})
}
