package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

type SettingsStore interface {
	Landing(ctx context.Context) (models.LandingSettings, error)
	SaveLanding(ctx context.Context, settings models.LandingSettings) error
}

type landingInput struct {
	HeroTitle     string `json:"hero_title"`
	HeroSubtitle  string `json:"hero_subtitle"`
	HeroMedia     string `json:"hero_media"`
	HeroMediaType string `json:"hero_media_type" binding:"omitempty,oneof=image video"`
}

// GetLandingPage answers with an empty object until settings are saved.
func GetLandingPage(db Pinger, settings SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /landing-page"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		landing, err := settings.Landing(ctx)
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		if err != nil {
			respondStoreError(c, route, err, "")
			return
		}
		c.JSON(http.StatusOK, landing)
	}
}

func UpdateLandingPage(db Pinger, settings SettingsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /landing-page"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var in landingInput
		if err := c.ShouldBindJSON(&in); err != nil {
			respondValidationError(c, route, err)
			return
		}

		landing := models.LandingSettings{
			ID:            models.LandingSettingsID,
			HeroTitle:     strings.TrimSpace(in.HeroTitle),
			HeroSubtitle:  strings.TrimSpace(in.HeroSubtitle),
			HeroMedia:     strings.TrimSpace(in.HeroMedia),
			HeroMediaType: in.HeroMediaType,
			UpdatedAt:     models.Timestamp(time.Now()),
		}
		if landing.HeroMedia != "" && landing.HeroMediaType == "" {
			landing.HeroMediaType = "image"
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := settings.SaveLanding(ctx, landing); err != nil {
			respondStoreError(c, route, err, "")
			return
		}

		log.Println("[LANDING] [INFO] landing page settings updated")
		c.JSON(http.StatusOK, landing)
	}
}
