package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/uploads"
)

const (
	// maxUploadBody bounds the multipart body before the per-type size checks.
	maxUploadBody = 55 << 20
	uploadTimeout = time.Minute
)

func UploadMedia(service *uploads.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /uploads"
		defer handlePanic(c, route)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
		file, err := c.FormFile("file")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "file is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
		defer cancel()

		result, err := service.Save(ctx, file)
		if err != nil {
			if errors.Is(err, uploads.ErrMissingExtension) ||
				errors.Is(err, uploads.ErrUnsupportedType) ||
				errors.Is(err, uploads.ErrTooLarge) {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "upload failed")
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}
