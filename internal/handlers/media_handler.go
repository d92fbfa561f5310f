package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sajidhasan07/buzzline/backend/pkg/storage"
)

// MediaHandler mints pre-signed blob URLs. The application never proxies
// media bytes; clients upload directly against the signed URL and reference
// the returned blob ID on their posts.
type MediaHandler struct {
	blobStore storage.BlobStore
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(blobStore storage.BlobStore) *MediaHandler {
	return &MediaHandler{blobStore: blobStore}
}

// RegisterMediaRoutes registers media routes
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.POST("/media/upload-url", h.GenerateUploadURL)
}

// GenerateUploadURL returns a pre-signed PUT URL and its blob ID
func (h *MediaHandler) GenerateUploadURL(c echo.Context) error {
	actorID := getActorID(c)
	if actorID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	uploadURL, blobID, err := h.blobStore.GenerateUploadURL(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"upload_url": uploadURL, "blob_id": blobID},
	})
}
