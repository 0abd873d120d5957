package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtlebank/teenfin/internal/infrastructure/monitoring/logging"
	"github.com/turtlebank/teenfin/internal/upload"
	apperrors "github.com/turtlebank/teenfin/pkg/errors"
)

// UploadHandler accepts multipart uploads and serves the stored files back.
type UploadHandler struct {
	uploads *upload.Service
	log     logging.Logger
}

// NewUploadHandler builds an UploadHandler.
func NewUploadHandler(uploads *upload.Service, log logging.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, log: log}
}

// Upload stores the multipart "file" part.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "missing file part"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "unreadable file part"))
		return
	}
	defer f.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	stored, err := h.uploads.Store(c.Request.Context(), fileHeader.Filename, f, fileHeader.Size, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// GetFile streams a stored file back by its generated name.
func (h *UploadHandler) GetFile(c *gin.Context) {
	rc, contentType, err := h.uploads.Fetch(c.Request.Context(), c.Param("filename"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn("file stream interrupted",
			logging.String("filename", c.Param("filename")), logging.Err(err))
	}
}
