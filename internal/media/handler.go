package media

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/pkg/response"
	"github.com/anchor-ministry/backend/pkg/storage"
)

// PresignRequest is the body for POST /media/presign (pastor only).
type PresignRequest struct {
	PostID      string `json:"post_id" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

// Handler handles media upload endpoints for post cover images.
type Handler struct {
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a media handler.
func NewHandler(s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{s3: s3, logger: logger}
}

// Presign handles POST /media/presign (pastor only). Returns a pre-signed PUT
// URL so the browser can upload the image directly, plus the public URL to
// store on the post.
func (h *Handler) Presign(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "media storage is not configured")
		return
	}
	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if _, err := uuid.Parse(req.PostID); err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	if !storage.ValidateMediaFileType(req.ContentType, req.Filename) {
		response.BadRequest(c, "only jpeg, png, webp and gif images are allowed")
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(req.Filename)
	}
	key := storage.MediaKey(req.PostID, req.Filename)
	uploadURL, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(), key, contentType, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err), zap.String("key", key))
		response.ServiceUnavailable(c, "failed to prepare upload, try again")
		return
	}
	response.OK(c, gin.H{
		"upload_url":   uploadURL,
		"public_url":   h.s3.PublicObjectURL(key),
		"key":          key,
		"content_type": contentType,
		"expires_in":   int(h.s3.PresignExpire().Seconds()),
	})
}

// Upload handles POST /media/upload (pastor only). Accepts a multipart file
// and streams it to S3 for clients that cannot use pre-signed URLs.
func (h *Handler) Upload(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "media storage is not configured")
		return
	}
	postID := c.PostForm("post_id")
	if _, err := uuid.Parse(postID); err != nil {
		response.BadRequest(c, "invalid post id")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fileHeader.Size > storage.MaxMediaFileSize {
		response.BadRequest(c, fmt.Sprintf("file too large, max %d MB", storage.MaxMediaFileSize/(1024*1024)))
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !storage.ValidateMediaFileType(contentType, fileHeader.Filename) {
		response.BadRequest(c, "only jpeg, png, webp and gif images are allowed")
		return
	}
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unable to read uploaded file")
		return
	}
	defer file.Close()

	key := storage.MediaKey(postID, fileHeader.Filename)
	publicURL, err := h.s3.Upload(c.Request.Context(), key, contentType, file, fileHeader.Size, true)
	if err != nil {
		h.logger.Error("media upload failed", zap.Error(err), zap.String("key", key))
		response.ServiceUnavailable(c, "failed to upload file, try again")
		return
	}
	response.Created(c, gin.H{"url": publicURL, "key": key})
}

// Delete handles DELETE /media (pastor only). Removes an uploaded object by
// key.
func (h *Handler) Delete(c *gin.Context) {
	if h.s3 == nil {
		response.ServiceUnavailable(c, "media storage is not configured")
		return
	}
	key := c.Query("key")
	if key == "" {
		response.BadRequest(c, "key is required")
		return
	}
	if err := h.s3.DeleteObject(c.Request.Context(), key); err != nil {
		h.logger.Error("media delete failed", zap.Error(err), zap.String("key", key))
		response.ServiceUnavailable(c, "failed to delete file, try again")
		return
	}
	response.NoContent(c)
}
