package documents

import (
	"bytes"
	"encoding/base64"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/pkg/response"
	"github.com/srithep/meeting-backend/pkg/storage"
)

// CreateRequest is the body for POST /documents. Either url or fileData
// (base64, with mimeType) must be provided.
type CreateRequest struct {
	MeetingID uuid.UUID `json:"meetingId" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	URL       string    `json:"url"`
	FileData  string    `json:"fileData"`
	MimeType  string    `json:"mimeType"`
}

// Handler handles document HTTP endpoints. s3 is nil when no documents
// bucket is configured; uploads then stay inline in postgres.
type Handler struct {
	repo   *Repository
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a documents handler.
func NewHandler(repo *Repository, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, s3: s3, logger: logger}
}

// List handles GET /documents with an optional meetingId filter.
func (h *Handler) List(c *gin.Context) {
	var meetingID *uuid.UUID
	if raw := c.Query("meetingId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid meetingId")
			return
		}
		meetingID = &id
	}
	list, err := h.repo.List(c.Request.Context(), meetingID)
	if err != nil {
		response.Internal(c, err.Error())
		return
	}
	if list == nil {
		list = []models.Document{}
	}
	response.OK(c, list)
}

// Create handles POST /documents.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.URL == "" && req.FileData == "" {
		response.BadRequest(c, "either url or fileData is required")
		return
	}
	if req.URL != "" && req.FileData != "" {
		response.BadRequest(c, "url and fileData are mutually exclusive")
		return
	}

	params := CreateParams{
		MeetingID: req.MeetingID,
		Name:      req.Name,
		URL:       req.URL,
		MimeType:  req.MimeType,
	}
	if req.FileData != "" {
		if req.MimeType == "" {
			response.BadRequest(c, "mimeType is required with fileData")
			return
		}
		data, err := base64.StdEncoding.DecodeString(req.FileData)
		if err != nil {
			response.BadRequest(c, "fileData is not valid base64")
			return
		}
		if len(data) > storage.MaxDocumentSize {
			response.BadRequest(c, "file exceeds the maximum size")
			return
		}
		if h.s3 != nil && h.s3.Bucket() != "" {
			key := storage.DocumentKey(req.MeetingID.String(), uuid.New().String())
			if err := h.s3.Upload(c.Request.Context(), key, req.MimeType, bytes.NewReader(data), int64(len(data))); err != nil {
				h.logger.Error("document upload failed", zap.Error(err), zap.String("key", key))
				response.Internal(c, "failed to store file")
				return
			}
			params.StorageKey = key
		} else {
			params.FileData = data
		}
	}

	d, err := h.repo.Create(c.Request.Context(), params)
	if err != nil {
		if params.StorageKey != "" {
			// best effort: don't leave an orphaned object behind
			_ = h.s3.DeleteObject(c.Request.Context(), params.StorageKey)
		}
		if response.IsForeignKey(err) {
			response.NotFound(c, "meeting not found")
			return
		}
		response.Internal(c, err.Error())
		return
	}
	response.Created(c, d)
}

// Get handles GET /documents/:id. The payload is metadata only; the bytes
// come through the download endpoint.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid document id")
		return
	}
	d, err := h.repo.GetMeta(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err, "document not found", "")
		return
	}
	response.OK(c, d)
}

// delivery is how the download endpoint serves a given document.
type delivery int

const (
	deliverNone     delivery = iota
	deliverPresign           // redirect to a pre-signed S3 URL
	deliverInline            // serve file_data from postgres
	deliverRedirect          // redirect to the document's source URL
)

func deliveryMode(d *models.Document, hasS3 bool) delivery {
	switch {
	case d.StorageKey != "" && hasS3:
		return deliverPresign
	case len(d.FileData) > 0:
		return deliverInline
	case d.URL != "":
		return deliverRedirect
	}
	return deliverNone
}

// Download handles GET /documents/:id/download. URL documents redirect to
// their source, inline files are served directly, and S3-backed files
// redirect to a short-lived pre-signed URL. ?dl=1 switches the disposition
// from inline to attachment, including across the presigned redirect.
func (h *Handler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid document id")
		return
	}
	d, err := h.repo.GetWithFile(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err, "document not found", "")
		return
	}

	attachment := c.Query("dl") == "1"

	switch deliveryMode(d, h.s3 != nil) {
	case deliverPresign:
		url, err := h.s3.PresignDownloadURL(c.Request.Context(), d.StorageKey, contentDisposition(d.Name, attachment))
		if err != nil {
			h.logger.Error("document presign failed", zap.Error(err), zap.String("key", d.StorageKey))
			response.Internal(c, "failed to sign download")
			return
		}
		c.Redirect(http.StatusFound, url)
	case deliverInline:
		c.Header("Content-Disposition", contentDisposition(d.Name, attachment))
		c.Data(http.StatusOK, d.MimeType, d.FileData)
	case deliverRedirect:
		c.Redirect(http.StatusFound, d.URL)
	default:
		response.NotFound(c, "document has no stored file")
	}
}

// Delete handles DELETE /documents/:id and removes the S3 object when the
// row referenced one.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid document id")
		return
	}
	key, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		response.StoreError(c, err, "document not found", "")
		return
	}
	if key != "" && h.s3 != nil {
		if err := h.s3.DeleteObject(c.Request.Context(), key); err != nil {
			h.logger.Warn("orphaned document object", zap.Error(err), zap.String("key", key))
		}
	}
	response.NoContent(c)
}

// contentDisposition builds the download header value, quoting the filename
// per RFC 6266.
func contentDisposition(filename string, attachment bool) string {
	dispType := "inline"
	if attachment {
		dispType = "attachment"
	}
	return mime.FormatMediaType(dispType, map[string]string{"filename": filename})
}
