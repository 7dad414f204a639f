package handlers

import (
	"net/http"
	"path/filepath"

	"standards-backend/internal/storage"
	"standards-backend/internal/validate"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a single uploaded file at 10 MiB.
const maxUploadBytes = 10 << 20

type UploadHandler struct {
	Store storage.Uploader
}

// POST /api/uploads
//
// Multipart form: "file" (required), "folder" and "filename" (optional,
// filename defaults to the uploaded file's own name).
func (h UploadHandler) Create(c *gin.Context) {
	if h.Store == nil {
		FailDetail(c, http.StatusServiceUnavailable, "file storage not configured")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		FailDetail(c, http.StatusBadRequest, "file is required")
		return
	}
	if header.Size > maxUploadBytes {
		FailDetail(c, http.StatusBadRequest, "file too large")
		return
	}

	folder := c.PostForm("folder")
	filename := c.PostForm("filename")
	if filename == "" {
		filename = header.Filename
	}

	errs := validate.NewErrors()
	errs.Require("filename", filename, validate.ShortText(100))
	errs.Optional("folder", &folder, validate.ShortText(50))
	if !errs.OK() {
		Fail(c, http.StatusBadRequest, errs.Entries()...)
		return
	}

	src, err := header.Open()
	if err != nil {
		Internal(c, err)
		return
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = guessContentType(filename)
	}

	info, err := h.Store.Put(c.Request.Context(), folder, filename, contentType, src)
	if err != nil {
		Internal(c, err)
		return
	}
	Created(c, info)
}

func guessContentType(filename string) string {
	switch filepath.Ext(filename) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
