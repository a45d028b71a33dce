package api

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"telepipe/internal/videos"
	pkgmodels "telepipe/pkg/models"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	Service *videos.Service
}

func NewVideoHandler(service *videos.Service) *VideoHandler {
	return &VideoHandler{Service: service}
}

// Upload stores a multipart "file" with an optional "title"
func (h *VideoHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	video, err := h.Service.Create(c.Request.Context(), videos.UploadInput{
		Title:    c.PostForm("title"),
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     fileBytes,
	})
	if errors.Is(err, videos.ErrEmptyFile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty file"})
		return
	}
	if err != nil {
		log.Printf("Error storing upload %q: %v", header.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, h.Service.Public(*video))
}

// List returns all videos, newest first
func (h *VideoHandler) List(c *gin.Context) {
	records, err := h.Service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Return empty array instead of null
	out := make([]pkgmodels.Video, 0, len(records))
	for _, v := range records {
		out = append(out, h.Service.Public(v))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns the metadata of one video
func (h *VideoHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	video, err := h.Service.Get(c.Request.Context(), id)
	if errors.Is(err, videos.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.Service.Public(*video))
}

// Download streams the stored bytes under the original filename
func (h *VideoHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	video, f, err := h.Service.Open(c.Request.Context(), id)
	switch {
	case errors.Is(err, videos.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	case errors.Is(err, videos.ErrFileMissing):
		c.JSON(http.StatusNotFound, gin.H{"error": "File missing on server"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	disposition := "attachment"
	if c.Query("preview") == "true" {
		disposition = "inline"
	}
	c.Header("Content-Disposition", contentDisposition(disposition, video.OriginalName))
	c.Header("Content-Type", video.MimeType)

	// ServeContent handles Range requests so browsers can seek inside videos.
	http.ServeContent(c.Writer, c.Request, video.OriginalName, stat.ModTime(), f)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video id"})
		return 0, false
	}
	return uint(id), true
}

func contentDisposition(disposition, filename string) string {
	value := mime.FormatMediaType(disposition, map[string]string{"filename": filename})
	if value == "" {
		return disposition
	}
	return value
}
