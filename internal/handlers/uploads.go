package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"beatfolio/internal/logging"
	"beatfolio/internal/media"
	"beatfolio/internal/storage"
	"beatfolio/internal/utils"
)

// UploadHandler handles cover and audio uploads
type UploadHandler struct {
	disk          *storage.PublicDisk
	covers        *media.CoverProcessor
	maxCoverBytes int64
	maxAudioBytes int64
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(disk *storage.PublicDisk, covers *media.CoverProcessor, maxCoverBytes, maxAudioBytes int64) *UploadHandler {
	return &UploadHandler{
		disk:          disk,
		covers:        covers,
		maxCoverBytes: maxCoverBytes,
		maxAudioBytes: maxAudioBytes,
	}
}

func readMultipartFile(c *fiber.Ctx, field string) ([]byte, string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("missing file")
	}

	src, err := file.Open()
	if err != nil {
		return nil, file.Filename, fmt.Errorf("unreadable file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, file.Filename, fmt.Errorf("unreadable file")
	}
	return data, file.Filename, nil
}

// UploadCover accepts a multipart "image" field, validates it, transforms
// it into a square web-optimized asset, and returns its public URL.
func (h *UploadHandler) UploadCover(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return utils.SendValidationError(c, "image", "an image file is required")
	}
	if file.Size > h.maxCoverBytes {
		return utils.SendValidationError(c, "image", fmt.Sprintf("file exceeds the %d byte limit", h.maxCoverBytes))
	}

	data, _, err := readMultipartFile(c, "image")
	if err != nil {
		return utils.SendValidationError(c, "image", err.Error())
	}

	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	if !media.AllowedImageType(http.DetectContentType(data[:sniffLen])) {
		return utils.SendValidationError(c, "image", "file type not allowed; use jpeg, png, gif, or webp")
	}

	encoded, ext, err := h.covers.Process(data)
	if err != nil {
		return utils.SendValidationError(c, "image", "could not process image file")
	}

	name := uuid.New().String() + ext
	url, err := h.disk.Save(storage.CoversNamespace, name, encoded)
	if err != nil {
		logging.Errorf("Cover upload storage failure: %v", err)
		return utils.SendInternalServerError(c, "Failed to store cover image")
	}

	return c.JSON(fiber.Map{"url": url})
}

// UploadAudio accepts a multipart "audio" field, validates it, and stores
// it unchanged under the audio namespace. Duration and tag metadata are
// probed best-effort and returned as advisory fields.
func (h *UploadHandler) UploadAudio(c *fiber.Ctx) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return utils.SendValidationError(c, "audio", "an audio file is required")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !media.AllowedAudioExtension(ext) {
		return utils.SendValidationError(c, "audio", "file type not allowed; use mp3, wav, ogg, m4a, aac, or flac")
	}
	if file.Size > h.maxAudioBytes {
		return utils.SendValidationError(c, "audio", fmt.Sprintf("file exceeds the %d byte limit", h.maxAudioBytes))
	}

	data, _, err := readMultipartFile(c, "audio")
	if err != nil {
		return utils.SendValidationError(c, "audio", err.Error())
	}

	name := uuid.New().String() + ext
	url, err := h.disk.Save(storage.AudioNamespace, name, data)
	if err != nil {
		logging.Errorf("Audio upload storage failure: %v", err)
		return utils.SendInternalServerError(c, "Failed to store audio file")
	}

	resp := fiber.Map{"url": url}
	probe := media.ProbeAudio(data, ext)
	if probe.Duration != "" {
		resp["duration"] = probe.Duration
	}
	if probe.Title != "" {
		resp["title"] = probe.Title
	}
	if probe.Artist != "" {
		resp["artist"] = probe.Artist
	}

	return c.JSON(resp)
}
