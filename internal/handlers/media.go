// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"arsysintela/internal/storage"
)

// maxUploadSize is the maximum allowed media upload size (10 MB).
const maxUploadSize = 10 << 20

// allowedMediaTypes defines MIME types accepted for header images.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
}

// Media handles header image uploads to object storage.
type Media struct {
	storage *storage.Client
	log     zerolog.Logger
}

// NewMedia creates the media handler. storage may be nil, in which case
// uploads are rejected with 503.
func NewMedia(s *storage.Client, log zerolog.Logger) *Media {
	return &Media{storage: s, log: log}
}

// Upload handles POST /api/media (admin): a multipart image upload
// stored in the public bucket. The response carries the public URL to
// use as a post's header_image_url.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "Almacenamiento no configurado",
			"El almacenamiento de archivos no está disponible")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Archivo demasiado grande",
			"El tamaño máximo es 10 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Archivo no proporcionado",
			"Debe enviar el archivo en el campo \"file\"")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondError(w, http.StatusRequestEntityTooLarge, "Archivo demasiado grande",
			"El tamaño máximo es 10 MB")
		return
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	// DetectContentType reports SVGs as XML or plain text.
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}

	if !allowedMediaTypes[contentType] {
		respondError(w, http.StatusBadRequest, "Tipo de archivo no permitido",
			fmt.Sprintf("El tipo %q no está permitido", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, http.StatusInternalServerError, "Error interno del servidor", "")
		return
	}

	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	key := fmt.Sprintf("media/%d/%02d/%s%s", now.Year(), now.Month(), uuid.NewString(), ext)

	if err := h.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("s3 upload failed")
		respondError(w, http.StatusInternalServerError, "Error al subir el archivo", "")
		return
	}

	h.log.Info().
		Str("key", key).
		Str("type", contentType).
		Int64("size", header.Size).
		Str("user_id", actorID(r)).
		Msg("media uploaded")

	respondJSON(w, http.StatusCreated, map[string]any{
		"url":      h.storage.FileURL(key),
		"filename": header.Filename,
		"size":     header.Size,
		"type":     contentType,
	})
}

type mediaDeleteRequest struct {
	URL string `json:"url"`
}

// Delete handles DELETE /api/media (admin): removes an uploaded file,
// identified by the public URL the upload response returned.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		respondError(w, http.StatusServiceUnavailable, "Almacenamiento no configurado",
			"El almacenamiento de archivos no está disponible")
		return
	}

	var req mediaDeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		respondError(w, http.StatusBadRequest, "La URL es requerida", "")
		return
	}

	key, ok := h.storage.ExtractKey(req.URL)
	if !ok {
		respondError(w, http.StatusBadRequest, "URL inválida",
			"La URL no pertenece al almacenamiento de medios")
		return
	}

	if err := h.storage.Delete(r.Context(), key); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("s3 delete failed")
		respondError(w, http.StatusInternalServerError, "Error al eliminar el archivo", "")
		return
	}

	h.log.Info().Str("key", key).Str("user_id", actorID(r)).Msg("media deleted")
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Archivo eliminado correctamente",
	})
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}
