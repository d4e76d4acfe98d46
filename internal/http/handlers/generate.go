package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/KARANMAJILA/Hairstyle/internal/stylist"
)

// Generate handles POST /generate. Validation happens before anything is
// staged or any remote call is made; after that the orchestrator owns the
// request.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid upload", "could not parse multipart form", err)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Photo is required", "photo file is missing from the form", err)
		return
	}
	defer file.Close()

	// The client-supplied gender field is accepted but never trusted; the
	// service derives its own signal from the photo.
	hairLength := strings.ToLower(strings.TrimSpace(r.FormValue("hairLength")))
	selectedStyle := strings.TrimSpace(r.FormValue("selectedHairstyle"))
	if hairLength == "" || selectedStyle == "" {
		a.fail(w, http.StatusBadRequest, "Missing required fields: hairLength, selectedHairstyle", "hairLength and selectedHairstyle must both be provided", nil)
		return
	}

	photo, err := io.ReadAll(file)
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid upload", "could not read photo file", err)
		return
	}
	if len(photo) == 0 {
		a.fail(w, http.StatusBadRequest, "Photo is required", "uploaded photo is empty", nil)
		return
	}
	if !strings.HasPrefix(http.DetectContentType(photo), "image/") {
		a.fail(w, http.StatusBadRequest, "Only image files allowed", "photo must be an image file", nil)
		return
	}

	result, err := a.Stylist.Generate(r.Context(), stylist.GenerationRequest{
		Photo:         photo,
		FileName:      header.Filename,
		HairLength:    hairLength,
		SelectedStyle: selectedStyle,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("hairstyle", selectedStyle).Msg("handlers: hairstyle generation failed")
		a.fail(w, http.StatusInternalServerError, "Failed to generate hairstyle", err.Error(), err)
		return
	}

	a.json(w, http.StatusOK, map[string]any{
		"success":        true,
		"hairstyle":      selectedStyle,
		"hairLength":     hairLength,
		"detectedGender": result.DetectedGender,
		"suggestion":     result.Suggestion,
		"generatedImage": "data:image/jpeg;base64," + result.ImageB64,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
