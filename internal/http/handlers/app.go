package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/KARANMAJILA/Hairstyle/internal/infra"
	"github.com/KARANMAJILA/Hairstyle/internal/stylist"
)

// Generator is what the handlers need from the orchestrator.
type Generator interface {
	Generate(ctx context.Context, req stylist.GenerationRequest) (*stylist.Result, error)
}

// App bundles the handler dependencies.
type App struct {
	Stylist        Generator
	Logger         *infra.Logger
	MaxUploadBytes int64
	// Verbose adds the underlying error chain to failure bodies. Only set
	// outside production.
	Verbose bool
}

func NewApp(gen Generator, logger *infra.Logger, cfg *infra.Config) *App {
	return &App{
		Stylist:        gen,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Verbose:        cfg.AppEnv == "development",
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes the error envelope: a short summary plus a more detailed
// message, and the raw error chain only in verbose mode.
func (a *App) fail(w http.ResponseWriter, code int, summary, message string, cause error) {
	body := map[string]any{
		"success": false,
		"error":   summary,
		"message": message,
	}
	if a.Verbose && cause != nil {
		body["details"] = cause.Error()
	}
	a.json(w, code, body)
}
