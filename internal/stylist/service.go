// Package stylist orchestrates one hairstyle preview request: stage the
// upload, encode it once, run the remote analysis and synthesis calls in
// order, persist the generated image, and always release the staged upload.
package stylist

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KARANMAJILA/Hairstyle/internal/catalog"
	"github.com/KARANMAJILA/Hairstyle/internal/imaging"
	"github.com/KARANMAJILA/Hairstyle/internal/infra"
	"github.com/KARANMAJILA/Hairstyle/internal/storage"
)

// InferenceClient is the remote gateway contract the orchestrator depends on.
// *genai.Client satisfies it.
type InferenceClient interface {
	DetectGender(ctx context.Context, photoB64 string) (string, error)
	Recommend(ctx context.Context, photoB64, gender, hairLength, selectedStyle string, candidates []string) (string, error)
	GenerateHairstyle(ctx context.Context, photoB64, style, hairLength string) (string, error)
}

// GenerationRequest is the validated input for one preview request.
type GenerationRequest struct {
	Photo         []byte
	FileName      string
	HairLength    string
	SelectedStyle string
}

// Result carries everything the handler needs to assemble the response.
type Result struct {
	DetectedGender string
	Suggestion     string
	ImageB64       string
	OutputKey      string
}

// Service sequences the per-request state machine. Construct once and share;
// all state lives in the injected collaborators.
type Service struct {
	client  InferenceClient
	catalog *catalog.Catalog
	uploads *storage.FileStore
	outputs *storage.FileStore
	logger  *infra.Logger
}

func NewService(client InferenceClient, cat *catalog.Catalog, uploads, outputs *storage.FileStore, logger *infra.Logger) *Service {
	return &Service{
		client:  client,
		catalog: cat,
		uploads: uploads,
		outputs: outputs,
		logger:  logger,
	}
}

// Generate runs a request to completion. Analysis failures degrade to a
// fallback recommendation; synthesis and I/O failures abort. The staged
// upload is removed exactly once on every path that reached staging.
func (s *Service) Generate(ctx context.Context, req GenerationRequest) (*Result, error) {
	// Once staged, the request runs to completion or failure; a client
	// disconnect must not abort it mid-flight.
	ctx = context.WithoutCancel(ctx)

	stagedKey, err := s.uploads.Write(ctx, stagingKey(req.FileName), req.Photo)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	defer s.releaseUpload(stagedKey)

	stagedPath, err := s.uploads.AbsPath(stagedKey)
	if err != nil {
		return nil, err
	}
	photoB64, err := imaging.EncodeFile(stagedPath)
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	gender, suggestion := s.analyze(ctx, photoB64, req.HairLength, req.SelectedStyle)

	imageB64, err := s.client.GenerateHairstyle(ctx, photoB64, req.SelectedStyle, req.HairLength)
	if err != nil {
		return nil, fmt.Errorf("synthesize hairstyle: %w", err)
	}

	generated, err := imaging.Decode(imageB64)
	if err != nil {
		return nil, fmt.Errorf("decode generated image: %w", err)
	}
	outputKey := fmt.Sprintf("hairstyle-%d-%s.jpg", time.Now().UnixMilli(), uuid.NewString()[:8])
	if _, err := s.outputs.Write(ctx, outputKey, generated); err != nil {
		return nil, fmt.Errorf("persist generated image: %w", err)
	}

	s.logger.Info().
		Str("hairstyle", req.SelectedStyle).
		Str("hair_length", req.HairLength).
		Str("detected_gender", gender).
		Str("output", outputKey).
		Msg("stylist: request completed")

	return &Result{
		DetectedGender: gender,
		Suggestion:     suggestion,
		ImageB64:       imageB64,
		OutputKey:      outputKey,
	}, nil
}

// analyze performs gender classification followed by the suitability call.
// It never fails: any error on either call collapses to the fallback values
// so the overall request can still succeed.
func (s *Service) analyze(ctx context.Context, photoB64, hairLength, selectedStyle string) (gender, suggestion string) {
	gender, err := s.client.DetectGender(ctx, photoB64)
	if err != nil {
		return s.fallback(selectedStyle, err)
	}

	candidates := s.catalog.Lookup(gender, hairLength)
	suggestion, err = s.client.Recommend(ctx, photoB64, gender, hairLength, selectedStyle, candidates)
	if err != nil {
		return s.fallback(selectedStyle, err)
	}
	return gender, suggestion
}

// fallback substitutes safe defaults when analysis fails. The warn event
// keeps real outages (expired credentials, quota) distinguishable from a
// genuinely low-confidence analysis.
func (s *Service) fallback(selectedStyle string, cause error) (string, string) {
	s.logger.Warn().
		Err(cause).
		Str("event", "analysis_fallback").
		Str("hairstyle", selectedStyle).
		Msg("stylist: analysis failed, substituting fallback recommendation")
	suggestion := fmt.Sprintf("This %s style can look great on you! The AI couldn't fully analyze features, but you've made a great choice!", selectedStyle)
	return "unknown", suggestion
}

func (s *Service) releaseUpload(key string) {
	if err := s.uploads.Remove(key); err != nil {
		s.logger.Warn().Err(err).Str("upload", key).Msg("stylist: could not delete staged upload")
	}
}

// stagingKey builds a collision-resistant name so concurrent requests never
// share a staged file.
func stagingKey(fileName string) string {
	base := filepath.Base(strings.TrimSpace(fileName))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "photo.jpg"
	}
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixNano(), uuid.NewString()[:8], base)
}
