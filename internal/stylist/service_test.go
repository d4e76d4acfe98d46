package stylist

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/KARANMAJILA/Hairstyle/internal/catalog"
	"github.com/KARANMAJILA/Hairstyle/internal/infra"
	"github.com/KARANMAJILA/Hairstyle/internal/providers/genai"
	"github.com/KARANMAJILA/Hairstyle/internal/storage"
)

type fakeClient struct {
	detectGender      func(ctx context.Context, photoB64 string) (string, error)
	recommend         func(ctx context.Context, photoB64, gender, hairLength, selectedStyle string, candidates []string) (string, error)
	generateHairstyle func(ctx context.Context, photoB64, style, hairLength string) (string, error)
}

func (f fakeClient) DetectGender(ctx context.Context, photoB64 string) (string, error) {
	if f.detectGender != nil {
		return f.detectGender(ctx, photoB64)
	}
	return "male", nil
}

func (f fakeClient) Recommend(ctx context.Context, photoB64, gender, hairLength, selectedStyle string, candidates []string) (string, error) {
	if f.recommend != nil {
		return f.recommend(ctx, photoB64, gender, hairLength, selectedStyle, candidates)
	}
	return "Selected Style Verdict: Yes", nil
}

func (f fakeClient) GenerateHairstyle(ctx context.Context, photoB64, style, hairLength string) (string, error) {
	if f.generateHairstyle != nil {
		return f.generateHairstyle(ctx, photoB64, style, hairLength)
	}
	// "generated"
	return "Z2VuZXJhdGVk", nil
}

func newTestService(t *testing.T, client InferenceClient) (*Service, *storage.FileStore, *storage.FileStore) {
	t.Helper()
	uploads, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("uploads store: %v", err)
	}
	outputs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("outputs store: %v", err)
	}
	discard := zerolog.New(io.Discard)
	logger := infra.Logger(discard)
	return NewService(client, catalog.New(), uploads, outputs, &logger), uploads, outputs
}

func dirEntries(t *testing.T, path string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(path)
	if err != nil {
		t.Fatalf("read dir %s: %v", path, err)
	}
	return entries
}

func testRequest() GenerationRequest {
	return GenerationRequest{
		Photo:         []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02},
		FileName:      "selfie.jpg",
		HairLength:    "short",
		SelectedStyle: "Pixie Cut",
	}
}

func TestGenerateSuccess(t *testing.T) {
	var gotCandidates []string
	client := fakeClient{
		detectGender: func(ctx context.Context, photoB64 string) (string, error) {
			return "female", nil
		},
		recommend: func(ctx context.Context, photoB64, gender, hairLength, selectedStyle string, candidates []string) (string, error) {
			gotCandidates = candidates
			return "Selected Style Verdict: Yes\nReason: balanced proportions", nil
		},
	}
	service, uploads, outputs := newTestService(t, client)

	result, err := service.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if result.DetectedGender != "female" {
		t.Fatalf("DetectedGender = %q, want female", result.DetectedGender)
	}
	if !strings.Contains(result.Suggestion, "Verdict: Yes") {
		t.Fatalf("suggestion not forwarded: %q", result.Suggestion)
	}
	if result.ImageB64 != "Z2VuZXJhdGVk" {
		t.Fatalf("unexpected image payload: %q", result.ImageB64)
	}

	// Suitability prompt got the female/short catalog subset.
	if len(gotCandidates) != 6 || gotCandidates[0] != "Pixie Cut" {
		t.Fatalf("unexpected candidates: %#v", gotCandidates)
	}

	// Staged upload released, generated output persisted.
	if entries := dirEntries(t, uploads.BasePath()); len(entries) != 0 {
		t.Fatalf("staged upload not cleaned up: %v", entries)
	}
	generated := dirEntries(t, outputs.BasePath())
	if len(generated) != 1 {
		t.Fatalf("expected one generated file, got %d", len(generated))
	}
	data, err := os.ReadFile(filepath.Join(outputs.BasePath(), generated[0].Name()))
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	if string(data) != "generated" {
		t.Fatalf("generated file content mismatch: %q", data)
	}
	if result.OutputKey != generated[0].Name() {
		t.Fatalf("OutputKey %q does not match persisted file %q", result.OutputKey, generated[0].Name())
	}
}

func TestGenerateAnalysisFailureFallsBack(t *testing.T) {
	for name, client := range map[string]fakeClient{
		"gender detection fails": {
			detectGender: func(ctx context.Context, photoB64 string) (string, error) {
				return "", errors.New("quota exhausted")
			},
		},
		"recommendation fails": {
			recommend: func(ctx context.Context, photoB64, gender, hairLength, selectedStyle string, candidates []string) (string, error) {
				return "", errors.New("model unavailable")
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			service, uploads, _ := newTestService(t, client)

			result, err := service.Generate(context.Background(), testRequest())
			if err != nil {
				t.Fatalf("request must still succeed, got error: %v", err)
			}
			if result.DetectedGender != "unknown" {
				t.Fatalf("DetectedGender = %q, want unknown", result.DetectedGender)
			}
			if result.Suggestion == "" || !strings.Contains(result.Suggestion, "Pixie Cut") {
				t.Fatalf("fallback suggestion must reference the selected style: %q", result.Suggestion)
			}
			if entries := dirEntries(t, uploads.BasePath()); len(entries) != 0 {
				t.Fatalf("staged upload not cleaned up: %v", entries)
			}
		})
	}
}

func TestGenerateSynthesisFailureIsFatal(t *testing.T) {
	client := fakeClient{
		generateHairstyle: func(ctx context.Context, photoB64, style, hairLength string) (string, error) {
			return "", genai.ErrNoImage
		},
	}
	service, uploads, outputs := newTestService(t, client)

	_, err := service.Generate(context.Background(), testRequest())
	if !errors.Is(err, genai.ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	if entries := dirEntries(t, uploads.BasePath()); len(entries) != 0 {
		t.Fatalf("staged upload must be removed on failure: %v", entries)
	}
	if entries := dirEntries(t, outputs.BasePath()); len(entries) != 0 {
		t.Fatalf("no output should be persisted on failure: %v", entries)
	}
}

func TestGenerateBadSynthesisPayloadIsFatal(t *testing.T) {
	client := fakeClient{
		generateHairstyle: func(ctx context.Context, photoB64, style, hairLength string) (string, error) {
			return "not base64 !!!", nil
		},
	}
	service, uploads, _ := newTestService(t, client)

	if _, err := service.Generate(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error for undecodable synthesis payload")
	}
	if entries := dirEntries(t, uploads.BasePath()); len(entries) != 0 {
		t.Fatalf("staged upload must be removed on failure: %v", entries)
	}
}

func TestGenerateConcurrentRequestsDoNotCollide(t *testing.T) {
	service, uploads, outputs := newTestService(t, fakeClient{})

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Generate(context.Background(), testRequest())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if entries := dirEntries(t, uploads.BasePath()); len(entries) != 0 {
		t.Fatalf("staged uploads left behind: %v", entries)
	}
	if entries := dirEntries(t, outputs.BasePath()); len(entries) != n {
		t.Fatalf("expected %d generated files, got %d", n, len(entries))
	}
}

func TestStagingKeyUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key := stagingKey("photo.jpg")
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate staging key: %q", key)
		}
		seen[key] = struct{}{}
		if !strings.HasSuffix(key, "-photo.jpg") {
			t.Fatalf("staging key should keep the original name: %q", key)
		}
	}
}

func TestStagingKeyHandlesHostilePaths(t *testing.T) {
	key := stagingKey("../../etc/passwd")
	if strings.Contains(key, "..") || strings.Contains(key, "/") {
		t.Fatalf("staging key must not carry path segments: %q", key)
	}
	if key := stagingKey(""); !strings.HasSuffix(key, "-photo.jpg") {
		t.Fatalf("empty filename should default: %q", key)
	}
}
