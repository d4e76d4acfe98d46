// Package genai wraps the three multimodal calls this service makes against
// the Gemini generateContent API: gender classification, hairstyle
// suitability analysis, and hair-transformation image synthesis. The client
// is a thin pass-through; failure handling beyond a single transport retry is
// left to the caller.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/KARANMAJILA/Hairstyle/internal/infra"
)

// ErrNoImage reports a synthesis response that carried no inline image data
// in any candidate part. Distinct from transport failures, handled the same.
var ErrNoImage = errors.New("genai: no image data in response")

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey      string
	BaseURL     string
	TextModel   string
	ImageModel  string
	CallTimeout time.Duration
	HTTPClient  *http.Client
	Logger      *infra.Logger
}

// Client issues generateContent calls over plain HTTP. Construct one at
// startup and inject it; it is stateless and safe for concurrent use.
type Client struct {
	apiKey      string
	baseURL     string
	textModel   string
	imageModel  string
	callTimeout time.Duration
	httpClient  *http.Client
	logger      *infra.Logger
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type generateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("genai: api key is required")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	textModel := opts.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := opts.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}

	callTimeout := opts.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		textModel:   textModel,
		imageModel:  imageModel,
		callTimeout: callTimeout,
		httpClient:  client,
		logger:      logger,
	}, nil
}

// DetectGender classifies the apparent gender on the photo. The model is
// asked for a single word; any response containing "female" maps to female
// and everything else, including empty or rambling text, maps to male. That
// collapse is deliberate and load-bearing: callers rely on always receiving
// one of the two catalog genders when the call itself succeeds.
func (c *Client) DetectGender(ctx context.Context, photoB64 string) (string, error) {
	var resp generateContentResponse
	if err := c.invoke(ctx, c.textModel, imagePayload(genderPrompt, photoB64), &resp); err != nil {
		return "", fmt.Errorf("detect gender: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(extractText(resp)))
	if strings.Contains(answer, "female") {
		return "female", nil
	}
	return "male", nil
}

// Recommend asks for a suitability verdict on the selected style, given the
// catalog subset for the detected gender and hair length. The structured
// template the prompt requests is never parsed; the raw text is returned
// verbatim for the client to render.
func (c *Client) Recommend(ctx context.Context, photoB64, gender, hairLength, selectedStyle string, candidates []string) (string, error) {
	prompt := buildRecommendPrompt(gender, hairLength, selectedStyle, candidates)
	var resp generateContentResponse
	if err := c.invoke(ctx, c.textModel, imagePayload(prompt, photoB64), &resp); err != nil {
		return "", fmt.Errorf("recommend: %w", err)
	}
	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", errors.New("recommend: empty model response")
	}
	return text, nil
}

// GenerateHairstyle synthesizes a new photo with only the hair changed and
// returns the base64 payload of the first inline image part found anywhere in
// the response. Returns ErrNoImage when no candidate carries one.
func (c *Client) GenerateHairstyle(ctx context.Context, photoB64, style, hairLength string) (string, error) {
	prompt := buildTransformPrompt(style, hairLength)
	var resp generateContentResponse
	if err := c.invoke(ctx, c.imageModel, imagePayload(prompt, photoB64), &resp); err != nil {
		return "", fmt.Errorf("generate hairstyle: %w", err)
	}
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData.Data, nil
			}
		}
	}
	return "", ErrNoImage
}

// invoke posts one generateContent request. Each attempt runs under the
// configured call timeout; a transient transport error is retried exactly
// once. API-level errors (bad status) and valid-but-empty responses are never
// retried.
func (c *Client) invoke(ctx context.Context, model string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		err := c.doOnce(callCtx, endpoint, body, out)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isTransient(err) || ctx.Err() != nil {
			return err
		}
		c.logger.Warn().
			Err(err).
			Str("model", model).
			Int("attempt", attempt+1).
			Msg("genai: transient transport error, retrying once")
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, endpoint string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func isTransient(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func imagePayload(prompt, photoB64 string) generateContentRequest {
	return generateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: prompt},
				{InlineData: &geminiInlineData{MimeType: "image/jpeg", Data: photoB64}},
			},
		}},
	}
}

func extractText(resp generateContentResponse) string {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text
			}
		}
	}
	return ""
}
