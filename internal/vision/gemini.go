// Package vision wraps the generative vision model that describes coral photos.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultModel    = "gemini-2.5-flash"
	defaultMIMEType = "image/jpeg"
)

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("vision model returned no text")

// Describer turns an image into the model's free-text description.
type Describer interface {
	DescribeCoral(ctx context.Context, image []byte, mimeType string) (string, error)
}

// contentGenerator is the subset of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures a GeminiClient.
type Options struct {
	APIKey      string
	Model       string
	Temperature float32
}

// GeminiClient calls the Gemini API with a fixed prompt plus an inline image.
type GeminiClient struct {
	models      contentGenerator
	model       string
	temperature float32
}

// NewGeminiClient creates a client backed by the Gemini developer API.
func NewGeminiClient(ctx context.Context, opts Options) (*GeminiClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGeminiClient(client.Models, opts), nil
}

func newGeminiClient(models contentGenerator, opts Options) *GeminiClient {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	return &GeminiClient{models: models, model: model, temperature: opts.Temperature}
}

// Model returns the configured model identifier.
func (c *GeminiClient) Model() string {
	return c.model
}

// DescribeCoral sends the coral prompt and the image, returning the model text verbatim.
func (c *GeminiClient) DescribeCoral(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image is empty")
	}
	if mimeType == "" {
		mimeType = defaultMIMEType
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(coralPrompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	resp, err := c.models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

var _ Describer = (*GeminiClient)(nil)
