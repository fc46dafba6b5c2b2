// Package gemini wraps the generative image model behind a small interface
// so the rendering service can be exercised without network access.
package gemini

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"chronolens/apperr"
)

// Result is one model response: the edited image and any explanation text
// the model chose to attach.
type Result struct {
	Image    []byte
	MIMEType string
	Text     string
}

// Generator produces an edited version of a source image according to an
// instruction prompt.
type Generator interface {
	EditImage(ctx context.Context, image []byte, mimeType, prompt string) (*Result, error)
}

// Client is the production Generator backed by the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient connects to the Gemini API. The key is required; deployments
// without one should not register rendering routes at all.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, apperr.New(apperr.Internal, "image model API key is not configured")
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "connect to image model", err)
	}
	return &Client{client: c, model: model}, nil
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// EditImage sends the source image and prompt to the model and extracts the
// first image part of the response. A response with no image part is a
// generation failure even when the call itself succeeded.
func (c *Client) EditImage(ctx context.Context, image []byte, mimeType, prompt string) (*Result, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(imageFormat(mimeType), image),
		genai.Text(prompt),
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.GenerationFailed, "image model call failed", err)
	}

	res := &Result{}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			switch p := part.(type) {
			case genai.Blob:
				if res.Image == nil && strings.HasPrefix(p.MIMEType, "image/") {
					res.Image = p.Data
					res.MIMEType = p.MIMEType
				}
			case genai.Text:
				if res.Text == "" {
					res.Text = string(p)
				}
			}
		}
	}
	if res.Image == nil {
		if res.Text != "" {
			return nil, apperr.Newf(apperr.GenerationFailed, "model returned no image: %s", res.Text)
		}
		return nil, apperr.New(apperr.GenerationFailed, "model returned no image")
	}
	return res, nil
}

// imageFormat converts a MIME type like image/jpeg to the bare format name
// the API expects.
func imageFormat(mimeType string) string {
	return strings.TrimPrefix(mimeType, "image/")
}

// Disabled stands in for the model when no API key is configured, so the
// process can still serve everything except rendering.
type Disabled struct{}

func (Disabled) EditImage(context.Context, []byte, string, string) (*Result, error) {
	return nil, apperr.New(apperr.Internal, "image model credentials are not configured")
}
