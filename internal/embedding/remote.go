package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
)

// RemoteClient embeds text through an OpenAI-compatible embeddings API.
// Unlike TFIDF it needs no corpus preparation; the vector size is fixed by
// the model and validated on every response.
type RemoteClient struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int
	client       *http.Client
}

// NewRemoteClient creates a new remote embeddings client.
// expectedSize is the vector size the configured model produces; every
// embedding returned by the API is validated against it.
func NewRemoteClient(baseURL, apiKey, model string, expectedSize int) *RemoteClient {
	return &RemoteClient{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       http.DefaultClient,
	}
}

// Name returns the identifier of this embedder implementation.
func (c *RemoteClient) Name() string { return "openai" }

// Prepare is a no-op: the remote model is already trained.
func (c *RemoteClient) Prepare(_ context.Context, _ []string) error { return nil }

// Dimension returns the configured vector size.
func (c *RemoteClient) Dimension() int { return c.ExpectedSize }

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingData struct {
	Embedding []float64 `json:"embedding"`
}

type embeddingsResponse struct {
	Data []embeddingData `json:"data"`
}

// Embed generates an L2-normalized embedding for the given text.
func (c *RemoteClient) Embed(ctx context.Context, text string) ([]float32, error) {
	url := fmt.Sprintf("%s/v1/embeddings", c.BaseURL)

	payload := embeddingsRequest{
		Model: c.Model,
		Input: []string{text},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var embResp embeddingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&embResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embResp.Data) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(embResp.Data))
	}
	raw := embResp.Data[0].Embedding
	if len(raw) != c.ExpectedSize {
		return nil, fmt.Errorf("embedding has size %d, expected %d", len(raw), c.ExpectedSize)
	}

	// Convert to float32 and normalize to unit length so cosine similarity
	// reduces to a dot product downstream.
	var norm float64
	for _, v := range raw {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, len(raw))
	for i, v := range raw {
		if norm > 0 {
			v /= norm
		}
		vec[i] = float32(v)
	}
	return vec, nil
}
