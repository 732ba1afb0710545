package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/pulsekeeper/internal/common"
)

// HTTPClient talks to an Ollama server over its REST API.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClient returns a client for the server at endpoint,
// e.g. "http://127.0.0.1:11434". A trailing slash is tolerated.
func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (c *HTTPClient) Generate(ctx context.Context, model string, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", &common.StatusError{Code: resp.StatusCode}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrMalformed, err)
	}

	return out.Response, nil
}

func (c *HTTPClient) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, mapTransportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, &common.StatusError{Code: resp.StatusCode}
	}

	var out tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformed, err)
	}

	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// mapTransportError translates a failed round trip into the package error
// taxonomy. Context cancellation wins over the transport wrapper so that
// errors.Is(err, context.Canceled) keeps working for callers.
func mapTransportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", common.ErrUnreachable, err)
}
