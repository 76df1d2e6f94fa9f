// Package katex provides a client for a local KaTeX rendering service.
// The service turns TeX expressions into HTML; rendering is best-effort
// and callers fall back to verbatim output when the service misbehaves.
package katex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a local KaTeX HTTP service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a KaTeX client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

type renderRequest struct {
	Expr        string `json:"expr"`
	DisplayMode bool   `json:"displayMode"`
}

type renderResponse struct {
	HTML  string `json:"html"`
	Error string `json:"error"`
}

// Render sends one TeX expression to the service and returns the rendered
// HTML. display selects display (block) mode over inline mode.
func (c *Client) Render(expr string, display bool) (string, error) {
	body, err := json.Marshal(renderRequest{
		Expr:        expr,
		DisplayMode: display,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("connect to KaTeX service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("KaTeX service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result renderResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10*1024*1024)).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("render %q: %s", expr, result.Error)
	}
	return result.HTML, nil
}
