// Package cutout talks to the external background-removal service and
// stores the resulting cut-out images as assets.
package cutout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when no service URL is set.
var ErrNotConfigured = errors.New("cutout service not configured")

// Client sends an image to the background-removal service and decodes
// the returned cut-out. The service accepts a PNG body and replies
// with a PNG whose background pixels are transparent.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Process runs background removal on img.
func (c *Client) Process(ctx context.Context, img image.Image) (image.Image, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode source: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/remove-background", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cutout service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("cutout service returned %d: %s", resp.StatusCode, body)
	}

	out, err := png.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode cutout: %w", err)
	}
	return out, nil
}
