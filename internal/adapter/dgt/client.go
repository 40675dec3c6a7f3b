// Package dgt supplies the raw DATEX2 payload, either from the DGT national
// access point over HTTP or from a local file.
package dgt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Client fetches the DATEX2 situation publication over HTTP.
// It implements pipeline.Source.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client for the given publication URL.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads the complete publication body. The loader needs the whole
// document at once; there is no streaming mode.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch publication: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dgt feed error: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read publication body: %w", err)
	}

	c.logger.Debug("publication fetched", "url", c.url, "bytes", len(data))
	return data, nil
}

// FileSource reads the publication from a local file, the equivalent of the
// feed client for offline runs and demos.
// It implements pipeline.Source.
type FileSource struct {
	path string
}

// NewFileSource creates a source that reads the given file on every fetch.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the whole file.
func (f *FileSource) Fetch(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read local publication: %w", err)
	}
	return data, nil
}
