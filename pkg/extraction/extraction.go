// Package extraction is the client boundary to the PDF text-extraction service.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
)

var (
	// ErrRequestFailed indicates the extraction service answered with a non-success status.
	ErrRequestFailed = errors.New("extraction request failed")
	// ErrNoContent indicates the service extracted no text from the document.
	ErrNoContent = errors.New("extraction produced no content")
)

// Result is the text extracted from a PDF.
type Result struct {
	Content string `json:"content"`
	Pages   int    `json:"pages"`
}

// Client uploads PDFs to the extraction service.
type Client struct {
	http     *http.Client
	endpoint string
	logger   *slog.Logger
}

// New creates a Client from the given configuration.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.TimeoutDuration()},
		endpoint: cfg.BaseURL + cfg.Path,
		logger:   logger.With("system", "extraction"),
	}
}

// Extract uploads the PDF read from r as filename and returns its text content.
func (c *Client) Extract(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extraction request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, snippet)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode extraction response: %w", err)
	}

	if strings.TrimSpace(result.Content) == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoContent, filename)
	}

	c.logger.InfoContext(ctx, "document extracted", "filename", filename, "pages", result.Pages)
	return &result, nil
}
