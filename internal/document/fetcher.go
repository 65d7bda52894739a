package document

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/errs"
)

// Content is a fetched document with its classification
type Content struct {
	Bytes       []byte
	ContentType string // as declared by storage
	MediaType   string // normalized
	Format      Format
}

// Fetcher downloads the bytes behind a presigned URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Content, error)
}

type fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *zap.Logger
}

func NewFetcher(cfg *config.Config, logger *zap.Logger) Fetcher {
	return &fetcher{
		client: &http.Client{
			Timeout: cfg.Document.FetchTimeout,
		},
		maxBytes: cfg.Document.MaxBytes,
		logger:   logger,
	}
}

// Fetch performs a single GET; failures are not retried
func (f *fetcher) Fetch(ctx context.Context, url string) (*Content, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", errs.ErrDownload, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", errs.ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn("Document download rejected", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status=%d", errs.ErrDownload, resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", errs.ErrDownload, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", errs.ErrDownload, f.maxBytes)
	}

	declared := resp.Header.Get("Content-Type")
	content := &Content{
		Bytes:       data,
		ContentType: declared,
		MediaType:   NormalizeMediaType(declared),
		Format:      Classify(declared),
	}

	f.logger.Debug("Document fetched",
		zap.String("content_type", declared),
		zap.String("format", string(content.Format)),
		zap.Int("size", len(data)),
	)
	return content, nil
}
