package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/httpclient"
	"contract-workspace/internal/infrastructure/session"
)

const (
	downloadURLPath = "/contracts/presigned-download-url/"
	uploadURLPath   = "/contracts/presigned-post-url/"
)

type downloadURLResponse struct {
	URL string `json:"url"`
}

// backendLocator asks the contract backend to presign on its behalf
type backendLocator struct {
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewBackendLocator(client httpclient.HTTPClient, logger *zap.Logger) Locator {
	return &backendLocator{
		client: client,
		logger: logger,
	}
}

func (l *backendLocator) DownloadURL(ctx context.Context, sess *session.Session, path string) (string, error) {
	if sess == nil {
		return "", errs.ErrAuth
	}

	var resp downloadURLResponse
	if err := l.client.Get(ctx, sess, withFilePath(downloadURLPath, path), &resp); err != nil {
		l.logger.Error("Failed to get download URL",
			zap.String("file_path", path),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to get download url for %q: %w", path, locatorError(err))
	}
	if resp.URL == "" {
		return "", fmt.Errorf("%w: download url response without url", errs.ErrMalformedResponse)
	}

	return resp.URL, nil
}

// UploadTarget ignores contentType: the backend pins the type in the
// policy and returns it among the fields.
func (l *backendLocator) UploadTarget(ctx context.Context, sess *session.Session, path, _ string) (*UploadTarget, error) {
	if sess == nil {
		return nil, errs.ErrAuth
	}

	var target UploadTarget
	if err := l.client.Get(ctx, sess, withFilePath(uploadURLPath, path), &target); err != nil {
		l.logger.Error("Failed to get upload target",
			zap.String("file_path", path),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to get upload target for %q: %w", path, locatorError(err))
	}
	if target.URL == "" {
		return nil, fmt.Errorf("%w: upload target response without url", errs.ErrMalformedResponse)
	}
	if target.Fields == nil {
		target.Fields = map[string]string{}
	}

	return &target, nil
}

// withFilePath adds the file_path query. An empty path is left out: the
// backend only mints a fresh key when the parameter is absent.
func withFilePath(endpoint, path string) string {
	if path == "" {
		return endpoint
	}
	return endpoint + "?file_path=" + url.QueryEscape(path)
}

// locatorError keeps auth and not-found failures and reports every other
// rejected request as an upstream failure
func locatorError(err error) error {
	if errors.Is(err, errs.ErrValidation) {
		return fmt.Errorf("%w: %v", errs.ErrUpstream, err)
	}
	return err
}
