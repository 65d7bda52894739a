package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"time"

	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
)

// Uploader submits a file to a presigned POST target
type Uploader interface {
	Upload(ctx context.Context, target *UploadTarget, file *entity.FileUpload) error
}

type uploader struct {
	client *http.Client
	logger *zap.Logger
}

func NewUploader(cfg *config.Config, logger *zap.Logger) Uploader {
	timeout := cfg.Storage.UploadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &uploader{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Upload posts every target field followed by the file part. Storage
// services reject policies whose fields arrive after the file.
func (u *uploader) Upload(ctx context.Context, target *UploadTarget, file *entity.FileUpload) error {
	if target == nil || target.URL == "" {
		return fmt.Errorf("%w: no upload target", errs.ErrUpload)
	}

	body, contentType, err := encodeForm(target.Fields, file)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", errs.ErrUpload, err)
	}
	req.Header.Set("Content-Type", contentType)

	startTime := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", errs.ErrUpload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		u.logger.Error("Upload rejected by storage",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return fmt.Errorf("%w: status=%d", errs.ErrUpload, resp.StatusCode)
	}

	u.logger.Info("Upload completed",
		zap.String("filename", file.Filename),
		zap.Int("size", len(file.Content)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

func encodeForm(fields map[string]string, file *entity.FileUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", err
		}
	}

	contentType := file.ContentType
	if ct, ok := fields["Content-Type"]; ok && ct != "" {
		contentType = ct
	}
	if contentType == "" {
		contentType = defaultUploadContentType
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Content); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
