package editor

import (
	"context"
	"fmt"
	"path"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"contract-workspace/internal/document"
	"contract-workspace/internal/document/docx"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/metrics"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/infrastructure/storage"
)

var Module = fx.Module("editor",
	fx.Provide(NewRoundtrip),
	fx.Provide(provideUploadObserver),
)

// UploadObserver records upload outcomes
type UploadObserver interface {
	ObserveUpload(err error)
}

func provideUploadObserver(m *metrics.Metrics) UploadObserver {
	return m
}

// Roundtrip writes an edited document body back to its storage path
type Roundtrip struct {
	locator  storage.Locator
	uploader storage.Uploader
	observer UploadObserver
	logger   *zap.Logger
}

func NewRoundtrip(locator storage.Locator, uploader storage.Uploader, observer UploadObserver, logger *zap.Logger) *Roundtrip {
	return &Roundtrip{
		locator:  locator,
		uploader: uploader,
		observer: observer,
		logger:   logger,
	}
}

// Save serializes text, one paragraph per line, and overwrites the
// contract's document. Nothing is cached; callers re-fetch to see it.
func (r *Roundtrip) Save(ctx context.Context, sess *session.Session, contract *entity.Contract, text string) error {
	ref := contract.DocumentRef()
	if !ref.HasStoragePath() {
		return fmt.Errorf("%w: contract %s has no stored document", errs.ErrSerialization, contract.ID)
	}

	data, err := docx.Serialize(text)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrSerialization, err)
	}

	target, err := r.locator.UploadTarget(ctx, sess, ref.StoragePath, document.MediaTypeDOCX)
	if err != nil {
		return err
	}

	err = r.uploader.Upload(ctx, target, &entity.FileUpload{
		Filename:    path.Base(ref.StoragePath),
		ContentType: document.MediaTypeDOCX,
		Content:     data,
	})
	if r.observer != nil {
		r.observer.ObserveUpload(err)
	}
	if err != nil {
		r.logger.Error("Failed to upload edited document",
			zap.String("contract_id", contract.ID),
			zap.String("file_path", ref.StoragePath),
			zap.Error(err),
		)
		return err
	}

	r.logger.Info("Edited document uploaded",
		zap.String("contract_id", contract.ID),
		zap.String("file_path", ref.StoragePath),
		zap.Int("size", len(data)),
	)
	return nil
}
