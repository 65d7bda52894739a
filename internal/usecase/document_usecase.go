package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"contract-workspace/internal/document"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/editor"
	"contract-workspace/internal/envelope"
	"contract-workspace/internal/infrastructure/repository"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/infrastructure/storage"
)

// PlaceholderResult is the text after a marker insertion
type PlaceholderResult struct {
	Text   string `json:"text"`
	Caret  int    `json:"caret"` // UTF-16 code units
	Marker string `json:"marker"`
}

type DocumentUsecase interface {
	// OpenView locates, fetches and renders a contract's document
	OpenView(ctx context.Context, sess *session.Session, contractID string) (*document.View, *document.Rendering, error)
	RefreshView(ctx context.Context, sess *session.Session, viewID string) (*document.View, *document.Rendering, error)
	GetView(sess *session.Session, viewID string) (*document.View, *document.Rendering, error)
	ViewContent(sess *session.Session, viewID string) ([]byte, string, error)
	CloseView(sess *session.Session, viewID string) error
	// Save writes edited text back over the contract's document
	Save(ctx context.Context, sess *session.Session, contractID, text string) error
	InsertPlaceholder(text string, caret, recipientIndex int) (*PlaceholderResult, error)
}

type documentUsecase struct {
	contracts repository.ContractRepository
	locator   storage.Locator
	fetcher   document.Fetcher
	registry  *document.Registry
	roundtrip *editor.Roundtrip
	logger    *zap.Logger
}

func NewDocumentUsecase(
	contracts repository.ContractRepository,
	locator storage.Locator,
	fetcher document.Fetcher,
	registry *document.Registry,
	roundtrip *editor.Roundtrip,
	logger *zap.Logger,
) DocumentUsecase {
	return &documentUsecase{
		contracts: contracts,
		locator:   locator,
		fetcher:   fetcher,
		registry:  registry,
		roundtrip: roundtrip,
		logger:    logger,
	}
}

func (u *documentUsecase) OpenView(ctx context.Context, sess *session.Session, contractID string) (*document.View, *document.Rendering, error) {
	if sess == nil {
		return nil, nil, errs.ErrAuth
	}

	contract, err := u.contracts.Get(ctx, sess, contractID)
	if err != nil {
		return nil, nil, err
	}
	ref := contract.DocumentRef()
	if !ref.HasStoragePath() {
		return nil, nil, fmt.Errorf("%w: contract %s has no document", errs.ErrNotFound, contract.ID)
	}

	view := u.registry.Open(sess.ID, contract.ID, ref.StoragePath)
	rendering, err := u.load(ctx, sess, view)
	if err != nil {
		if closeErr := u.registry.Close(view.ID); closeErr != nil {
			u.logger.Warn("Failed to close view after failed load", zap.Error(closeErr))
		}
		return nil, nil, err
	}
	return view, rendering, nil
}

func (u *documentUsecase) RefreshView(ctx context.Context, sess *session.Session, viewID string) (*document.View, *document.Rendering, error) {
	view, err := u.ownedView(sess, viewID)
	if err != nil {
		return nil, nil, err
	}
	rendering, err := u.load(ctx, sess, view)
	if err != nil {
		return nil, nil, err
	}
	return view, rendering, nil
}

// load always mints a new URL; presigned URLs are never reused
func (u *documentUsecase) load(ctx context.Context, sess *session.Session, view *document.View) (*document.Rendering, error) {
	url, err := u.locator.DownloadURL(ctx, sess, view.StoragePath)
	if err != nil {
		return nil, err
	}

	content, err := u.fetcher.Fetch(ctx, url)
	if err != nil {
		u.logger.Error("Failed to fetch document",
			zap.String("contract_id", view.ContractID),
			zap.Error(err),
		)
		return nil, err
	}

	rendering, err := view.Render(content)
	if errors.Is(err, document.ErrViewClosed) {
		u.logger.Debug("View closed while fetching", zap.String("view_id", view.ID))
	}
	return rendering, err
}

func (u *documentUsecase) GetView(sess *session.Session, viewID string) (*document.View, *document.Rendering, error) {
	view, err := u.ownedView(sess, viewID)
	if err != nil {
		return nil, nil, err
	}
	rendering, err := view.Current()
	if err != nil {
		return nil, nil, err
	}
	return view, rendering, nil
}

func (u *documentUsecase) ViewContent(sess *session.Session, viewID string) ([]byte, string, error) {
	view, err := u.ownedView(sess, viewID)
	if err != nil {
		return nil, "", err
	}
	return view.Bytes()
}

func (u *documentUsecase) CloseView(sess *session.Session, viewID string) error {
	if _, err := u.ownedView(sess, viewID); err != nil {
		return err
	}
	return u.registry.Close(viewID)
}

// ownedView hides views of other sessions behind a not-found error
func (u *documentUsecase) ownedView(sess *session.Session, viewID string) (*document.View, error) {
	if sess == nil {
		return nil, errs.ErrAuth
	}
	view, err := u.registry.Get(viewID)
	if err != nil {
		return nil, err
	}
	if view.Owner != sess.ID {
		return nil, fmt.Errorf("%w: view %s", errs.ErrNotFound, viewID)
	}
	return view, nil
}

func (u *documentUsecase) Save(ctx context.Context, sess *session.Session, contractID, text string) error {
	contract, err := u.contracts.Get(ctx, sess, contractID)
	if err != nil {
		return err
	}
	return u.roundtrip.Save(ctx, sess, contract, text)
}

func (u *documentUsecase) InsertPlaceholder(text string, caret, recipientIndex int) (*PlaceholderResult, error) {
	if recipientIndex < 0 || recipientIndex >= envelope.MaxRecipients {
		return nil, fmt.Errorf("%w: recipient index %d out of range", errs.ErrValidation, recipientIndex)
	}
	marker := envelope.Marker(recipientIndex)
	out, newCaret := editor.InsertPlaceholderUTF16(text, caret, marker)
	return &PlaceholderResult{Text: out, Caret: newCaret, Marker: marker}, nil
}
