package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/repository"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/infrastructure/storage"
)

type ContractUsecase interface {
	List(ctx context.Context, sess *session.Session) ([]entity.Contract, error)
	Get(ctx context.Context, sess *session.Session, id string) (*entity.Contract, error)
	// Create uploads file, when given, to a fresh storage key and records
	// the contract against that key
	Create(ctx context.Context, sess *session.Session, req *entity.CreateContractRequest, file *entity.FileUpload) (*entity.Contract, error)
	Update(ctx context.Context, sess *session.Session, id string, req *entity.UpdateContractRequest) (*entity.Contract, error)
	Delete(ctx context.Context, sess *session.Session, id string) error
	AddCounterparty(ctx context.Context, sess *session.Session, contractID string, req *entity.CreateCounterpartyRequest) (*entity.Contract, error)
}

type contractUsecase struct {
	repo     repository.ContractRepository
	locator  storage.Locator
	uploader storage.Uploader
	logger   *zap.Logger
}

func NewContractUsecase(repo repository.ContractRepository, locator storage.Locator, uploader storage.Uploader, logger *zap.Logger) ContractUsecase {
	return &contractUsecase{
		repo:     repo,
		locator:  locator,
		uploader: uploader,
		logger:   logger,
	}
}

func (u *contractUsecase) List(ctx context.Context, sess *session.Session) ([]entity.Contract, error) {
	return u.repo.List(ctx, sess)
}

func (u *contractUsecase) Get(ctx context.Context, sess *session.Session, id string) (*entity.Contract, error) {
	return u.repo.Get(ctx, sess, id)
}

func (u *contractUsecase) Create(ctx context.Context, sess *session.Session, req *entity.CreateContractRequest, file *entity.FileUpload) (*entity.Contract, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	if req.Stage == "" {
		req.Stage = entity.StageDraft
	}

	if file != nil {
		target, err := u.locator.UploadTarget(ctx, sess, "", file.ContentType)
		if err != nil {
			return nil, err
		}
		if target.Key() == "" {
			return nil, fmt.Errorf("%w: upload target without object key", errs.ErrMalformedResponse)
		}
		if err := u.uploader.Upload(ctx, target, file); err != nil {
			u.logger.Error("Failed to upload contract document",
				zap.String("filename", file.Filename),
				zap.Error(err),
			)
			return nil, err
		}
		req.FilePath = target.Key()
	}

	return u.repo.Create(ctx, sess, req)
}

func (u *contractUsecase) Update(ctx context.Context, sess *session.Session, id string, req *entity.UpdateContractRequest) (*entity.Contract, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", errs.ErrValidation)
	}
	return u.repo.Update(ctx, sess, id, req)
}

func (u *contractUsecase) Delete(ctx context.Context, sess *session.Session, id string) error {
	return u.repo.Delete(ctx, sess, id)
}

func (u *contractUsecase) AddCounterparty(ctx context.Context, sess *session.Session, contractID string, req *entity.CreateCounterpartyRequest) (*entity.Contract, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return nil, fmt.Errorf("%w: counterparty email is required", errs.ErrValidation)
	}

	contract, err := u.repo.Get(ctx, sess, contractID)
	if err != nil {
		return nil, err
	}

	req.Contract = contract.ID
	cp, err := u.repo.CreateCounterparty(ctx, sess, req)
	if err != nil {
		return nil, err
	}

	contract.Counterparties = append(contract.Counterparties, *cp)
	return contract, nil
}
