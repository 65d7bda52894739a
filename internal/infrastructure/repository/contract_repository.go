package repository

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/httpclient"
	"contract-workspace/internal/infrastructure/session"
)

const (
	contractsPath      = "/contracts/"
	counterpartiesPath = "/counterparties/"
)

// ContractRepository wraps the backend contract and counterparty endpoints.
// Every record is validated before it is returned.
type ContractRepository interface {
	List(ctx context.Context, sess *session.Session) ([]entity.Contract, error)
	Get(ctx context.Context, sess *session.Session, id string) (*entity.Contract, error)
	Create(ctx context.Context, sess *session.Session, req *entity.CreateContractRequest) (*entity.Contract, error)
	Update(ctx context.Context, sess *session.Session, id string, req *entity.UpdateContractRequest) (*entity.Contract, error)
	Delete(ctx context.Context, sess *session.Session, id string) error
	CreateCounterparty(ctx context.Context, sess *session.Session, req *entity.CreateCounterpartyRequest) (*entity.Counterparty, error)
}

type contractRepository struct {
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewContractRepository(client httpclient.HTTPClient, logger *zap.Logger) ContractRepository {
	return &contractRepository{
		client: client,
		logger: logger,
	}
}

func contractPath(id string) string {
	return contractsPath + url.PathEscape(id) + "/"
}

func (r *contractRepository) List(ctx context.Context, sess *session.Session) ([]entity.Contract, error) {
	var contracts []entity.Contract
	if err := r.client.Get(ctx, sess, contractsPath, &contracts); err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	for i := range contracts {
		if err := contracts[i].Validate(); err != nil {
			return nil, err
		}
	}
	if contracts == nil {
		contracts = []entity.Contract{}
	}
	return contracts, nil
}

func (r *contractRepository) Get(ctx context.Context, sess *session.Session, id string) (*entity.Contract, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: contract id is required", errs.ErrValidation)
	}

	var contract entity.Contract
	if err := r.client.Get(ctx, sess, contractPath(id), &contract); err != nil {
		return nil, fmt.Errorf("failed to get contract %s: %w", id, err)
	}
	if err := contract.Validate(); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) Create(ctx context.Context, sess *session.Session, req *entity.CreateContractRequest) (*entity.Contract, error) {
	var contract entity.Contract
	if err := r.client.Post(ctx, sess, contractsPath, req, &contract); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	if err := contract.Validate(); err != nil {
		return nil, err
	}

	r.logger.Info("Contract created",
		zap.String("contract_id", contract.ID),
		zap.String("file_path", contract.FilePath),
	)
	return &contract, nil
}

func (r *contractRepository) Update(ctx context.Context, sess *session.Session, id string, req *entity.UpdateContractRequest) (*entity.Contract, error) {
	var contract entity.Contract
	if err := r.client.Patch(ctx, sess, contractPath(id), req, &contract); err != nil {
		return nil, fmt.Errorf("failed to update contract %s: %w", id, err)
	}
	if err := contract.Validate(); err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) Delete(ctx context.Context, sess *session.Session, id string) error {
	if err := r.client.Delete(ctx, sess, contractPath(id), nil); err != nil {
		return fmt.Errorf("failed to delete contract %s: %w", id, err)
	}
	r.logger.Info("Contract deleted", zap.String("contract_id", id))
	return nil
}

func (r *contractRepository) CreateCounterparty(ctx context.Context, sess *session.Session, req *entity.CreateCounterpartyRequest) (*entity.Counterparty, error) {
	var cp entity.Counterparty
	if err := r.client.Post(ctx, sess, counterpartiesPath, req, &cp); err != nil {
		return nil, fmt.Errorf("failed to create counterparty: %w", err)
	}
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return &cp, nil
}
