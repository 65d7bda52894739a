package usecase

import (
	"context"

	"go.uber.org/zap"

	"contract-workspace/internal/document"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/envelope"
	"contract-workspace/internal/infrastructure/metrics"
	"contract-workspace/internal/infrastructure/repository"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/infrastructure/storage"
)

// SendRequest is the browser's send-for-signature form
type SendRequest struct {
	Recipients string `json:"recipients"` // comma-separated emails, optional
	Routing    string `json:"routing"`
	Format     string `json:"document_format"` // optional, detected when empty
}

// SendResult reports the submitted envelope and the stage observed after
type SendResult struct {
	ContractID string             `json:"contract_id"`
	Envelope   *envelope.Envelope `json:"envelope"`
	Stage      string             `json:"stage"`
}

// EnvelopeObserver counts submitted envelopes
type EnvelopeObserver interface {
	IncrementEnvelopesSent()
}

func provideEnvelopeObserver(m *metrics.Metrics) EnvelopeObserver {
	return m
}

type EsignUsecase interface {
	Send(ctx context.Context, sess *session.Session, contractID string, req *SendRequest) (*SendResult, error)
	RegisterSender(ctx context.Context, sess *session.Session) (*entity.SenderStatus, error)
}

type esignUsecase struct {
	contracts repository.ContractRepository
	esign     repository.EsignRepository
	registry  *document.Registry
	locator   storage.Locator
	fetcher   document.Fetcher
	observer  EnvelopeObserver
	logger    *zap.Logger
}

func NewEsignUsecase(
	contracts repository.ContractRepository,
	esign repository.EsignRepository,
	registry *document.Registry,
	locator storage.Locator,
	fetcher document.Fetcher,
	observer EnvelopeObserver,
	logger *zap.Logger,
) EsignUsecase {
	return &esignUsecase{
		contracts: contracts,
		esign:     esign,
		registry:  registry,
		locator:   locator,
		fetcher:   fetcher,
		observer:  observer,
		logger:    logger,
	}
}

func (u *esignUsecase) Send(ctx context.Context, sess *session.Session, contractID string, req *SendRequest) (*SendResult, error) {
	routing, err := envelope.ParseRouting(req.Routing)
	if err != nil {
		return nil, err
	}

	contract, err := u.contracts.Get(ctx, sess, contractID)
	if err != nil {
		return nil, err
	}

	format, err := u.documentFormat(ctx, sess, contract, req.Format)
	if err != nil {
		return nil, err
	}

	env, err := envelope.Build(format, routing, req.Recipients, contract.Counterparties)
	if err != nil {
		return nil, err
	}

	if err := u.esign.Send(ctx, sess, &envelope.Submission{ContractID: contract.ID, Envelope: *env}); err != nil {
		return nil, err
	}
	if u.observer != nil {
		u.observer.IncrementEnvelopesSent()
	}

	stage := entity.StageSignPending
	if updated, err := u.contracts.Get(ctx, sess, contract.ID); err == nil {
		stage = updated.Stage
		if stage != entity.StageSignPending {
			u.logger.Warn("Contract stage not updated after send",
				zap.String("contract_id", contract.ID),
				zap.String("stage", stage),
			)
		}
	} else {
		u.logger.Warn("Failed to re-read contract after send",
			zap.String("contract_id", contract.ID),
			zap.Error(err),
		)
	}

	u.logger.Info("Envelope sent",
		zap.String("contract_id", contract.ID),
		zap.Int("recipients", len(env.Recipients)),
	)
	return &SendResult{ContractID: contract.ID, Envelope: env, Stage: stage}, nil
}

// documentFormat prefers an explicit format, then the caller's latest
// rendering of the contract, and finally fetches the document to classify it
func (u *esignUsecase) documentFormat(ctx context.Context, sess *session.Session, contract *entity.Contract, explicit string) (envelope.DocumentFormat, error) {
	if explicit != "" {
		return envelope.ParseFormat(explicit)
	}

	if view, ok := u.registry.LatestForContract(sess.ID, contract.ID); ok {
		if rendering, err := view.Current(); err == nil && rendering != nil {
			return envelope.FormatFromDocument(rendering.Format)
		}
	}

	url, err := u.locator.DownloadURL(ctx, sess, contract.DocumentRef().StoragePath)
	if err != nil {
		return "", err
	}
	content, err := u.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return envelope.FormatFromDocument(content.Format)
}

func (u *esignUsecase) RegisterSender(ctx context.Context, sess *session.Session) (*entity.SenderStatus, error) {
	status, err := u.esign.RegisterSender(ctx, sess)
	if err != nil {
		u.logger.Warn("Sender registration failed", zap.Error(err))
		return nil, err
	}
	u.logger.Info("Sender registration accepted", zap.String("status", status.Status))
	return status, nil
}
