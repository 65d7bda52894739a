package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/envelope"
	"contract-workspace/internal/infrastructure/httpclient"
	"contract-workspace/internal/infrastructure/session"
)

const (
	esignSendPath    = "/esignature/send/"
	esignSendersPath = "/esignature/senders/"
)

// EsignRepository submits envelopes and sender registrations to the backend,
// which forwards them to the signature provider
type EsignRepository interface {
	Send(ctx context.Context, sess *session.Session, submission *envelope.Submission) error
	RegisterSender(ctx context.Context, sess *session.Session) (*entity.SenderStatus, error)
}

type esignRepository struct {
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewEsignRepository(client httpclient.HTTPClient, logger *zap.Logger) EsignRepository {
	return &esignRepository{
		client: client,
		logger: logger,
	}
}

func (r *esignRepository) Send(ctx context.Context, sess *session.Session, submission *envelope.Submission) error {
	r.logger.Info("Sending envelope",
		zap.String("contract_id", submission.ContractID),
		zap.String("format", string(submission.Format)),
		zap.String("routing", string(submission.Routing)),
		zap.Int("recipients", len(submission.Recipients)),
	)

	if err := r.client.Post(ctx, sess, esignSendPath, submission, nil); err != nil {
		return fmt.Errorf("failed to send envelope for contract %s: %w", submission.ContractID, err)
	}
	return nil
}

func (r *esignRepository) RegisterSender(ctx context.Context, sess *session.Session) (*entity.SenderStatus, error) {
	var status entity.SenderStatus
	if err := r.client.Post(ctx, sess, esignSendersPath, nil, &status); err != nil {
		return nil, fmt.Errorf("failed to register sender: %w", err)
	}
	return &status, nil
}
