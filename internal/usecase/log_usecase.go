package usecase

import (
	"context"
	"strings"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/repository"
	"contract-workspace/internal/infrastructure/session"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

type LogUsecase interface {
	Recent(ctx context.Context, sess *session.Session, endpoint string, limit int) ([]entity.APILog, error)
}

type logUsecase struct {
	repo repository.APILogRepository
}

func NewLogUsecase(repo repository.APILogRepository) LogUsecase {
	return &logUsecase{repo: repo}
}

// Recent lists the newest outbound API logs made on behalf of the session's
// user, optionally filtered by an endpoint fragment. Anonymous calls such as
// login are never listed.
func (u *logUsecase) Recent(ctx context.Context, sess *session.Session, endpoint string, limit int) ([]entity.APILog, error) {
	if sess == nil || sess.Email == "" {
		return nil, errs.ErrAuth
	}
	if limit <= 0 {
		limit = defaultLogLimit
	}
	if limit > maxLogLimit {
		limit = maxLogLimit
	}

	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return u.repo.List(ctx, sess.Email, limit)
	}
	return u.repo.SearchByEndpoint(ctx, sess.Email, endpoint, limit)
}
