package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/auth"
	"contract-workspace/internal/infrastructure/repository"
	"contract-workspace/internal/infrastructure/session"
)

type AuthUsecase interface {
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.SessionInfo, error)
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.SessionInfo, error)
	Logout(ctx context.Context, sess *session.Session) error
	Profile(ctx context.Context, sess *session.Session) (*entity.Profile, error)
	// Resolve turns a session cookie value into a session
	Resolve(ctx context.Context, sessionID string) (*session.Session, error)
}

type authUsecase struct {
	tokens   auth.TokenService
	accessor *session.Accessor
	accounts repository.AccountRepository
	logger   *zap.Logger
}

func NewAuthUsecase(tokens auth.TokenService, accessor *session.Accessor, accounts repository.AccountRepository, logger *zap.Logger) AuthUsecase {
	return &authUsecase{
		tokens:   tokens,
		accessor: accessor,
		accounts: accounts,
		logger:   logger,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *entity.LoginRequest) (*entity.SessionInfo, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}

	pair, err := u.tokens.Login(ctx, req)
	if err != nil {
		u.logger.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	return u.open(ctx, req.Email, pair)
}

func (u *authUsecase) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.SessionInfo, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}

	pair, err := u.tokens.Register(ctx, req)
	if err != nil {
		u.logger.Warn("Registration failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}
	return u.open(ctx, req.Email, pair)
}

func (u *authUsecase) open(ctx context.Context, email string, pair *entity.TokenPair) (*entity.SessionInfo, error) {
	sess, rec, err := u.accessor.Create(ctx, email, pair)
	if err != nil {
		return nil, err
	}
	return &entity.SessionInfo{
		SessionID: sess.ID,
		Email:     sess.Email,
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (u *authUsecase) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	u.logger.Info("Logging out", zap.String("email", sess.Email))
	return u.accessor.Destroy(ctx, sess)
}

func (u *authUsecase) Profile(ctx context.Context, sess *session.Session) (*entity.Profile, error) {
	return u.accounts.Profile(ctx, sess)
}

func (u *authUsecase) Resolve(ctx context.Context, sessionID string) (*session.Session, error) {
	return u.accessor.Lookup(ctx, sessionID)
}
