package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/cache"
	"contract-workspace/internal/infrastructure/repository"
)

const organizationKeyPrefix = "workspace:org:"

type OrganizationUsecase interface {
	// LookupByEmail returns the organization owning the email's domain, or
	// nil when no organization claims it
	LookupByEmail(ctx context.Context, email string) (*entity.OrganizationDomain, error)
}

type organizationUsecase struct {
	config   *config.Config
	accounts repository.AccountRepository
	cache    cache.Cache
	inflight singleflight.Group
	logger   *zap.Logger
}

func NewOrganizationUsecase(cfg *config.Config, accounts repository.AccountRepository, c cache.Cache, logger *zap.Logger) OrganizationUsecase {
	return &organizationUsecase{
		config:   cfg,
		accounts: accounts,
		cache:    c,
		logger:   logger,
	}
}

// DomainFromEmail returns the lowercased part after the last '@'
func DomainFromEmail(email string) (string, error) {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return "", fmt.Errorf("%w: %q is not an email address", errs.ErrValidation, email)
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:])), nil
}

func (u *organizationUsecase) LookupByEmail(ctx context.Context, email string) (*entity.OrganizationDomain, error) {
	domain, err := DomainFromEmail(email)
	if err != nil {
		return nil, err
	}
	key := organizationKeyPrefix + domain

	if org, ok := u.cached(ctx, key); ok {
		u.logger.Debug("Organization lookup served from cache", zap.String("domain", domain))
		return org, nil
	}

	// concurrent misses for one domain share a single backend call
	v, err, _ := u.inflight.Do(domain, func() (interface{}, error) {
		return u.fetch(ctx, domain, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.OrganizationDomain), nil
}

func (u *organizationUsecase) cached(ctx context.Context, key string) (*entity.OrganizationDomain, bool) {
	data, err := u.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			u.logger.Warn("Organization cache unavailable", zap.Error(err))
		}
		return nil, false
	}
	var org entity.OrganizationDomain
	if err := json.Unmarshal([]byte(data), &org); err != nil {
		return nil, false
	}
	return &org, true
}

// fetch re-checks the cache since a flight for the same key may have
// just finished
func (u *organizationUsecase) fetch(ctx context.Context, domain, key string) (*entity.OrganizationDomain, error) {
	if org, ok := u.cached(ctx, key); ok {
		return org, nil
	}

	org, err := u.accounts.CheckDomain(ctx, domain)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(org); err == nil {
		if err := u.cache.Set(ctx, key, string(data), u.config.Redis.CacheTTL); err != nil {
			u.logger.Warn("Failed to cache organization", zap.String("domain", domain), zap.Error(err))
		}
	}
	return org, nil
}
