package repository

import (
	"context"
	"fmt"
	"net/url"

	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/infrastructure/httpclient"
	"contract-workspace/internal/infrastructure/session"
)

const (
	profilePath     = "/users/me/"
	checkDomainPath = "/organizations/check-domain/"
)

// AccountRepository reads the user profile and organization lookups
type AccountRepository interface {
	Profile(ctx context.Context, sess *session.Session) (*entity.Profile, error)

	// CheckDomain is anonymous; it runs before an account exists
	CheckDomain(ctx context.Context, domain string) (*entity.OrganizationDomain, error)
}

type accountRepository struct {
	client httpclient.HTTPClient
}

func NewAccountRepository(client httpclient.HTTPClient) AccountRepository {
	return &accountRepository{client: client}
}

func (r *accountRepository) Profile(ctx context.Context, sess *session.Session) (*entity.Profile, error) {
	var profile entity.Profile
	if err := r.client.Get(ctx, sess, profilePath, &profile); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *accountRepository) CheckDomain(ctx context.Context, domain string) (*entity.OrganizationDomain, error) {
	var org entity.OrganizationDomain
	if err := r.client.Get(ctx, nil, checkDomainPath+"?domain="+url.QueryEscape(domain), &org); err != nil {
		return nil, fmt.Errorf("failed to check domain %s: %w", domain, err)
	}
	if org.Domain == "" {
		org.Domain = domain
	}
	return &org, nil
}
