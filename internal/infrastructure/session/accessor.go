package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
)

// Refresher exchanges a refresh token for a new token pair
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
}

// Accessor is the credential accessor used by every outbound call
type Accessor struct {
	store     Store
	refresher Refresher
	backoff   time.Duration
	attempts  int
	skew      time.Duration
	logger    *zap.Logger

	// session id -> *atomic.Bool, set while a renewal is in flight
	guards sync.Map
}

func NewAccessor(cfg *config.Config, store Store, refresher Refresher, logger *zap.Logger) *Accessor {
	return &Accessor{
		store:     store,
		refresher: refresher,
		backoff:   cfg.Session.RefreshBackoff,
		attempts:  cfg.Session.RefreshAttempts,
		skew:      cfg.Session.ExpirySkew,
		logger:    logger,
	}
}

// Create stores a freshly issued token pair under a new session id
func (a *Accessor) Create(ctx context.Context, email string, pair *entity.TokenPair) (*Session, *Record, error) {
	if pair == nil || pair.Access == "" {
		return nil, nil, fmt.Errorf("%w: backend issued no access token", errs.ErrAuth)
	}

	id := uuid.NewString()
	rec := &Record{
		Email:     email,
		Access:    pair.Access,
		Refresh:   pair.Refresh,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.store.Save(ctx, id, rec); err != nil {
		return nil, nil, err
	}

	a.logger.Info("Session created", zap.String("email", email))
	return &Session{ID: id, Email: email}, rec, nil
}

// Lookup resolves a session id from the browser into a session handle
func (a *Accessor) Lookup(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, errs.ErrAuth
	}
	rec, err := a.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Session{ID: id, Email: rec.Email}, nil
}

// Destroy forgets the session and its tokens
func (a *Accessor) Destroy(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	a.guards.Delete(sess.ID)
	return a.store.Delete(ctx, sess.ID)
}

// AccessToken reads the bearer token fresh from the store. Tokens that are
// about to expire are renewed first.
func (a *Accessor) AccessToken(ctx context.Context, sess *Session) (string, error) {
	if sess == nil {
		return "", errs.ErrAuth
	}
	rec, err := a.load(ctx, sess.ID)
	if err != nil {
		return "", err
	}
	if rec.Access == "" {
		return "", errs.ErrAuth
	}

	if rec.Refresh != "" && expiresWithin(rec.Access, a.skew) {
		token, err := a.Renew(ctx, sess, rec.Access)
		if err == nil {
			return token, nil
		}
		a.logger.Warn("Proactive token renewal failed, using current token",
			zap.String("email", sess.Email),
			zap.Error(err),
		)
	}

	return rec.Access, nil
}

// Renew replaces the stale access token. Only one renewal per session runs
// at a time; callers that find one in flight wait a fixed backoff and check
// again whether the token changed.
func (a *Accessor) Renew(ctx context.Context, sess *Session, stale string) (string, error) {
	if sess == nil {
		return "", errs.ErrAuth
	}
	guard := a.guard(sess.ID)

	for attempt := 0; attempt < a.attempts; attempt++ {
		rec, err := a.load(ctx, sess.ID)
		if err != nil {
			return "", err
		}
		if rec.Access != "" && rec.Access != stale {
			return rec.Access, nil
		}

		if guard.CompareAndSwap(false, true) {
			token, err := a.renewLocked(ctx, sess, stale)
			guard.Store(false)
			return token, err
		}

		a.logger.Debug("Token renewal in flight, waiting",
			zap.String("email", sess.Email),
			zap.Int("attempt", attempt+1),
		)
		select {
		case <-time.After(a.backoff):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return "", fmt.Errorf("%w: token renewal still in flight after %d attempts", errs.ErrAuth, a.attempts)
}

// renewLocked runs with the guard held. The record is reloaded because
// another renewal may have finished between the check and the swap.
func (a *Accessor) renewLocked(ctx context.Context, sess *Session, stale string) (string, error) {
	rec, err := a.load(ctx, sess.ID)
	if err != nil {
		return "", err
	}
	if rec.Access != "" && rec.Access != stale {
		return rec.Access, nil
	}
	return a.refresh(ctx, sess, rec)
}

func (a *Accessor) refresh(ctx context.Context, sess *Session, rec *Record) (string, error) {
	if rec.Refresh == "" {
		return "", fmt.Errorf("%w: no refresh token", errs.ErrAuth)
	}

	pair, err := a.refresher.Refresh(ctx, rec.Refresh)
	if err != nil {
		a.logger.Error("Failed to refresh token",
			zap.String("email", sess.Email),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", errs.ErrAuth, err)
	}

	rec.Access = pair.Access
	if pair.Refresh != "" {
		rec.Refresh = pair.Refresh
	}
	if err := a.store.Save(ctx, sess.ID, rec); err != nil {
		return "", err
	}

	a.logger.Info("Token refreshed", zap.String("email", sess.Email))
	return rec.Access, nil
}

func (a *Accessor) load(ctx context.Context, id string) (*Record, error) {
	rec, err := a.store.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown session", errs.ErrAuth)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (a *Accessor) guard(id string) *atomic.Bool {
	g, _ := a.guards.LoadOrStore(id, new(atomic.Bool))
	return g.(*atomic.Bool)
}

// expiresWithin inspects the exp claim without verifying the signature;
// the backend remains the authority on validity.
func expiresWithin(token string, skew time.Duration) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) <= skew
}
