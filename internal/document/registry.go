package document

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"contract-workspace/internal/domain/errs"
)

// Registry tracks the open views of the running process
type Registry struct {
	renderer *Renderer
	observer Observer
	logger   *zap.Logger

	mu    sync.RWMutex
	views map[string]*View
}

func NewRegistry(renderer *Renderer, observer Observer, logger *zap.Logger) *Registry {
	return &Registry{
		renderer: renderer,
		observer: observerOrNop(observer),
		logger:   logger,
		views:    make(map[string]*View),
	}
}

// Open registers a new, empty view of a contract document for a session
func (r *Registry) Open(owner, contractID, storagePath string) *View {
	v := newView(uuid.NewString(), owner, contractID, storagePath, r.renderer)

	r.mu.Lock()
	r.views[v.ID] = v
	r.mu.Unlock()

	r.observer.ViewOpened()
	r.logger.Debug("View opened",
		zap.String("view_id", v.ID),
		zap.String("contract_id", contractID),
	)
	return v
}

func (r *Registry) Get(id string) (*View, error) {
	r.mu.RLock()
	v, ok := r.views[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: view %s", errs.ErrNotFound, id)
	}
	return v, nil
}

// Close closes the view and forgets it
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: view %s", errs.ErrNotFound, id)
	}

	r.observer.ViewClosed()
	r.logger.Debug("View closed", zap.String("view_id", id))
	return v.Close()
}

// LatestForContract returns the most recently rendered view of a contract
// opened by owner. Views of other sessions are never considered.
func (r *Registry) LatestForContract(owner, contractID string) (*View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *View
	for _, v := range r.views {
		if v.Owner != owner || v.ContractID != contractID {
			continue
		}
		if latest == nil || v.RenderedAt().After(latest.RenderedAt()) {
			latest = v
		}
	}
	return latest, latest != nil
}

// Len returns the number of open views
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// CloseAll closes every view, used on shutdown
func (r *Registry) CloseAll() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.views))
	for id := range r.views {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		if err := r.Close(id); err != nil {
			r.logger.Warn("Failed to close view", zap.String("view_id", id), zap.Error(err))
		}
	}
}
