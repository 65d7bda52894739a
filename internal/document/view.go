package document

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"contract-workspace/internal/domain/errs"
)

// ErrViewClosed is returned by operations on a closed view
var ErrViewClosed = errors.New("view closed")

// View is one open display of a contract document. It owns at most one
// live handle at a time.
type View struct {
	ID          string
	Owner       string // session id
	ContractID  string
	StoragePath string
	OpenedAt    time.Time

	renderer *Renderer

	mu         sync.Mutex
	current    *Rendering
	renderedAt time.Time
	closed     bool
}

func newView(id, owner, contractID, storagePath string, renderer *Renderer) *View {
	return &View{
		ID:          id,
		Owner:       owner,
		ContractID:  contractID,
		StoragePath: storagePath,
		OpenedAt:    time.Now().UTC(),
		renderer:    renderer,
	}
}

// Render replaces the current rendering. The previous handle is released
// before the new one is created; a closed view creates nothing.
func (v *View) Render(c *Content) (*Rendering, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, ErrViewClosed
	}

	if err := v.renderer.Release(v.current); err != nil {
		return nil, err
	}
	v.current = nil

	rendering, err := v.renderer.Render(c)
	if err != nil {
		return nil, err
	}
	v.current = rendering
	v.renderedAt = time.Now().UTC()
	return rendering, nil
}

// Current returns the latest rendering, or nil before the first render
func (v *View) Current() (*Rendering, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, ErrViewClosed
	}
	return v.current, nil
}

// RenderedAt is the time of the last successful render
func (v *View) RenderedAt() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderedAt
}

// Bytes returns the content behind the display handle of a paginated
// rendering along with its media type.
func (v *View) Bytes() ([]byte, string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, "", ErrViewClosed
	}
	if v.current == nil || v.current.Handle == nil {
		return nil, "", fmt.Errorf("%w: view %s has no display handle", errs.ErrNotFound, v.ID)
	}

	data, err := v.renderer.Read(v.current)
	if err != nil {
		return nil, "", err
	}
	return data, v.current.MediaType, nil
}

// Close releases the handle. Closing twice is a no-op.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true

	err := v.renderer.Release(v.current)
	v.current = nil
	return err
}

func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
