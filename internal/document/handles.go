package document

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Handle is a temporary local copy of a document for the embedded viewer
type Handle struct {
	ID        string
	Path      string
	MediaType string
	Size      int64
}

// HandleStore creates and releases display handles on an afero filesystem
type HandleStore struct {
	fs       afero.Fs
	dir      string
	observer Observer

	mu   sync.Mutex
	live map[string]*Handle
}

func NewHandleStore(fs afero.Fs, dir string, observer Observer) (*HandleStore, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create handle directory: %w", err)
	}
	return &HandleStore{
		fs:       fs,
		dir:      dir,
		observer: observerOrNop(observer),
		live:     make(map[string]*Handle),
	}, nil
}

func (s *HandleStore) Create(data []byte, mediaType string) (*Handle, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id+extensionFor(mediaType))

	if err := afero.WriteFile(s.fs, path, data, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write display handle: %w", err)
	}

	h := &Handle{ID: id, Path: path, MediaType: mediaType, Size: int64(len(data))}
	s.mu.Lock()
	s.live[id] = h
	s.mu.Unlock()
	s.observer.HandleCreated()
	return h, nil
}

func (s *HandleStore) Read(h *Handle) ([]byte, error) {
	return afero.ReadFile(s.fs, h.Path)
}

// Release removes the handle's file. Releasing twice is a no-op.
func (s *HandleStore) Release(h *Handle) error {
	if h == nil {
		return nil
	}
	s.mu.Lock()
	_, ok := s.live[h.ID]
	delete(s.live, h.ID)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	s.observer.HandleReleased()
	if err := s.fs.Remove(h.Path); err != nil {
		return fmt.Errorf("failed to remove display handle: %w", err)
	}
	return nil
}

// Live returns the number of handles not yet released
func (s *HandleStore) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *HandleStore) ReleaseAll() error {
	s.mu.Lock()
	handles := make([]*Handle, 0, len(s.live))
	for _, h := range s.live {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	var firstErr error
	for _, h := range handles {
		if err := s.Release(h); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case MediaTypePDF:
		return ".pdf"
	case MediaTypeDOCX:
		return ".docx"
	default:
		return ".bin"
	}
}
