package document

import (
	"go.uber.org/zap"

	"contract-workspace/internal/document/docx"
)

// Rendering is the display form of fetched content. Handle is set for
// paginated documents, Text for editable ones.
type Rendering struct {
	Format    Format  `json:"format"`
	MediaType string  `json:"media_type"`
	Handle    *Handle `json:"-"`
	Text      string  `json:"text,omitempty"`
}

// Renderer maps classified content onto a Rendering
type Renderer struct {
	handles  *HandleStore
	observer Observer
	logger   *zap.Logger
}

func NewRenderer(handles *HandleStore, observer Observer, logger *zap.Logger) *Renderer {
	return &Renderer{
		handles:  handles,
		observer: observerOrNop(observer),
		logger:   logger,
	}
}

// Render never fails for unsupported content; it degrades to an
// unsupported rendering. Only handle creation can fail.
func (r *Renderer) Render(c *Content) (*Rendering, error) {
	rendering, err := r.render(c)
	if err != nil {
		return nil, err
	}
	r.observer.ObserveRender(string(rendering.Format))
	return rendering, nil
}

func (r *Renderer) render(c *Content) (*Rendering, error) {
	switch c.Format {
	case FormatPaginated:
		h, err := r.handles.Create(c.Bytes, c.MediaType)
		if err != nil {
			return nil, err
		}
		return &Rendering{Format: FormatPaginated, MediaType: c.MediaType, Handle: h}, nil

	case FormatEditableText:
		text, err := docx.Extract(c.Bytes)
		if err != nil {
			r.logger.Warn("Text extraction failed, rendering as unsupported",
				zap.String("media_type", c.MediaType),
				zap.Error(err),
			)
			return &Rendering{Format: FormatUnsupported, MediaType: c.MediaType}, nil
		}
		return &Rendering{Format: FormatEditableText, MediaType: c.MediaType, Text: text}, nil

	default:
		return &Rendering{Format: FormatUnsupported, MediaType: c.MediaType}, nil
	}
}

// Release frees the rendering's handle, if any
func (r *Renderer) Release(rendering *Rendering) error {
	if rendering == nil {
		return nil
	}
	return r.handles.Release(rendering.Handle)
}

// Read returns the bytes behind the rendering's handle
func (r *Renderer) Read(rendering *Rendering) ([]byte, error) {
	return r.handles.Read(rendering.Handle)
}
