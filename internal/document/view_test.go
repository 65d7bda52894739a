package document

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"contract-workspace/internal/document/docx"
	"contract-workspace/internal/domain/errs"
)

type ViewSuite struct {
	suite.Suite
	fs       afero.Fs
	handles  *HandleStore
	registry *Registry
}

func (s *ViewSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()
	handles, err := NewHandleStore(s.fs, "/handles", nil)
	s.Require().NoError(err)
	s.handles = handles
	s.registry = NewRegistry(NewRenderer(handles, nil, zap.NewNop()), nil, zap.NewNop())
}

func pdfContent(body string) *Content {
	return &Content{Bytes: []byte(body), ContentType: MediaTypePDF, MediaType: MediaTypePDF, Format: FormatPaginated}
}

func (s *ViewSuite) TestTwoRendersLeaveOneHandle() {
	v := s.registry.Open("sess-1", "c-1", "contracts/c-1.pdf")

	first, err := v.Render(pdfContent("first"))
	s.Require().NoError(err)
	second, err := v.Render(pdfContent("second"))
	s.Require().NoError(err)

	s.Equal(1, s.handles.Live())
	exists, err := afero.Exists(s.fs, first.Handle.Path)
	s.Require().NoError(err)
	s.False(exists, "previous handle must be removed")

	data, mediaType, err := v.Bytes()
	s.Require().NoError(err)
	s.Equal("second", string(data))
	s.Equal(MediaTypePDF, mediaType)
	s.Equal(second, mustCurrent(s.T(), v))
}

func (s *ViewSuite) TestClosedViewCreatesNoHandle() {
	v := s.registry.Open("sess-1", "c-1", "contracts/c-1.pdf")
	_, err := v.Render(pdfContent("first"))
	s.Require().NoError(err)

	s.Require().NoError(s.registry.Close(v.ID))
	s.Equal(0, s.handles.Live())

	// a fetch that completes after close must not leave a handle behind
	_, err = v.Render(pdfContent("late"))
	s.ErrorIs(err, ErrViewClosed)
	s.Equal(0, s.handles.Live())

	_, err = s.registry.Get(v.ID)
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *ViewSuite) TestEditableTextRendering() {
	data, err := docx.Serialize("Agreement\nParty A")
	s.Require().NoError(err)

	v := s.registry.Open("sess-1", "c-2", "contracts/c-2.docx")
	r, err := v.Render(&Content{Bytes: data, MediaType: MediaTypeDOCX, Format: FormatEditableText})
	s.Require().NoError(err)

	s.Equal(FormatEditableText, r.Format)
	s.Equal("Agreement\nParty A", r.Text)
	s.Nil(r.Handle)
	s.Equal(0, s.handles.Live())
}

func (s *ViewSuite) TestBrokenDocxDegradesToUnsupported() {
	v := s.registry.Open("sess-1", "c-3", "contracts/c-3.docx")
	r, err := v.Render(&Content{Bytes: []byte("garbage"), MediaType: MediaTypeDOCX, Format: FormatEditableText})
	s.Require().NoError(err)
	s.Equal(FormatUnsupported, r.Format)
}

func (s *ViewSuite) TestSwitchingFromPaginatedReleasesHandle() {
	v := s.registry.Open("sess-1", "c-4", "contracts/c-4")
	_, err := v.Render(pdfContent("pdf"))
	s.Require().NoError(err)

	r, err := v.Render(&Content{Bytes: []byte("png"), MediaType: "image/png", Format: FormatUnsupported})
	s.Require().NoError(err)
	s.Equal(FormatUnsupported, r.Format)
	s.Equal(0, s.handles.Live())
}

func (s *ViewSuite) TestLatestForContract() {
	_, ok := s.registry.LatestForContract("sess-1", "c-5")
	s.False(ok)

	a := s.registry.Open("sess-1", "c-5", "p")
	_, err := a.Render(pdfContent("a"))
	s.Require().NoError(err)

	latest, ok := s.registry.LatestForContract("sess-1", "c-5")
	s.Require().True(ok)
	s.Equal(a.ID, latest.ID)
}

func (s *ViewSuite) TestLatestForContractIgnoresOtherOwners() {
	mine := s.registry.Open("sess-1", "c-7", "p")
	_, err := mine.Render(pdfContent("mine"))
	s.Require().NoError(err)

	theirs := s.registry.Open("sess-2", "c-7", "p")
	_, err = theirs.Render(pdfContent("theirs"))
	s.Require().NoError(err)

	latest, ok := s.registry.LatestForContract("sess-1", "c-7")
	s.Require().True(ok)
	s.Equal(mine.ID, latest.ID)

	_, ok = s.registry.LatestForContract("sess-3", "c-7")
	s.False(ok)
}

func (s *ViewSuite) TestCloseAllReleasesEverything() {
	for i := 0; i < 3; i++ {
		v := s.registry.Open("sess-1", "c-6", "p")
		_, err := v.Render(pdfContent("x"))
		s.Require().NoError(err)
	}
	s.Equal(3, s.handles.Live())

	s.registry.CloseAll()
	s.Equal(0, s.handles.Live())
	s.Equal(0, s.registry.Len())
}

func TestViewSuite(t *testing.T) {
	suite.Run(t, new(ViewSuite))
}

func TestHandleStore_ReleaseTwice(t *testing.T) {
	store, err := NewHandleStore(afero.NewMemMapFs(), "/h", nil)
	require.NoError(t, err)

	h, err := store.Create([]byte("x"), MediaTypePDF)
	require.NoError(t, err)
	assert.Equal(t, ".pdf", h.Path[len(h.Path)-4:])

	require.NoError(t, store.Release(h))
	require.NoError(t, store.Release(h))
	assert.Equal(t, 0, store.Live())
}

func mustCurrent(t *testing.T, v *View) *Rendering {
	t.Helper()
	r, err := v.Current()
	require.NoError(t, err)
	return r
}
