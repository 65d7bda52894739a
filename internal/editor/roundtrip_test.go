package editor

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/document"
	"contract-workspace/internal/document/docx"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/session"
	"contract-workspace/internal/infrastructure/storage"
)

type fakeLocator struct {
	target       *storage.UploadTarget
	err          error
	requested    []string
	contentTypes []string
}

func (f *fakeLocator) DownloadURL(ctx context.Context, sess *session.Session, path string) (string, error) {
	return "", nil
}

func (f *fakeLocator) UploadTarget(ctx context.Context, sess *session.Session, path, contentType string) (*storage.UploadTarget, error) {
	f.requested = append(f.requested, path)
	f.contentTypes = append(f.contentTypes, contentType)
	return f.target, f.err
}

type countingObserver struct {
	ok, failed int
}

func (o *countingObserver) ObserveUpload(err error) {
	if err != nil {
		o.failed++
		return
	}
	o.ok++
}

func newUploader() storage.Uploader {
	cfg := &config.Config{}
	cfg.Storage.UploadTimeout = 5 * time.Second
	return storage.NewUploader(cfg, zap.NewNop())
}

func TestRoundtrip_Save(t *testing.T) {
	var (
		gotFields   = map[string]string{}
		gotFile     []byte
		fieldsFirst = true
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		require.NoError(t, err)
		seenFile := false
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			data, err := io.ReadAll(part)
			require.NoError(t, err)
			if part.FormName() == "file" {
				seenFile = true
				gotFile = data
				continue
			}
			if seenFile {
				fieldsFirst = false
			}
			gotFields[part.FormName()] = string(data)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	locator := &fakeLocator{target: &storage.UploadTarget{
		URL:    srv.URL,
		Fields: map[string]string{"key": "contracts/c-1.docx", "policy": "p", "x-amz-signature": "s"},
	}}
	observer := &countingObserver{}
	rt := NewRoundtrip(locator, newUploader(), observer, zap.NewNop())

	contract := &entity.Contract{ID: "c-1", Title: "NDA", FilePath: "contracts/c-1.docx"}
	text := "Mutual NDA\n\nSigned: [[sign_here_0]]"

	require.NoError(t, rt.Save(context.Background(), &session.Session{ID: "s"}, contract, text))

	assert.Equal(t, []string{"contracts/c-1.docx"}, locator.requested)
	// the stored object must re-classify as editable text
	assert.Equal(t, []string{document.MediaTypeDOCX}, locator.contentTypes)
	assert.True(t, fieldsFirst)
	assert.Equal(t, "contracts/c-1.docx", gotFields["key"])
	assert.Equal(t, "p", gotFields["policy"])
	assert.Equal(t, "s", gotFields["x-amz-signature"])

	extracted, err := docx.Extract(gotFile)
	require.NoError(t, err)
	assert.Equal(t, text, extracted)
	assert.Equal(t, 1, observer.ok)
}

func TestRoundtrip_NoStoragePath(t *testing.T) {
	locator := &fakeLocator{}
	rt := NewRoundtrip(locator, newUploader(), nil, zap.NewNop())

	err := rt.Save(context.Background(), &session.Session{ID: "s"}, &entity.Contract{ID: "c-1", Title: "NDA"}, "text")
	assert.ErrorIs(t, err, errs.ErrSerialization)
	assert.Empty(t, locator.requested)
}

func TestRoundtrip_UploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	observer := &countingObserver{}
	rt := NewRoundtrip(&fakeLocator{target: &storage.UploadTarget{URL: srv.URL}}, newUploader(), observer, zap.NewNop())

	err := rt.Save(context.Background(), &session.Session{ID: "s"}, &entity.Contract{ID: "c-1", Title: "NDA", FilePath: "p.docx"}, "text")
	assert.ErrorIs(t, err, errs.ErrUpload)
	assert.Equal(t, 1, observer.failed)
}

func TestRoundtrip_LocatorErrorPassesThrough(t *testing.T) {
	rt := NewRoundtrip(&fakeLocator{err: errs.ErrAuth}, newUploader(), nil, zap.NewNop())

	err := rt.Save(context.Background(), nil, &entity.Contract{ID: "c-1", Title: "NDA", FilePath: "p.docx"}, "text")
	assert.ErrorIs(t, err, errs.ErrAuth)
}
