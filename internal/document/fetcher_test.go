package document

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/errs"
)

func newTestFetcher(maxBytes int64) Fetcher {
	cfg := &config.Config{}
	cfg.Document.FetchTimeout = 5 * time.Second
	cfg.Document.MaxBytes = maxBytes
	return NewFetcher(cfg, zap.NewNop())
}

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf; charset=binary")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	content, err := newTestFetcher(0).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), content.Bytes)
	assert.Equal(t, "application/pdf; charset=binary", content.ContentType)
	assert.Equal(t, MediaTypePDF, content.MediaType)
	assert.Equal(t, FormatPaginated, content.Format)
}

func TestFetcher_NonSuccessIsDownloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestFetcher(0).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, errs.ErrDownload)
}

func TestFetcher_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	_, err := newTestFetcher(32).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, errs.ErrDownload)
}
