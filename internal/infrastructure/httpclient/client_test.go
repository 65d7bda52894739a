package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contract-workspace/internal/config"
	"contract-workspace/internal/domain/entity"
	"contract-workspace/internal/domain/errs"
	"contract-workspace/internal/infrastructure/session"
)

type staticRefresher struct {
	calls atomic.Int32
	token string
}

func (r *staticRefresher) Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	r.calls.Add(1)
	return &entity.TokenPair{Access: r.token}, nil
}

type recordingSaver struct {
	saved chan *entity.APILog
}

func (s *recordingSaver) Save(ctx context.Context, log *entity.APILog) error {
	s.saved <- log
	return nil
}

func newTestClient(t *testing.T, baseURL string, refresher session.Refresher, saver APILogSaver) (HTTPClient, *session.Accessor) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Backend.BaseURL = baseURL
	cfg.Backend.Timeout = 5 * time.Second
	cfg.Session.RefreshBackoff = 5 * time.Millisecond
	cfg.Session.RefreshAttempts = 20

	accessor := session.NewAccessor(cfg, session.NewMemoryStore(0, time.Now), refresher, zap.NewNop())
	return NewHTTPClient(cfg, accessor, saver, nil, zap.NewNop()), accessor
}

func TestClient_RetriesOnceAfterRenewal(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 7, "email": "user@acme.com"}`))
	}))
	defer srv.Close()

	refresher := &staticRefresher{token: "fresh"}
	client, accessor := newTestClient(t, srv.URL, refresher, nil)
	sess, _, err := accessor.Create(context.Background(), "user@acme.com", &entity.TokenPair{Access: "stale", Refresh: "r"})
	require.NoError(t, err)

	var profile entity.Profile
	require.NoError(t, client.Get(context.Background(), sess, "/users/me/", &profile))

	assert.Equal(t, int64(7), profile.ID)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, int32(1), refresher.calls.Load())
}

func TestClient_PersistentUnauthorizedIsAuthError(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, accessor := newTestClient(t, srv.URL, &staticRefresher{token: "still-bad"}, nil)
	sess, _, err := accessor.Create(context.Background(), "user@acme.com", &entity.TokenPair{Access: "stale", Refresh: "r"})
	require.NoError(t, err)

	err = client.Get(context.Background(), sess, "/contracts/", nil)
	assert.ErrorIs(t, err, errs.ErrAuth)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, errs.ErrNotFound},
		{http.StatusBadRequest, errs.ErrValidation},
		{http.StatusInternalServerError, errs.ErrUpstream},
		{http.StatusConflict, errs.ErrUpstream},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			client, accessor := newTestClient(t, srv.URL, &staticRefresher{}, nil)
			sess, _, err := accessor.Create(context.Background(), "user@acme.com", &entity.TokenPair{Access: "a"})
			require.NoError(t, err)

			err = client.Get(context.Background(), sess, "/contracts/x/", nil)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL, &staticRefresher{}, nil)
	var out map[string]interface{}
	err := client.Get(context.Background(), nil, "/organizations/check-domain/?domain=acme.com", &out)
	assert.ErrorIs(t, err, errs.ErrMalformedResponse)
}

func TestClient_AnonymousRequestAndAPILog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	saver := &recordingSaver{saved: make(chan *entity.APILog, 1)}
	client, _ := newTestClient(t, srv.URL, &staticRefresher{}, saver)

	require.NoError(t, client.Post(context.Background(), nil, "/counterparties/", map[string]string{"email": "a@x.com"}, nil))

	select {
	case log := <-saver.saved:
		assert.Equal(t, http.MethodPost, log.Method)
		assert.Equal(t, http.StatusCreated, log.StatusCode)
		assert.Contains(t, log.RequestBody, "a@x.com")
	case <-time.After(time.Second):
		t.Fatal("api log was not saved")
	}
}

func TestTruncateHelpers(t *testing.T) {
	assert.Equal(t, "abc", truncateString("abc", 5))
	assert.Contains(t, truncateString("abcdef", 3), "truncated, total 6 chars")

	long := `{"file":"` + strings.Repeat("A", 150) + `"}`
	assert.Contains(t, truncateBase64InJSON(long, 10), "base64 truncated, total 150 chars")
}
