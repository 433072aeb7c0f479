package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/foodgram/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func validConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Endpoint:     endpoint,
		Bucket:       "foodgram-media",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Region:       "us-east-1",
		UsePathStyle: true,
	}
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing access key", &config.StorageConfig{Bucket: "b", SecretKey: "s"}, "access key is required"},
		{"missing secret key", &config.StorageConfig{Bucket: "b", AccessKey: "k"}, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ImageStorage(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		cfg := validConfig("localhost:9000")
		cfg.Region = ""
		s, err := NewS3ImageStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "foodgram-media", s.Bucket())
		assert.Equal(t, time.Hour, s.presignExpiration)
	})

	t.Run("options", func(t *testing.T) {
		s, err := NewS3ImageStorage(validConfig("http://localhost:9000"),
			WithPresignExpiration(5*time.Minute),
			WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Minute, s.presignExpiration)
	})
}

func TestS3ImageStorage_DownloadURL(t *testing.T) {
	s, err := NewS3ImageStorage(validConfig("http://localhost:9000"), WithPresignExpiration(10*time.Minute))
	require.NoError(t, err)

	raw, err := s.DownloadURL(context.Background(), "recipes/abc.png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/foodgram-media/recipes/abc.png", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))

	_, err = s.DownloadURL(context.Background(), "")
	assert.ErrorIs(t, err, errEmptyKey)
}

type recordedRequest struct {
	method string
	path   string
	body   string
	ctype  string
}

// fakeS3 answers every request with status and records what it saw
func fakeS3(t *testing.T, status func(r *http.Request) int) (*httptest.Server, func() []recordedRequest) {
	var mu sync.Mutex
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recordedRequest{r.Method, r.URL.Path, string(body), r.Header.Get("Content-Type")})
		mu.Unlock()
		w.WriteHeader(status(r))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), seen...)
	}
}

func TestS3ImageStorage_UploadAndDelete(t *testing.T) {
	srv, requests := fakeS3(t, func(r *http.Request) int {
		if r.Method == http.MethodDelete {
			return http.StatusNoContent
		}
		return http.StatusOK
	})
	s, err := NewS3ImageStorage(validConfig(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "recipes/a.png", []byte("png-bytes"), "image/png"))
	require.NoError(t, s.Delete(ctx, "recipes/a.png"))

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/foodgram-media/recipes/a.png", got[0].path)
	assert.Contains(t, got[0].body, "png-bytes")
	assert.Equal(t, "image/png", got[0].ctype)
	assert.Equal(t, http.MethodDelete, got[1].method)

	assert.ErrorIs(t, s.Upload(ctx, "", nil, "image/png"), errEmptyKey)
	assert.ErrorIs(t, s.Delete(ctx, ""), errEmptyKey)
}

func TestS3ImageStorage_UploadFailure(t *testing.T) {
	srv, _ := fakeS3(t, func(*http.Request) int { return http.StatusForbidden })
	s, err := NewS3ImageStorage(validConfig(srv.URL))
	require.NoError(t, err)

	err = s.Upload(context.Background(), "recipes/a.png", []byte("x"), "image/png")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to upload object"))
}

func TestS3ImageStorage_EnsureBucket(t *testing.T) {
	t.Run("bucket exists", func(t *testing.T) {
		srv, requests := fakeS3(t, func(*http.Request) int { return http.StatusOK })
		s, err := NewS3ImageStorage(validConfig(srv.URL))
		require.NoError(t, err)

		require.NoError(t, s.EnsureBucket(context.Background()))
		require.Len(t, requests(), 1)
		assert.Equal(t, http.MethodHead, requests()[0].method)
	})

	t.Run("bucket is created", func(t *testing.T) {
		srv, requests := fakeS3(t, func(r *http.Request) int {
			if r.Method == http.MethodHead {
				return http.StatusNotFound
			}
			return http.StatusOK
		})
		s, err := NewS3ImageStorage(validConfig(srv.URL))
		require.NoError(t, err)

		require.NoError(t, s.EnsureBucket(context.Background()))
		got := requests()
		require.Len(t, got, 2)
		assert.Equal(t, http.MethodPut, got[1].method)
		assert.Equal(t, "/foodgram-media", got[1].path)
	})
}
