package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/internal/config"
)

func testHTTPStore(t *testing.T, handler http.Handler) *HTTPStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	return NewHTTPStore(&config.StorageConfig{
		Endpoint:     server.URL,
		Bucket:       "creative-assets",
		Timeout:      5 * time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}, logger)
}

func TestHTTPStore_GetAndNotFound(t *testing.T) {
	store := testHTTPStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/creative-assets/acme%2Fvideos%2Fad.mp4", "/creative-assets/acme/videos/ad.mp4":
			w.Write([]byte("video-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	data, err := store.Get(context.Background(), "acme/videos/ad.mp4")
	require.NoError(t, err)
	assert.Equal(t, []byte("video-bytes"), data)

	_, err = store.Get(context.Background(), "missing.mp4")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStore_PutPreconditionHeader(t *testing.T) {
	var sawHeader atomic.Bool
	store := testHTTPStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.Header.Get("If-None-Match") == "*" {
			sawHeader.Store(true)
			w.WriteHeader(http.StatusPreconditionFailed)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))

	err := store.Put(context.Background(), "obj", []byte("x"), &Precondition{DoesNotExist: true})
	assert.ErrorIs(t, err, ErrPreconditionFailed)
	assert.True(t, sawHeader.Load())

	assert.NoError(t, store.Put(context.Background(), "obj", []byte("x"), nil))
}

func TestHTTPStore_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	store := testHTTPStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"objects":[{"name":"acme/videos/ad.mp4","size":11}]}`))
	}))

	objects, err := store.List(context.Background(), "acme/videos/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, int64(11), objects[0].Size)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPStore_ClientErrorsArePermanent(t *testing.T) {
	var calls atomic.Int32
	store := testHTTPStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := store.List(context.Background(), "acme/videos/")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.False(t, storeErr.IsRetryable())
}

func TestHTTPStore_Metadata(t *testing.T) {
	store := testHTTPStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodHead, r.Method)
		w.Header().Set("Content-Length", "42")
		w.WriteHeader(http.StatusOK)
	}))

	desc, err := store.Metadata(context.Background(), "acme/videos/ad.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(42), desc.Size)
	assert.Equal(t, "acme/videos/ad.mp4", desc.Name)
}

func TestHTTPStore_SignedURL(t *testing.T) {
	store := testHTTPStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "3600", r.URL.Query().Get("ttl"))
		w.Write([]byte(`{"url":"https://signed.example/obj?sig=abc"}`))
	}))

	url, err := store.SignedURL(context.Background(), "obj", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/obj?sig=abc", url)
}
