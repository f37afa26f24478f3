package storage_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"club-site/internal/storage"
)

func TestPathFromPublicURL(t *testing.T) {
	path, ok := storage.PathFromPublicURL(
		"https://host/storage/v1/object/public/event-images/abc.jpg", "event-images")
	require.True(t, ok)
	assert.Equal(t, "abc.jpg", path)

	// Nested keys keep everything after the bucket marker.
	path, ok = storage.PathFromPublicURL(
		"https://host/storage/v1/object/public/event-images/2024/abc.jpg", "event-images")
	require.True(t, ok)
	assert.Equal(t, "2024/abc.jpg", path)

	_, ok = storage.PathFromPublicURL("https://host/storage/v1/object/public/other/abc.jpg", "event-images")
	assert.False(t, ok)

	_, ok = storage.PathFromPublicURL("", "event-images")
	assert.False(t, ok)
}

func TestUpload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := storage.NewClient(srv.URL, "service-key", srv.Client())
	err := c.Upload(context.Background(), "event-images", "abc.jpg", []byte("bytes"), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/event-images/abc.jpg", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, []byte("bytes"), gotBody)
}

func TestUploadFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := storage.NewClient(srv.URL, "key", srv.Client())
	err := c.Upload(context.Background(), "missing", "abc.jpg", nil, "image/jpeg")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	var gotMethod, gotPath string
	var gotPrefixes map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPrefixes)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := storage.NewClient(srv.URL, "key", srv.Client())
	err := c.Remove(context.Background(), "event-images", []string{"a.jpg", "b.png"})

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/storage/v1/object/event-images", gotPath)
	assert.Equal(t, []string{"a.jpg", "b.png"}, gotPrefixes["prefixes"])
}

func TestRemoveNothing(t *testing.T) {
	// No paths, no request.
	c := storage.NewClient("http://unreachable.invalid", "key", &http.Client{})
	assert.NoError(t, c.Remove(context.Background(), "event-images", nil))
}

func TestPublicURL(t *testing.T) {
	c := storage.NewClient("https://host/", "key", &http.Client{})
	assert.Equal(t,
		"https://host/storage/v1/object/public/event-images/abc.jpg",
		c.PublicURL("event-images", "abc.jpg"))
}
