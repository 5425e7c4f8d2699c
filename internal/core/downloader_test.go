package core_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmm/internal/core"
	"tmm/internal/domain"
)

func TestDownload(t *testing.T) {
	payload := []byte("zip bytes go here")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "mods", "archive.zip")

	var lastTotal, lastDownloaded int64
	d := core.NewDownloader(nil)
	err := d.Download(context.Background(), server.URL, dest, nil, func(total, downloaded int64) {
		lastTotal, lastDownloaded = total, downloaded
	})
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assert.Equal(t, int64(len(payload)), lastDownloaded)
	assert.Equal(t, int64(len(payload)), lastTotal)
}

func TestDownload_HTTPErrorLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")

	d := core.NewDownloader(nil)
	err := d.Download(context.Background(), server.URL, dest, nil, nil)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave a file")
	_, statErr = os.Stat(dest + ".tmp")
	assert.True(t, os.IsNotExist(statErr), "failed download must not leave a temp file")
}

func TestDownload_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 1<<20))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "archive.zip")

	token := core.NewCancelToken()
	token.Cancel()

	d := core.NewDownloader(nil)
	err := d.Download(context.Background(), server.URL, dest, token, nil)
	assert.ErrorIs(t, err, domain.ErrCancelled)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
