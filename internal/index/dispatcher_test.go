package index

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dialogforge/workbench/internal/infrastructure/logging"
)

type loadCall struct {
	app, index, file, host string
}

// recordingLoader records calls and fails the index names listed in failOn.
type recordingLoader struct {
	calls  []loadCall
	failOn map[string]bool
}

func (r *recordingLoader) Load(_ context.Context, app, index, file, host string) error {
	r.calls = append(r.calls, loadCall{app: app, index: index, file: file, host: host})
	if r.failOn[index] {
		return fmt.Errorf("boom")
	}
	return nil
}

func writeKB(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestLoadAllDispatchesOncePerFile(t *testing.T) {
	kbDir := writeKB(t, map[string]string{
		"restaurants.json": `[{"id":1}]`,
		"menu_items":       `[{"id":2}]`,
	})

	loader := &recordingLoader{}
	dispatcher := NewDispatcher(loader, logging.NewNop())
	require.NoError(t, dispatcher.LoadAll(context.Background(), kbDir, "quick_start", "http://indexhost:9200"))

	require.Len(t, loader.calls, 2)
	// ReadDir order is sorted by filename.
	assert.Equal(t, "menu_items", loader.calls[0].index)
	assert.Equal(t, "restaurants", loader.calls[1].index)
	for _, call := range loader.calls {
		assert.Equal(t, "quick_start", call.app)
		assert.Equal(t, "http://indexhost:9200", call.host)
		assert.Equal(t, kbDir, filepath.Dir(call.file))
	}
}

func TestLoadAllSkipsSubdirectories(t *testing.T) {
	kbDir := writeKB(t, map[string]string{"restaurants.json": `[]`})
	require.NoError(t, os.MkdirAll(filepath.Join(kbDir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(kbDir, "nested", "ignored.json"), []byte(`[]`), 0o644))

	loader := &recordingLoader{}
	dispatcher := NewDispatcher(loader, logging.NewNop())
	require.NoError(t, dispatcher.LoadAll(context.Background(), kbDir, "app", "http://host"))

	require.Len(t, loader.calls, 1)
	assert.Equal(t, "restaurants", loader.calls[0].index)
}

func TestLoadAllAggregatesFailuresWithoutAborting(t *testing.T) {
	kbDir := writeKB(t, map[string]string{
		"a.json": `[]`,
		"b.json": `[]`,
		"c.json": `[]`,
	})

	loader := &recordingLoader{failOn: map[string]bool{"b": true}}
	dispatcher := NewDispatcher(loader, logging.NewNop())
	err := dispatcher.LoadAll(context.Background(), kbDir, "app", "http://host")

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Len(t, loadErr.Errs, 1)
	assert.Len(t, loader.calls, 3, "a failure must not abort sibling loads")
}

func TestLoadAllMissingDir(t *testing.T) {
	dispatcher := NewDispatcher(&recordingLoader{}, logging.NewNop())
	err := dispatcher.LoadAll(context.Background(), filepath.Join(t.TempDir(), "absent"), "app", "http://host")
	assert.Error(t, err)
}

func TestHTTPLoaderLoad(t *testing.T) {
	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"acknowledged":true,"documents":2}`))
	}))
	defer srv.Close()

	kbDir := writeKB(t, map[string]string{"restaurants.json": `[{"id":1},{"id":2}]`})

	loader := NewHTTPLoader(5 * time.Second)
	err := loader.Load(context.Background(), "quick_start", "restaurants",
		filepath.Join(kbDir, "restaurants.json"), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "/indexes/quick_start/restaurants/_load", gotPath)
	assert.JSONEq(t, `[{"id":1},{"id":2}]`, string(gotBody))
}

func TestHTTPLoaderUnacknowledged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"acknowledged":false}`))
	}))
	defer srv.Close()

	kbDir := writeKB(t, map[string]string{"restaurants.json": `[]`})

	loader := NewHTTPLoader(5 * time.Second)
	err := loader.Load(context.Background(), "app", "restaurants",
		filepath.Join(kbDir, "restaurants.json"), srv.URL)
	assert.Error(t, err)
}

func TestHTTPLoaderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	kbDir := writeKB(t, map[string]string{"restaurants.json": `[]`})

	loader := NewHTTPLoader(5 * time.Second)
	err := loader.Load(context.Background(), "app", "restaurants",
		filepath.Join(kbDir, "restaurants.json"), srv.URL)
	assert.Error(t, err)
}
