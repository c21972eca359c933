package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridkit/pkg/cache"
)

const abcFixture = `
[[items]]
key = "a"
text = "A"

[[items]]
key = "b"
text = "B"

[[items]]
key = "c"
text = "C"
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	srv := newServer(store, log.New(io.Discard))
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

func post(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	var payload string
	switch b := body.(type) {
	case string:
		payload = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		payload = string(data)
	}
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestServeHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestServeRequestIDEcho(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestServeColumns(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]any{
		"width": 300,
		"columns": []map[string]any{
			{"key": "a", "width": "100"},
			{"key": "b", "width": "1fr", "resizable": true},
		},
	}

	for range 2 {
		resp := post(t, ts, "/columns", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Columns []columnWidth `json:"columns"`
		}
		decode(t, resp, &out)
		require.Len(t, out.Columns, 2)
		assert.Equal(t, "a", out.Columns[0].Key)
		assert.Equal(t, float64(100), out.Columns[0].Width)
		assert.Equal(t, float64(200), out.Columns[1].Width)
	}
}

func TestServeColumnsErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"bad json", `{"width":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"no columns", map[string]any{"width": 300}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad size", map[string]any{"width": 300, "columns": []map[string]any{{"key": "a", "width": "wide"}}}, http.StatusBadRequest, "INVALID_COLUMN_SIZE"},
		{"zero width", map[string]any{"columns": []map[string]any{{"key": "a"}}}, http.StatusBadRequest, "INVALID_RECT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/columns", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var e errorResponse
			decode(t, resp, &e)
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.RequestID)
		})
	}
}

func TestServeLayout(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/layout", map[string]any{
		"source":  abcFixture,
		"width":   200,
		"height":  400,
		"formats": []string{"json", "text"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		FixtureHash string            `json:"fixture_hash"`
		Snapshot    map[string]any    `json:"snapshot"`
		Artifacts   map[string]string `json:"artifacts"`
	}
	decode(t, resp, &out)
	assert.NotEmpty(t, out.FixtureHash)
	assert.Equal(t, "list", out.Snapshot["strategy"])
	assert.Contains(t, out.Artifacts, "text")
	assert.NotContains(t, out.Artifacts, "json")
}

func TestServeLayoutRejectsPaths(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/layout", map[string]any{"fixture": "/etc/passwd"})
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	var e errorResponse
	decode(t, resp, &e)
	assert.Equal(t, "UNSUPPORTED", e.Code)
}

func TestServeFixtures(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/fixtures", abcFixture)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var stored map[string]string
	decode(t, resp, &stored)
	id := stored["id"]
	require.NotEmpty(t, id)

	get, err := http.Get(ts.URL + "/fixtures/" + id)
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)
	data, err := io.ReadAll(get.Body)
	require.NoError(t, err)
	assert.Equal(t, abcFixture, string(data))

	layoutResp := post(t, ts, "/layout", map[string]any{"fixture_id": id})
	assert.Equal(t, http.StatusOK, layoutResp.StatusCode)

	missing, err := http.Get(ts.URL + "/fixtures/nope")
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	invalid := post(t, ts, "/fixtures", `title = "x"`)
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
}

func TestServeDropTarget(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/drop-target", map[string]any{
		"source":   abcFixture,
		"dragging": []string{"a"},
		"keys":     []string{"ArrowDown", "ArrowDown"},
		"commit":   true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Target struct {
			Type     string `json:"type"`
			Key      string `json:"key"`
			Position string `json:"position"`
		} `json:"target"`
		Keys   []string `json:"keys"`
		Source string   `json:"source"`
	}
	decode(t, resp, &out)
	assert.Equal(t, "c", out.Target.Key)
	assert.Equal(t, []string{"b", "a", "c"}, out.Keys)
	assert.Contains(t, out.Source, `key = "a"`)
}

func TestServeDropTargetUnknownKey(t *testing.T) {
	ts := newTestServer(t)

	resp := post(t, ts, "/drop-target", map[string]any{
		"source":   abcFixture,
		"dragging": []string{"zz"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeCacheBackends(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := t.Context()

	store, backend, err := serveCache(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, "disabled", backend)
	assert.IsType(t, cache.NullCache{}, store)

	store, backend, err = serveCache(ctx, "", false)
	require.NoError(t, err)
	assert.Equal(t, "file", backend)
	assert.IsType(t, &cache.FileCache{}, store)

	store, backend, err = serveCache(ctx, "127.0.0.1:1", false)
	require.NoError(t, err)
	assert.Equal(t, "file", backend, "unreachable redis falls back to the file cache")
	assert.IsType(t, &cache.FileCache{}, store)
}
