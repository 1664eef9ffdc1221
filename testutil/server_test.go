package testutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, method, url, body string) (int, any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("options", `{"user":"ada"}`)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var v any
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &v))
	}
	return resp.StatusCode, v
}

func TestWidgetServer_CRUD(t *testing.T) {
	api := NewWidgetServer()
	T(t).Setup(api)
	base := api.CollectionURL()

	status, body := do(t, "POST", base, `{"name":"bolt","size":3}`)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "1", body.(map[string]any)["id"])

	status, body = do(t, "GET", base+"/1", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "bolt", body.(map[string]any)["name"])

	status, _ = do(t, "PUT", base+"/1", `{"name":"nut"}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "nut", api.Widgets()["1"]["name"])

	status, body = do(t, "GET", base+"/9", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "widget not found", body.(map[string]any)["error"])

	status, _ = do(t, "DELETE", base+"/1", "")
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, api.Widgets())

	last, ok := api.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "DELETE", last.Method)
	assert.Equal(t, "/widgets/1", last.Path)
	assert.Equal(t, `{"user":"ada"}`, last.Options)
}

func TestWidgetServer_ListFilter(t *testing.T) {
	api := NewWidgetServer()
	T(t).Setup(api)
	api.Seed(Widget{"name": "bolt"})
	api.Seed(Widget{"name": "nut"})
	api.Seed(Widget{"name": "bolt"})

	_, body := do(t, "GET", api.CollectionURL(), "")
	assert.Len(t, body, 3)

	_, body = do(t, "GET", api.CollectionURL()+"?filter%5Bwhere%5D%5Bname%5D=bolt", "")
	list := body.([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].(map[string]any)["id"])
	assert.Equal(t, "3", list[1].(map[string]any)["id"])

	_, body = do(t, "GET", api.CollectionURL()+"?filter%5Blimit%5D=1", "")
	assert.Len(t, body, 1)
}

func TestWidgetServer_StatusEndpoint(t *testing.T) {
	api := NewWidgetServer()
	T(t).Setup(api)

	status, body := do(t, "GET", api.URL()+"/status/503", "")
	assert.Equal(t, 503, status)
	assert.Equal(t, float64(503), body.(map[string]any)["status"])
}

func TestWidgetServer_SnapshotRestore(t *testing.T) {
	api := NewWidgetServer()
	h := T(t)
	h.Setup(api)

	api.Seed(Widget{"name": "bolt"})
	snap := h.Snapshot(api)
	api.Seed(Widget{"name": "nut"})
	assert.Len(t, api.Widgets(), 2)

	h.Restore(api, snap)
	assert.Len(t, api.Widgets(), 1)
	assert.Equal(t, "2", api.Seed(Widget{}), "ids continue from the snapshot")

	h.Reset(api)
	assert.Empty(t, api.Widgets())
	assert.Empty(t, api.Requests())
	assert.Error(t, api.Restore(context.Background(), "bogus"))
}

func TestWidgetServer_Lifecycle(t *testing.T) {
	api := NewWidgetServer()
	assert.Empty(t, api.URL())
	require.NoError(t, api.Start(context.Background()))
	assert.Error(t, api.Start(context.Background()))
	assert.NotEmpty(t, api.URL())
	require.NoError(t, api.Stop(context.Background()))
	require.NoError(t, api.Stop(context.Background()))
	assert.Equal(t, "widget-server", api.Name())
}
