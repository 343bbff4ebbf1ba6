package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Storage.Backend = config.BackendFile
	cfg.Storage.DataDir = t.TempDir()
	cfg.Server.RateLimit = 1000
	cfg.Server.Burst = 1000
	cfg.Server.ShutdownTimeout = time.Second

	srv, err := NewServer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	return srv
}

type testResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func doRequest(t *testing.T, handler http.Handler, method, target string, body interface{}) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp testResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func TestHealthCheck(t *testing.T) {
	router := newTestServer(t).Router()

	rec, _ := doRequest(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestBuildingEndpoints(t *testing.T) {
	router := newTestServer(t).Router()

	t.Run("list buildings", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/buildings", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", resp.Status)

		var data struct {
			Buildings []string `json:"buildings"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Len(t, data.Buildings, 13)
	})

	t.Run("building detail with neighbors", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/buildings/"+url.PathEscape("Block A"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Neighbors []string `json:"neighbors"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Contains(t, data.Neighbors, "Block B")
	})

	t.Run("unknown building is 404", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/buildings/Atlantis", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "error", resp.Status)
	})
}

func TestRouteEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	t.Run("valid route", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodGet,
			"/api/v1/route?from="+url.QueryEscape("Block A")+"&to="+url.QueryEscape("Block C"), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Path     []string `json:"path"`
			Distance int      `json:"distance"`
			Success  bool     `json:"success"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.True(t, data.Success)
		assert.Equal(t, []string{"Block A", "Block B", "Block C"}, data.Path)
		assert.Equal(t, 2, data.Distance)
	})

	t.Run("missing parameters", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/route?from=Block+A", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown location", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/route?from=Atlantis&to=Block+A", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestNavigateEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	t.Run("room to room", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/navigate?from=E-203&to=C-101", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			TotalSteps    int    `json:"totalSteps"`
			EstimatedTime string `json:"estimatedTime"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 9, data.TotalSteps)
		assert.NotEmpty(t, data.EstimatedTime)
	})

	t.Run("unresolvable room", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/navigate?from=Z-999&to=C-101", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRoomEndpoints(t *testing.T) {
	router := newTestServer(t).Router()

	t.Run("rooms by block and floor", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodGet,
			"/api/v1/rooms/"+url.PathEscape("Block E")+"?floor=2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Rooms []struct {
				RoomNumber string `json:"roomNumber"`
			} `json:"rooms"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Len(t, data.Rooms, 40)
	})

	t.Run("invalid floor parameter", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodGet,
			"/api/v1/rooms/"+url.PathEscape("Block E")+"?floor=two", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestServer(t).Router()

	rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/search?q="+url.QueryEscape("Block E"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, 241, data.Count)
}

func TestTagEndpoints(t *testing.T) {
	router := newTestServer(t).Router()

	t.Run("create tag", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/tags/",
			map[string]string{"name": "Chess Club", "categoryId": "cat-activities"})
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "success", resp.Status)
	})

	t.Run("empty tag name is a validation error", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/tags/",
			map[string]string{"name": "  ", "categoryId": "cat-activities"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "error", resp.Status)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("promote children detaches them", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodPost, "/api/v1/tags/",
			map[string]string{"name": "Parent Club", "categoryId": "cat-activities"})
		require.Equal(t, http.StatusCreated, rec.Code)
		var parent struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &parent))

		rec, resp = doRequest(t, router, http.MethodPost, "/api/v1/tags/",
			map[string]string{"name": "Child Club", "categoryId": "cat-activities", "parentTagId": parent.ID})
		require.Equal(t, http.StatusCreated, rec.Code)
		var child struct {
			ID          string `json:"id"`
			ParentTagID string `json:"parentTagId"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &child))
		require.Equal(t, parent.ID, child.ParentTagID)

		rec, _ = doRequest(t, router, http.MethodPost, "/api/v1/tags/"+parent.ID+"/promote-children", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec, resp = doRequest(t, router, http.MethodGet, "/api/v1/tags/?category=cat-activities", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var data struct {
			Tags []struct {
				ID          string `json:"id"`
				ParentTagID string `json:"parentTagId"`
			} `json:"tags"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		for _, tag := range data.Tags {
			if tag.ID == child.ID {
				assert.Empty(t, tag.ParentTagID)
			}
		}
	})

	t.Run("promoting an unknown tag is rejected", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/tags/tag-nope/promote-children", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deleting a system tag is rejected", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodDelete, "/api/v1/tags/tag-wifi", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("tag statistics", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/tags/stats", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Statistics []json.RawMessage `json:"statistics"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotEmpty(t, data.Statistics)
	})

	t.Run("tree requires category", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/tags/tree", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("export sets attachment headers", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/tags/export", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "campus-tags.json")
	})

	t.Run("malformed import is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tags/import", bytes.NewReader([]byte("{broken")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCategoryEndpoints(t *testing.T) {
	router := newTestServer(t).Router()

	t.Run("create category", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/tag-categories/",
			map[string]string{"name": "Sports"})
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("deleting a system category is rejected", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodDelete, "/api/v1/tag-categories/cat-activities", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRoomTagEndpoints(t *testing.T) {
	router := newTestServer(t).Router()

	room := map[string]interface{}{"building": "Block A", "floor": 1, "room": "A-101"}

	t.Run("apply and read back", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/room-tags/",
			map[string]interface{}{"room": room, "tagId": "tag-wifi"})
		require.Equal(t, http.StatusOK, rec.Code)

		rec, resp := doRequest(t, router, http.MethodGet,
			fmt.Sprintf("/api/v1/room-tags/?building=%s&floor=1&room=A-101", url.QueryEscape("Block A")), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Tags []struct {
				ID string `json:"id"`
			} `json:"tags"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.Len(t, data.Tags, 1)
		assert.Equal(t, "tag-wifi", data.Tags[0].ID)
	})

	t.Run("unknown tag is rejected", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/room-tags/",
			map[string]interface{}{"room": room, "tagId": "tag-nope"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing query parameters", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodGet, "/api/v1/room-tags/?building=Block+A", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLabelEndpoints(t *testing.T) {
	router := newTestServer(t).Router()

	room := map[string]interface{}{"building": "Block A", "floor": 1, "room": "A-101"}

	t.Run("add and read back", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/labels/",
			map[string]interface{}{"room": room, "label": "my locker"})
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, resp := doRequest(t, router, http.MethodGet,
			fmt.Sprintf("/api/v1/labels/?building=%s&floor=1&room=A-101", url.QueryEscape("Block A")), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Labels []string `json:"labels"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, []string{"my locker"}, data.Labels)
	})

	t.Run("empty label is rejected", func(t *testing.T) {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/labels/",
			map[string]interface{}{"room": room, "label": "   "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("label search", func(t *testing.T) {
		rec, resp := doRequest(t, router, http.MethodGet, "/api/v1/labels/search?q=locker", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var data struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, 1, data.Count)
	})
}

func TestCORSPreflight(t *testing.T) {
	router := newTestServer(t).Router()

	rec, _ := doRequest(t, router, http.MethodOptions, "/api/v1/buildings", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiting(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Storage.Backend = config.BackendFile
	cfg.Storage.DataDir = t.TempDir()
	cfg.Server.RateLimit = 1
	cfg.Server.Burst = 1

	srv, err := NewServer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	router := srv.Router()

	rec, _ := doRequest(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
