package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/internal/services/configdefinition"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/repositories"
)

type testServer struct {
	t       *testing.T
	e       *echo.Echo
	brandID string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	svc, err := configdefinition.NewService(repositories.NewMemoryConfigStore(logger), logger, configdefinition.Options{
		CacheSize:  16,
		MaxRetries: 2,
	})
	require.NoError(t, err)

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())

	api := e.Group("/api/v1", middleware.RequireBrand(logger))
	NewConfigHandler(svc).RegisterRoutes(api)

	return &testServer{t: t, e: e, brandID: uuid.NewString()}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if s.brandID != "" {
		req.Header.Set(middleware.HeaderBrandID, s.brandID)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) create(name string) string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/configs", `{"name":"`+name+`"}`)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.SavedVersion](s.t, rec).Definition.ID.String()
}

func TestConfigHandler_BrandHeader(t *testing.T) {
	srv := newTestServer(t)

	srv.brandID = ""
	rec := srv.do(http.MethodGet, "/api/v1/configs", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	srv.brandID = "not-a-uuid"
	rec = srv.do(http.MethodGet, "/api/v1/configs", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConfigHandler_Definitions(t *testing.T) {
	srv := newTestServer(t)
	id := srv.create("checkout")

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/api/v1/configs", `{"name":"checkout"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		rec := srv.do(http.MethodPost, "/api/v1/configs", `{"name":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list and lookup by name", func(t *testing.T) {
		rec := srv.do(http.MethodGet, "/api/v1/configs", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]models.ConfigDefinition](t, rec), 1)

		rec = srv.do(http.MethodGet, "/api/v1/configs/by-name/checkout", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, id, decode[models.ConfigDetail](t, rec).ID.String())
	})

	t.Run("rename keeps the version", func(t *testing.T) {
		rec := srv.do(http.MethodPatch, "/api/v1/configs/"+id, `{"name":"cart"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		def := decode[models.ConfigDefinition](t, rec)
		assert.Equal(t, "cart", def.Name)
		assert.Equal(t, 1, def.CurrentVersion)
	})

	t.Run("bad id is a 400", func(t *testing.T) {
		rec := srv.do(http.MethodGet, "/api/v1/configs/nope", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("other brands see nothing", func(t *testing.T) {
		other := *srv
		other.brandID = uuid.NewString()
		rec := other.do(http.MethodGet, "/api/v1/configs/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := srv.do(http.MethodDelete, "/api/v1/configs/"+id, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = srv.do(http.MethodGet, "/api/v1/configs/"+id, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestConfigHandler_FieldsAndVersions(t *testing.T) {
	srv := newTestServer(t)
	id := srv.create("profile")
	base := "/api/v1/configs/" + id

	rec := srv.do(http.MethodPost, base+"/fields", `{"name":"color","kind":"select","options":"red, blue"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[models.SavedVersion](t, rec)
	assert.Equal(t, 2, saved.Version.Version)
	assert.Equal(t, "red", saved.Version.FormData["color"])

	t.Run("duplicate field names the field", func(t *testing.T) {
		rec := srv.do(http.MethodPost, base+"/fields", `{"name":"color","kind":"text"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[middleware.ErrorResponse](t, rec)
		assert.Equal(t, "color", resp.Meta["field"])
	})

	t.Run("unknown kind is a 400", func(t *testing.T) {
		rec := srv.do(http.MethodPost, base+"/fields", `{"name":"x","kind":"slider"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rec = srv.do(http.MethodPut, base+"/fields/color", `{"name":"shade","kind":"radio","options":"red, green"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved = decode[models.SavedVersion](t, rec)
	assert.Equal(t, 3, saved.Version.Version)
	assert.Equal(t, "red", saved.Version.FormData["shade"])
	assert.Equal(t, "radio", saved.Version.UIHints["shade"].Widget)

	t.Run("update of missing field is a 404", func(t *testing.T) {
		rec := srv.do(http.MethodPut, base+"/fields/missing", `{"name":"missing","kind":"text"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	rec = srv.do(http.MethodGet, base+"/fields", "")
	require.Equal(t, http.StatusOK, rec.Code)
	descriptors := decode[[]map[string]any](t, rec)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "shade", descriptors[0]["name"])
	assert.Equal(t, "radio", descriptors[0]["kind"])

	rec = srv.do(http.MethodPut, base+"/active-version", `{"version":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("unknown active version is a 404", func(t *testing.T) {
		rec := srv.do(http.MethodPut, base+"/active-version", `{"version":42}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("version list is newest first with the active pointer", func(t *testing.T) {
		rec := srv.do(http.MethodGet, base+"/versions", "")
		require.Equal(t, http.StatusOK, rec.Code)
		list := decode[models.VersionList](t, rec)
		assert.Equal(t, 2, list.ActiveVersion)
		assert.Equal(t, 3, list.CurrentVersion)
		require.Len(t, list.Versions, 3)
		assert.Equal(t, []int{3, 2, 1}, []int{list.Versions[0].Version, list.Versions[1].Version, list.Versions[2].Version})
	})

	t.Run("active and preview", func(t *testing.T) {
		rec := srv.do(http.MethodGet, base+"/active", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 2, decode[models.ConfigDetail](t, rec).Version)

		rec = srv.do(http.MethodGet, base+"/versions/1", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, decode[models.ConfigVersion](t, rec).Version)

		rec = srv.do(http.MethodGet, base+"/versions/0", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("export is stable", func(t *testing.T) {
		first := srv.do(http.MethodGet, base+"/export", "")
		require.Equal(t, http.StatusOK, first.Code)
		second := srv.do(http.MethodGet, base+"/export", "")
		assert.Equal(t, first.Body.String(), second.Body.String())

		doc := decode[map[string]any](t, first)
		assert.Equal(t, "profile", doc["name"])
		assert.Contains(t, doc, "uiSchema")
		assert.Contains(t, doc, "formData")

		rec := srv.do(http.MethodGet, base+"/export?version=2", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"color"`)
	})

	t.Run("validate form data", func(t *testing.T) {
		rec := srv.do(http.MethodPost, base+"/validate", `{"form_data":{"shade":"purple"},"version":3}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decode[models.ValidateFormResponse](t, rec)
		assert.False(t, resp.Valid)
		assert.Equal(t, 3, resp.Version)
	})

	t.Run("save whole aggregate", func(t *testing.T) {
		body := `{"schema":{"type":"object","properties":{"age":{"type":"number","title":"age"}},"required":["age","ghost"]},"ui_schema":{},"form_data":{"age":3}}`
		rec := srv.do(http.MethodPut, base, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		saved := decode[models.SavedVersion](t, rec)
		assert.Equal(t, 4, saved.Version.Version)
		assert.Equal(t, 2, saved.Definition.ActiveVersion)
		assert.Equal(t, []string{"age"}, saved.Version.Schema.Required)
	})

	t.Run("delete field", func(t *testing.T) {
		rec := srv.do(http.MethodDelete, base+"/fields/age", "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		saved := decode[models.SavedVersion](t, rec)
		assert.Equal(t, 5, saved.Version.Version)
		assert.False(t, saved.Version.Has("age"))
	})
}
