package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f fakePinger) PingContext(_ context.Context) error { return f.err }
func (f fakePinger) Ping(_ context.Context) error        { return f.err }

func get(t *testing.T, c *Checker, path string) (int, Response) {
	t.Helper()
	e := echo.New()
	c.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestReadiness_NotReady(t *testing.T) {
	c := NewChecker(fakePinger{}, "test")
	code, resp := get(t, c, "/api/v1/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, resp.Checks, "startup")
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		db       DBPinger
		redisErr error
		code     int
		status   Status
	}{
		{"all healthy", fakePinger{}, nil, http.StatusOK, StatusHealthy},
		{"redis down degrades", fakePinger{}, errors.New("down"), http.StatusOK, StatusDegraded},
		{"db down fails", fakePinger{err: errors.New("down")}, nil, http.StatusServiceUnavailable, StatusUnhealthy},
		{"db missing fails", nil, nil, http.StatusServiceUnavailable, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(tt.db, "test")
			c.AddOptional("redis", fakePinger{err: tt.redisErr})
			c.SetReady(true)

			code, resp := get(t, c, "/api/v1/health/ready")
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestLiveness(t *testing.T) {
	c := NewChecker(nil, "v1")
	code, resp := get(t, c, "/api/v1/health/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "v1", resp.Version)
}
