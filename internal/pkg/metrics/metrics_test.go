package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", Handler())
	app.Get("/v1/acts/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/v1/acts/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	out := string(body)
	assert.Contains(t, out, "legallib_http_requests_total")
	// route pattern, not the raw path
	assert.Contains(t, out, `path="/v1/acts/:id"`)
	assert.NotContains(t, out, `path="/v1/acts/42"`)
}

type poolStat struct{ acquired, idle, total int32 }

func (p poolStat) AcquiredConns() int32 { return p.acquired }
func (p poolStat) IdleConns() int32     { return p.idle }
func (p poolStat) TotalConns() int32    { return p.total }

func TestUpdateDBPoolMetrics(t *testing.T) {
	UpdateDBPoolMetrics(poolStat{acquired: 2, idle: 3, total: 5})

	assert.Equal(t, 5.0, testutil.ToFloat64(DBPoolConnsOpen))
	assert.Equal(t, 2.0, testutil.ToFloat64(DBPoolConnsAcquired))
	assert.Equal(t, 3.0, testutil.ToFloat64(DBPoolConnsIdle))
}

func TestPush(t *testing.T) {
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	LawyersImported.Add(3)
	require.NoError(t, Push(context.Background(), srv.URL, "legallib_lawyerimport", LawyersImported))

	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasSuffix(path, "/metrics/job/legallib_lawyerimport"), path)
	assert.NotEmpty(t, body)
}
