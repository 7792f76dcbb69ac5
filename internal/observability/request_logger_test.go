package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/venues/:venueId", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("request_id").(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/venues/v-1", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	id := resp.Header.Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, string(body))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/venues/:venueId", "200")))
}

func TestRequestLoggerKeepsIncomingRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestRequestLoggerReplacesUnsafeRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for name, incoming := range map[string]string{
		"too long": strings.Repeat("a", 65),
		"markup":   "<b>abc</b>",
		"spaces":   "abc 123",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set(RequestIDHeader, incoming)
			resp, err := app.Test(req)
			require.NoError(t, err)

			got := resp.Header.Get(RequestIDHeader)
			assert.NotEqual(t, incoming, got)
			_, err = uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.RecordRequest("/health", "GET", 200, 0)

	app := fiber.New()
	app.Get("/metrics", Handler(reg))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http_requests_total")
}
