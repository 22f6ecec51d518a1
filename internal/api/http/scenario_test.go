package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/vadimbarashkov/linkshrink/internal/database/memory"
	"github.com/vadimbarashkov/linkshrink/internal/metrics"
	"github.com/vadimbarashkov/linkshrink/internal/service"
)

func TestScenario_ShortenRedirectNotFound(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := metrics.NewPrometheus(reg)

	repo := memory.NewLinkRepository()
	svc := service.NewLinkService(repo, service.WithMetrics(sink))

	logger := httplog.NewLogger("", httplog.Options{Writer: io.Discard})
	router := NewRouter(logger, svc,
		WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	e := httpexpect.Default(t, server.URL)

	codeValue := e.POST("/shorten").
		WithJSON(map[string]string{"url": "https://example.com"}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("short_code").String()

	codeValue.Length().IsEqual(service.DefaultShortCodeLength)
	shortCode := codeValue.Raw()

	e.GET("/"+shortCode).
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("https://example.com")

	e.GET("/" + shortCode + "/stats").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("data").Object().
		HasValue("clicks", 1)

	e.GET("/"+shortCode).
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusFound)

	e.GET("/" + shortCode + "/stats").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("data").Object().
		HasValue("clicks", 2)

	e.GET("/doesnotexist").
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusNotFound)

	e.GET("/" + shortCode + "/stats").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("data").Object().
		HasValue("clicks", 2)

	e.POST("/shorten").
		WithJSON(map[string]string{"url": "not-a-url"}).
		Expect().
		Status(http.StatusBadRequest)

	assert.Equal(t, 1, repo.Len())

	body := e.GET("/metrics").
		Expect().
		Status(http.StatusOK).
		Body().Raw()

	assert.Contains(t, body, "urlshort_created_total 1")
	assert.Contains(t, body, "urlshort_redirects_total 2")
	assert.Contains(t, body, "urlshort_not_found_total 1")
	assert.Contains(t, body, `urlshort_request_latency_seconds_count{operation="redirect"} 3`)
	assert.Contains(t, body, `urlshort_request_latency_seconds_count{operation="shorten"} 2`)
}

func TestScenario_ShortenInputIsNotNormalised(t *testing.T) {
	repo := memory.NewLinkRepository()
	svc := service.NewLinkService(repo)

	logger := httplog.NewLogger("", httplog.Options{Writer: io.Discard})
	server := httptest.NewServer(NewRouter(logger, svc))
	t.Cleanup(server.Close)

	e := httpexpect.Default(t, server.URL)

	for _, u := range []string{"  https://example.com  ", "https://example.com\n", "HTTPS://example.com"} {
		e.POST("/shorten").
			WithJSON(map[string]string{"url": u}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			Value("details").Array().Value(0).Object().
			HasValue("field", "url").
			HasValue("value", u)
	}

	assert.Zero(t, repo.Len())

	shortCode := e.POST("/shorten").
		WithBytes([]byte(`{"url":"https://example.com/Path?q=A"}`)).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("short_code").String().Raw()

	e.GET("/"+shortCode).
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("https://example.com/Path?q=A")
}
