// Package http exposes the link service over HTTP.
package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/linkshrink/internal/models"
	"github.com/vadimbarashkov/linkshrink/pkg/middleware/recoverer"

	httpSwagger "github.com/swaggo/http-swagger"
)

type LinkService interface {
	ShortenURL(ctx context.Context, targetURL string) (*models.Link, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*models.Link, error)
	GetLinkStats(ctx context.Context, shortCode string) (*models.Link, error)
}

type RouterOption func(*routerOptions)

type routerOptions struct {
	metricsHandler http.Handler
	docsPath       string
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) RouterOption {
	return func(o *routerOptions) {
		o.metricsHandler = h
	}
}

// WithDocsPath serves the OpenAPI document at path under /docs/swagger.yml
// and the Swagger UI under /swagger/.
func WithDocsPath(path string) RouterOption {
	return func(o *routerOptions) {
		o.docsPath = path
	}
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func NewRouter(logger *httplog.Logger, linkSvc LinkService, opts ...RouterOption) http.Handler {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	r.Get("/ping", handlePing)

	if o.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", o.metricsHandler)
	}

	if o.docsPath != "" {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/swagger.yml"),
		))

		r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, o.docsPath)
		})
	}

	validate := getValidate()

	r.Post("/shorten", handleShortenURL(linkSvc, validate))

	r.Route("/{shortCode}", func(r chi.Router) {
		r.Get("/", handleResolveShortCode(linkSvc))
		r.Get("/stats", handleGetLinkStats(linkSvc))
	})

	return r
}
