// Package http provides the HTTP delivery layer: the chi router, the request
// handlers for shortening, redirecting, listing, deletion, analytics and the
// QR endpoints, and the seams for the external collaborators (identity
// provider, page renderer, image encoder).
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/shortlyhq/shortly/internal/entity"
)

type urlUseCase interface {
	Shorten(ctx context.Context, owner entity.Owner, originalURL string, expiry *time.Time) (*entity.URLRecord, error)
	Resolve(ctx context.Context, shortCode string) (*entity.URLRecord, error)
	Lookup(ctx context.Context, shortCode string) (*entity.URLRecord, error)
	Delete(ctx context.Context, id int64, owner entity.Owner) error
	ListByOwner(ctx context.Context, owner entity.Owner) ([]entity.URLRecord, error)
}

type analyticsUseCase interface {
	Summary(ctx context.Context, owner entity.Owner) (*entity.OwnerSummary, error)
	TimeSeries(ctx context.Context, owner entity.Owner, days int) ([]entity.DayStat, error)
}

// QREncoder is the external image-encoding collaborator: it takes a URL string
// and returns PNG bytes.
type QREncoder interface {
	Encode(url string) ([]byte, error)
}

// RouterConfig carries the collaborators the router wires into its handlers.
type RouterConfig struct {
	URLs      urlUseCase
	Analytics analyticsUseCase
	Identity  Identity
	Renderer  PageRenderer
	QREncoder QREncoder
	BaseURL   string
}

// NewRouter initializes a chi router configured with the service's middleware
// stack and routes. A nil Renderer falls back to the JSON page renderer.
func NewRouter(logger *httplog.Logger, cfg RouterConfig) *chi.Mux {
	if cfg.Renderer == nil {
		cfg.Renderer = NewJSONPageRenderer()
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(identify(cfg.Identity))

	r.Get("/ping", handlePing)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	validate := getValidate()
	uh := newURLHandler(cfg.URLs, validate, cfg.Renderer, cfg.BaseURL)
	ah := newAnalyticsHandler(cfg.Analytics, cfg.Renderer)
	qh := newQRHandler(cfg.URLs, cfg.QREncoder, cfg.Renderer, cfg.BaseURL)

	r.Get("/", uh.home)
	r.Post("/", uh.shorten)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/list/", uh.list)
		r.Post("/delete/{id}/", uh.delete)
		r.Get("/analytics/", ah.dashboard)
		r.Get("/analytics/data/", ah.data)
		r.Get("/qr/{code}/", qh.page)
	})

	r.Get("/qr/{code}/generate/", qh.generate)
	r.Get("/qr/{code}/download/", qh.download)

	r.Get("/{code}/", uh.redirect)

	return r
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
