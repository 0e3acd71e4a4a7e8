// Package server serves the rate converter page and the rates proxy over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"gitlab.com/yelinaung/quickrate/internal/exchange"
	"gitlab.com/yelinaung/quickrate/internal/logger"
	"gitlab.com/yelinaung/quickrate/internal/view"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Options configures the HTTP server.
type Options struct {
	Addr               string
	CORSAllowedOrigins []string
	// RateLimit is a limiter rate such as "60-M", applied per client IP to the
	// rates proxy.
	RateLimit string
	Observer  view.Observer
}

// Server is the HTTP surface.
type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	pageFetcher view.Fetcher
	source      exchange.RateSource
	observer    view.Observer
}

// New builds the router. pageFetcher loads the list a page view renders;
// source backs the rates proxy.
func New(opts Options, pageFetcher view.Fetcher, source exchange.RateSource) (*Server, error) {
	if pageFetcher == nil || source == nil {
		return nil, errors.New("page fetcher and rate source are required")
	}

	rate, err := limiter.NewRateFromFormatted(opts.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", opts.RateLimit, err)
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		pageFetcher: pageFetcher,
		source:      source,
		observer:    opts.Observer,
	}

	engine := gin.New()
	engine.Use(RequestLogger(), gin.Recovery())
	if len(opts.CORSAllowedOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSAllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}
	if err := engine.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.handlePage)
	engine.GET("/health", handleHealth)

	api := engine.Group("/api/exchange")
	api.GET("/rates", RateLimit(limiter.New(memory.NewStore(), rate)), s.handleRates)

	s.engine = engine
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Handler returns the instrumented root handler.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.engine, "quickrate.http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Run serves until ctx is done, then shuts down gracefully within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	logger.Log.Info().Msg("HTTP server stopped")
	return nil
}
