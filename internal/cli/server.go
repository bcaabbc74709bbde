package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/georgemunganga/wegmans2/internal/modules/auth"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/georgemunganga/wegmans2/internal/modules/store"
	"github.com/georgemunganga/wegmans2/internal/modules/vendor"
	"github.com/georgemunganga/wegmans2/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter exposes the read-only catalog and reports over HTTP, plus token
// issuance for administrators.
func NewRouter(deps session.Deps) chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("ok"))
	})

	store.NewHandler(deps.Stores).RegisterRoutes(router)
	product.NewHandler(deps.Products).RegisterRoutes(router)
	sales.NewHandler(deps.Sales).RegisterRoutes(router)
	vendor.NewHandler(deps.Vendors).RegisterRoutes(router)
	auth.NewHandler(deps.Auth).RegisterRoutes(router)
	return router
}

// serve runs the HTTP server until ctx is cancelled.
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server starting on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		log.Printf("HTTP server stopped")
		return ctx.Err()
	}
}
