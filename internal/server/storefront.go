package server

import (
	"fmt"
	"net/http"
	"time"

	"ostro-bazar/internal/cart"
	"ostro-bazar/internal/catalog"
	"ostro-bazar/internal/config"
	custommiddleware "ostro-bazar/internal/middleware"
	"ostro-bazar/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// StorefrontServer hosts the cart core and the catalog browse surface.
type StorefrontServer struct {
	*http.Server
	logger *zap.Logger
	store  *cart.Store
}

// NewStorefrontServer builds the storefront server around an already
// hydrated cart store and catalog gateway.
func NewStorefrontServer(cfg *config.Config, logger *zap.Logger, store *cart.Store, gateway *catalog.Gateway) *StorefrontServer {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	catalogHandler := transport.NewCatalogHandler(gateway, logger)
	cartHandler := transport.NewCartHandler(store, gateway, logger)

	catalogHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router)

	return &StorefrontServer{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		logger: logger,
		store:  store,
	}
}

func (s *StorefrontServer) Close() error {
	s.logger.Info("Closing storefront resources")

	// Tear down the cart slot subscription
	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close cart store", zap.Error(err))
	}

	s.logger.Sync()
	return nil
}
