package triproutes

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/theoremus-urban-solutions/trip-routes/config"
	"github.com/theoremus-urban-solutions/trip-routes/store"
	"github.com/theoremus-urban-solutions/trip-routes/uploads"
)

// Server is the HTTP front of the catalog. It owns no business logic: every
// mutation goes through the store or the upload coordinator.
type Server struct {
	cfg      config.AppConfig
	store    *store.Store
	coord    *uploads.Coordinator
	validate *validator.Validate
	http     *http.Server
}

// NewServer wires the transport layer over an explicitly constructed store.
func NewServer(cfg config.AppConfig, st *store.Store) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		coord:    uploads.NewCoordinator(st),
		validate: validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	mux.HandleFunc("POST /api/zones", s.handleCreateZone)
	mux.HandleFunc("GET /api/zones", s.handleListZones)
	mux.HandleFunc("GET /api/zones/{id}", s.handleGetZone)
	mux.HandleFunc("PUT /api/zones/{id}", s.handleUpdateZone)
	mux.HandleFunc("DELETE /api/zones/{id}", s.handleDeleteZone)

	mux.HandleFunc("POST /api/routes", s.handleCreateRoute)
	mux.HandleFunc("GET /api/routes", s.handleListRoutes)
	mux.HandleFunc("GET /api/routes/{id}", s.handleGetRoute)
	mux.HandleFunc("PUT /api/routes/{id}", s.handleUpdateRoute)
	mux.HandleFunc("DELETE /api/routes/{id}", s.handleDeleteRoute)

	mux.HandleFunc("POST /api/uploads/trips-parquet", s.handleUpload)

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", s.http.Addr)
}

// WaitForShutdown blocks until SIGINT/SIGTERM and then drains the server.
func (s *Server) WaitForShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Printf("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	} else {
		log.Printf("server shut down successfully")
	}
}
