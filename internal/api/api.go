package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"tablo-backend/internal/api/middleware"
	"tablo-backend/internal/database"
	"tablo-backend/internal/env"
	"tablo-backend/internal/preview"
	"tablo-backend/internal/queue"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.RequestQueueManager
	db                  *database.Database
	routeRegistrars     []RouteRegistrar
	handler             *preview.Handler
	cors                middleware.CORSConfig
	metrics             *metrics
}

func NewAPIServer(listenAddr string, rqm *queue.RequestQueueManager, db *database.Database, handler *preview.Handler, registrars ...RouteRegistrar) *APIServer {

	return &APIServer{
		listenAddr:          listenAddr,
		requestQueueManager: rqm,
		db:                  db,
		handler:             handler,
		routeRegistrars:     registrars,
		cors:                dashboardCORSConfig(),
		metrics:             newMetrics(prometheus.DefaultRegisterer, listenAddr, rqm),
	}
}

// dashboardCORSConfig admits the dashboard origins only. The public widget
// server swaps this out via AllowPublicOrigins.
func dashboardCORSConfig() middleware.CORSConfig {
	origins := []string{"http://localhost:3000", "https://tablo.app", "https://app.tablo.app"}
	if web := env.Get(env.WebUrl); web != "" {
		origins = append(origins, web)
	}

	return middleware.CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "OPTIONS", "DELETE"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With", "Authorization"},
		AllowCredentials: true,
	}
}

// AllowPublicOrigins opens CORS to any origin. Embedded widgets run on
// arbitrary third-party pages, so the public server cannot enumerate
// callers; credentials stay disabled to keep the wildcard valid.
func (s *APIServer) AllowPublicOrigins() {
	s.cors = middleware.CORSConfig{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}
}

func (s *APIServer) Run() {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())

	fmt.Printf("Server listening on http://localhost%s\n", s.listenAddr)

	if err := http.ListenAndServe(s.listenAddr, s.metrics.instrument(mux)); err != nil {
		fmt.Printf("server stopped: %v\n", err)
	}
}

func (s *APIServer) Database() *database.Database {
	return s.db
}

func (s *APIServer) Handler() *preview.Handler {
	return s.handler
}
