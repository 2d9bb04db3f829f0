package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geoportal/internal/handlers"
	"geoportal/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)
	r.Use(middlewares.NewPrometheusMiddleware().Instrument)

	ch := handlers.NewCommonHandler(s.accountRepo)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.registerAuthRoutes(r)
	s.registerDashboardRoutes(r)
	s.registerProxyRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService, s.sessionStore, s.otpDebug)

	r.HandleFunc("/signup", ah.Signup).Methods("POST", "OPTIONS")
	r.HandleFunc("/login", ah.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/logout", ah.Logout).Methods("GET", "OPTIONS")
	r.HandleFunc("/forgot-password", ah.ForgotPassword).Methods("POST", "OPTIONS")
}

func (s *Server) registerDashboardRoutes(r *mux.Router) {
	dh := handlers.NewDashboardHandler(s.ingestService, s.pointRepo, s.shapefileRepo)
	eh := handlers.NewExportHandler(s.exportService)
	auth := middlewares.SessionAuth(s.sessionStore)

	r.Handle("/", auth(http.HandlerFunc(dh.Dashboard))).Methods("GET", "POST", "OPTIONS")
	r.Handle("/download-all-csv", auth(http.HandlerFunc(eh.DownloadAllCSV))).Methods("GET", "OPTIONS")
	r.Handle("/download-wrong-csv", auth(http.HandlerFunc(eh.DownloadWrongCSV))).Methods("GET", "OPTIONS")
}

func (s *Server) registerProxyRoutes(r *mux.Router) {
	ph := handlers.NewProxyHandler(s.weatherService, s.poiService)
	auth := middlewares.SessionAuth(s.sessionStore)

	r.HandleFunc("/api/weather", ph.Weather).Methods("GET", "OPTIONS")
	r.Handle("/download-buffer-pois", auth(http.HandlerFunc(ph.DownloadBufferPOIs))).Methods("GET", "OPTIONS")
}
