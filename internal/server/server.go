package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	_ "github.com/joho/godotenv/autoload"

	"geoportal/internal/repositories"
	"geoportal/internal/services"
)

const sessionMaxAge = 86400 * 30

type Server struct {
	port       int
	httpServer *http.Server

	sessionStore sessions.Store
	otpDebug     bool

	accountRepo   repositories.AccountRepository
	pointRepo     repositories.PointRepository
	shapefileRepo repositories.ShapefileRepository

	authService    services.AuthService
	ingestService  services.IngestService
	exportService  services.ExportService
	weatherService services.WeatherService
	poiService     services.POIService
}

func NewServer() *Server {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		log.Warn().Str("port", os.Getenv("PORT")).Msg("Invalid PORT environment variable. Using default 8080.")
		port = 8080
	}

	usersFile := os.Getenv("USERS_FILE")
	if usersFile == "" {
		usersFile = "users.json"
	}

	store := sessions.NewCookieStore([]byte(os.Getenv("SESSION_KEY")))
	store.MaxAge(sessionMaxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	accountRepo := repositories.NewAccountRepository(usersFile)
	otpRepo := repositories.NewOTPRepository()
	pointRepo := repositories.NewPointRepository()
	shapefileRepo := repositories.NewShapefileRepository()

	otpService := services.NewOTPService(otpRepo)
	emailService := services.NewEmailService()

	s := &Server{
		port:           port,
		sessionStore:   store,
		otpDebug:       os.Getenv("OTP_DEBUG") == "true",
		accountRepo:    accountRepo,
		pointRepo:      pointRepo,
		shapefileRepo:  shapefileRepo,
		authService:    services.NewAuthService(accountRepo, otpService, emailService),
		ingestService:  services.NewIngestService(pointRepo, shapefileRepo),
		exportService:  services.NewExportService(pointRepo),
		weatherService: services.NewWeatherService(),
		poiService:     services.NewPOIService(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 150 * time.Second, // POI proxy waits out a 120s upstream bound
	}

	return s
}

func (s *Server) Start() error {
	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
