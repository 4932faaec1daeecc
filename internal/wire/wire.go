// internal/wire/wire.go
package wire

import (
	"net/http"

	"society-parking/internal/adaptor"
	"society-parking/internal/data/repository"
	"society-parking/internal/usecase"
	"society-parking/internal/websocket"
	"society-parking/pkg/middleware"
	"society-parking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application
type App struct {
	Router  *chi.Mux
	Hub     *websocket.Hub
	Service *usecase.Service
	Clock   usecase.Clock
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	clock := usecase.SystemClock()
	service := usecase.NewService(repo, config, clock, logger)
	hub := websocket.NewHub(logger)
	handler := adaptor.NewHandler(service, clock, hub, logger)

	router := setupRouter(handler, hub, logger)

	return &App{
		Router:  router,
		Hub:     hub,
		Service: service,
		Clock:   clock,
	}
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, hub *websocket.Hub, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireParking(r, handler, hub, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
