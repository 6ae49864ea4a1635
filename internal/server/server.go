package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lgrando1/leo-tracker/internal/config"
	"github.com/lgrando1/leo-tracker/internal/database"
	"github.com/lgrando1/leo-tracker/internal/handlers"
	"github.com/lgrando1/leo-tracker/internal/middleware"
	"github.com/lgrando1/leo-tracker/internal/repository"
	"github.com/lgrando1/leo-tracker/internal/services"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(client *database.Client, cfg config.Config) *Server {
	foodRepo := repository.NewReferenceFoodRepository(client)
	eventRepo := repository.NewConsumptionEventRepository(client)
	weightRepo := repository.NewWeightSampleRepository(client)

	calendar := services.NewCalendar(cfg.Location)
	referenceService := services.NewReferenceService(foodRepo, cfg.ReferenceEncodings)
	consumptionService := services.NewConsumptionService(eventRepo, foodRepo, calendar)
	weightService := services.NewWeightService(weightRepo)
	progressService := services.NewProgressService(eventRepo, weightRepo, calendar, services.ProgressSettings{
		Target:         cfg.Target,
		Goal:           cfg.WeightGoal,
		ProjectionDays: cfg.ProjectionDays,
		HistoryDays:    cfg.HistoryDays,
	})

	foodHandler := handlers.NewFoodHandler(referenceService)
	consumptionHandler := handlers.NewConsumptionHandler(consumptionService, calendar)
	weightHandler := handlers.NewWeightHandler(weightService)
	progressHandler := handlers.NewProgressHandler(progressService, calendar)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if _, err := client.DB(r.Context()); err != nil {
			slog.Error("health check", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAccessToken(cfg.AccessToken))

		r.Get("/foods", foodHandler.Search)
		r.Post("/foods", foodHandler.Create)
		r.Post("/foods/import", foodHandler.Import)

		r.Get("/consumption", consumptionHandler.List)
		r.Post("/consumption", consumptionHandler.Create)
		r.Post("/consumption/reference", consumptionHandler.LogReference)
		r.Post("/consumption/import", consumptionHandler.Import)
		r.Delete("/consumption/{id}", consumptionHandler.Delete)

		r.Get("/weight", weightHandler.List)
		r.Put("/weight/{date}", weightHandler.Record)
		r.Delete("/weight/{id}", weightHandler.Delete)

		r.Get("/progress/day", progressHandler.Day)
		r.Get("/progress/series", progressHandler.Series)
		r.Get("/progress/weight", progressHandler.Weight)
	})

	server := &Server{
		router: router,
		config: cfg,
	}

	return server
}

func (server *Server) Handler() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
