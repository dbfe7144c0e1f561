package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/gzcarena/arena/handlers"
	"github.com/gzcarena/arena/middleware"
	"github.com/gzcarena/arena/models"
)

// SetupRoutes wires the full HTTP surface: public reads, authenticated user
// actions, and admin-only tournament management.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	bracketHandler *handlers.BracketHandler,
	participantHandler *handlers.ParticipantHandler,
	matchHandler *handlers.MatchHandler,
	adminHandler *handlers.AdminHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	moderatorOrAdmin := middleware.Authorize(models.RoleAdmin, models.RoleModerator)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.Get)
		r.Get("/{tournamentID}/bracket", bracketHandler.Get)
		r.Get("/{tournamentID}/participants", participantHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{tournamentID}/join", participantHandler.Join)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", tournamentHandler.Create)
			r.Put("/{tournamentID}", tournamentHandler.Update)
			r.Delete("/{tournamentID}", tournamentHandler.Delete)
			r.Post("/{tournamentID}/banner", tournamentHandler.UploadBanner)

			r.Post("/{tournamentID}/bracket", bracketHandler.Generate)
			r.Post("/{tournamentID}/bracket/advance-byes", bracketHandler.AdvanceByes)
			r.Post("/{tournamentID}/prizes", participantHandler.DistributePrizes)

			r.Put("/{tournamentID}/participants/{participantID}/placement", participantHandler.SetPlacement)
			r.Delete("/{tournamentID}/participants/{participantID}", participantHandler.Remove)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(moderatorOrAdmin)

			r.Post("/{matchID}/start", matchHandler.Start)
			r.Post("/{matchID}/complete", matchHandler.Complete)
		})
	})

	router.Route("/me", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/dashboard", dashboardHandler.Stats)
		r.Get("/profile", dashboardHandler.Profile)
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Get("/users", adminHandler.ListUsers)
		r.Post("/users/{userID}/roles", adminHandler.GrantRole)
		r.Delete("/users/{userID}/roles", adminHandler.RevokeRole)
	})
}
