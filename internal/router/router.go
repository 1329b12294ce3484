package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blog-api/internal/config"
	"blog-api/internal/handler"
	"blog-api/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Users  *handler.UserHandler
	Posts  *handler.PostHandler
	Stats  *handler.StatsHandler
	Health *handler.HealthHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", h.Health.Health)

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.Use(authMiddleware.Authenticate)

		api.Post("/login", h.Auth.Login)

		api.Post("/users", h.Users.Register)
		api.Get("/users", h.Users.List)

		api.Get("/stats", h.Stats.Summary)

		api.Route("/posts", func(posts chi.Router) {
			posts.Get("/", h.Posts.List)
			posts.Get("/{id}", h.Posts.Get)
			posts.With(authMiddleware.RequireAuth).Post("/", h.Posts.Create)
			posts.With(authMiddleware.RequireAuth).Put("/{id}", h.Posts.Update)
			posts.With(authMiddleware.RequireAuth).Delete("/{id}", h.Posts.Delete)
		})
	})

	return r
}
