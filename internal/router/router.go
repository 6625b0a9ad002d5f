package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-task-api/internal/config"
	"go-task-api/internal/handler"
	"go-task-api/internal/middleware"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	health http.HandlerFunc,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", health)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.Post("/refresh", authHandler.Refresh)
			auth.Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.Route("/tasks", func(tasks chi.Router) {
			tasks.Use(authMiddleware.RequireAuth)
			tasks.Post("/", taskHandler.Create)
			tasks.Get("/", taskHandler.List)
			tasks.Get("/{task_id}", taskHandler.Get)
			tasks.Put("/{task_id}", taskHandler.Update)
			tasks.Put("/{task_id}/status", taskHandler.UpdateStatus)
			tasks.Delete("/{task_id}", taskHandler.Delete)
		})
	})

	return r
}
