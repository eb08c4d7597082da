package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/SravanamCharan20/Bites/internal/api/handlers"
	"github.com/SravanamCharan20/Bites/internal/auth"
	"github.com/SravanamCharan20/Bites/internal/services"
	"github.com/SravanamCharan20/Bites/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	tokens *auth.Manager,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	donorService services.DonorServiceProvider,
	requestService services.RequestServiceProvider,
	eventService services.EventServiceProvider,
	allowedOrigin string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens, eventService)
	donorHandler := handlers.NewDonorHandler(donorService, eventService)
	requestHandler := handlers.NewRequestHandler(requestService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
		})

		r.Route("/donor", func(r chi.Router) {
			// Public browsing and submission
			r.Post("/donorform", donorHandler.Create)
			r.Get("/donorform", donorHandler.GetAll)
			r.Post("/request", requestHandler.Submit)

			// Owner-facing routes require a bearer token
			r.Group(func(r chi.Router) {
				r.Use(tokens.Middleware())
				r.Get("/userdonations/{userId}", donorHandler.GetByUser)
				r.Get("/requests/{id}", requestHandler.GetForOwner)
				r.Patch("/requests/{id}/status", requestHandler.UpdateStatus)
			})

			r.Get("/{id}", donorHandler.Get)
			r.Put("/{id}", donorHandler.Update)
		})

		// Activity feed
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())
			r.Get("/events", eventHandler.GetRecent)
			r.Get("/ws", wsHandler.Serve)
		})
	})

	return r
}
