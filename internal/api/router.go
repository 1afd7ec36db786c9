package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mindmesh/mindmesh-api/internal/ai"
	"github.com/mindmesh/mindmesh-api/internal/ai/gemini"
	"github.com/mindmesh/mindmesh-api/internal/ai/openai"
	"github.com/mindmesh/mindmesh-api/internal/analytics"
	"github.com/mindmesh/mindmesh-api/internal/api/handler"
	customMiddleware "github.com/mindmesh/mindmesh-api/internal/api/middleware"
	"github.com/mindmesh/mindmesh-api/internal/config"
	"github.com/mindmesh/mindmesh-api/internal/identity"
	"github.com/mindmesh/mindmesh-api/internal/notify"
	"github.com/mindmesh/mindmesh-api/internal/repository/mongo"
	"github.com/mindmesh/mindmesh-api/internal/repository/redis"
	"github.com/mindmesh/mindmesh-api/internal/security"
	"github.com/mindmesh/mindmesh-api/internal/service"
	"github.com/mindmesh/mindmesh-api/internal/speech"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *mongo.DB, redisClient *redis.Client, analyticsService *analytics.Service) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	verifier := security.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience, cfg.Auth.Issuer)
	resolver := identity.NewResolver(log.Logger, cfg.IsProduction())

	// Initialize repositories
	projectRepo := mongo.NewProjectRepository(db)
	invitationRepo := mongo.NewInvitationRepository(db)
	userRepo := mongo.NewUserRepository(db)
	recordingRepo := mongo.NewRecordingRepository(db)

	// Initialize rate limiter and artifact cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	artifactCache := redis.NewArtifactCache(redisClient)

	// Initialize AI router with providers
	aiRouter := ai.NewRouter(cfg.AI.DefaultProvider)

	log.Info().Msgf("Initializing AI providers. Default: %s", cfg.AI.DefaultProvider)

	if cfg.AI.Gemini.APIKey != "" {
		aiRouter.RegisterProvider(gemini.NewProvider(cfg.AI.Gemini))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}
	if cfg.AI.OpenAI.APIKey != "" {
		aiRouter.RegisterProvider(openai.NewProvider(cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.Model))
	}

	// Initialize outbound clients
	mailer := notify.NewMailer(cfg.Email, log.Logger)
	speechClient := speech.NewClient(cfg.ElevenLabs)

	// Initialize services
	collabService := service.NewCollaborationService(projectRepo, invitationRepo, userRepo, mailer, log.Logger)
	projectService := service.NewProjectService(projectRepo, analyticsService, log.Logger)
	recordingService := service.NewRecordingService(recordingRepo, projectRepo, analyticsService, log.Logger)
	insightService := service.NewInsightService(aiRouter, artifactCache, log.Logger)
	userService := service.NewUserService(userRepo, log.Logger)

	// Initialize handlers
	collabHandler := handler.NewCollaborationHandler(collabService)
	projectHandler := handler.NewProjectHandler(projectService)
	recordingHandler := handler.NewRecordingHandler(recordingService)
	insightHandler := handler.NewInsightHandler(insightService)
	speechHandler := handler.NewSpeechHandler(speechClient)
	userHandler := handler.NewUserHandler(userService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, projectService, recordingService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(verifier, resolver)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health checks (public)
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			// Cache management
			r.Post("/cache/flush", handler.FlushCache(artifactCache))

			// Collaboration routes
			r.Route("/collaboration", func(r chi.Router) {
				r.Post("/invite", collabHandler.Invite)
				r.Get("/invitations", collabHandler.MyInvitations)
				r.Post("/invitations/{invitationID}/accept", collabHandler.Accept)
				r.Post("/invitations/{invitationID}/reject", collabHandler.Reject)

				r.Route("/projects/{projectID}/collaborators", func(r chi.Router) {
					r.Get("/", collabHandler.Collaborators)
					r.Delete("/{collaboratorID}", collabHandler.RemoveCollaborator)
					r.Patch("/{collaboratorID}/role", collabHandler.UpdateCollaboratorRole)
				})
			})

			// Project routes
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectHandler.List)
				r.Post("/", projectHandler.Create)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Get("/", projectHandler.Get)
					r.Put("/", projectHandler.Update)
					r.Delete("/", projectHandler.Delete)
					r.Get("/recordings", recordingHandler.ListByProject)
				})
			})

			// Recording routes
			r.Route("/recordings", func(r chi.Router) {
				r.Post("/", recordingHandler.Save)
				r.Get("/{recordingID}", recordingHandler.Get)
				r.Delete("/{recordingID}", recordingHandler.Delete)
			})

			// AI routes
			r.Route("/ai", func(r chi.Router) {
				r.Get("/providers", insightHandler.Providers)
				r.Post("/analyze", insightHandler.Analyze)
				r.Post("/analyze-conversation", insightHandler.Analyze)
				r.Post("/mind-map", insightHandler.MindMap)
				r.Post("/mermaid-mindmap", insightHandler.MermaidMindmap)
				r.Post("/meeting-notes", insightHandler.MeetingNotes)
				r.Post("/brainstorm", insightHandler.Brainstorm)
				r.Post("/transcribe-audio", insightHandler.TranscribeAudio)
			})

			// Speech routes
			r.Route("/speech", func(r chi.Router) {
				r.Get("/voices", speechHandler.Voices)
				r.Post("/synthesize", speechHandler.Synthesize)
				r.Post("/narrate", speechHandler.Narrate)
			})

			// User routes
			r.Route("/user", func(r chi.Router) {
				r.Get("/settings", userHandler.Settings)
				r.Put("/profile", userHandler.UpdateProfile)
				r.Put("/privacy", userHandler.UpdatePrivacy)
				r.Put("/security", userHandler.UpdateSecurity)
				r.Put("/notifications", userHandler.UpdateNotifications)
			})

			// Analytics routes
			r.Route("/analytics", func(r chi.Router) {
				r.Get("/", analyticsHandler.Get)
				r.Post("/sync", analyticsHandler.Sync)
				r.Post("/events", analyticsHandler.LogEvent)
			})
		})
	})

	return r
}
