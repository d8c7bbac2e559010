package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"devconnector-backend/internal/database"
	"devconnector-backend/internal/github"
	"devconnector-backend/internal/handlers"
	customMiddleware "devconnector-backend/internal/middleware"
	"devconnector-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "devconnector")
	jwtSecret := getEnv("JWT_SECRET", "")
	githubToken := getEnv("GITHUB_TOKEN", "")
	port := getEnv("PORT", "8080")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if jwtSecret == "" {
		log.Fatal("❌ JWT_SECRET is required")
	}

	// Connect to MongoDB
	db, err := database.Connect(mongoURI, dbName)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := database.Disconnect(db); err != nil {
			log.Printf("⚠️  Error disconnecting from MongoDB: %v", err)
		}
	}()

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	profileRepo := repository.NewProfileRepo(db)

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create user indexes: %v", err)
	}
	if err := profileRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create profile indexes: %v", err)
	}

	// Initialize GitHub client (token optional — raises the rate limit)
	githubClient := github.NewClient(githubToken)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	profileHandler := handlers.NewProfileHandler(profileRepo, userRepo)
	githubHandler := handlers.NewGithubHandler(githubClient)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-auth-token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"devconnector-backend"}`))
	})

	// Public routes (no auth required)
	r.Post("/users", authHandler.Register)
	r.Post("/auth", authHandler.Login)
	r.Get("/profile", profileHandler.All)
	r.Get("/profile/user/{user_id}", profileHandler.ByUser)
	r.Get("/profile/github/{username}", githubHandler.Repos)

	// Protected routes (JWT required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.JWTAuth(jwtSecret))

		r.Get("/auth", authHandler.Current)
		r.Get("/profile/me", profileHandler.Me)
		r.Post("/profile", profileHandler.Upsert)
		r.Delete("/profile", profileHandler.Delete)
		r.Put("/profile/experience", profileHandler.AddExperience)
		r.Delete("/profile/experience/{exp_id}", profileHandler.RemoveExperience)
		r.Put("/profile/education", profileHandler.AddEducation)
		r.Delete("/profile/education/{edu_id}", profileHandler.RemoveEducation)
	})

	// Start server
	log.Printf("🚀 DevConnector backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
