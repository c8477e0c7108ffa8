package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"focusflow/internal/db"
	"focusflow/internal/handlers"
	mw "focusflow/internal/middleware"
	"focusflow/internal/services"
	"focusflow/internal/store"
)

func mustGetenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func main() {
	_ = godotenv.Load()

	var logger *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}
	port := mustGetenv("PORT", "8080")

	dbConn, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		logger.Fatal("failed to open db", zap.Error(err))
	}
	dbConn.SetMaxOpenConns(10)
	dbConn.SetConnMaxLifetime(2 * time.Hour)
	if err = dbConn.Ping(); err != nil {
		logger.Fatal("failed to ping db", zap.Error(err))
	}
	if err := db.RunMigrations(dbConn); err != nil {
		logger.Fatal("failed migrations", zap.Error(err))
	}

	repo := store.NewRepository(dbConn)
	promotionSvc := services.NewPromotionService(repo)
	goalSvc := services.NewGoalService(repo)

	var organizer handlers.Organizer
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		organizer = services.NewOrganizerService(openai.NewClient(key), os.Getenv("OPENAI_MODEL"))
	} else {
		logger.Warn("OPENAI_API_KEY not set; organizer endpoints disabled")
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.ZapRequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authHandler := handlers.NewAuthHandler(repo, []byte(jwtSecret), logger)
	dumpHandler := handlers.NewBrainDumpHandler(repo, logger)
	goalHandler := handlers.NewGoalHandler(repo, goalSvc, logger)
	promoteHandler := handlers.NewPromoteHandler(promotionSvc, logger)
	dataHandler := handlers.NewDataHandler(repo, logger)
	organizerHandler := handlers.NewOrganizerHandler(organizer, logger)
	authMW := mw.NewAuthMiddleware([]byte(jwtSecret))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Get("/braindump", dumpHandler.List)
			pr.Post("/braindump", dumpHandler.Create)
			pr.Put("/braindump/{id}", dumpHandler.Update)
			pr.Delete("/braindump/{id}", dumpHandler.Delete)
			pr.Get("/goals", goalHandler.List)
			pr.Post("/goals", goalHandler.Create)
			pr.Put("/goals/{id}", goalHandler.Update)
			pr.Delete("/goals/{id}", goalHandler.Delete)
			pr.Post("/promote-to-goal", promoteHandler.Promote)
			pr.Get("/data", dataHandler.Get)
			pr.Post("/organize", organizerHandler.Organize)
			pr.Post("/describe-goal", organizerHandler.Describe)
		})
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}
