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
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/Quadrial/Quad-Harvest-Backend/internal/auth"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/config"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/middleware"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/posts"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/store"
	"github.com/Quadrial/Quad-Harvest-Backend/internal/uploads"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatal("postgres migrate", zap.Error(err))
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("mongo connect", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)
	mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	minioStore, err := store.NewMinioStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatal("minio connect", zap.Error(err))
	}

	// ── Services and handlers ────────────────────────────────
	authSvc := auth.NewService(pgStore, auth.NewGoogleVerifier(cfg.GoogleClientID))
	authHandler := auth.NewHandler(authSvc, sessions, log)

	postSvc := posts.NewService(mongoStore, pgStore)
	postHandler := posts.NewHandler(postSvc, minioStore, log)

	uploadHandler := uploads.NewHandler(pgStore, minioStore, log)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","msg":"Welcome to the Quad-Harvest API!"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/google-login", authHandler.GoogleLogin)
		r.Patch("/forget-password", authHandler.ResetPassword)
		r.Get("/users", authHandler.ListUsers)
		r.Post("/logout", authHandler.Logout)
		r.With(middleware.RequireAuth(auth.SessionCookie, sessions)).Get("/me", authHandler.Me)
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Post("/", postHandler.Create)
		r.Get("/", postHandler.List)
		r.Patch("/{postId}/like", postHandler.Like)
		r.Put("/{postId}/save", postHandler.Save)
		r.Get("/user/{userId}", postHandler.UserPosts)
		r.Get("/saved/{userId}", postHandler.SavedPosts)
	})

	r.Route("/api/uploads", func(r chi.Router) {
		r.Post("/", uploadHandler.UploadProfilePicture)
		r.Get("/{userId}", uploadHandler.GetProfile)
	})

	// Stored media, read-only.
	r.Get("/uploads/*", uploadHandler.Serve)

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
