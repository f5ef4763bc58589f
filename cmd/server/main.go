package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/family-travel-blog/internal/config"     // Internal config loader
	"github.com/iliyamo/family-travel-blog/internal/credstore"  // Static credential store
	"github.com/iliyamo/family-travel-blog/internal/database"   // MySQL connection helper
	"github.com/iliyamo/family-travel-blog/internal/handler"    // HTTP handlers
	"github.com/iliyamo/family-travel-blog/internal/middleware" // Cache and rate limit middleware
	"github.com/iliyamo/family-travel-blog/internal/queue"      // Publish-event consumer
	"github.com/iliyamo/family-travel-blog/internal/repository" // Data access layer
	"github.com/iliyamo/family-travel-blog/internal/router"     // Route registration
	"github.com/iliyamo/family-travel-blog/internal/storage"    // Media object store
	"github.com/iliyamo/family-travel-blog/internal/templates"  // Template registry
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	// Connect to MySQL and fail fast when the database is unreachable.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Load the static credential file. The file is the only source of
	// accounts; a bad file is a configuration error worth dying for.
	users, err := credstore.Load(cfg.UsersFile)
	if err != nil {
		log.Fatalf("credstore: %v", err)
	}
	log.Printf("credstore: loaded %d users from %s", users.Len(), cfg.UsersFile)

	// Media objects are stored on local disk; the handlers only ever
	// persist the returned references.
	media, err := storage.NewDiskStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	// Redis powers the response cache and login rate limiting. A nil
	// client disables both; the blog stays fully functional without it.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis: unavailable, cache and rate limiting disabled")
	}
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	loginLimiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Repositories and handlers.
	posts := repository.NewPostRepo(db)
	content := repository.NewContentRepo(db)
	reg := templates.NewRegistry()

	authH := handler.NewAuthHandler(cfg, users)
	postH := handler.NewPostHandler(posts, content)
	tmplH := handler.NewTemplateHandler(reg)
	contribH := handler.NewContributorHandler(posts, content, media, reg)

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, loginLimiter)
	router.RegisterPosts(e, postH, tmplH, cfg.JWTSecret, cacheMW)
	router.RegisterContributor(e, contribH, cfg.JWTSecret)

	// Uploaded media is served statically; the API stores only URLs.
	e.Static(cfg.MediaBaseURL, cfg.MediaDir)

	// Consume post.published events in the background; the loop
	// reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartPublishConsumer(); err != nil {
			log.Printf("publish-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
