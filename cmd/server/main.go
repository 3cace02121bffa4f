package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/getmyagent/marketing-api/configs"
	"github.com/getmyagent/marketing-api/internal/api/handlers"
	"github.com/getmyagent/marketing-api/internal/api/middleware"
	"github.com/getmyagent/marketing-api/internal/graph"
	job "github.com/getmyagent/marketing-api/internal/jobs"
	"github.com/getmyagent/marketing-api/internal/llm"
	"github.com/getmyagent/marketing-api/internal/queue"
	"github.com/getmyagent/marketing-api/internal/repository"
	"github.com/getmyagent/marketing-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	metaAccountRepo := repository.NewMetaAccountRepository(db)
	contentPostRepo := repository.NewContentPostRepository(db)
	contentTemplateRepo := repository.NewContentTemplateRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	graphClient := graph.New(*cfg)
	llmClient := llm.New(cfg.LLM)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	metaService := service.NewMetaService(*cfg, graphClient, metaAccountRepo)
	publishService := service.NewPublishService(*cfg, graphClient, metaAccountRepo, contentPostRepo)
	contentService := service.NewContentService(llmClient, contentPostRepo, contentTemplateRepo, metaAccountRepo)
	mediaService := service.NewMediaService(*cfg)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallbackHandler)

	meta := handlers.NewMetaHandler(metaService, publishService, *cfg)
	app.Get("/auth/meta", meta.LinkAccount)
	app.Get("/auth/meta/callback", meta.CallbackHandler)

	api := app.Group("/api")
	api.Get("/meta/oauth_url", meta.GetOAuthURL)
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	api.Get("/meta/accounts", meta.ListAccounts)
	api.Post("/meta/accounts/disconnect", meta.DisconnectAccount)
	api.Post("/meta/instagram/publish", meta.PublishToInstagram)
	api.Post("/meta/facebook/publish", meta.PublishToFacebook)

	content := handlers.NewContentHandler(contentService, client)
	api.Post("/content/generate", content.GeneratePost)
	api.Post("/content/posts", content.SavePost)
	api.Get("/content/posts", content.ListPosts)
	api.Post("/content/posts/schedule", content.SchedulePost)
	api.Get("/content/templates", content.ListTemplates)
	api.Post("/content/templates", content.SaveTemplate)

	media := handlers.NewMediaHandler(mediaService)
	api.Post("/media/upload", media.Upload)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.CreateApiKey)
	api.Get("/api_key/list", apiKeys.ListKeys)
	api.Post("/api_key/remove", apiKeys.RemoveAPIKey)

	// cron jobs
	tokenCheckJob := job.NewTokenCheckJob(*cfg, metaAccountRepo, graphClient)

	// queue
	queueW := queue.NewQueue(contentPostRepo, metaAccountRepo, publishService)

	c := cron.New()
	c.AddFunc("@every 00h30m00s", tokenCheckJob.CheckTokens)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishPost, queueW.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
