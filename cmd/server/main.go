package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pawlingo/pawlingo-server/internal/api"
	"github.com/pawlingo/pawlingo-server/internal/assistant"
	"github.com/pawlingo/pawlingo-server/internal/auth"
	"github.com/pawlingo/pawlingo-server/internal/config"
	"github.com/pawlingo/pawlingo-server/internal/llm"
	"github.com/pawlingo/pawlingo-server/internal/notify"
	"github.com/pawlingo/pawlingo-server/internal/session"
	"github.com/pawlingo/pawlingo-server/internal/ws"
)

func main() {
	// Log to both file and console
	logFile, err := os.OpenFile("server.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()
	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg := config.Load()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	auth.InitJWTKey([]byte(cfg.JWTSecret))

	// Session store: file (default), redis or postgres
	store, err := session.NewStore(session.StoreType(cfg.SessionStore), session.Options{
		FilePath:    cfg.SessionFile,
		RedisAddr:   cfg.RedisAddr,
		RedisDB:     cfg.RedisDB,
		PostgresURL: cfg.PostgresURL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	defer store.Close()
	log.Printf("Session store initialized (%s)", cfg.SessionStore)

	// Notification hub pushes toast events to connected clients;
	// outcomes are also logged server-side.
	hub := ws.NewHub()
	go hub.Run()
	notifier := notify.Multi{notify.NewLogNotifier("notify"), hub}

	authService := auth.NewService(store, notifier,
		&auth.GoogleProvider{Delay: cfg.LoginDelay},
		&auth.EmailProvider{Delay: cfg.LoginDelay},
		&auth.MetaMaskProvider{Delay: cfg.LoginDelay},
	)
	if err := authService.Hydrate(context.Background()); err != nil {
		log.Printf("Warning: session hydration failed: %v", err)
	}

	transport := llm.NewTransport(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, notifier)
	if !transport.HasCredential() {
		log.Println("No OPENAI_API_KEY configured, assistant will use canned fallback responses")
	}
	controller := assistant.NewController(transport)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authHandler := api.NewAuthHandler(authService)
	assistantHandler := api.NewAssistantHandler(controller)

	// Public routes
	router.POST("/api/auth/login", authHandler.Login)
	router.GET("/api/assistant/suggestions", assistantHandler.GetSuggestions)

	// Protected routes: only reachable with an authenticated session
	authorized := router.Group("/api")
	authorized.Use(api.AuthMiddleware())
	{
		authorized.GET("/auth/me", authHandler.GetMe)
		authorized.POST("/auth/logout", authHandler.Logout)
		authorized.PUT("/profile", authHandler.UpdateProfile)

		authorized.POST("/assistant/messages", assistantHandler.SendMessage)
		authorized.GET("/assistant/messages", assistantHandler.GetHistory)
		authorized.POST("/assistant/attachment", assistantHandler.StageAttachment)
		authorized.DELETE("/assistant/attachment", assistantHandler.ClearAttachment)

		authorized.GET("/ws", hub.HandleWebSocket)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}
