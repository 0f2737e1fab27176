package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/casafix/home-services-backend/pkg/auth"
	"github.com/casafix/home-services-backend/pkg/handlers/chat"
	"github.com/casafix/home-services-backend/pkg/handlers/location"
	"github.com/casafix/home-services-backend/pkg/handlers/orders"
	"github.com/casafix/home-services-backend/pkg/handlers/tokens"
	"github.com/casafix/home-services-backend/pkg/middleware"
	"github.com/casafix/home-services-backend/pkg/realtime"
	"github.com/casafix/home-services-backend/pkg/scheduler"
	dynamostore "github.com/casafix/home-services-backend/pkg/storage/dynamodb"
)

const (
	tokenTTL       = 24 * time.Hour
	reaperInterval = 30 * time.Second
	idleThreshold  = 60 * time.Second
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET environment variable not set")
		os.Exit(1)
	}

	ordersTable := os.Getenv("DYNAMODB_ORDERS_TABLE_NAME")
	messagesTable := os.Getenv("DYNAMODB_MESSAGES_TABLE_NAME")
	locationsTable := os.Getenv("DYNAMODB_LOCATIONS_TABLE_NAME")
	if ordersTable == "" || messagesTable == "" || locationsTable == "" {
		logger.Error("one or more DynamoDB table name environment variables are not set")
		os.Exit(1)
	}

	// AWS Session
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		logger.Error("unable to load SDK config", "error", err)
		os.Exit(1)
	}

	store := dynamostore.New(dynamodb.NewFromConfig(cfg), ordersTable, messagesTable, locationsTable)

	// The expiry scheduler is optional: without a queue, unaccepted orders
	// simply never expire.
	var expiryScheduler scheduler.Scheduler
	if queueURL := os.Getenv("SQS_QUEUE_URL"); queueURL != "" {
		expiryScheduler = scheduler.NewSQSScheduler(sqs.NewFromConfig(cfg), queueURL)
	} else {
		logger.Warn("SQS_QUEUE_URL not set, order expiry checks disabled")
	}

	authManager := auth.NewManager([]byte(jwtSecret), tokenTTL)

	// Realtime hub: one router, one registry, one dispatcher, all injected
	// explicitly.
	topicRouter := realtime.NewRouter()
	registry := realtime.NewRegistry(topicRouter, logger)
	dispatcher := realtime.NewDispatcher(registry, topicRouter, logger)
	wsHandler := realtime.NewHandler(registry, topicRouter, authManager, logger)

	ordersHandler := orders.NewOrdersHandler(store, expiryScheduler, dispatcher)
	chatHandler := chat.NewChatHandler(store, dispatcher)
	locationHandler := location.NewLocationHandler(store, dispatcher)
	tokensHandler := tokens.NewTokensHandler(authManager)

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	registry.StartReaper(reaperCtx, reaperInterval, idleThreshold)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.NewStructuredLogger(logger))
	router.Use(chimiddleware.Recoverer)

	router.Post("/auth/token", tokensHandler.IssueToken)
	router.Handle("/ws", wsHandler)

	router.Group(func(r chi.Router) {
		r.Use(authManager.Middleware)

		r.Post("/orders", ordersHandler.CreateOrder)
		r.Get("/orders/{orderId}", func(w http.ResponseWriter, r *http.Request) {
			ordersHandler.GetOrderById(w, r, chi.URLParam(r, "orderId"))
		})
		r.Post("/orders/{orderId}/accept", func(w http.ResponseWriter, r *http.Request) {
			ordersHandler.AcceptOrder(w, r, chi.URLParam(r, "orderId"))
		})
		r.Patch("/orders/{orderId}/status", func(w http.ResponseWriter, r *http.Request) {
			ordersHandler.UpdateOrderStatus(w, r, chi.URLParam(r, "orderId"))
		})
		r.Get("/users/{userId}/orders", func(w http.ResponseWriter, r *http.Request) {
			ordersHandler.ListOrdersByUserId(w, r, chi.URLParam(r, "userId"))
		})

		r.Post("/orders/{orderId}/messages", func(w http.ResponseWriter, r *http.Request) {
			chatHandler.CreateMessage(w, r, chi.URLParam(r, "orderId"))
		})
		r.Get("/orders/{orderId}/messages", func(w http.ResponseWriter, r *http.Request) {
			chatHandler.ListMessages(w, r, chi.URLParam(r, "orderId"))
		})
		r.Post("/orders/{orderId}/typing", func(w http.ResponseWriter, r *http.Request) {
			chatHandler.Typing(w, r, chi.URLParam(r, "orderId"))
		})

		r.Post("/orders/{orderId}/location", func(w http.ResponseWriter, r *http.Request) {
			locationHandler.UpdateLocation(w, r, chi.URLParam(r, "orderId"))
		})
		r.Get("/orders/{orderId}/location", func(w http.ResponseWriter, r *http.Request) {
			locationHandler.GetLatestLocation(w, r, chi.URLParam(r, "orderId"))
		})
	})

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("starting server", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	stopReaper()
	registry.CloseAll()
}
