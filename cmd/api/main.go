package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"roomlink/internal/adapter/api"
	"roomlink/internal/adapter/api/handler"
	apimiddleware "roomlink/internal/adapter/api/middleware"
	"roomlink/internal/adapter/api/router"
	"roomlink/internal/adapter/repository"
	fbinfra "roomlink/internal/infrastructure/firebase"
	"roomlink/internal/infrastructure/session"
	"roomlink/internal/infrastructure/storage"
	"roomlink/internal/usecase"
	"roomlink/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	credentialsPath := ""

	// Service account JSON from the environment wins (production); a file
	// path is the local-development fallback.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		credentialsPath = os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if credentialsPath == "" {
			credentialsPath = "./service-account.json"
		}
		if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", credentialsPath)
		}
		opt = option.WithCredentialsFile(credentialsPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, credentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	profileRepo := repository.NewFirestoreProfileRepository(firestoreClient)

	firebaseAuthClient := fbinfra.NewAuthClient(authClient, cfg.FirebaseApiKey)
	viewMarks := session.NewRedisViewMarkerStore(redisClient)

	authUseCase := usecase.NewAuthUseCase(profileRepo, firebaseAuthClient)
	browseRegistry := usecase.NewBrowseRegistry(listingRepo, cfg.BrowsePageSize)
	listingUseCase := usecase.NewListingUseCase(
		listingRepo,
		storageClient,
		viewMarks,
		time.Duration(cfg.DeleteArmWindow)*time.Second,
	)

	handler.Setup(authUseCase, browseRegistry, listingUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(apimiddleware.RequestTimeout(time.Duration(cfg.RequestTimeout) * time.Second))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	authLimiter := apimiddleware.NewRateLimiter(5, time.Minute)

	router.Setup(e, authMiddleware, authLimiter)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
