package main

import (
	"context"
	"errors"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"viewtuber/internal/auth"
	"viewtuber/internal/config"
	"viewtuber/internal/credential"
	"viewtuber/internal/http"
	"viewtuber/internal/invite"
	"viewtuber/internal/publish"
	"viewtuber/internal/repository/postgres"
	"viewtuber/internal/storage/s3"
	"viewtuber/internal/upload"
	"viewtuber/pkg/mailer"
	"viewtuber/pkg/mailer/providers"

	"github.com/joho/godotenv"
)

const (
	envFilePath      = ".env"
	signalBufferSize = 1
	logOutputFlags   = log.LstdFlags | log.Lshortfile
)

var shutdownSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(logOutputFlags)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Configuration loaded successfully")

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connection established")

	userRepo := postgres.NewUserRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	memberRepo := postgres.NewMemberRepository(db)
	videoRepo := postgres.NewVideoRepository(db)

	s3Client, err := s3.NewClient(&cfg.AWS)
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	log.Println("S3 client initialized")

	emailService, err := mailer.NewEmailService(mailer.EmailServiceConfig{
		Providers: []providers.EmailProvider{
			providers.NewResendProvider(providers.ResendConfig{APIKey: cfg.Mail.ResendAPIKey}),
		},
		DefaultFrom: cfg.Mail.FromAddress,
	})
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	notifier, err := invite.NewEmailNotifier(emailService)
	if err != nil {
		log.Fatalf("Failed to initialize email templates: %v", err)
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)
	googleService := auth.NewGoogleService(&cfg.Google, cfg.App.BaseURL, userRepo)
	authMiddleware := auth.NewMiddleware(jwtService)

	inviteService := invite.NewService(projectRepo, memberRepo, notifier, cfg.App.BaseURL, cfg.App.InviteExpiry)
	coordinator := upload.NewCoordinator(s3Client, videoRepo, cfg.App.PartURLExpiry)
	credentials := credential.NewCache(credential.NewGoogleRefresher(&cfg.Google), userRepo)
	youtubeClient := publish.NewYouTubeClient()
	publisher := publish.NewPublisher(videoRepo, projectRepo, userRepo, credentials, s3Client, youtubeClient)

	serverDeps := &http.ServerDependencies{
		Config:         cfg,
		DB:             db,
		UserRepo:       userRepo,
		ProjectRepo:    projectRepo,
		MemberRepo:     memberRepo,
		VideoRepo:      videoRepo,
		S3Client:       s3Client,
		JWTService:     jwtService,
		GoogleService:  googleService,
		AuthMiddleware: authMiddleware,
		InviteService:  inviteService,
		Notifier:       notifier,
		Coordinator:    coordinator,
		Credentials:    credentials,
		Publisher:      publisher,
		YouTube:        youtubeClient,
	}

	server := http.NewServer(serverDeps)

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := server.Start(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, signalBufferSize)
	signal.Notify(quit, shutdownSignals...)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
