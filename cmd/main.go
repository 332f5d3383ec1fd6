package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	restctx "github.com/rumazq/fintrack-server/internal/api/rest/context"
	"github.com/rumazq/fintrack-server/internal/api/rest/router"
	"github.com/rumazq/fintrack-server/internal/api/rest/server"
	"github.com/rumazq/fintrack-server/internal/assistant"
	"github.com/rumazq/fintrack-server/internal/config"
	"github.com/rumazq/fintrack-server/internal/logger"
	"github.com/rumazq/fintrack-server/internal/model"
	"github.com/rumazq/fintrack-server/internal/repository/postgres"
	"github.com/rumazq/fintrack-server/internal/security"
	"github.com/rumazq/fintrack-server/internal/service"
	storage "github.com/rumazq/fintrack-server/internal/storage/minio"
	"github.com/rumazq/fintrack-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	incomeRepo := postgres.NewIncomeRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	chatRepo := postgres.NewChatRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	tokenManager := token.NewJWT(cfg.JWT.Secret)
	hasher := security.NewBcryptHasher(0)

	tokenService := service.NewToken(tokenManager, refreshTokenRepo, logger)
	authService := service.NewAuth(userRepo, hasher, tokenService, storageClient, logger)
	transactionService := service.NewTransaction(incomeRepo, expenseRepo, logger)
	dashboardService := service.NewDashboard(userRepo, incomeRepo, expenseRepo, logger)
	chatService := service.NewChat(chatRepo, newAssistant(cfg, logger), dashboardService, logger)

	ctxMgr := restctx.NewManager()

	r := router.New(
		authService,
		tokenService,
		transactionService,
		dashboardService,
		chatService,
		storageClient,
		ctxMgr,
		cfg.HTTP.AllowedOrigins,
		logger,
	)

	var opts []server.Option
	if cfg.HTTP.EnableHTTPS {
		opts = append(opts, server.WithTLS(cfg.HTTP.CertFileName, cfg.HTTP.KeyFileName))
	}
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), opts...)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func newAssistant(cfg *config.Config, logger *logger.Logger) model.Assistant {
	switch cfg.Assistant.Strategy {
	case "gemini":
		logger.Info("using gemini assistant", "model", cfg.Assistant.GeminiModel)
		return assistant.NewGemini(cfg.Assistant.GeminiAPIKey, cfg.Assistant.GeminiModel, cfg.Assistant.GeminiTimeout)
	default:
		logger.Info("using keyword assistant")
		return assistant.NewKeyword()
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
