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

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/keyfleet/sftp-provisioner/internal/api/http/router"
	httpServer "github.com/keyfleet/sftp-provisioner/internal/api/http/server"
	"github.com/keyfleet/sftp-provisioner/internal/config"
	"github.com/keyfleet/sftp-provisioner/internal/logger"
	"github.com/keyfleet/sftp-provisioner/internal/manifest"
	"github.com/keyfleet/sftp-provisioner/internal/model"
	"github.com/keyfleet/sftp-provisioner/internal/repository/postgres"
	"github.com/keyfleet/sftp-provisioner/internal/server"
	"github.com/keyfleet/sftp-provisioner/internal/service"
	storage "github.com/keyfleet/sftp-provisioner/internal/storage/minio"
	"github.com/keyfleet/sftp-provisioner/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

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

	accountRepo := postgres.NewAccountRepository(db)
	credentialRepo := postgres.NewCredentialRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	provisioner := service.NewProvisioner(accountRepo, credentialRepo, storageClient, logger.Component("provisioner"), cfg.Provision.HomeDirBase)

	if cfg.Provision.ManifestPath != "" {
		users, err := manifest.Load(cfg.Provision.ManifestPath)
		if err != nil {
			logger.Fatal("failed to load manifest", "path", cfg.Provision.ManifestPath, "error", err)
		}
		plan, err := provisioner.Reconcile(ctx, users)
		if err != nil {
			logger.Fatal("startup reconcile failed", "error", err)
		}
		logger.Info("startup reconcile complete",
			"accounts_created", len(plan.CreateAccounts),
			"accounts_deleted", len(plan.DeleteAccounts),
			"credentials_created", len(plan.CreateCredentials),
			"credentials_deleted", len(plan.DeleteCredentials))
	}

	r := router.New(provisioner, db, tokenManager, logger)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer

	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
