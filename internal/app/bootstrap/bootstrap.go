package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hugomepuich/playafterlife-sub001/internal/auth"
	"github.com/hugomepuich/playafterlife-sub001/internal/config"
	"github.com/hugomepuich/playafterlife-sub001/internal/content"
	"github.com/hugomepuich/playafterlife-sub001/internal/db"
	apphttp "github.com/hugomepuich/playafterlife-sub001/internal/http"
	"github.com/hugomepuich/playafterlife-sub001/internal/upload"
)

type Dependencies struct {
	Config    *config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
	Version   string
}

type Result struct {
	Repository *content.GormRepository
	HTTPServer *apphttp.Server
	Database   *gorm.DB
	Cleanup    func() error
}

// Build composes the companion site API and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	if deps.Config == nil {
		return Result{}, eris.New("config is required")
	}
	cfg := deps.Config

	database, err := OpenDatabase(cfg, deps.Logger)
	if err != nil {
		return Result{}, err
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := db.Close(database); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	if err := content.Migrate(ctx, database, deps.Logger); err != nil {
		return closeOnError(eris.Wrap(err, "running content migrations"))
	}

	repo, err := content.NewRepository(database, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating content repository"))
	}

	tokens, err := auth.NewTokens(auth.TokenOptions{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating session tokens"))
	}

	store, err := NewUploadStore(cfg)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating upload store"))
	}

	uploads, err := upload.NewService(store, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating upload service"))
	}

	httpServer, err := apphttp.NewServer(apphttp.Options{
		Repository:     repo,
		Tokens:         tokens,
		Uploads:        uploads,
		UploadMaxBytes: cfg.UploadMaxBytes,
		Logger:         deps.Logger,
		SentryHub:      deps.SentryHub,
		RateLimiter: apphttp.RateLimiterSettings{
			Burst:             cfg.RateLimit.Burst,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		},
		Production:       cfg.IsProduction(),
		StrictListErrors: cfg.StrictListErrors,
		Version:          deps.Version,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return db.Close(database)
	}

	return Result{
		Repository: repo,
		HTTPServer: httpServer,
		Database:   database,
		Cleanup:    cleanup,
	}, nil
}

// OpenDatabase connects to the configured driver with Gorm output routed through logger.
func OpenDatabase(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	database, err := db.Open(db.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DatabaseURL,
		Logger: db.NewLogger(logger),
	})
	if err != nil {
		return nil, eris.Wrap(err, "opening database")
	}
	return database, nil
}

// NewUploadStore selects the upload backend named by STORAGE_BACKEND.
func NewUploadStore(cfg *config.Config) (upload.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageMinIO:
		store, err := upload.NewMinIOStore(upload.MinIOOptions{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "", config.StorageLocal:
		store, err := upload.NewLocalStore(cfg.PublicDir)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, eris.Errorf("unsupported storage backend: %s", cfg.StorageBackend)
	}
}
