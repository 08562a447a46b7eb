// Postboard-API serves the feed, posting and profile endpoints for the mobile
// app.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/afero"
	_ "golang.org/x/crypto/x509roots/fallback"

	"github.com/jdholdren/postboard/internal/api"
	"github.com/jdholdren/postboard/internal/database"
	"github.com/jdholdren/postboard/internal/logger"
	"github.com/jdholdren/postboard/internal/objstore"
)

type config struct {
	BackendURL     string `env:"BACKEND_URL, required"`
	ServiceRoleKey string `env:"SERVICE_ROLE_KEY"`
	LoggerFormat   string `env:"LOGGER_FORMAT, default=text"`

	Port           int    `env:"PORT, default=4444"`
	HTTPSCookies   bool   `env:"HTTPS_COOKIES, default=false"`
	CookieHashKey  string `env:"COOKIE_HASH_KEY, required"`
	CookieBlockKey string `env:"COOKIE_BLOCK_KEY, required"`
	CorsOrigin     string `env:"CORS_ORIGIN, default=http://localhost:8081"`
	DebugEndpoints bool   `env:"DEBUG_ENDPOINTS, default=false"`

	StorageKind      string `env:"STORAGE_KIND, default=local"`
	StorageBucket    string `env:"STORAGE_BUCKET, default=post-photos"`
	StorageDir       string `env:"STORAGE_DIR, default=./uploads"`
	StoragePublicURL string `env:"STORAGE_PUBLIC_URL, default=http://localhost:4444/uploads"`
	AWSRegion        string `env:"AWS_REGION, default=us-east-1"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
}

func main() {
	ctx := context.Background()

	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	slog.SetDefault(logger.New(os.Stderr, cfg.LoggerFormat, slog.LevelInfo))

	dbx, dialect, err := database.Open(ctx, cfg.BackendURL, cfg.ServiceRoleKey)
	if err != nil {
		log.Fatalf("error opening database: %s", err)
	}
	defer dbx.Close()

	if err := database.RunMigrations(dbx, dialect); err != nil {
		log.Fatalf("error running migrations: %s", err)
	}

	images, uploads, err := imageStorage(cfg)
	if err != nil {
		log.Fatalf("error configuring image storage: %s", err)
	}

	srvr := api.NewServer(api.ServerConfig{
		Port:           cfg.Port,
		CookieHashKey:  []byte(cfg.CookieHashKey),
		CookieBlockKey: []byte(cfg.CookieBlockKey),
		HTTPSCookies:   cfg.HTTPSCookies,
		CorsOrigin:     cfg.CorsOrigin,
		UploadsHandler: uploads,
		DebugEndpoints: cfg.DebugEndpoints,
	}, database.New(dbx, dialect), images)

	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	g.Add(func() error {
		slog.Info("starting api server", "port", cfg.Port, "dialect", dialect, "storage", cfg.StorageKind)
		if err := srvr.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		if err := srvr.Shutdown(context.Background()); err != nil {
			slog.Error("error shutting down api server", "err", err)
		}
	})

	if err := g.Run(); err != nil {
		var sig run.SignalError
		if errors.As(err, &sig) {
			slog.Info("shutting down", "signal", sig.Signal.String())
			return
		}
		log.Fatalf("error running api server: %s", err)
	}
}

// imageStorage picks where uploaded photos go. Local storage also returns the
// handler that serves them back.
func imageStorage(cfg config) (objstore.Storage, http.Handler, error) {
	switch cfg.StorageKind {
	case "s3":
		s, err := objstore.NewS3(objstore.S3Config{
			Region:    cfg.AWSRegion,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.StorageBucket,
			PublicURL: cfg.StoragePublicURL,
		})
		return s, nil, err
	case "local":
		osFs := afero.NewOsFs()
		if err := osFs.MkdirAll(cfg.StorageDir, 0o755); err != nil {
			return nil, nil, err
		}
		fs := afero.NewBasePathFs(osFs, cfg.StorageDir)
		return objstore.NewLocal(fs, cfg.StoragePublicURL), http.FileServer(afero.NewHttpFs(fs)), nil
	default:
		return nil, nil, errors.New("unknown STORAGE_KIND " + cfg.StorageKind)
	}
}
