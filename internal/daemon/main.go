// Package daemon assembles the workspace service from its configuration and runs it.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/salarkhan2003/OLTECH-AI/internal/auth"
	"github.com/salarkhan2003/OLTECH-AI/internal/blob"
	"github.com/salarkhan2003/OLTECH-AI/internal/config"
	"github.com/salarkhan2003/OLTECH-AI/internal/db"
	"github.com/salarkhan2003/OLTECH-AI/internal/db/dsn"
	"github.com/salarkhan2003/OLTECH-AI/internal/realtime"
	"github.com/salarkhan2003/OLTECH-AI/internal/web"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/session"
	"github.com/salarkhan2003/OLTECH-AI/internal/workspace"
)

const sessionTable = "sessions"

// ErrNilConfig is returned by New without a configuration.
var ErrNilConfig = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	workspace  *workspace.Service
	webService *web.Service
}

// New creates a new Daemon instance with the provided configuration.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, err //nolint:wrapcheck
	}

	blobs, err := blobStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ws := workspace.New(gdb, blobs, realtime.NewHub(),
		workspace.WithJoinCodeAttempts(cfg.Workspace.JoinCodeAttempts),
		workspace.WithMaxUploadSize(cfg.Workspace.MaxUploadSize),
	)

	session.Init(sessionStorage(cfg))

	deps := &handler.Deps{Cfg: cfg, Workspace: ws}

	if cfg.Auth.Local.Enabled {
		deps.Local = auth.NewLocalProvider(gdb)
	}

	if cfg.Auth.OIDC.Enabled {
		// an unreachable provider disables OIDC sign in but keeps the service up
		deps.OIDC, err = auth.NewOIDCProvider(ctx, &auth.OIDCConfig{
			Enabled:      true,
			ProviderURL:  cfg.Auth.OIDC.ProviderURL,
			ClientID:     cfg.Auth.OIDC.ClientID,
			ClientSecret: cfg.Auth.OIDC.ClientSecret,
			RedirectURL:  cfg.Auth.OIDC.RedirectURL,
			Scopes:       cfg.Auth.OIDC.Scopes,
		})
		if err != nil {
			log.Error().Err(err).Str("provider", cfg.Auth.OIDC.ProviderURL).Msg("oidc sign in disabled")
		}
	}

	webService, err := web.New(deps)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Daemon{
		cfg:        cfg,
		db:         gdb,
		workspace:  ws,
		webService: webService,
	}, nil
}

// Start runs the web service and the document sweeper until SIGINT or SIGTERM.
func (d *Daemon) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go d.sweep(ctx)
	go d.webService.WaitShutdown(ctx)

	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)
	log.Info().Str("addr", addr).Str("url", d.cfg.Webserver.URL).Msg("starting web service")

	return d.webService.Start(addr)
}

func blobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	if cfg.Storage.Driver != config.StorageMinio {
		log.Warn().Msg("documents are kept in memory and lost on restart")
		return blob.NewMemory(""), nil
	}

	m, err := blob.NewMinio(blob.MinioConfig{
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UseSSL:          cfg.Storage.UseSSL,
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		PublicURL:       cfg.Storage.PublicURL,
		URLExpiry:       cfg.Storage.URLExpiry,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = m.EnsureBucket(ctx); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return m, nil
}

// sessionStorage keeps sessions next to the workspace data. sqlite falls back to memory.
func sessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	default:
		return nil
	}
}
