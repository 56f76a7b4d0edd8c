// Package web wires the HTTP API, the invite page and the live streams.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/salarkhan2003/OLTECH-AI/internal/config"
	accesslog "github.com/salarkhan2003/OLTECH-AI/internal/logger/adapter/fiber"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler"
	oidchandler "github.com/salarkhan2003/OLTECH-AI/internal/web/handler/auth/oidc"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/dashboard"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/document"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/group"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/join"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/login"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/logout"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/profile"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/project"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/stream"
	"github.com/salarkhan2003/OLTECH-AI/internal/web/handler/task"
	authmiddleware "github.com/salarkhan2003/OLTECH-AI/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"

	// bodySlack leaves room for multipart framing around the largest upload.
	bodySlack = 1 << 20
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address and blocks until it stops.
func (s *Service) Start(addr string) error {
	if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err //nolint:wrapcheck
	}

	return nil
}

// WaitShutdown waits until ctx is done and then shuts the server down gracefully.
func (s *Service) WaitShutdown(ctx context.Context) {
	<-ctx.Done()
	log.Info().Msg("shutdown requested")

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive answers 200 while serving and 503 while shutting down.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

// New creates a new web service. The session store must be initialized before.
func New(deps *handler.Deps) (*Service, error) {
	if deps == nil || deps.Cfg == nil || deps.Workspace == nil {
		return nil, errors.New(handler.ErrNilACDFatalLogMsg)
	}

	cfg := deps.Cfg

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	title := cfg.Title
	if title == "" {
		title = "OLTECH"
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
			BodyLimit:      int(cfg.Workspace.MaxUploadSize) + bodySlack,
		},
	)

	s := &Service{App: app, cfg: cfg, fastShutDown: cfg.DevMode}
	s.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		UserLocal:     handler.LocalUID,
	}))

	if cfg.Webserver.CookieEncryptionKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Webserver.CookieEncryptionKey}))
	}

	app.Get(CheckAlivePath, s.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// public routes first, the API group below guards everything else under /api
	public := []handler.Service{&join.Handler, &login.Handler, &logout.Handler, &oidchandler.Handler}
	for _, h := range public {
		if err := h.Init(app, deps); err != nil {
			return nil, err
		}
	}

	api := app.Group(handler.APIPath, authmiddleware.Middleware)

	private := []handler.Service{
		&profile.Handler, &group.Handler, &project.Handler, &task.Handler,
		&document.Handler, &dashboard.Handler, &stream.Handler,
	}
	for _, h := range private {
		if err := h.Init(api, deps); err != nil {
			return nil, err
		}
	}

	return s, nil
}
