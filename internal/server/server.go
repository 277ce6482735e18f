package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"certificate-generator/certificate-api/internal/certificates"
	"certificate-generator/certificate-api/internal/config"
	"certificate-generator/certificate-api/internal/middleware"
	"certificate-generator/certificate-api/internal/retention"
	"certificate-generator/certificate-api/pkg/storage"
)

// OpenStore builds the configured storage backend
func OpenStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "", "local":
		store, err := storage.NewLocalStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Prefix:          cfg.S3.Prefix,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NewSweeper builds the retention sweeper from configuration
func NewSweeper(store storage.Store, cfg config.RetentionConfig, logger *zap.Logger) *retention.Sweeper {
	return retention.NewSweeper(store, retention.Config{
		TTL:      cfg.TTL.Std(),
		Schedule: cfg.Schedule,
	}, logger)
}

// Server owns the HTTP router and the background components it needs
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   storage.Store
	router  *gin.Engine
	limiter *middleware.RateLimiter
	sweeper *retention.Sweeper
	http    *http.Server
}

// New wires storage, the certificate service and the router
func New(cfg *config.Config, store storage.Store, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(middleware.Recovery(logger), middleware.RequestLogger(logger), middleware.CORS(cfg.CORS.AllowOrigins))

	registry := certificates.NewRegistry(logger)
	renderer := certificates.NewRenderer(registry, store, certificates.RendererConfig{
		PageSize:            cfg.Certificates.PageSize,
		Compress:            cfg.Certificates.Compress,
		Author:              cfg.Certificates.Author,
		DefaultOrganization: cfg.Certificates.DefaultOrganization,
	}, logger)
	service := certificates.NewService(renderer, registry, store, certificates.Defaults{
		Style:    certificates.Style(cfg.Certificates.DefaultStyle),
		Template: certificates.TemplateType(cfg.Certificates.DefaultTemplate),
	}, logger)
	handler := certificates.NewHandler(service, logger)

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		router:  router,
		sweeper: NewSweeper(store, cfg.Retention, logger),
	}

	var generate []gin.HandlerFunc
	if cfg.RateLimit.RequestsPerSecond > 0 {
		s.limiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			IdleTimeout:       cfg.RateLimit.IdleTimeout.Std(),
		}, logger)
		generate = append(generate, s.limiter.Middleware())
	}

	api := router.Group("/api")
	{
		handler.RegisterRoutes(api, generate...)
	}

	s.http = &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  cfg.Server.IdleTimeout.Std(),
	}
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start launches the retention sweeper and serves HTTP in the background.
// Listen errors other than a clean shutdown are sent on the returned channel.
func (s *Server) Start(ctx context.Context) (<-chan error, error) {
	if err := s.sweeper.Start(ctx); err != nil {
		return nil, err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("Server started",
		zap.String("addr", s.http.Addr),
		zap.String("storage", s.cfg.Storage.Backend),
	)
	return errCh, nil
}

// Shutdown drains HTTP connections and stops background work
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.sweeper.Stop()
	if s.limiter != nil {
		s.limiter.Stop()
	}
	return err
}
