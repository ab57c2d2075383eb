package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campus-dashboard/internal/api"
	"campus-dashboard/internal/cart"
	"campus-dashboard/internal/config"
	"campus-dashboard/internal/guard"
	apphttp "campus-dashboard/internal/http"
	"campus-dashboard/internal/mirror"
	"campus-dashboard/internal/repository/sqlite"
	"campus-dashboard/internal/routes"
	"campus-dashboard/internal/session"
	"campus-dashboard/internal/storage"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if cfg.Backend.BaseURL == "" {
		logger.Fatalf("backend base url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	kv := sqlite.NewKeyValueRepository(db)
	if err := kv.Init(ctx); err != nil {
		logger.Fatalf("init client storage: %v", err)
	}

	// The client and the session store reference each other: the client
	// reads the token from the store, the store issues calls through the
	// client. Late-bind the token lookup to break the cycle.
	var sessions *session.Store
	backend := api.NewClient(api.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		Token: func() string {
			if sessions == nil {
				return ""
			}
			return sessions.Token()
		},
		Logger: logger,
	})
	sessions = session.New(backend, kv, logger)

	if err := sessions.Restore(ctx); err != nil {
		logger.Warnf("restore session: %v", err)
	}

	carts := cart.New(kv, logger)
	if err := carts.Restore(ctx); err != nil {
		logger.Warnf("restore cart: %v", err)
	}

	table := routes.Default()
	routeGuard := guard.New(sessions, table, guard.Policy{
		AllowReregister: cfg.Auth.AllowReregister,
		AdminLanding:    cfg.Admin.LandingRoute,
	})

	var mediaMirror mirror.Manager
	if cfg.Mirror.Bucket != "" {
		storageSvc, err := buildStorage(ctx, cfg)
		if err != nil {
			logger.Fatalf("setup media mirror: %v", err)
		}
		mediaMirror = mirror.NewManager(mirror.Config{
			Bucket:    cfg.Mirror.Bucket,
			KeyPrefix: cfg.Mirror.KeyPrefix,
			Logger:    logger,
		}, storageSvc)
		if err := mediaMirror.Start(ctx); err != nil {
			logger.Fatalf("start media mirror: %v", err)
		}
		logger.Infof("mirroring media to s3 bucket %s (region %s)", cfg.Mirror.Bucket, cfg.Mirror.Region)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(sessions, carts, backend, routeGuard, table, mediaMirror, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("dashboard listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	if mediaMirror != nil {
		mediaMirror.Shutdown()
	}

	logger.Info("bye")
}

func buildStorage(ctx context.Context, cfg config.Config) (storage.Service, error) {
	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Mirror.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Mirror.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Mirror.Endpoint)
			o.UsePathStyle = true
		}
	})
	return storage.NewS3Service(client), nil
}
