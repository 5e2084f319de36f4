package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/coursenotes/internal/client/cli"
	"github.com/dmitrijs2005/coursenotes/internal/client/client"
	"github.com/dmitrijs2005/coursenotes/internal/client/config"
	"github.com/dmitrijs2005/coursenotes/internal/client/identity"
	"github.com/dmitrijs2005/coursenotes/internal/client/services"
	"github.com/dmitrijs2005/coursenotes/internal/client/signin"
	"github.com/dmitrijs2005/coursenotes/internal/client/store"
	"github.com/dmitrijs2005/coursenotes/internal/logging"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	durable, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer closeStore()

	sink, err := openSink(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	tokens := store.NewTokenStore(durable)
	// one-tap dismissal lives as long as this process, like a browser tab session
	oneTap := store.NewOneTapFlag(store.NewMemoryStore())

	api := client.NewHTTPClient(cfg.APIBaseURL,
		client.WithTokenSource(tokens),
		client.WithRateLimit(cfg.RequestsPerSecond, cfg.RequestBurst),
		client.WithLogger(logger),
	)

	in := bufio.NewReader(os.Stdin)
	sdk := identity.NewTerminalSDK(in, os.Stdout).WithTerminal(int(os.Stdin.Fd()))
	bridge := identity.NewBridge(sdk, identity.Config{
		ClientID:           cfg.GoogleClientID,
		HostedDomain:       cfg.AllowedDomain,
		AutoSelect:         cfg.OneTapAutoSelect,
		CancelOnTapOutside: cfg.OneTapCancelOnTapOutside,
		Context:            "signin",
	},
		identity.WithInitPolling(cfg.OneTapInitRetries, cfg.OneTapInitInterval),
		identity.WithBridgeLogger(logger),
	)

	presenter := cli.NewPresenter(os.Stdout, bridge)

	var auth services.AuthService
	gate := signin.NewCoordinator(presenter, func() bool { return auth.IsAuthenticated() })

	auth = services.NewAuthService(api, tokens, oneTap, bridge, services.AuthOptions{
		AllowedDomain:       cfg.AllowedDomain,
		SessionCheckTimeout: cfg.SessionCheckTimeout,
		EnableOneTap:        cfg.EnableOneTap && cfg.GoogleClientID != "",
		OnError:             presenter.NotifyError,
		Logger:              logger,
	})
	bridge.OnCredential(auth.HandleCredential)
	api.SetUnauthorizedHook(auth.Invalidate)

	if cfg.GoogleClientID == "" {
		log.Println("google client id is not configured, sign-in is disabled")
	} else if err := bridge.Start(ctx); err != nil {
		log.Printf("sign-in is unavailable: %v", err)
	}

	catalog := services.NewCatalogService(api, sink, logger,
		services.WithVoteGate(gate),
		services.WithVoteNotifier(presenter.Notify),
		services.WithVoteLogger(logger),
	)

	app := cli.NewApp(cli.Deps{
		Auth:     auth,
		Identity: bridge,
		Gate:     gate,
		Catalog:  catalog,
		Users:    services.NewUserService(api, logger),
		Client:   api,
		Store:    durable,
		Reader:   in,
		Out:      os.Stdout,
		Logger:   logger,
	})

	app.Run(ctx)
}

// openStore opens the durable token store selected by the configuration.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		db, err := store.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return store.NewSQLiteStore(db), func() { _ = db.Close() }, nil
	}
}

// openSink returns the download directory, mirrored to S3 when a bucket is
// configured.
func openSink(ctx context.Context, cfg *config.Config, logger logging.Logger) (services.DownloadSink, error) {
	local, err := services.NewLocalSink(cfg.DownloadDir)
	if err != nil {
		return nil, err
	}
	if !cfg.S3Enabled() {
		return local, nil
	}

	st := services.S3Settings{
		Bucket:       cfg.S3Bucket,
		Region:       cfg.S3Region,
		BaseEndpoint: cfg.S3BaseEndpoint,
		AccessKey:    cfg.S3AccessKey,
		SecretKey:    cfg.S3SecretKey,
		Prefix:       cfg.S3Prefix,
		LinkTTL:      cfg.S3LinkTTL,
	}
	s3c, err := services.NewS3Client(ctx, st)
	if err != nil {
		return nil, err
	}
	return services.NewS3Mirror(local, s3c, s3.NewPresignClient(s3c), st, logger), nil
}
