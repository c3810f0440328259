package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aelexs/listshare-platform/internal/auth"
	"github.com/aelexs/listshare-platform/internal/config"
	"github.com/aelexs/listshare-platform/internal/domain"
	"github.com/aelexs/listshare-platform/internal/dynamo"
	"github.com/aelexs/listshare-platform/internal/listmgmt/adapter"
	"github.com/aelexs/listshare-platform/internal/listmgmt/app"
	"github.com/aelexs/listshare-platform/internal/listmgmt/port"
	"github.com/aelexs/listshare-platform/internal/redis"
	"github.com/aelexs/listshare-platform/internal/server"
)

// setup is the listmgmt service composition root. It creates infrastructure
// clients, adapters, the list service, and registers the HTTP handlers.
func setup(ctx context.Context, deps server.SetupDeps) (server.CleanupFunc, error) {
	cfg := deps.Config
	logger := deps.Logger

	// 1. Infrastructure clients.
	dynamoClient, err := dynamo.NewClient(ctx, dynamo.Config{
		Endpoint: cfg.DynamoDB.Endpoint,
		Region:   cfg.AWS.Region,
		Timeout:  cfg.DynamoDB.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("listmgmt setup: create dynamo client: %w", err)
	}

	redisClient := redis.NewClient(redis.Config{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
	})

	// 2. Adapters.
	clock := domain.RealClock{}
	userStore := adapter.NewUserStore(dynamoClient.DB, cfg.ListMgmt.UsersTable)
	listStore := adapter.NewListStore(dynamoClient.DB, cfg.ListMgmt.ListsTable)
	eventBus := adapter.NewEventBus(redisClient.RDB)

	// 3. Key store + token minting.
	keyStore, err := createKeyStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("listmgmt setup: create key store: %w", err)
	}

	minter := auth.NewMinter(auth.MinterConfig{
		KeyStore:  keyStore,
		AccessTTL: cfg.Auth.AccessTTL,
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
		Clock:     clock,
	})

	// 4. Core service.
	svc := app.NewService(app.ServiceConfig{
		UserStore: userStore,
		ListStore: listStore,
		Events:    eventBus,
		Minter:    minter,
		Clock:     clock,
		Logger:    logger,
	})

	// 5. HTTP handlers. Account routes stay open so register and login
	// work; the list routes go behind bearer auth when required.
	mux := deps.Mux
	port.NewUserHandler(svc, logger).Mount(mux)

	subscribe := func(ctx context.Context, listID string) (<-chan app.Envelope, func() error, error) {
		sub, err := eventBus.Subscribe(ctx, listID)
		if err != nil {
			return nil, nil, err
		}
		return sub.Events(), sub.Close, nil
	}

	listMux := mux
	if cfg.Auth.Required {
		validator := auth.NewValidator(auth.ValidatorConfig{
			KeyStore: keyStore,
			Issuer:   cfg.Auth.Issuer,
			Audience: cfg.Auth.Audience,
			Clock:    clock,
		})
		listMux = http.NewServeMux()
		guarded := port.RequireAuth(validator, logger, listMux)
		mux.Handle("/v1/lists", guarded)
		mux.Handle("/v1/lists/", guarded)
	}
	port.NewListHandler(svc, logger).Mount(listMux)
	port.NewEventsHandler(subscribe, logger).Mount(listMux)

	logger.InfoContext(ctx, "listmgmt service initialized")

	cleanup := func(_ context.Context) error {
		// Await in-flight membership propagation before dropping the bus.
		svc.Wait()
		if err := eventBus.Close(); err != nil {
			return err
		}
		return redisClient.Close()
	}

	return cleanup, nil
}

// createKeyStore returns the appropriate key store for the environment.
// Local and dev use an ephemeral RSA key pair; tokens do not survive a
// restart. Production key loading from a secrets manager is not wired.
func createKeyStore(cfg *config.Config, logger *slog.Logger) (auth.KeyStore, error) {
	keyStore, err := auth.NewEphemeralKeyStore()
	if err != nil {
		return nil, err
	}
	if !cfg.IsLocal() {
		logger.Warn("using ephemeral signing key outside local environment; minted tokens will not survive restarts")
	}
	return keyStore, nil
}
