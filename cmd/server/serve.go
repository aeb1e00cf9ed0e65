package main

import (
	"context"
	"fmt"

	"dovakin0007.com/notes-moderation/internal/auth"
	"dovakin0007.com/notes-moderation/internal/config"
	"dovakin0007.com/notes-moderation/internal/database"
	"dovakin0007.com/notes-moderation/internal/database/gormstore"
	"dovakin0007.com/notes-moderation/internal/database/memstore"
	"dovakin0007.com/notes-moderation/internal/events"
	"dovakin0007.com/notes-moderation/internal/httpapi"
	"dovakin0007.com/notes-moderation/internal/metrics"
	"dovakin0007.com/notes-moderation/internal/notes"
	"dovakin0007.com/notes-moderation/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func openStore(ctx context.Context, cfg config.Config) (database.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverGorm:
		s, err := gormstore.Connect(cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		db, err := database.Connect(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

func newPublisher(cfg config.Config, log zerolog.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info().Msg("no KAFKA_BROKERS set, note events are discarded")
		return events.Nop{}
	}
	log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing note events to kafka")
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	signer, err := auth.NewSigner(cfg.TokenSecret, cfg.TokenIssuer)
	if err != nil {
		return err
	}
	publisher := newPublisher(cfg, log)
	defer publisher.Close()

	m := metrics.New()
	svc := notes.NewService(store, notes.Options{
		RequireApproval:      cfg.RequireApproval,
		LockPublishedContent: cfg.LockPublishedContent,
		PageSize:             cfg.PageSize,
		PublicPageSize:       cfg.PublicPageSize,
		Publisher:            publisher,
		Metrics:              m,
		Logger:               log,
	})

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Deps{Service: svc, Signer: signer, Metrics: m, Logger: log})

	servers := []server.Server{
		server.NewGrpcServer(cfg.GRPCPort, cfg.Consul.ServiceName, svc, signer, m, log),
		httpapi.NewServer(cfg.HTTPPort, router, cfg.ShutdownTimeout, log),
	}
	if cfg.Consul.Enabled {
		reg, err := server.NewRegisterServer(cfg.Consul.Address, cfg.Consul.ServiceID, cfg.Consul.ServiceName, cfg.Consul.AdvertiseAddr, cfg.GRPCPort, log)
		if err != nil {
			return fmt.Errorf("consul: %w", err)
		}
		servers = append(servers, reg)
	}
	return server.Start(ctx, log, cfg.ShutdownTimeout, servers...)
}
