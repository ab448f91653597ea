package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/relation-engine/internal/config"
	"github.com/yungbote/relation-engine/internal/data/db"
	"github.com/yungbote/relation-engine/internal/data/repos"
	httpx "github.com/yungbote/relation-engine/internal/http"
	httpH "github.com/yungbote/relation-engine/internal/http/handlers"
	extraction "github.com/yungbote/relation-engine/internal/modules/extraction"
	"github.com/yungbote/relation-engine/internal/observability"
	"github.com/yungbote/relation-engine/internal/platform/envutil"
	"github.com/yungbote/relation-engine/internal/platform/logger"
	"github.com/yungbote/relation-engine/internal/platform/neo4jdb"
	"github.com/yungbote/relation-engine/internal/platform/udparser"
	"github.com/yungbote/relation-engine/internal/realtime/bus"
	"github.com/yungbote/relation-engine/internal/temporalx"
	"github.com/yungbote/relation-engine/internal/temporalx/temporalworker"
)

func main() {
	logMode := envutil.Str("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "relation-engine",
		Environment: envutil.Str("APP_ENV", "development"),
		Version:     envutil.Str("APP_VERSION", "dev"),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres
	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	theDB := pg.DB()

	// Repos
	sections := repos.NewDocumentSectionRepo(theDB, log)
	mentions := repos.NewConceptMentionRepo(theDB, log)
	bundles := repos.NewEvidenceBundleRepo(theDB, log)
	relations := repos.NewSemanticRelationRepo(theDB, log)

	// Optional platform clients; each degrades to nil when unconfigured.
	graphClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("Neo4j init failed; mirror disabled", "error", err)
	}
	if graphClient != nil {
		defer graphClient.Close(context.Background())
	}
	parser, err := udparser.NewFromEnv(log)
	if err != nil {
		log.Warn("UD parser init failed; pre-annotated sections only", "error", err)
	}

	eventBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis event bus unavailable; events disabled", "error", err)
		eventBus = bus.NewNoopBus()
	}
	defer eventBus.Close()

	cfg := config.LoadExtraction(log)

	usecases := extraction.New(extraction.UsecasesDeps{
		DB:        theDB,
		Log:       log,
		Parser:    parser,
		Graph:     graphClient,
		Bus:       eventBus,
		Cfg:       cfg,
		Sections:  sections,
		Mentions:  mentions,
		Bundles:   bundles,
		Relations: relations,
	})

	// Temporal (optional): worker + workflow-backed extraction trigger.
	tc, err := temporalx.NewClient(log)
	if err != nil {
		log.Fatal("Temporal init failed", "error", err)
	}
	if tc != nil {
		defer tc.Close()
		runner, rerr := temporalworker.NewRunner(log, tc, usecases)
		if rerr != nil {
			log.Fatal("Temporal worker init failed", "error", rerr)
		}
		if serr := runner.Start(ctx); serr != nil {
			log.Fatal("Temporal worker start failed", "error", serr)
		}
	}

	server := httpx.NewServer(httpx.RouterConfig{
		Log:               log,
		HealthHandler:     httpH.NewHealthHandler(),
		ExtractionHandler: httpH.NewExtractionHandler(log, usecases, tc),
		AuditHandler:      httpH.NewAuditHandler(log, bundles),
		RelationHandler:   httpH.NewRelationHandler(log, relations),
	})

	addr := ":" + envutil.Str("PORT", "8080")
	log.Info("starting HTTP server", "addr", addr)
	if err := server.Run(addr); err != nil {
		log.Fatal("HTTP server failed", "error", err)
	}
}
